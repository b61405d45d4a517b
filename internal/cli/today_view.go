package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	habitusapp "github.com/alexanderramin/habitus/internal/app"
	"github.com/alexanderramin/habitus/internal/cli/formatter"
	"github.com/alexanderramin/habitus/internal/domain"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type todayKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Done    key.Binding
	Skip    key.Binding
	Refresh key.Binding
	Quit    key.Binding
}

func defaultTodayKeys() todayKeyMap {
	return todayKeyMap{
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Done:    key.NewBinding(key.WithKeys(" ", "enter"), key.WithHelp("space", "done")),
		Skip:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "skip")),
		Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Quit:    key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k todayKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Done, k.Skip, k.Refresh, k.Quit}
}

// todayRow is one selectable line: an activity, or one session of a
// multi-session activity.
type todayRow struct {
	item  habitusapp.TodayItem
	slot  string
	depth int
}

func (r todayRow) loggable() bool {
	return r.item.Config.Kind != domain.KindContainer && r.item.Config.Kind != domain.KindCumulative
}

func (r todayRow) resolved() bool {
	if r.slot == "" {
		return r.item.Score.FullyCompleted || r.item.Score.FullySkipped
	}
	for _, s := range r.item.Sessions {
		if s.Slot == r.slot {
			return s.Completed || s.Skipped
		}
	}
	return false
}

func flattenToday(items []habitusapp.TodayItem, depth int) []todayRow {
	var rows []todayRow
	for _, it := range items {
		if len(it.Sessions) > 1 {
			rows = append(rows, todayRow{item: it, depth: depth})
			for _, s := range it.Sessions {
				rows = append(rows, todayRow{item: it, slot: s.Slot, depth: depth + 1})
			}
			continue
		}
		rows = append(rows, todayRow{item: it, depth: depth})
		rows = append(rows, flattenToday(it.Children, depth+1)...)
	}
	return rows
}

type todayLoadedMsg struct {
	resp *habitusapp.TodayResponse
	err  error
}

type todayLoggedMsg struct {
	text string
	err  error
}

// todayModel is the interactive checklist behind today --interactive.
type todayModel struct {
	ctx    context.Context
	app    *App
	date   time.Time
	keys   todayKeyMap
	resp   *habitusapp.TodayResponse
	rows   []todayRow
	cursor int
	status string
	err    error
}

func newTodayModel(ctx context.Context, app *App, date time.Time) *todayModel {
	return &todayModel{ctx: ctx, app: app, date: date, keys: defaultTodayKeys()}
}

func (m *todayModel) Init() tea.Cmd {
	return m.load()
}

func (m *todayModel) load() tea.Cmd {
	return func() tea.Msg {
		resp, err := m.app.todayUseCase().Today(m.ctx, habitusapp.TodayRequest{Date: m.date})
		return todayLoadedMsg{resp: resp, err: err}
	}
}

func (m *todayModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case todayLoadedMsg:
		m.err = msg.err
		if msg.err == nil {
			m.resp = msg.resp
			m.rows = flattenToday(msg.resp.Items, 0)
			if m.cursor >= len(m.rows) {
				m.cursor = max(len(m.rows)-1, 0)
			}
		}
		return m, nil

	case todayLoggedMsg:
		if msg.err != nil {
			m.status = formatter.StyleRed.Render(msg.err.Error())
			return m, nil
		}
		m.status = formatter.StyleGreen.Render(msg.text)
		return m, m.load()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.rows)-1 {
				m.cursor++
			}
		case key.Matches(msg, m.keys.Refresh):
			return m, m.load()
		case key.Matches(msg, m.keys.Done):
			return m, m.logSelected(false)
		case key.Matches(msg, m.keys.Skip):
			return m, m.logSelected(true)
		}
	}
	return m, nil
}

// logSelected logs the row under the cursor. A multi-session header row
// targets its first unresolved session.
func (m *todayModel) logSelected(skip bool) tea.Cmd {
	if m.cursor >= len(m.rows) {
		return nil
	}
	row := m.rows[m.cursor]
	if !row.loggable() {
		m.status = formatter.Dim("Use habitus log done --value for this one.")
		return nil
	}
	slot := row.slot
	if slot == "" && len(row.item.Sessions) > 1 {
		for _, s := range row.item.Sessions {
			if !s.Completed && !s.Skipped {
				slot = s.Slot
				break
			}
		}
		if slot == "" {
			return nil
		}
	}

	a := row.item.Activity
	date := m.date
	return func() tea.Msg {
		if skip {
			_, err := m.app.logSkipUseCase().LogSkip(m.ctx, habitusapp.LogSkipRequest{ActivityID: a.ID, Date: date, Slot: slot})
			return todayLoggedMsg{text: "Skipped " + a.Name, err: err}
		}
		_, err := m.app.logCompletionUseCase().LogCompletion(m.ctx, habitusapp.LogCompletionRequest{ActivityID: a.ID, Date: date, Slot: slot})
		return todayLoggedMsg{text: "Done: " + a.Name, err: err}
	}
}

func (m *todayModel) View() string {
	var b strings.Builder
	b.WriteString(formatter.Header("Today · "+formatter.HumanDate(m.date)) + "\n\n")

	switch {
	case m.err != nil:
		b.WriteString(formatter.StyleRed.Render("Error: "+m.err.Error()) + "\n")
	case m.resp == nil:
		b.WriteString(formatter.Dim("Loading...") + "\n")
	case len(m.rows) == 0:
		b.WriteString(formatter.Dim("Nothing due today.") + "\n")
	default:
		b.WriteString(formatter.RenderProgress(m.resp.Status.Rate, 24) + "\n\n")
		cursorStyle := lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
		for i, row := range m.rows {
			pointer := "  "
			if i == m.cursor {
				pointer = cursorStyle.Render("▸ ")
			}
			b.WriteString(pointer + strings.Repeat("  ", row.depth) + m.rowLabel(row) + "\n")
		}
	}

	if m.status != "" {
		b.WriteString("\n" + m.status + "\n")
	}
	b.WriteString("\n" + m.helpLine())
	return b.String()
}

func (m *todayModel) rowLabel(row todayRow) string {
	if row.slot != "" {
		for _, s := range row.item.Sessions {
			if s.Slot == row.slot {
				return formatter.Mark(s.Completed, s.Skipped) + " " + s.Slot
			}
		}
	}
	line := formatter.Mark(row.item.Score.FullyCompleted, row.item.Score.FullySkipped) + " " + row.item.Activity.Name
	if row.item.CarriedFrom != nil {
		line += "  " + formatter.StyleRed.Render("↻ "+formatter.RelativeDay(*row.item.CarriedFrom, m.date))
	}
	if row.item.Config.Kind == domain.KindCumulative && row.item.Config.Target != nil {
		line += "  " + formatter.Dim(fmt.Sprintf("%s/%s", formatter.FormatValue(row.item.Total), formatter.FormatValue(*row.item.Config.Target)))
	}
	return line
}

func (m *todayModel) helpLine() string {
	parts := make([]string, 0, len(m.keys.ShortHelp()))
	for _, k := range m.keys.ShortHelp() {
		h := k.Help()
		parts = append(parts, formatter.Bold(h.Key)+" "+formatter.Dim(h.Desc))
	}
	return strings.Join(parts, formatter.Dim(" · "))
}
