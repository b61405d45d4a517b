// Package teatest drives bubbletea models in tests without a tea.Program.
//
// Messages go straight to Update and every returned Cmd is run inline, so a
// test observes the model only after all follow-up work has settled.
package teatest

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

// maxDepth bounds how many chained Cmds one Send may run.
const maxDepth = 50

// Driver owns a model under test.
type Driver struct {
	t     *testing.T
	model tea.Model

	// Quitting is set once a Cmd yields tea.QuitMsg.
	Quitting bool
	// Sent counts messages delivered to Update, including drained ones.
	Sent int
}

// Start wraps m and runs its Init command.
func Start(t *testing.T, m tea.Model) *Driver {
	t.Helper()
	d := &Driver{t: t, model: m}
	d.drain(m.Init(), 0)
	return d
}

// Model returns the latest model value returned by Update.
func (d *Driver) Model() tea.Model {
	return d.model
}

// Send delivers msg and drains the resulting Cmds. It does nothing after quit.
func (d *Driver) Send(msg tea.Msg) {
	d.t.Helper()
	if d.Quitting {
		return
	}
	d.drain(d.update(msg), 0)
}

// Press sends a key by its bubbletea name: "enter", "up", "down", "esc",
// "space", "ctrl+c", or a single character.
func (d *Driver) Press(keys ...string) {
	d.t.Helper()
	for _, k := range keys {
		d.Send(keyMsg(k))
	}
}

// View renders the current model.
func (d *Driver) View() string {
	return d.model.View()
}

func (d *Driver) update(msg tea.Msg) tea.Cmd {
	d.Sent++
	next, cmd := d.model.Update(msg)
	d.model = next
	return cmd
}

func (d *Driver) drain(cmd tea.Cmd, depth int) {
	d.t.Helper()
	if cmd == nil {
		return
	}
	if depth >= maxDepth {
		d.t.Fatalf("teatest: more than %d chained commands", maxDepth)
	}

	switch msg := cmd().(type) {
	case nil:
	case tea.QuitMsg:
		d.Quitting = true
	case tea.BatchMsg:
		for _, sub := range msg {
			d.drain(sub, depth+1)
		}
	default:
		d.drain(d.update(msg), depth+1)
	}
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "space", " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}
