package importer

import (
	"fmt"
	"sort"
	"time"

	"github.com/alexanderramin/habitus/internal/domain"
	"github.com/alexanderramin/habitus/internal/scheduler"
	"github.com/google/uuid"
)

// Bundle is the full set of domain records an exchange document maps to.
type Bundle struct {
	Activities []*domain.Activity
	Snapshots  []*domain.ConfigSnapshot
	Logs       []*domain.ActivityLog
	Vacations  []domain.VacationDay
}

// Convert transforms a validated Document into domain records ready for
// persistence. Every record gets a fresh ID; refs only link records within
// the document. Activities are ordered parents first. Logs without a source
// are tagged as imported.
// Call ValidateDocument first; Convert assumes the document is valid.
func Convert(doc *Document, now time.Time) (*Bundle, error) {
	refMap := make(map[string]string, len(doc.Activities)) // ref -> UUID
	for _, a := range doc.Activities {
		refMap[a.Ref] = uuid.New().String()
	}
	resolve := func(ref string) string { return refMap[ref] }

	b := &Bundle{}
	for _, ad := range doc.Activities {
		cfg, err := decodeConfig(ad.ConfigDoc, resolve)
		if err != nil {
			return nil, fmt.Errorf("activity %q: %w", ad.Ref, err)
		}
		created, err := domain.ParseDate(ad.CreatedDate)
		if err != nil {
			return nil, fmt.Errorf("activity %q: %w", ad.Ref, err)
		}

		a := &domain.Activity{
			ID:          refMap[ad.Ref],
			Name:        domain.NormalizeName(ad.Name),
			Description: ad.Description,
			Color:       ad.Color,
			Config:      cfg,
			CreatedDate: created,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if ad.StoppedAt != "" {
			stopped, err := domain.ParseDate(ad.StoppedAt)
			if err != nil {
				return nil, fmt.Errorf("activity %q: %w", ad.Ref, err)
			}
			a.StoppedAt = &stopped
		}
		if err := a.Validate(); err != nil {
			return nil, fmt.Errorf("activity %q: %w", ad.Ref, err)
		}
		b.Activities = append(b.Activities, a)

		snaps, err := convertSnapshots(a, ad.Snapshots, resolve, now)
		if err != nil {
			return nil, fmt.Errorf("activity %q: %w", ad.Ref, err)
		}
		b.Snapshots = append(b.Snapshots, snaps...)

		for _, ld := range ad.Logs {
			l, err := convertLog(a.ID, ld, now)
			if err != nil {
				return nil, fmt.Errorf("activity %q: %w", ad.Ref, err)
			}
			b.Logs = append(b.Logs, l)
		}
	}

	for _, vd := range doc.Vacations {
		d, err := domain.ParseDate(vd.Date)
		if err != nil {
			return nil, fmt.Errorf("vacation: %w", err)
		}
		b.Vacations = append(b.Vacations, domain.VacationDay{Date: d, Note: vd.Note})
	}

	b.Activities = parentsFirst(b.Activities)
	return b, nil
}

func convertSnapshots(a *domain.Activity, docs []SnapshotDoc, resolve func(string) string, now time.Time) ([]*domain.ConfigSnapshot, error) {
	out := make([]*domain.ConfigSnapshot, 0, len(docs))
	for _, sd := range docs {
		cfg, err := decodeConfig(sd.ConfigDoc, resolve)
		if err != nil {
			return nil, fmt.Errorf("snapshot: %w", err)
		}
		from, err := domain.ParseDate(sd.EffectiveFrom)
		if err != nil {
			return nil, fmt.Errorf("snapshot: %w", err)
		}
		until, err := domain.ParseDate(sd.EffectiveUntil)
		if err != nil {
			return nil, fmt.Errorf("snapshot: %w", err)
		}
		out = append(out, &domain.ConfigSnapshot{
			ID:             uuid.New().String(),
			ActivityID:     a.ID,
			Config:         cfg,
			EffectiveFrom:  from,
			EffectiveUntil: until,
			CreatedAt:      now,
		})
	}
	if err := scheduler.ValidateSnapshots(a, out); err != nil {
		return nil, err
	}
	return out, nil
}

func convertLog(activityID string, ld LogDoc, now time.Time) (*domain.ActivityLog, error) {
	d, err := domain.ParseDate(ld.Date)
	if err != nil {
		return nil, fmt.Errorf("log: %w", err)
	}
	return &domain.ActivityLog{
		ID:         uuid.New().String(),
		ActivityID: activityID,
		Date:       d,
		Slot:       ld.Slot,
		Status:     domain.LogStatus(ld.Status),
		Value:      ld.Value,
		SkipReason: ld.SkipReason,
		Source:     domain.LogSource(domain.CoalesceStr(ld.Source, string(domain.SourceImport))),
		CreatedAt:  now,
	}, nil
}

// decodeConfig builds a StructuralConfig, mapping ParentRef through resolve.
func decodeConfig(c ConfigDoc, resolve func(string) string) (domain.StructuralConfig, error) {
	sched, err := domain.ParseSchedule(c.Schedule)
	if err != nil {
		return domain.StructuralConfig{}, err
	}
	cfg := domain.StructuralConfig{
		Schedule:    sched,
		Kind:        domain.ActivityKind(c.Kind),
		Slots:       domain.NormalizeSlots(c.Slots),
		Aggregation: domain.Aggregation(domain.CoalesceStr(c.Aggregation, string(domain.AggregateSum))),
	}
	if c.Target != nil {
		t := *c.Target
		cfg.Target = &t
	}
	if c.ParentRef != "" {
		if id := resolve(c.ParentRef); id != "" {
			cfg.ParentID = &id
		}
	}
	return cfg, nil
}

// parentsFirst orders activities so that every live parent precedes its
// children. Activities whose parent is outside the set keep their position
// among the roots.
func parentsFirst(acts []*domain.Activity) []*domain.Activity {
	byID := make(map[string]*domain.Activity, len(acts))
	for _, a := range acts {
		byID[a.ID] = a
	}
	placed := make(map[string]bool, len(acts))
	out := make([]*domain.Activity, 0, len(acts))

	var place func(a *domain.Activity)
	place = func(a *domain.Activity) {
		if placed[a.ID] {
			return
		}
		placed[a.ID] = true
		if p, ok := byID[a.Config.Parent()]; ok {
			place(p)
		}
		out = append(out, a)
	}
	for _, a := range acts {
		place(a)
	}
	return out
}

// Build is the inverse of Convert: it renders stored records as a Document.
// Activity IDs become refs. Parent links to activities outside the bundle
// are dropped, since the engine already treats such children as top-level.
func Build(b *Bundle, exportedAt time.Time) *Document {
	known := make(map[string]bool, len(b.Activities))
	for _, a := range b.Activities {
		known[a.ID] = true
	}
	refOf := func(id string) string {
		if known[id] {
			return id
		}
		return ""
	}

	snaps := make(map[string][]*domain.ConfigSnapshot)
	for _, s := range b.Snapshots {
		snaps[s.ActivityID] = append(snaps[s.ActivityID], s)
	}
	logs := make(map[string][]*domain.ActivityLog)
	for _, l := range b.Logs {
		logs[l.ActivityID] = append(logs[l.ActivityID], l)
	}

	doc := &Document{
		Version:    DocumentVersion,
		ExportedAt: exportedAt.UTC().Format(time.RFC3339),
		Activities: make([]ActivityDoc, 0, len(b.Activities)),
	}
	for _, a := range b.Activities {
		ad := ActivityDoc{
			Ref:         a.ID,
			Name:        a.Name,
			Description: a.Description,
			Color:       a.Color,
			ConfigDoc:   encodeConfig(a.Config, refOf),
			CreatedDate: domain.FormatDate(a.CreatedDate),
		}
		if a.StoppedAt != nil {
			ad.StoppedAt = domain.FormatDate(*a.StoppedAt)
		}

		as := snaps[a.ID]
		sort.Slice(as, func(i, j int) bool { return as[i].EffectiveFrom.Before(as[j].EffectiveFrom) })
		for _, s := range as {
			ad.Snapshots = append(ad.Snapshots, SnapshotDoc{
				ConfigDoc:      encodeConfig(s.Config, refOf),
				EffectiveFrom:  domain.FormatDate(s.EffectiveFrom),
				EffectiveUntil: domain.FormatDate(s.EffectiveUntil),
			})
		}

		al := logs[a.ID]
		sort.Slice(al, func(i, j int) bool {
			if !al[i].Date.Equal(al[j].Date) {
				return al[i].Date.Before(al[j].Date)
			}
			return al[i].Slot < al[j].Slot
		})
		for _, l := range al {
			ad.Logs = append(ad.Logs, LogDoc{
				Date:       domain.FormatDate(l.Date),
				Slot:       l.Slot,
				Status:     string(l.Status),
				Value:      l.Value,
				SkipReason: l.SkipReason,
				Source:     string(l.Source),
			})
		}
		doc.Activities = append(doc.Activities, ad)
	}

	for _, v := range b.Vacations {
		doc.Vacations = append(doc.Vacations, VacationDoc{Date: domain.FormatDate(v.Date), Note: v.Note})
	}
	return doc
}

func encodeConfig(cfg domain.StructuralConfig, refOf func(string) string) ConfigDoc {
	c := ConfigDoc{
		Kind:        string(cfg.Kind),
		Schedule:    cfg.Schedule.String(),
		Aggregation: string(cfg.Aggregation),
		ParentRef:   refOf(cfg.Parent()),
	}
	if len(cfg.Slots) > 0 {
		c.Slots = append([]string(nil), cfg.Slots...)
	}
	if cfg.Target != nil {
		t := *cfg.Target
		c.Target = &t
	}
	return c
}
