package importer

import (
	"fmt"

	"github.com/alexanderramin/habitus/internal/domain"
)

var (
	validLogStatuses = map[string]bool{"completed": true, "skipped": true}
	validLogSources  = map[string]bool{"manual": true, "import": true, "sync": true}
)

// ValidateDocument checks the document for errors before conversion.
// Returns a slice of all validation errors found.
func ValidateDocument(doc *Document) []error {
	var errs []error

	if doc.Version != 0 && doc.Version > DocumentVersion {
		errs = append(errs, fmt.Errorf("version %d is newer than supported version %d", doc.Version, DocumentVersion))
	}

	refs := make(map[string]*ActivityDoc, len(doc.Activities))
	names := make(map[string]bool, len(doc.Activities))
	for i := range doc.Activities {
		a := &doc.Activities[i]
		prefix := fmt.Sprintf("activities[%d]", i)

		if a.Ref == "" {
			errs = append(errs, fmt.Errorf("%s.ref is required", prefix))
		} else if refs[a.Ref] != nil {
			errs = append(errs, fmt.Errorf("%s.ref: duplicate ref %q", prefix, a.Ref))
		} else {
			refs[a.Ref] = a
		}

		if domain.NormalizeName(a.Name) == "" {
			errs = append(errs, fmt.Errorf("%s.name is required", prefix))
		} else if key := domain.NameKey(a.Name); names[key] {
			errs = append(errs, fmt.Errorf("%s.name: duplicate name %q", prefix, a.Name))
		} else {
			names[key] = true
		}
	}

	for i := range doc.Activities {
		errs = append(errs, validateActivity(fmt.Sprintf("activities[%d]", i), &doc.Activities[i], refs)...)
	}
	errs = append(errs, detectParentCycles(doc.Activities)...)
	errs = append(errs, validateVacations(doc.Vacations)...)

	return errs
}

func validateActivity(prefix string, a *ActivityDoc, refs map[string]*ActivityDoc) []error {
	var errs []error

	errs = append(errs, validateConfig(prefix, a.ConfigDoc, refs)...)
	if a.ParentRef != "" {
		if parent := refs[a.ParentRef]; parent != nil && parent.Kind != string(domain.KindContainer) {
			errs = append(errs, fmt.Errorf("%s.parent_ref: %q is not a container", prefix, a.ParentRef))
		}
		if a.ParentRef == a.Ref {
			errs = append(errs, fmt.Errorf("%s.parent_ref: an activity cannot be its own parent", prefix))
		}
	}

	errs = append(errs, validateRequiredDate(prefix+".created_date", a.CreatedDate)...)
	errs = append(errs, validateOptionalDate(prefix+".stopped_at", a.StoppedAt)...)

	for j, s := range a.Snapshots {
		sp := fmt.Sprintf("%s.snapshots[%d]", prefix, j)
		errs = append(errs, validateConfig(sp, s.ConfigDoc, refs)...)
		errs = append(errs, validateRequiredDate(sp+".effective_from", s.EffectiveFrom)...)
		errs = append(errs, validateRequiredDate(sp+".effective_until", s.EffectiveUntil)...)
	}

	keys := make(map[string]bool, len(a.Logs))
	for j, l := range a.Logs {
		lp := fmt.Sprintf("%s.logs[%d]", prefix, j)
		errs = append(errs, validateRequiredDate(lp+".date", l.Date)...)
		if !validLogStatuses[l.Status] {
			errs = append(errs, fmt.Errorf("%s.status: invalid value %q", lp, l.Status))
		}
		if l.Source != "" && !validLogSources[l.Source] {
			errs = append(errs, fmt.Errorf("%s.source: invalid value %q", lp, l.Source))
		}
		key := l.Date + "/" + l.Slot
		if keys[key] {
			errs = append(errs, fmt.Errorf("%s: duplicate log for date %s slot %q", lp, l.Date, l.Slot))
		}
		keys[key] = true
	}
	if a.Kind == string(domain.KindContainer) && len(a.Logs) > 0 {
		errs = append(errs, fmt.Errorf("%s.logs: container activities cannot have logs", prefix))
	}

	return errs
}

// validateConfig checks a structural config by decoding it the same way
// Convert does.
func validateConfig(prefix string, c ConfigDoc, refs map[string]*ActivityDoc) []error {
	var errs []error
	if c.Kind == "" {
		errs = append(errs, fmt.Errorf("%s.kind is required", prefix))
	}
	if c.Schedule == "" {
		errs = append(errs, fmt.Errorf("%s.schedule is required", prefix))
	}
	if len(errs) > 0 {
		return errs
	}
	cfg, err := decodeConfig(c, func(ref string) string { return ref })
	if err != nil {
		return []error{fmt.Errorf("%s: %w", prefix, err)}
	}
	if err := cfg.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("%s: %w", prefix, err))
	}
	if c.ParentRef != "" && refs[c.ParentRef] == nil {
		errs = append(errs, fmt.Errorf("%s.parent_ref: ref %q not found", prefix, c.ParentRef))
	}
	return errs
}

func validateVacations(vs []VacationDoc) []error {
	var errs []error
	seen := make(map[string]bool, len(vs))
	for i, v := range vs {
		prefix := fmt.Sprintf("vacations[%d]", i)
		errs = append(errs, validateRequiredDate(prefix+".date", v.Date)...)
		if seen[v.Date] {
			errs = append(errs, fmt.Errorf("%s.date: duplicate date %s", prefix, v.Date))
		}
		seen[v.Date] = true
	}
	return errs
}

// detectParentCycles reports live parent chains that loop back on themselves.
func detectParentCycles(acts []ActivityDoc) []error {
	parent := make(map[string]string, len(acts))
	for _, a := range acts {
		if a.Ref != "" && a.ParentRef != "" && a.ParentRef != a.Ref {
			parent[a.Ref] = a.ParentRef
		}
	}

	const (
		white = 0 // unvisited
		gray  = 1 // on the current chain
		black = 2 // known acyclic
	)
	color := make(map[string]int, len(parent))
	var errs []error

	for _, a := range acts {
		if color[a.Ref] != white {
			continue
		}
		var chain []string
		node := a.Ref
		for node != "" && color[node] == white {
			color[node] = gray
			chain = append(chain, node)
			node = parent[node]
		}
		if node != "" && color[node] == gray {
			errs = append(errs, fmt.Errorf("circular parent chain involving %q", node))
		}
		for _, n := range chain {
			color[n] = black
		}
	}
	return errs
}

func validateRequiredDate(field, s string) []error {
	if s == "" {
		return []error{fmt.Errorf("%s is required", field)}
	}
	return validateOptionalDate(field, s)
}

func validateOptionalDate(field, s string) []error {
	if s == "" {
		return nil
	}
	if _, err := domain.ParseDate(s); err != nil {
		return []error{fmt.Errorf("%s: invalid date format %q (expected YYYY-MM-DD)", field, s)}
	}
	return nil
}
