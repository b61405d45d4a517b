package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/habitus/internal/domain"
)

// ErrNotFound is wrapped by every lookup that matches no row.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when a unique key (such as an activity name) is taken.
var ErrDuplicate = errors.New("already exists")

const (
	dateLayout = domain.DateFormat
	timeLayout = time.RFC3339Nano
)

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// parseNullableTime parses a nullable column. NULL, empty or malformed values yield nil.
func parseNullableTime(s sql.NullString, layout string) *time.Time {
	if !s.Valid || s.String == "" {
		return nil
	}
	t, err := time.Parse(layout, s.String)
	if err != nil {
		return nil
	}
	return &t
}

// nullableTimeToString converts t for storage, nil becoming SQL NULL.
func nullableTimeToString(t *time.Time, layout string) any {
	if t == nil {
		return nil
	}
	return t.Format(layout)
}

func nullableFloat(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func nullableString(s *string) any {
	if s == nil || *s == "" {
		return nil
	}
	return *s
}

func stringPtr(s sql.NullString) *string {
	if !s.Valid || s.String == "" {
		return nil
	}
	v := s.String
	return &v
}

func parseTime(s, layout, what string) (time.Time, error) {
	t, err := time.Parse(layout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing %s: %w", what, err)
	}
	return t, nil
}

// configRow holds the structural config columns shared by activities and
// config_snapshots.
type configRow struct {
	kind        string
	schedule    string
	slots       string
	target      sql.NullFloat64
	aggregation string
	parentID    sql.NullString
}

func (c *configRow) dest() []any {
	return []any{&c.kind, &c.schedule, &c.slots, &c.target, &c.aggregation, &c.parentID}
}

func (c *configRow) decode() (domain.StructuralConfig, error) {
	sched, err := domain.ParseSchedule(c.schedule)
	if err != nil {
		return domain.StructuralConfig{}, fmt.Errorf("decoding schedule: %w", err)
	}
	var slots []string
	if c.slots != "" {
		slots = strings.Split(c.slots, ",")
	}
	return domain.StructuralConfig{
		Schedule:    sched,
		Kind:        domain.ActivityKind(c.kind),
		Slots:       slots,
		Target:      floatPtr(c.target),
		Aggregation: domain.Aggregation(c.aggregation),
		ParentID:    stringPtr(c.parentID),
	}, nil
}

// configArgs returns the column values for cfg in configRow order.
func configArgs(cfg domain.StructuralConfig) []any {
	return []any{
		string(cfg.Kind),
		cfg.Schedule.String(),
		strings.Join(cfg.Slots, ","),
		nullableFloat(cfg.Target),
		domain.CoalesceStr(string(cfg.Aggregation), string(domain.AggregateSum)),
		nullableString(cfg.ParentID),
	}
}
