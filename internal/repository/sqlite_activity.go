package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alexanderramin/habitus/internal/db"
	"github.com/alexanderramin/habitus/internal/domain"
)

// SQLiteActivityRepo implements ActivityRepo using a SQLite database.
type SQLiteActivityRepo struct {
	db db.DBTX
}

func NewSQLiteActivityRepo(conn db.DBTX) *SQLiteActivityRepo {
	return &SQLiteActivityRepo{db: conn}
}

const activityColumns = `id, name, description, color,
	kind, schedule, slots, target, aggregation, parent_id,
	created_date, stopped_at, created_at, updated_at`

func (r *SQLiteActivityRepo) Create(ctx context.Context, a *domain.Activity) error {
	query := `INSERT INTO activities (id, name, name_key, description, color,
		kind, schedule, slots, target, aggregation, parent_id,
		created_date, stopped_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	args := []any{a.ID, a.Name, domain.NameKey(a.Name), a.Description, a.Color}
	args = append(args, configArgs(a.Config)...)
	args = append(args,
		a.CreatedDate.Format(dateLayout),
		nullableTimeToString(a.StoppedAt, dateLayout),
		a.CreatedAt.Format(timeLayout),
		a.UpdatedAt.Format(timeLayout),
	)
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("activity %q: %w", a.Name, ErrDuplicate)
		}
		return fmt.Errorf("inserting activity: %w", err)
	}
	return nil
}

func (r *SQLiteActivityRepo) GetByID(ctx context.Context, id string) (*domain.Activity, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+activityColumns+` FROM activities WHERE id = ?`, id)
	return r.scanActivity(row)
}

// GetByName looks an activity up by its case-folded name.
func (r *SQLiteActivityRepo) GetByName(ctx context.Context, name string) (*domain.Activity, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+activityColumns+` FROM activities WHERE name_key = ?`, domain.NameKey(name))
	return r.scanActivity(row)
}

func (r *SQLiteActivityRepo) List(ctx context.Context) ([]*domain.Activity, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+activityColumns+` FROM activities ORDER BY name_key, id`)
	if err != nil {
		return nil, fmt.Errorf("listing activities: %w", err)
	}
	defer rows.Close()
	return r.scanActivities(rows)
}

// ListChildren returns the activities whose live config names parentID.
func (r *SQLiteActivityRepo) ListChildren(ctx context.Context, parentID string) ([]*domain.Activity, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+activityColumns+` FROM activities WHERE parent_id = ? ORDER BY name_key, id`, parentID)
	if err != nil {
		return nil, fmt.Errorf("listing child activities: %w", err)
	}
	defer rows.Close()
	return r.scanActivities(rows)
}

func (r *SQLiteActivityRepo) Update(ctx context.Context, a *domain.Activity) error {
	query := `UPDATE activities SET name = ?, name_key = ?, description = ?, color = ?,
		kind = ?, schedule = ?, slots = ?, target = ?, aggregation = ?, parent_id = ?,
		created_date = ?, stopped_at = ?, updated_at = ?
		WHERE id = ?`
	args := []any{a.Name, domain.NameKey(a.Name), a.Description, a.Color}
	args = append(args, configArgs(a.Config)...)
	args = append(args,
		a.CreatedDate.Format(dateLayout),
		nullableTimeToString(a.StoppedAt, dateLayout),
		a.UpdatedAt.Format(timeLayout),
		a.ID,
	)
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("activity %q: %w", a.Name, ErrDuplicate)
		}
		return fmt.Errorf("updating activity: %w", err)
	}
	return requireAffected(res, "activity")
}

// Delete removes the activity. Its logs and snapshots cascade and live
// children are detached by the schema.
func (r *SQLiteActivityRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM activities WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting activity: %w", err)
	}
	return requireAffected(res, "activity")
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *SQLiteActivityRepo) scanActivity(row *sql.Row) (*domain.Activity, error) {
	a, err := r.scanInto(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("activity: %w", ErrNotFound)
	}
	return a, err
}

func (r *SQLiteActivityRepo) scanActivities(rows *sql.Rows) ([]*domain.Activity, error) {
	var out []*domain.Activity
	for rows.Next() {
		a, err := r.scanInto(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating activities: %w", err)
	}
	return out, nil
}

func (r *SQLiteActivityRepo) scanInto(s rowScanner) (*domain.Activity, error) {
	var a domain.Activity
	var cfg configRow
	var createdDate, createdAt, updatedAt string
	var stoppedAt sql.NullString

	dest := []any{&a.ID, &a.Name, &a.Description, &a.Color}
	dest = append(dest, cfg.dest()...)
	dest = append(dest, &createdDate, &stoppedAt, &createdAt, &updatedAt)
	if err := s.Scan(dest...); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("scanning activity: %w", err)
	}

	var err error
	if a.Config, err = cfg.decode(); err != nil {
		return nil, fmt.Errorf("activity %s: %w", a.ID, err)
	}
	if a.CreatedDate, err = parseTime(createdDate, dateLayout, "created_date"); err != nil {
		return nil, err
	}
	a.StoppedAt = parseNullableTime(stoppedAt, dateLayout)
	if a.CreatedAt, err = parseTime(createdAt, timeLayout, "created_at"); err != nil {
		return nil, err
	}
	if a.UpdatedAt, err = parseTime(updatedAt, timeLayout, "updated_at"); err != nil {
		return nil, err
	}
	return &a, nil
}

func requireAffected(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return nil
}
