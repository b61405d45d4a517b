package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alexanderramin/habitus/internal/db"
	"github.com/alexanderramin/habitus/internal/domain"
)

// SQLiteSnapshotRepo implements SnapshotRepo. Snapshots are append-only.
type SQLiteSnapshotRepo struct {
	db db.DBTX
}

func NewSQLiteSnapshotRepo(conn db.DBTX) *SQLiteSnapshotRepo {
	return &SQLiteSnapshotRepo{db: conn}
}

const snapshotColumns = `id, activity_id,
	kind, schedule, slots, target, aggregation, parent_id,
	effective_from, effective_until, created_at`

func (r *SQLiteSnapshotRepo) Create(ctx context.Context, s *domain.ConfigSnapshot) error {
	query := `INSERT INTO config_snapshots (` + snapshotColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	args := []any{s.ID, s.ActivityID}
	args = append(args, configArgs(s.Config)...)
	args = append(args,
		s.EffectiveFrom.Format(dateLayout),
		s.EffectiveUntil.Format(dateLayout),
		s.CreatedAt.Format(timeLayout),
	)
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("snapshot starting %s: %w", domain.FormatDate(s.EffectiveFrom), ErrDuplicate)
		}
		return fmt.Errorf("inserting config snapshot: %w", err)
	}
	return nil
}

func (r *SQLiteSnapshotRepo) ListByActivity(ctx context.Context, activityID string) ([]*domain.ConfigSnapshot, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+snapshotColumns+` FROM config_snapshots WHERE activity_id = ? ORDER BY effective_from`, activityID)
	if err != nil {
		return nil, fmt.Errorf("listing snapshots by activity: %w", err)
	}
	defer rows.Close()
	return scanSnapshots(rows)
}

func (r *SQLiteSnapshotRepo) ListAll(ctx context.Context) ([]*domain.ConfigSnapshot, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+snapshotColumns+` FROM config_snapshots ORDER BY activity_id, effective_from`)
	if err != nil {
		return nil, fmt.Errorf("listing snapshots: %w", err)
	}
	defer rows.Close()
	return scanSnapshots(rows)
}

func scanSnapshots(rows *sql.Rows) ([]*domain.ConfigSnapshot, error) {
	var out []*domain.ConfigSnapshot
	for rows.Next() {
		var s domain.ConfigSnapshot
		var cfg configRow
		var from, until, createdAt string

		dest := []any{&s.ID, &s.ActivityID}
		dest = append(dest, cfg.dest()...)
		dest = append(dest, &from, &until, &createdAt)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scanning snapshot row: %w", err)
		}

		var err error
		if s.Config, err = cfg.decode(); err != nil {
			return nil, fmt.Errorf("snapshot %s: %w", s.ID, err)
		}
		if s.EffectiveFrom, err = parseTime(from, dateLayout, "effective_from"); err != nil {
			return nil, err
		}
		if s.EffectiveUntil, err = parseTime(until, dateLayout, "effective_until"); err != nil {
			return nil, err
		}
		if s.CreatedAt, err = parseTime(createdAt, timeLayout, "created_at"); err != nil {
			return nil, err
		}
		out = append(out, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating snapshots: %w", err)
	}
	return out, nil
}
