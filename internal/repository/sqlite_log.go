package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/habitus/internal/db"
	"github.com/alexanderramin/habitus/internal/domain"
)

// SQLiteLogRepo implements LogRepo using a SQLite database.
type SQLiteLogRepo struct {
	db db.DBTX
}

func NewSQLiteLogRepo(conn db.DBTX) *SQLiteLogRepo {
	return &SQLiteLogRepo{db: conn}
}

const logColumns = `id, activity_id, day, slot, status, value, skip_reason, source, created_at`

// Upsert writes l in one statement. A log already stored under the same
// (activity, day, slot) key is replaced, ID included, so at most one log
// ever exists per key whatever the writer.
func (r *SQLiteLogRepo) Upsert(ctx context.Context, l *domain.ActivityLog) error {
	query := `INSERT INTO activity_logs (` + logColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(activity_id, day, slot) DO UPDATE SET
			id          = excluded.id,
			status      = excluded.status,
			value       = excluded.value,
			skip_reason = excluded.skip_reason,
			source      = excluded.source,
			created_at  = excluded.created_at`
	_, err := r.db.ExecContext(ctx, query,
		l.ID,
		l.ActivityID,
		l.Date.Format(dateLayout),
		l.Slot,
		string(l.Status),
		nullableFloat(l.Value),
		l.SkipReason,
		domain.CoalesceStr(string(l.Source), string(domain.SourceManual)),
		l.CreatedAt.Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("upserting activity log: %w", err)
	}
	return nil
}

func (r *SQLiteLogRepo) GetByID(ctx context.Context, id string) (*domain.ActivityLog, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+logColumns+` FROM activity_logs WHERE id = ?`, id)
	return scanLog(row)
}

func (r *SQLiteLogRepo) GetByKey(ctx context.Context, activityID string, date time.Time, slot string) (*domain.ActivityLog, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+logColumns+` FROM activity_logs WHERE activity_id = ? AND day = ? AND slot = ?`,
		activityID, domain.Day(date).Format(dateLayout), slot)
	return scanLog(row)
}

func (r *SQLiteLogRepo) ListByActivity(ctx context.Context, activityID string) ([]*domain.ActivityLog, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+logColumns+` FROM activity_logs WHERE activity_id = ? ORDER BY day, slot`, activityID)
	if err != nil {
		return nil, fmt.Errorf("listing logs by activity: %w", err)
	}
	defer rows.Close()
	return scanLogs(rows)
}

// ListRange returns logs with day in [from, to], both inclusive.
func (r *SQLiteLogRepo) ListRange(ctx context.Context, from, to time.Time) ([]*domain.ActivityLog, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+logColumns+` FROM activity_logs WHERE day >= ? AND day <= ? ORDER BY day, activity_id, slot`,
		domain.Day(from).Format(dateLayout), domain.Day(to).Format(dateLayout))
	if err != nil {
		return nil, fmt.Errorf("listing logs in range: %w", err)
	}
	defer rows.Close()
	return scanLogs(rows)
}

func (r *SQLiteLogRepo) ListAll(ctx context.Context) ([]*domain.ActivityLog, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+logColumns+` FROM activity_logs ORDER BY day, activity_id, slot`)
	if err != nil {
		return nil, fmt.Errorf("listing logs: %w", err)
	}
	defer rows.Close()
	return scanLogs(rows)
}

func (r *SQLiteLogRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM activity_logs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting activity log: %w", err)
	}
	return requireAffected(res, "activity log")
}

func scanLog(row *sql.Row) (*domain.ActivityLog, error) {
	l, err := scanLogInto(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("activity log: %w", ErrNotFound)
	}
	return l, err
}

func scanLogs(rows *sql.Rows) ([]*domain.ActivityLog, error) {
	var out []*domain.ActivityLog
	for rows.Next() {
		l, err := scanLogInto(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating logs: %w", err)
	}
	return out, nil
}

func scanLogInto(s rowScanner) (*domain.ActivityLog, error) {
	var l domain.ActivityLog
	var day, status, source, createdAt string
	var value sql.NullFloat64

	if err := s.Scan(&l.ID, &l.ActivityID, &day, &l.Slot, &status, &value, &l.SkipReason, &source, &createdAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("scanning log row: %w", err)
	}

	var err error
	if l.Date, err = parseTime(day, dateLayout, "day"); err != nil {
		return nil, err
	}
	if l.CreatedAt, err = parseTime(createdAt, timeLayout, "created_at"); err != nil {
		return nil, err
	}
	l.Status = domain.LogStatus(status)
	l.Source = domain.LogSource(source)
	l.Value = floatPtr(value)
	return &l, nil
}
