package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/habitus/internal/db"
	"github.com/alexanderramin/habitus/internal/domain"
)

// SQLiteVacationRepo implements VacationRepo using a SQLite database.
type SQLiteVacationRepo struct {
	db db.DBTX
}

func NewSQLiteVacationRepo(conn db.DBTX) *SQLiteVacationRepo {
	return &SQLiteVacationRepo{db: conn}
}

// Add marks a day as vacation. Adding an existing day updates its note.
func (r *SQLiteVacationRepo) Add(ctx context.Context, v domain.VacationDay) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO vacation_days (day, note, created_at) VALUES (?, ?, ?)
		ON CONFLICT(day) DO UPDATE SET note = excluded.note`,
		domain.Day(v.Date).Format(dateLayout), v.Note, time.Now().UTC().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("adding vacation day: %w", err)
	}
	return nil
}

func (r *SQLiteVacationRepo) Remove(ctx context.Context, date time.Time) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM vacation_days WHERE day = ?`, domain.Day(date).Format(dateLayout))
	if err != nil {
		return fmt.Errorf("removing vacation day: %w", err)
	}
	return requireAffected(res, "vacation day")
}

func (r *SQLiteVacationRepo) List(ctx context.Context) ([]domain.VacationDay, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT day, note FROM vacation_days ORDER BY day`)
	if err != nil {
		return nil, fmt.Errorf("listing vacation days: %w", err)
	}
	defer rows.Close()

	var out []domain.VacationDay
	for rows.Next() {
		var day string
		var v domain.VacationDay
		if err := rows.Scan(&day, &v.Note); err != nil {
			return nil, fmt.Errorf("scanning vacation day: %w", err)
		}
		if v.Date, err = parseTime(day, dateLayout, "day"); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating vacation days: %w", err)
	}
	return out, nil
}
