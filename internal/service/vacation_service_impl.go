package service

import (
	"context"
	"strings"
	"time"

	"github.com/alexanderramin/habitus/internal/db"
	"github.com/alexanderramin/habitus/internal/domain"
	"github.com/alexanderramin/habitus/internal/repository"
)

// maxVacationSpan bounds a single Add call.
const maxVacationSpan = 366

type vacationService struct {
	vacations repository.VacationRepo
	uow       db.UnitOfWork
}

func NewVacationService(vacations repository.VacationRepo, uow db.UnitOfWork) VacationService {
	return &vacationService{vacations: vacations, uow: uow}
}

func (s *vacationService) Add(ctx context.Context, from, to time.Time, note string) (int, error) {
	if to.IsZero() {
		to = from
	}
	days := domain.DateRange(from, to)
	if len(days) == 0 {
		return 0, domain.NewValidationError("to", "end date %s is before start date %s", domain.FormatDate(to), domain.FormatDate(from))
	}
	if len(days) > maxVacationSpan {
		return 0, domain.NewValidationError("to", "vacation spans %d days; the limit is %d", len(days), maxVacationSpan)
	}

	note = strings.TrimSpace(note)
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txVacations := repository.NewSQLiteVacationRepo(tx)
		for _, d := range days {
			if err := txVacations.Add(ctx, domain.VacationDay{Date: d, Note: note}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(days), nil
}

func (s *vacationService) Remove(ctx context.Context, date time.Time) error {
	return s.vacations.Remove(ctx, date)
}

func (s *vacationService) List(ctx context.Context) ([]domain.VacationDay, error) {
	return s.vacations.List(ctx)
}
