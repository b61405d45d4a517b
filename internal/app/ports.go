package app

import (
	"context"
	"time"

	"github.com/alexanderramin/habitus/internal/domain"
	"github.com/alexanderramin/habitus/internal/importer"
)

type TodayUseCase interface {
	Today(ctx context.Context, req TodayRequest) (*TodayResponse, error)
}

type StatsUseCase interface {
	Stats(ctx context.Context, req StatsRequest) (*StatsResponse, error)
}

type LogCompletionUseCase interface {
	LogCompletion(ctx context.Context, req LogCompletionRequest) (*domain.ActivityLog, error)
}

type LogSkipUseCase interface {
	LogSkip(ctx context.Context, req LogSkipRequest) (*domain.ActivityLog, error)
}

type EditStructuralUseCase interface {
	EditStructuralConfig(ctx context.Context, req EditStructuralRequest) (*EditResult, error)
}

type ImportUseCase interface {
	Import(ctx context.Context, doc *importer.Document) (*ImportResult, error)
}

type DigestUseCase interface {
	Build(ctx context.Context, date time.Time) (*Digest, error)
}
