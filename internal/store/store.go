package store

import (
	"context"

	"github.com/kestrelhq/model-registry/internal/store/model"
)

// Repository is the contract for the persistence layer.
type Repository interface {
	Requests() RequestRepository

	// WithTx runs fn against a transactional view of the repository.
	WithTx(ctx context.Context, fn func(repo Repository) error) error

	Close() error
}

// RequestRepository persists completed inference calls and serves the usage
// aggregates derived from them.
type RequestRepository interface {
	// Log stores one completed call.
	Log(ctx context.Context, log *model.RequestLog) error
	// GetByID returns a single log entry.
	GetByID(ctx context.Context, id string) (*model.RequestLog, error)
	// GetRecent returns the last N logs, newest first.
	GetRecent(ctx context.Context, limit int) ([]model.RequestLog, error)
	// GetDailyStats aggregates the trailing N days grouped by day.
	GetDailyStats(ctx context.Context, days int) ([]model.DailyStats, error)
}
