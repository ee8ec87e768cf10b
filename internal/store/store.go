// Package store persists analysis run history so past crossing checks can be
// listed and re-inspected.
package store

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/balticwatch/cablewatch/internal/analysis"
)

// Run is one saved analysis run.
type Run struct {
	ID        string          `json:"id"`
	Scenario  string          `json:"scenario"`
	CableFile string          `json:"cable_file"`
	Result    analysis.Result `json:"result"`
	CreatedAt time.Time       `json:"created_at"`
}

// Filter limits ListRuns output. Zero Limit means a default page of 20.
type Filter struct {
	Scenario string
	Limit    int
	Offset   int
}

func (f Filter) limit() int {
	if f.Limit <= 0 {
		return 20
	}
	return f.Limit
}

// Store is the persistence interface for run history.
type Store interface {
	CreateRun(ctx context.Context, scenario, cableFile string, result analysis.Result) (*Run, error)
	GetRun(ctx context.Context, runID string) (*Run, error)
	ListRuns(ctx context.Context, filter Filter) ([]Run, error)

	Migrate(ctx context.Context) error
	Close() error
}

// Open creates a store for the configured driver: "sqlite" with a file path
// DSN or "postgres" with a connection string.
func Open(ctx context.Context, driver, dsn string) (Store, error) {
	switch driver {
	case "sqlite":
		return NewSQLite(dsn)
	case "postgres":
		return NewPostgres(ctx, dsn)
	default:
		return nil, eris.Errorf("store: unknown driver %q", driver)
	}
}
