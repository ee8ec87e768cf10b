package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/balticwatch/cablewatch/internal/analysis"
	"github.com/balticwatch/cablewatch/internal/db"
)

// PostgresStore implements Store using a pgx pool.
type PostgresStore struct {
	pool db.Pool
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: connect")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS runs (
	id         TEXT PRIMARY KEY,
	scenario   TEXT NOT NULL,
	cable_file TEXT NOT NULL,
	result     JSONB NOT NULL,
	crossings  INTEGER NOT NULL,
	nearby     INTEGER NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_runs_scenario ON runs(scenario);
CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) CreateRun(ctx context.Context, scenario, cableFile string, result analysis.Result) (*Run, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	resultJSON, err := json.Marshal(result)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: marshal result")
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO runs (id, scenario, cable_file, result, crossings, nearby, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		id, scenario, cableFile, resultJSON,
		len(result.Intersections), len(result.NearbyCables), now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert run")
	}

	return &Run{
		ID:        id,
		Scenario:  scenario,
		CableFile: cableFile,
		Result:    result,
		CreatedAt: now,
	}, nil
}

func (s *PostgresStore) GetRun(ctx context.Context, runID string) (*Run, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, scenario, cable_file, result, created_at FROM runs WHERE id = $1`,
		runID,
	)

	var r Run
	var resultJSON []byte
	if err := row.Scan(&r.ID, &r.Scenario, &r.CableFile, &resultJSON, &r.CreatedAt); err != nil {
		return nil, eris.Wrapf(err, "postgres: get run %s", runID)
	}
	if err := json.Unmarshal(resultJSON, &r.Result); err != nil {
		return nil, eris.Wrapf(err, "postgres: unmarshal result for run %s", runID)
	}
	return &r, nil
}

func (s *PostgresStore) ListRuns(ctx context.Context, filter Filter) ([]Run, error) {
	query := `SELECT id, scenario, cable_file, result, created_at FROM runs`
	args := []any{}
	if filter.Scenario != "" {
		query += ` WHERE scenario = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
		args = append(args, filter.Scenario, filter.limit(), filter.Offset)
	} else {
		query += ` ORDER BY created_at DESC LIMIT $1 OFFSET $2`
		args = append(args, filter.limit(), filter.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list runs")
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var resultJSON []byte
		if err := rows.Scan(&r.ID, &r.Scenario, &r.CableFile, &resultJSON, &r.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan run")
		}
		if err := json.Unmarshal(resultJSON, &r.Result); err != nil {
			return nil, eris.Wrapf(err, "postgres: unmarshal result for run %s", r.ID)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "postgres: iterate runs")
	}
	return runs, nil
}
