package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balticwatch/cablewatch/internal/analysis"
	"github.com/balticwatch/cablewatch/internal/geometry"
)

func newTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func sampleResult() analysis.Result {
	return analysis.Result{
		Intersections: []analysis.Crossing{
			{CableName: "Baltica North", CableID: "cbl-001", SegmentIndex: 0, TrajectorySegment: 1},
		},
		NearbyCables: []analysis.Proximity{
			{CableName: "Baltica South", CableID: "cbl-002", MinDistance: 0.02, ClosestPoint: geometry.Point{Lon: 12, Lat: 54.3}},
		},
	}
}

func TestSQLiteStore_CreateAndGetRun(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	created, err := s.CreateRun(ctx, "rostock-approach", "data/cables.json", sampleResult())
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	got, err := s.GetRun(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "rostock-approach", got.Scenario)
	assert.Equal(t, "data/cables.json", got.CableFile)
	assert.Equal(t, sampleResult(), got.Result)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestSQLiteStore_GetRun_NotFound(t *testing.T) {
	s := newTestSQLite(t)

	_, err := s.GetRun(context.Background(), "does-not-exist")
	require.Error(t, err)
}

func TestSQLiteStore_EmptyResultRoundTrip(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	empty := analysis.Result{
		Intersections: []analysis.Crossing{},
		NearbyCables:  []analysis.Proximity{},
	}
	created, err := s.CreateRun(ctx, "clean-transit", "data/cables.json", empty)
	require.NoError(t, err)

	got, err := s.GetRun(ctx, created.ID)
	require.NoError(t, err)
	assert.NotNil(t, got.Result.Intersections)
	assert.NotNil(t, got.Result.NearbyCables)
	assert.Empty(t, got.Result.Intersections)
	assert.Empty(t, got.Result.NearbyCables)
}

func TestSQLiteStore_ListRuns(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := s.CreateRun(ctx, "rostock-approach", "data/cables.json", sampleResult())
		require.NoError(t, err)
	}
	_, err := s.CreateRun(ctx, "fehmarn-transit", "data/cables.json", sampleResult())
	require.NoError(t, err)

	all, err := s.ListRuns(ctx, Filter{})
	require.NoError(t, err)
	assert.Len(t, all, 4)

	filtered, err := s.ListRuns(ctx, Filter{Scenario: "fehmarn-transit"})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "fehmarn-transit", filtered[0].Scenario)

	limited, err := s.ListRuns(ctx, Filter{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), "mysql", "dsn")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown driver")
}

func TestOpen_SQLite(t *testing.T) {
	s, err := Open(context.Background(), "sqlite", filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	defer s.Close() //nolint:errcheck
	assert.IsType(t, &SQLiteStore{}, s)
}
