package core

import (
	"context"
	"database/sql"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/pathways/internal/contract"
	"github.com/huangsam/pathways/internal/iocache"
	"github.com/huangsam/pathways/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type cachedValue struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

func TestMemoize(t *testing.T) {
	want := cachedValue{Name: "bike_lanes", Score: 6}
	encoded, err := json.Marshal(want)
	require.NoError(t, err)

	t.Run("nil store computes directly", func(t *testing.T) {
		calls := 0
		got, err := memoize(nil, "key", func() (cachedValue, error) {
			calls++
			return want, nil
		})
		require.NoError(t, err)
		assert.Equal(t, want, got)
		assert.Equal(t, 1, calls)
	})

	t.Run("miss computes and stores", func(t *testing.T) {
		store := &iocache.MockCacheStore{}
		store.On("Get", "key").Return(nil, 0, int64(0), sql.ErrNoRows)
		store.On("Set", "key", encoded, currentCacheVersion, mock.AnythingOfType("int64")).Return(nil)

		got, err := memoize(store, "key", func() (cachedValue, error) { return want, nil })
		require.NoError(t, err)
		assert.Equal(t, want, got)
		store.AssertExpectations(t)
	})

	t.Run("hit skips compute", func(t *testing.T) {
		store := &iocache.MockCacheStore{}
		store.On("Get", "key").Return(encoded, currentCacheVersion, time.Now().Unix(), nil)

		got, err := memoize(store, "key", func() (cachedValue, error) {
			t.Fatal("compute must not run on a hit")
			return cachedValue{}, nil
		})
		require.NoError(t, err)
		assert.Equal(t, want, got)
		store.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("version mismatch recomputes", func(t *testing.T) {
		store := &iocache.MockCacheStore{}
		store.On("Get", "key").Return(encoded, currentCacheVersion+1, time.Now().Unix(), nil)
		store.On("Set", "key", encoded, currentCacheVersion, mock.AnythingOfType("int64")).Return(nil)

		calls := 0
		_, err := memoize(store, "key", func() (cachedValue, error) {
			calls++
			return want, nil
		})
		require.NoError(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("stale entry recomputes", func(t *testing.T) {
		store := &iocache.MockCacheStore{}
		stale := time.Now().Add(-maxCacheAge - time.Hour).Unix()
		store.On("Get", "key").Return(encoded, currentCacheVersion, stale, nil)
		store.On("Set", "key", encoded, currentCacheVersion, mock.AnythingOfType("int64")).Return(nil)

		calls := 0
		_, err := memoize(store, "key", func() (cachedValue, error) {
			calls++
			return want, nil
		})
		require.NoError(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("compute error is not stored", func(t *testing.T) {
		store := &iocache.MockCacheStore{}
		store.On("Get", "key").Return(nil, 0, int64(0), sql.ErrNoRows)

		_, err := memoize(store, "key", func() (cachedValue, error) { return cachedValue{}, assert.AnError })
		assert.ErrorIs(t, err, assert.AnError)
		store.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("store failure keeps the result", func(t *testing.T) {
		store := &iocache.MockCacheStore{}
		store.On("Get", "key").Return(nil, 0, int64(0), sql.ErrNoRows)
		store.On("Set", "key", encoded, currentCacheVersion, mock.AnythingOfType("int64")).Return(assert.AnError)

		got, err := memoize(store, "key", func() (cachedValue, error) { return want, nil })
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})
}

func TestGenerateCacheKey(t *testing.T) {
	params := seriesParams{MetricIDs: []string{"a"}, Start: 2020, End: 2030}

	key := generateCacheKey(schema.SeriesCommand, "digest", params)
	assert.Len(t, key, 64)
	assert.Equal(t, key, generateCacheKey(schema.SeriesCommand, "digest", params))
	assert.NotEqual(t, key, generateCacheKey(schema.ActionsCommand, "digest", params))
	assert.NotEqual(t, key, generateCacheKey(schema.SeriesCommand, "other", params))

	params.End = 2031
	assert.NotEqual(t, key, generateCacheKey(schema.SeriesCommand, "digest", params))
}

// sqliteStores is a CacheManager over real SQLite stores in a temp dir.
type sqliteStores struct {
	memo contract.CacheStore
	runs contract.RunStore
}

func (s *sqliteStores) GetMemoStore() contract.CacheStore { return s.memo }
func (s *sqliteStores) GetRunStore() contract.RunStore     { return s.runs }

func newSQLiteStores(t *testing.T) *sqliteStores {
	t.Helper()
	dir := t.TempDir()
	memo, err := iocache.NewCacheStore("pathways_memo", schema.SQLiteBackend, filepath.Join(dir, "memo.db"))
	require.NoError(t, err)
	runs, err := iocache.NewRunStore(schema.SQLiteBackend, filepath.Join(dir, "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = memo.Close()
		_ = runs.Close()
	})
	return &sqliteStores{memo: memo, runs: runs}
}

func TestMemoHitReturnsIdenticalResults(t *testing.T) {
	ctx := WithSuppressHeader(context.Background())
	mgr := newSQLiteStores(t)
	cfg := testConfig()
	cfg.OverviewID = "mac"

	first, err := GetActionResults(ctx, cfg, mgr)
	require.NoError(t, err)
	status, err := mgr.memo.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, 1, status.TotalEntries)

	second, err := GetActionResults(ctx, cfg, mgr)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	frames, err := GetSankeyResults(ctx, cfg, mgr)
	require.NoError(t, err)
	cached, err := GetSankeyResults(ctx, cfg, mgr)
	require.NoError(t, err)
	assert.Equal(t, frames, cached)

	status, err = mgr.memo.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, 2, status.TotalEntries)
}

func TestExecuteActionsWithSQLiteLedger(t *testing.T) {
	ctx := WithSuppressHeader(context.Background())
	mgr := newSQLiteStores(t)

	w := &mockOutputWriter{}
	w.On("WriteActions", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	require.NoError(t, ExecuteActions(ctx, testConfig(), mgr, w))

	runs, err := mgr.runs.GetAllRuns()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, schema.ActionsCommand, runs[0].Command)
	assert.EqualValues(t, 2, runs[0].TotalRows)
	assert.NotNil(t, runs[0].EndTime)

	scores, err := mgr.runs.GetAllActionScores()
	require.NoError(t, err)
	require.Len(t, scores, 2)
	assert.Equal(t, "gas_boilers", scores[0].ActionID)
	assert.Equal(t, "bike_lanes", scores[1].ActionID)
}
