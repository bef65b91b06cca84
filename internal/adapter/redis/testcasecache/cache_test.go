package testcasecache

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/answer-validator.net/internal/adapter/logging"
	"gitlab.com/answer-validator.net/internal/adapter/memory"
	"gitlab.com/answer-validator.net/internal/domain"
	"gitlab.com/answer-validator.net/internal/testutil"
)

type countingStore struct {
	*memory.TestCaseStore
	active atomic.Int32
}

func (s *countingStore) ActiveTestCases(ctx context.Context, puzzleID uuid.UUID) ([]*domain.TestCase, error) {
	s.active.Add(1)
	return s.TestCaseStore.ActiveTestCases(ctx, puzzleID)
}

func setup(t *testing.T, ttl time.Duration, tcs ...*domain.TestCase) (*TestCaseCache, *countingStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	inner := &countingStore{TestCaseStore: memory.NewTestCaseStore(tcs...)}
	return NewTestCaseCache(inner, client, ttl, logging.NewNopLogger()), inner, mr
}

func TestActiveTestCases_ReadThrough(t *testing.T) {
	ctx := context.Background()
	puzzle := uuid.New()
	tc := testutil.NewTestCase(puzzle, 1, map[string]any{"n": 3}, []any{1, 2, 3})
	cache, inner, mr := setup(t, time.Minute, tc)

	first, err := cache.ActiveTestCases(ctx, puzzle)
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.True(t, mr.Exists(activeKey(puzzle)))

	second, err := cache.ActiveTestCases(ctx, puzzle)
	require.NoError(t, err)
	require.Len(t, second, 1)

	assert.Equal(t, int32(1), inner.active.Load())
	assert.Equal(t, tc.ID, second[0].ID)
	assert.True(t, tc.ExpectedOutput.Equal(second[0].ExpectedOutput))
	assert.Equal(t, tc.Config, second[0].Config)
}

func TestActiveTestCases_Expires(t *testing.T) {
	ctx := context.Background()
	puzzle := uuid.New()
	cache, inner, mr := setup(t, time.Minute, testutil.NewTestCase(puzzle, 1, nil, "x"))

	_, err := cache.ActiveTestCases(ctx, puzzle)
	require.NoError(t, err)
	mr.FastForward(2 * time.Minute)
	_, err = cache.ActiveTestCases(ctx, puzzle)
	require.NoError(t, err)

	assert.Equal(t, int32(2), inner.active.Load())
}

func TestActiveTestCases_ZeroTTLDisablesCaching(t *testing.T) {
	ctx := context.Background()
	puzzle := uuid.New()
	cache, inner, mr := setup(t, 0, testutil.NewTestCase(puzzle, 1, nil, "x"))

	for i := 0; i < 2; i++ {
		_, err := cache.ActiveTestCases(ctx, puzzle)
		require.NoError(t, err)
	}
	assert.False(t, mr.Exists(activeKey(puzzle)))
	assert.Equal(t, int32(2), inner.active.Load())
}

func TestActiveTestCases_RedisDown(t *testing.T) {
	ctx := context.Background()
	puzzle := uuid.New()
	cache, inner, mr := setup(t, time.Minute, testutil.NewTestCase(puzzle, 1, nil, "x"))
	mr.Close()

	got, err := cache.ActiveTestCases(ctx, puzzle)
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, int32(1), inner.active.Load())
}

func TestActiveTestCases_CorruptEntry(t *testing.T) {
	ctx := context.Background()
	puzzle := uuid.New()
	cache, inner, mr := setup(t, time.Minute, testutil.NewTestCase(puzzle, 1, nil, "x"))
	require.NoError(t, mr.Set(activeKey(puzzle), "not json"))

	got, err := cache.ActiveTestCases(ctx, puzzle)
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, int32(1), inner.active.Load())
}

func TestSave_Invalidates(t *testing.T) {
	ctx := context.Background()
	puzzle := uuid.New()
	cache, inner, _ := setup(t, time.Minute, testutil.NewTestCase(puzzle, 1, nil, "x"))

	_, err := cache.ActiveTestCases(ctx, puzzle)
	require.NoError(t, err)

	require.NoError(t, cache.Save(ctx, testutil.NewTestCase(puzzle, 2, nil, "y")))

	got, err := cache.ActiveTestCases(ctx, puzzle)
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, int32(2), inner.active.Load())
}
