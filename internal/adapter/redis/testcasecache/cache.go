// package testcasecache caches the active test cases of a puzzle in Redis
package testcasecache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"gitlab.com/answer-validator.net/internal/core/ports/primary"
	"gitlab.com/answer-validator.net/internal/core/ports/secondary"
	"gitlab.com/answer-validator.net/internal/domain"
)

const activeKeyPrefix = "testcases:active:"

var (
	_ secondary.TestCaseStore  = (*TestCaseCache)(nil)
	_ secondary.TestCaseWriter = (*TestCaseCache)(nil)
)

var ErrReadOnlyStore = errors.New("underlying test case store is read-only")

// TestCaseCache is a read-through cache in front of another TestCaseStore.
// Only ActiveTestCases is cached; Redis failures fall back to the wrapped store.
type TestCaseCache struct {
	next        secondary.TestCaseStore
	redisClient *redis.Client
	ttl         time.Duration
	logger      primary.Logger
}

func NewTestCaseCache(next secondary.TestCaseStore, redisClient *redis.Client, ttl time.Duration, logger primary.Logger) *TestCaseCache {
	return &TestCaseCache{
		next:        next,
		redisClient: redisClient,
		ttl:         ttl,
		logger:      logger,
	}
}

func activeKey(puzzleID uuid.UUID) string {
	return fmt.Sprintf("%s%s", activeKeyPrefix, puzzleID)
}

func (c *TestCaseCache) ActiveTestCases(ctx context.Context, puzzleID uuid.UUID) ([]*domain.TestCase, error) {
	key := activeKey(puzzleID)

	data, err := c.redisClient.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var testCases []*domain.TestCase
		if err := json.Unmarshal(data, &testCases); err == nil {
			return testCases, nil
		}
		c.logger.Warn("Discarding undecodable cached test cases", "key", key, "error", err)
	case !errors.Is(err, redis.Nil):
		c.logger.Warn("Failed to read cached test cases", "key", key, "error", err)
	}

	testCases, err := c.next.ActiveTestCases(ctx, puzzleID)
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, testCases)
	return testCases, nil
}

func (c *TestCaseCache) store(ctx context.Context, key string, testCases []*domain.TestCase) {
	if c.ttl <= 0 {
		return
	}
	data, err := json.Marshal(testCases)
	if err != nil {
		c.logger.Warn("Failed to marshal test cases for cache", "key", key, "error", err)
		return
	}
	if err := c.redisClient.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.Warn("Failed to cache test cases", "key", key, "error", err)
	}
}

func (c *TestCaseCache) ByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.TestCase, error) {
	return c.next.ByIDs(ctx, ids)
}

func (c *TestCaseCache) ListTestCases(ctx context.Context, puzzleID uuid.UUID, filter secondary.TestCaseFilter) ([]*domain.TestCase, error) {
	return c.next.ListTestCases(ctx, puzzleID, filter)
}

// Invalidate drops the cached active set of a puzzle
func (c *TestCaseCache) Invalidate(ctx context.Context, puzzleID uuid.UUID) error {
	if err := c.redisClient.Del(ctx, activeKey(puzzleID)).Err(); err != nil {
		c.logger.Error("Failed to invalidate cached test cases", "puzzleId", puzzleID, "error", err)
		return fmt.Errorf("failed to invalidate cached test cases: %w", err)
	}
	return nil
}

// Save writes through to the wrapped store and invalidates the puzzle's cached set
func (c *TestCaseCache) Save(ctx context.Context, tc *domain.TestCase) error {
	writer, ok := c.next.(secondary.TestCaseWriter)
	if !ok {
		return ErrReadOnlyStore
	}
	if err := writer.Save(ctx, tc); err != nil {
		return err
	}
	return c.Invalidate(ctx, tc.PuzzleID)
}
