package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/rongwang/finance-tracker-server/internal/models"
)

// SummaryCache keeps transaction summaries in Redis.
//
// Every entry key embeds the user's current version number. Invalidate bumps
// the version, so all of a user's old entries become unreachable at once and
// expire on their own TTL.
type SummaryCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewSummaryCache creates a SummaryCache whose entries live for ttl
func NewSummaryCache(client redis.Cmdable, ttl time.Duration) *SummaryCache {
	return &SummaryCache{client: client, ttl: ttl}
}

func versionKey(userID int64) string {
	return fmt.Sprintf("summary:%d:version", userID)
}

func entryKey(userID, version int64, startDate, endDate *time.Time) string {
	return fmt.Sprintf("summary:%d:v%d:%s:%s", userID, version, bound(startDate), bound(endDate))
}

func bound(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func (c *SummaryCache) version(ctx context.Context, userID int64) (int64, error) {
	v, err := c.client.Get(ctx, versionKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("error reading summary version: %w", err)
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("error parsing summary version %q: %w", v, err)
	}
	return n, nil
}

// Get returns the cached summary for the range, if any, along with the
// version it looked under. Pass that version to Set.
func (c *SummaryCache) Get(ctx context.Context, userID int64, startDate, endDate *time.Time) (*models.TransactionSummary, int64, bool, error) {
	version, err := c.version(ctx, userID)
	if err != nil {
		return nil, 0, false, err
	}

	data, err := c.client.Get(ctx, entryKey(userID, version, startDate, endDate)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, version, false, nil
	}
	if err != nil {
		return nil, version, false, fmt.Errorf("error reading summary: %w", err)
	}

	var summary models.TransactionSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		return nil, version, false, fmt.Errorf("error decoding summary: %w", err)
	}
	return &summary, version, true, nil
}

// Set stores summary under the version Get returned. If the user was
// invalidated in between, the entry lands under a dead version and is never read.
func (c *SummaryCache) Set(ctx context.Context, userID, version int64, startDate, endDate *time.Time, summary *models.TransactionSummary) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("error encoding summary: %w", err)
	}

	if err := c.client.Set(ctx, entryKey(userID, version, startDate, endDate), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("error writing summary: %w", err)
	}
	return nil
}

// Invalidate drops every cached summary of the user
func (c *SummaryCache) Invalidate(ctx context.Context, userID int64) error {
	if err := c.client.Incr(ctx, versionKey(userID)).Err(); err != nil {
		return fmt.Errorf("error bumping summary version: %w", err)
	}
	return nil
}
