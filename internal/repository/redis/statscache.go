package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/kioskcare/helpdesk/internal/domain"
)

const (
	statsCachePrefix = "ticketstats:"
	statsCacheTTL    = time.Minute
)

// StatsCache caches per-workspace ticket status counts in Redis
type StatsCache struct {
	client *Client
}

// NewStatsCache creates a new stats cache
func NewStatsCache(client *Client) *StatsCache {
	return &StatsCache{client: client}
}

// Get retrieves cached stats for a workspace, returning nil on a miss
func (c *StatsCache) Get(ctx context.Context, workspaceID uuid.UUID) (*domain.TicketStats, error) {
	key := fmt.Sprintf("%s%s", statsCachePrefix, workspaceID.String())

	data, err := c.client.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return nil, nil // Cache miss
	}

	var stats domain.TicketStats
	if err := json.Unmarshal(data, &stats); err != nil {
		return nil, fmt.Errorf("failed to unmarshal stats: %w", err)
	}

	return &stats, nil
}

// Set caches stats for a workspace
func (c *StatsCache) Set(ctx context.Context, workspaceID uuid.UUID, stats *domain.TicketStats) error {
	key := fmt.Sprintf("%s%s", statsCachePrefix, workspaceID.String())

	data, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("failed to marshal stats: %w", err)
	}

	return c.client.rdb.Set(ctx, key, data, statsCacheTTL).Err()
}

// Invalidate removes cached stats for a workspace
func (c *StatsCache) Invalidate(ctx context.Context, workspaceID uuid.UUID) error {
	key := fmt.Sprintf("%s%s", statsCachePrefix, workspaceID.String())
	return c.client.rdb.Del(ctx, key).Err()
}
