package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/venuetrack/checkin-system/internal/core/domain"
)

const dedupTTL = time.Hour

// VisitDedup provides visit idempotency checks backed by Redis.
// Key format: visit:<zone_id>:<direction>:<unix_timestamp>
type VisitDedup struct {
	client *redis.Client
}

// NewVisitDedup creates a VisitDedup wrapping the given Redis client.
func NewVisitDedup(client *redis.Client) *VisitDedup {
	return &VisitDedup{client: client}
}

// IsDuplicate reports whether this exact visit has already been recorded.
func (d *VisitDedup) IsDuplicate(ctx context.Context, zoneID string, direction domain.VisitDirection, at time.Time) (bool, error) {
	n, err := d.client.Exists(ctx, d.key(zoneID, direction, at)).Result()
	if err != nil {
		return false, fmt.Errorf("visit dedup check: %w", err)
	}
	return n > 0, nil
}

// Mark records that this visit has been processed (expires after dedupTTL).
func (d *VisitDedup) Mark(ctx context.Context, zoneID string, direction domain.VisitDirection, at time.Time) error {
	return d.client.Set(ctx, d.key(zoneID, direction, at), "1", dedupTTL).Err()
}

func (d *VisitDedup) key(zoneID string, direction domain.VisitDirection, at time.Time) string {
	return fmt.Sprintf("visit:%s:%s:%d", zoneID, direction, at.Unix())
}
