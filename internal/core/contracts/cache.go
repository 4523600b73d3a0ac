package contracts

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// UnreadCountCache caches per-user unread notification counts so the badge
// query does not hit Postgres on every poll. Misses are not errors.
type UnreadCountCache interface {
	Get(ctx context.Context, userID uuid.UUID) (count int64, ok bool, err error)
	Set(ctx context.Context, userID uuid.UUID, count int64) error
	Invalidate(ctx context.Context, userID uuid.UUID) error
}

// PresenceStore tracks which users have checked in recently on a shared
// channel, backed by TTL-scored sets.
type PresenceStore interface {
	UpdateOnlineStatus(ctx context.Context, channel, userID string, ttl time.Duration) error
	GetOnlineUsers(ctx context.Context, channel string) ([]string, error)
	ClearChannel(ctx context.Context, channel string) error
}
