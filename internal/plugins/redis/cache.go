package redis

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const unreadCountTTL = 10 * time.Minute

// UnreadCountCache keeps the notification badge counter out of Postgres for
// the common read path. A miss is not an error; callers fall through to the
// repository and repopulate.
type UnreadCountCache struct {
	rdb *redis.Client
}

func NewUnreadCountCache(rdb *redis.Client) *UnreadCountCache {
	return &UnreadCountCache{rdb: rdb}
}

func (c *UnreadCountCache) key(userID uuid.UUID) string {
	return "notif:unread:" + userID.String()
}

func (c *UnreadCountCache) Get(ctx context.Context, userID uuid.UUID) (int64, bool, error) {
	count, err := c.rdb.Get(ctx, c.key(userID)).Int64()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return count, true, nil
}

func (c *UnreadCountCache) Set(ctx context.Context, userID uuid.UUID, count int64) error {
	return c.rdb.Set(ctx, c.key(userID), count, unreadCountTTL).Err()
}

func (c *UnreadCountCache) Invalidate(ctx context.Context, userID uuid.UUID) error {
	return c.rdb.Del(ctx, c.key(userID)).Err()
}
