package redis

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisPresenceStore struct {
	rdb *redis.Client
}

func NewRedisPresenceStore(rdb *redis.Client) *RedisPresenceStore {
	return &RedisPresenceStore{rdb: rdb}
}

// UpdateOnlineStatus refreshes the user's check-in timestamp in the channel's
// ZSet. The set itself expires at twice the inactivity threshold so idle
// channels do not leak memory.
func (p *RedisPresenceStore) UpdateOnlineStatus(ctx context.Context, channel, userID string, ttl time.Duration) error {
	key := "presence:" + channel
	err := p.rdb.ZAdd(ctx, key, redis.Z{
		Score:  float64(time.Now().Unix()),
		Member: userID,
	}).Err()
	if err != nil {
		return err
	}
	return p.rdb.Expire(ctx, key, ttl*2).Err()
}

// GetOnlineUsers returns users who checked in within the last 30 seconds,
// pruning stale members as a side effect.
func (p *RedisPresenceStore) GetOnlineUsers(ctx context.Context, channel string) ([]string, error) {
	key := "presence:" + channel
	threshold := time.Now().Add(-30 * time.Second).Unix()
	p.rdb.ZRemRangeByScore(ctx, key, "-inf", strconv.FormatInt(threshold, 10))
	return p.rdb.ZRange(ctx, key, 0, -1).Result()
}

func (p *RedisPresenceStore) ClearChannel(ctx context.Context, channel string) error {
	return p.rdb.Del(ctx, "presence:"+channel).Err()
}
