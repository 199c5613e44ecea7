// Package presence redis 在线状态：鉴权请求心跳续期带 TTL 的 key，
// key 存活即视为在线。
package presence

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "presence:"

// Tracker 在线状态跟踪器。nil *Tracker 可安全调用，
// 所有查询返回离线（redis 未配置时的降级路径）。
type Tracker struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewTracker(rdb *redis.Client, ttl time.Duration) *Tracker {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Tracker{rdb: rdb, ttl: ttl}
}

// Heartbeat 标记用户在线并续期
func (t *Tracker) Heartbeat(ctx context.Context, userID string) error {
	if t == nil || t.rdb == nil {
		return nil
	}
	return t.rdb.Set(ctx, keyPrefix+userID, "1", t.ttl).Err()
}

// Online 过滤出集合中当前在线的用户 ID，顺序保持输入顺序
func (t *Tracker) Online(ctx context.Context, userIDs []string) ([]string, error) {
	if t == nil || t.rdb == nil || len(userIDs) == 0 {
		return nil, nil
	}
	pipe := t.rdb.Pipeline()
	cmds := make([]*redis.IntCmd, len(userIDs))
	for i, id := range userIDs {
		cmds[i] = pipe.Exists(ctx, keyPrefix+id)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, err
	}
	var online []string
	for i, cmd := range cmds {
		if cmd.Val() > 0 {
			online = append(online, userIDs[i])
		}
	}
	return online, nil
}

// IsOnline 单个用户在线查询
func (t *Tracker) IsOnline(ctx context.Context, userID string) (bool, error) {
	if t == nil || t.rdb == nil {
		return false, nil
	}
	n, err := t.rdb.Exists(ctx, keyPrefix+userID).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
