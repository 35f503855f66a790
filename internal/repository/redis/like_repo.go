package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	LikeSetTTL       = 24 * time.Hour
	LockTTL          = 300 * time.Millisecond
	LikeSetKeyPrefix = "like:set:user"    // 某个用户已点赞的活动ID集合
	LikeVerKeyPrefix = "like:ver:user"    // 集合版本号，每次写库后递增
	LockKeyPrefix    = "lock:like:event" // 分布式锁，粒度 (user, event)

	// 集合里的占位成员，活动 ID 从 1 开始，保证空集合也能被缓存
	placeholder = "0"
)

type LikeCacheRepository struct {
	RDB        *redis.Client
	likeSetTTL time.Duration
}

func NewLikeCacheRepository(rdb *redis.Client) *LikeCacheRepository {
	return &LikeCacheRepository{RDB: rdb, likeSetTTL: LikeSetTTL}
}

// ErrStaleFill 回源期间集合被失效过，本次回填作废
var ErrStaleFill = errors.New("liked set changed during fill")

func (r *LikeCacheRepository) likeSetKey(userID uint64) string {
	return fmt.Sprintf("%s:%d", LikeSetKeyPrefix, userID)
}

func (r *LikeCacheRepository) likeVerKey(userID uint64) string {
	return fmt.Sprintf("%s:%d", LikeVerKeyPrefix, userID)
}

// Version 回源前读取，回填时原样带回 Fill
func (r *LikeCacheRepository) Version(ctx context.Context, userID uint64) (int64, error) {
	v, err := r.RDB.Get(ctx, r.likeVerKey(userID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return v, err
}

// LikedIDsCached 返回 (ids, 命中, err)；未命中时调用方回源后 Fill
func (r *LikeCacheRepository) LikedIDsCached(ctx context.Context, userID uint64) ([]uint64, bool, error) {
	k := r.likeSetKey(userID)
	members, err := r.RDB.SMembers(ctx, k).Result()
	if err != nil {
		return nil, false, err
	}
	if len(members) == 0 {
		return nil, false, nil
	}
	ids := make([]uint64, 0, len(members))
	for _, m := range members {
		if m == placeholder {
			continue
		}
		id, err := strconv.ParseUint(m, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, true, nil
}

// IsLikedCached 返回 (已点赞, 命中, err)
func (r *LikeCacheRepository) IsLikedCached(ctx context.Context, userID, eventID uint64) (bool, bool, error) {
	k := r.likeSetKey(userID)
	exists, err := r.RDB.Exists(ctx, k).Result()
	if err != nil {
		return false, false, err
	}
	if exists == 0 {
		return false, false, nil
	}
	b, err := r.RDB.SIsMember(ctx, k, eventID).Result()
	return b, true, err
}

// Fill 用数据库结果整体回填；版本号与回源前读到的不一致时放弃，返回 ErrStaleFill
func (r *LikeCacheRepository) Fill(ctx context.Context, userID uint64, version int64, eventIDs []uint64) error {
	k, vk := r.likeSetKey(userID), r.likeVerKey(userID)
	members := make([]any, 0, len(eventIDs)+1)
	members = append(members, placeholder)
	for _, id := range eventIDs {
		members = append(members, id)
	}

	err := r.RDB.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := tx.Get(ctx, vk).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if cur != version {
			return ErrStaleFill
		}
		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.Del(ctx, k)
			p.SAdd(ctx, k, members...)
			p.Expire(ctx, k, r.likeSetTTL)
			return nil
		})
		return err
	}, vk)
	if errors.Is(err, redis.TxFailedErr) {
		return ErrStaleFill
	}
	return err
}

// Invalidate 写库后调用：版本号加一并删除集合，进行中的回填随之作废
func (r *LikeCacheRepository) Invalidate(ctx context.Context, userID uint64) error {
	vk := r.likeVerKey(userID)
	_, err := r.RDB.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Incr(ctx, vk)
		p.Expire(ctx, vk, r.likeSetTTL)
		p.Del(ctx, r.likeSetKey(userID))
		return nil
	})
	return err
}

type DistLock struct {
	RDB *redis.Client
}

func lockKey(userID, eventID uint64) string {
	return fmt.Sprintf("%s:%d:%d", LockKeyPrefix, userID, eventID)
}

// Acquire 请求加分布式锁
func (l *DistLock) Acquire(ctx context.Context, userID, eventID uint64, token string) (bool, error) {
	return l.RDB.SetNX(ctx, lockKey(userID, eventID), token, LockTTL).Result()
}

var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
  return redis.call("del", KEYS[1])
else
  return 0
end`)

// Release 用lua保证只删自己的锁
func (l *DistLock) Release(ctx context.Context, userID, eventID uint64, token string) error {
	return releaseScript.Run(ctx, l.RDB, []string{lockKey(userID, eventID)}, token).Err()
}
