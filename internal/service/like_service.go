package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"Volunteer_Service/internal/model"
	"Volunteer_Service/internal/repository/mysql"
	"Volunteer_Service/internal/repository/redis"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// likedSet 用户点赞集合：先读 Redis，未命中回源并整体回填
type likedSet struct {
	repo  *mysql.LikeRepository
	cache *redis.LikeCacheRepository
	log   *zap.Logger
}

func (s *likedSet) IDs(ctx context.Context, userID uint64) (map[uint64]struct{}, error) {
	out := make(map[uint64]struct{})
	if userID == 0 {
		return out, nil
	}

	if s.cache != nil {
		ids, hit, err := s.cache.LikedIDsCached(ctx, userID)
		if err == nil && hit {
			for _, id := range ids {
				out[id] = struct{}{}
			}
			return out, nil
		}
		if err != nil {
			s.log.Warn("liked set cache read failed", zap.Uint64("user_id", userID), zap.Error(err))
		}
	}

	// 回源前先取版本号，取不到就不回填
	var (
		version int64
		verErr  error
	)
	if s.cache != nil {
		version, verErr = s.cache.Version(ctx, userID)
	}

	ids, err := s.repo.LikedEventIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		out[id] = struct{}{}
	}
	if s.cache != nil && verErr == nil {
		err := s.cache.Fill(ctx, userID, version, ids)
		switch {
		case errors.Is(err, redis.ErrStaleFill):
			s.log.Debug("liked set fill skipped", zap.Uint64("user_id", userID))
		case err != nil:
			s.log.Warn("liked set cache fill failed", zap.Uint64("user_id", userID), zap.Error(err))
		}
	}
	return out, nil
}

func (s *likedSet) Has(ctx context.Context, userID, eventID uint64) (bool, error) {
	if userID == 0 {
		return false, nil
	}
	if s.cache != nil {
		if b, ok, err := s.cache.IsLikedCached(ctx, userID, eventID); err == nil && ok {
			return b, nil
		}
	}
	return s.repo.IsLiked(ctx, userID, eventID)
}

// ToggleResult 切换后的状态和以库为准的点赞数
type ToggleResult struct {
	EventID    uint64 `json:"event_id"`
	Liked      bool   `json:"liked"`
	LikesCount int64  `json:"likes_count"`
	// Changed 为 false 表示另一个并发切换正在进行，本次未写库
	Changed bool `json:"changed"`
}

const (
	// 锁 TTL 之后再多等一点，持有者崩溃时锁自然过期
	likeLockWait  = redis.LockTTL + 200*time.Millisecond
	likeLockRetry = 20 * time.Millisecond
)

type LikeService struct {
	events   *mysql.EventRepository
	likes    *mysql.LikeRepository
	cache    *redis.LikeCacheRepository
	lock     *redis.DistLock
	lockWait time.Duration
	liked    *likedSet
	deps     Deps
}

// NewLikeService rdb 为 nil 时不走缓存和锁
func NewLikeService(db *gorm.DB, rdb *goredis.Client, deps Deps) *LikeService {
	deps = deps.withDefaults()
	s := &LikeService{
		events:   &mysql.EventRepository{DB: db},
		likes:    &mysql.LikeRepository{DB: db},
		lockWait: likeLockWait,
		deps:     deps,
	}
	if rdb != nil {
		s.cache = redis.NewLikeCacheRepository(rdb)
		s.lock = &redis.DistLock{RDB: rdb}
	}
	s.liked = &likedSet{repo: s.likes, cache: s.cache, log: deps.Log}
	return s
}

// Toggle 有则取消、无则点赞；同一 (user, event) 的并发切换由 Redis 锁串行化，
// 锁被占用时等待释放，超过 lockWait 仍拿不到才返回当前状态（Changed=false）。
func (s *LikeService) Toggle(ctx context.Context, userID, eventID uint64) (*ToggleResult, error) {
	const op = "service.LikeService.Toggle"

	if userID == 0 {
		return nil, ErrLoginRequired
	}
	if _, err := s.events.FindByID(ctx, eventID); err != nil {
		return nil, notFound(op, err, ErrEventNotFound)
	}

	if s.lock != nil {
		token := uuid.NewString()
		got, err := s.acquire(ctx, userID, eventID, token)
		switch {
		case err != nil:
			// Redis 不可用时退化为只靠唯一索引
			s.deps.Log.Warn("like lock unavailable", zap.String("op", op), zap.Error(err))
		case !got:
			return s.current(ctx, op, userID, eventID)
		default:
			defer func() {
				if err := s.lock.Release(context.WithoutCancel(ctx), userID, eventID, token); err != nil {
					s.deps.Log.Warn("like lock release failed", zap.String("op", op), zap.Error(err))
				}
			}()
		}
	}

	liked, err := s.likes.Toggle(ctx, userID, eventID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, userID); err != nil {
			s.deps.Log.Warn("liked set invalidate failed", zap.String("op", op), zap.Error(err))
		}
	}

	count, err := s.likes.CountByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result := "unliked"
	if liked {
		result = "liked"
	}
	s.deps.Metrics.LikeToggles.WithLabelValues(result).Inc()
	publish(ctx, s.deps.Publisher, s.deps.Log, Activity{
		Type:    ActivityLikeToggled,
		UserID:  userID,
		EventID: eventID,
		Data:    map[string]any{"liked": liked},
	})

	return &ToggleResult{EventID: eventID, Liked: liked, LikesCount: count, Changed: true}, nil
}

// acquire 轮询加锁，直到拿到、超时或 ctx 结束
func (s *LikeService) acquire(ctx context.Context, userID, eventID uint64, token string) (bool, error) {
	deadline := time.Now().Add(s.lockWait)
	for {
		got, err := s.lock.Acquire(ctx, userID, eventID, token)
		if err != nil || got {
			return got, err
		}
		if !time.Now().Before(deadline) {
			return false, nil
		}
		select {
		case <-ctx.Done():
			return false, nil
		case <-time.After(likeLockRetry):
		}
	}
}

func (s *LikeService) current(ctx context.Context, op string, userID, eventID uint64) (*ToggleResult, error) {
	liked, err := s.likes.IsLiked(ctx, userID, eventID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	count, err := s.likes.CountByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &ToggleResult{EventID: eventID, Liked: liked, LikesCount: count}, nil
}

// ListMine 当前用户的点赞，新的在前
func (s *LikeService) ListMine(ctx context.Context, userID uint64) ([]model.Like, error) {
	if userID == 0 {
		return nil, ErrLoginRequired
	}
	list, err := s.likes.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service.LikeService.ListMine: %w", err)
	}
	return list, nil
}
