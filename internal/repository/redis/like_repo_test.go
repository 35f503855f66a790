package redis

import (
	"context"
	"testing"

	"Volunteer_Service/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLikeCache_FillAndInvalidate(t *testing.T) {
	_, rdb := testutil.NewRedis(t)
	cache := NewLikeCacheRepository(rdb)
	ctx := context.Background()

	_, hit, err := cache.LikedIDsCached(ctx, 1)
	require.NoError(t, err)
	assert.False(t, hit)
	_, hit, err = cache.IsLikedCached(ctx, 1, 7)
	require.NoError(t, err)
	assert.False(t, hit)

	v, err := cache.Version(ctx, 1)
	require.NoError(t, err)
	assert.Zero(t, v)

	// 空集合也算命中
	require.NoError(t, cache.Fill(ctx, 1, v, nil))
	ids, hit, err := cache.LikedIDsCached(ctx, 1)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Empty(t, ids)

	require.NoError(t, cache.Fill(ctx, 1, v, []uint64{7, 9}))
	liked, hit, err := cache.IsLikedCached(ctx, 1, 7)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.True(t, liked)
	ids, _, err = cache.LikedIDsCached(ctx, 1)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint64{7, 9}, ids)

	require.NoError(t, cache.Invalidate(ctx, 1))
	_, hit, err = cache.LikedIDsCached(ctx, 1)
	require.NoError(t, err)
	assert.False(t, hit)

	v, err = cache.Version(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), v)
}

func TestLikeCache_StaleFillIsDropped(t *testing.T) {
	_, rdb := testutil.NewRedis(t)
	cache := NewLikeCacheRepository(rdb)
	ctx := context.Background()

	// 读者回源前拿到版本号，之后写库并失效
	v, err := cache.Version(ctx, 5)
	require.NoError(t, err)
	require.NoError(t, cache.Invalidate(ctx, 5))

	err = cache.Fill(ctx, 5, v, []uint64{3})
	assert.ErrorIs(t, err, ErrStaleFill)
	_, hit, err := cache.LikedIDsCached(ctx, 5)
	require.NoError(t, err)
	assert.False(t, hit)

	// 其他用户的版本互不影响
	require.NoError(t, cache.Fill(ctx, 6, 0, []uint64{3}))
	_, hit, err = cache.LikedIDsCached(ctx, 6)
	require.NoError(t, err)
	assert.True(t, hit)
}

func TestLikeCache_TTL(t *testing.T) {
	mr, rdb := testutil.NewRedis(t)
	cache := NewLikeCacheRepository(rdb)
	ctx := context.Background()

	require.NoError(t, cache.Fill(ctx, 3, 0, []uint64{1, 2}))
	mr.FastForward(LikeSetTTL + 1)

	_, hit, err := cache.LikedIDsCached(ctx, 3)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestDistLock(t *testing.T) {
	mr, rdb := testutil.NewRedis(t)
	lock := &DistLock{RDB: rdb}
	ctx := context.Background()

	ok, err := lock.Acquire(ctx, 1, 2, "a")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = lock.Acquire(ctx, 1, 2, "b")
	require.NoError(t, err)
	assert.False(t, ok)

	// 其他 (user, event) 不受影响
	ok, err = lock.Acquire(ctx, 1, 3, "b")
	require.NoError(t, err)
	assert.True(t, ok)

	// 非持有者释放无效
	require.NoError(t, lock.Release(ctx, 1, 2, "b"))
	assert.True(t, mr.Exists(lockKey(1, 2)))

	require.NoError(t, lock.Release(ctx, 1, 2, "a"))
	assert.False(t, mr.Exists(lockKey(1, 2)))

	ok, err = lock.Acquire(ctx, 1, 2, "c")
	require.NoError(t, err)
	assert.True(t, ok)
}
