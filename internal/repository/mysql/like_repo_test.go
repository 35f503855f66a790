package mysql

import (
	"context"
	"sync"
	"testing"
	"time"

	"Volunteer_Service/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLikeRepository_Toggle(t *testing.T) {
	db := testutil.NewDB(t)
	repo := &LikeRepository{DB: db}
	ctx := context.Background()

	u := testutil.CreateUser(t, db)
	e := testutil.CreateEvent(t, db, time.Now())

	liked, err := repo.Toggle(ctx, u.ID, e.ID)
	require.NoError(t, err)
	assert.True(t, liked)

	n, err := repo.CountByEvent(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	ok, err := repo.IsLiked(ctx, u.ID, e.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	liked, err = repo.Toggle(ctx, u.ID, e.ID)
	require.NoError(t, err)
	assert.False(t, liked)

	n, err = repo.CountByEvent(ctx, e.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestLikeRepository_ToggleConcurrentNeverDuplicates(t *testing.T) {
	db := testutil.NewDB(t)
	repo := &LikeRepository{DB: db}
	ctx := context.Background()

	u := testutil.CreateUser(t, db)
	e := testutil.CreateEvent(t, db, time.Now())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = repo.Toggle(ctx, u.ID, e.ID)
		}()
	}
	wg.Wait()

	n, err := repo.CountByEvent(ctx, e.ID)
	require.NoError(t, err)
	assert.LessOrEqual(t, n, int64(1))
}

func TestLikeRepository_ConcurrentFirstLikesFromDifferentUsers(t *testing.T) {
	db := testutil.NewDB(t)
	repo := &LikeRepository{DB: db}
	ctx := context.Background()

	e := testutil.CreateEvent(t, db, time.Now())
	users := make([]uint64, 6)
	for i := range users {
		users[i] = testutil.CreateUser(t, db).ID
	}

	errs := make([]error, len(users))
	results := make([]bool, len(users))
	var wg sync.WaitGroup
	for i, uid := range users {
		i, uid := i, uid
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], errs[i] = repo.Toggle(ctx, uid, e.ID)
		}()
	}
	wg.Wait()

	for i := range users {
		require.NoError(t, errs[i])
		assert.True(t, results[i])
	}
	n, err := repo.CountByEvent(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(len(users)), n)
}

func TestLikeRepository_ToggleKeepsOtherUsersLikes(t *testing.T) {
	db := testutil.NewDB(t)
	repo := &LikeRepository{DB: db}
	ctx := context.Background()

	u := testutil.CreateUser(t, db)
	other := testutil.CreateUser(t, db)
	e := testutil.CreateEvent(t, db, time.Now())
	testutil.Like(t, db, other.ID, e.ID)
	testutil.Like(t, db, u.ID, e.ID)

	liked, err := repo.Toggle(ctx, u.ID, e.ID)
	require.NoError(t, err)
	assert.False(t, liked)

	ok, err := repo.IsLiked(ctx, other.ID, e.ID)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLikeRepository_LikedEventIDsAndList(t *testing.T) {
	db := testutil.NewDB(t)
	repo := &LikeRepository{DB: db}
	ctx := context.Background()

	u := testutil.CreateUser(t, db)
	other := testutil.CreateUser(t, db)
	e1 := testutil.CreateEvent(t, db, time.Now())
	e2 := testutil.CreateEvent(t, db, time.Now())
	testutil.Like(t, db, u.ID, e1.ID)
	testutil.Like(t, db, u.ID, e2.ID)
	testutil.Like(t, db, other.ID, e1.ID)

	got, err := repo.LikedEventIDs(ctx, u.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint64{e1.ID, e2.ID}, got)

	list, err := repo.ListByUser(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	for _, l := range list {
		require.NotNil(t, l.Event)
		assert.Equal(t, u.ID, l.UserID)
	}
}
