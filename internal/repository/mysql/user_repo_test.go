package mysql

import (
	"context"
	"testing"

	"Volunteer_Service/internal/model"
	"Volunteer_Service/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_FindByLogin(t *testing.T) {
	db := testutil.NewDB(t)
	repo := &UserRepository{DB: db}
	ctx := context.Background()

	u := &model.User{Email: " Alice@Example.com ", Username: "alice", Password: "x", IsActive: true}
	require.NoError(t, repo.Create(ctx, u))
	assert.Equal(t, "alice@example.com", u.Email)

	got, err := repo.FindByLogin(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	got, err = repo.FindByLogin(ctx, "ALICE@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = repo.FindByLogin(ctx, "bob")
	assert.Error(t, err)
}

func TestPermissionRepository_HasPerm(t *testing.T) {
	db := testutil.NewDB(t)
	repo := &PermissionRepository{DB: db}
	ctx := context.Background()

	staff := testutil.CreateUser(t, db, testutil.Staff)
	root := testutil.CreateUser(t, db, testutil.Superuser)
	inactive := testutil.CreateUser(t, db, testutil.Superuser, func(u *model.User) { u.IsActive = false })

	ok, err := repo.HasPerm(ctx, staff, "core.view_event")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, repo.Grant(ctx, staff.ID, "core.view_event"))
	require.NoError(t, repo.Grant(ctx, staff.ID, "core.view_event"))

	ok, err = repo.HasPerm(ctx, staff, "core.view_event")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.HasPerm(ctx, root, "core.view_like")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.HasPerm(ctx, inactive, "core.view_like")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = repo.HasPerm(ctx, nil, "core.view_like")
	require.NoError(t, err)
	assert.False(t, ok)
}
