package service

import (
	"context"
	"testing"
	"time"

	"Volunteer_Service/internal/model"
	"Volunteer_Service/internal/pkg"
	"Volunteer_Service/internal/testutil"

	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserService(t *testing.T) (*UserService, Deps, *model.User) {
	t.Helper()
	db := testutil.NewDB(t)
	_, rdb := testutil.NewRedis(t)
	deps, _ := testDeps(t)
	issuer := pkg.NewTokenIssuer("access", "refresh", time.Minute, time.Hour)
	u := testutil.CreateUser(t, db)
	return NewUserService(db, rdb, issuer, deps), deps, u
}

func TestUserService_LoginAuthenticateLogout(t *testing.T) {
	svc, deps, u := newUserService(t)
	ctx := context.Background()

	_, err := svc.Login(ctx, u.Username, "wrong")
	assert.ErrorIs(t, err, pkg.ErrUnauthenticated)
	_, err = svc.Login(ctx, "nobody", testutil.Password)
	assert.ErrorIs(t, err, pkg.ErrUnauthenticated)
	assert.Equal(t, 2.0, promtest.ToFloat64(deps.Metrics.FailedLogins))

	pair, err := svc.Login(ctx, u.Email, testutil.Password)
	require.NoError(t, err)

	got, err := svc.Authenticate(ctx, pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	// 重新登录后旧 token 失效
	pair2, err := svc.Login(ctx, u.Username, testutil.Password)
	require.NoError(t, err)
	_, err = svc.Authenticate(ctx, pair.AccessToken)
	assert.ErrorIs(t, err, pkg.ErrUnauthenticated)

	require.NoError(t, svc.Logout(ctx, u.ID))
	_, err = svc.Authenticate(ctx, pair2.AccessToken)
	assert.ErrorIs(t, err, pkg.ErrUnauthenticated)
}

func TestUserService_Refresh(t *testing.T) {
	svc, _, u := newUserService(t)
	ctx := context.Background()

	pair, err := svc.Login(ctx, u.Username, testutil.Password)
	require.NoError(t, err)

	next, err := svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)

	got, err := svc.Authenticate(ctx, next.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = svc.Refresh(ctx, "garbage")
	assert.ErrorIs(t, err, pkg.ErrUnauthenticated)

	_, err = svc.Authenticate(ctx, "garbage")
	assert.ErrorIs(t, err, pkg.ErrUnauthenticated)
}
