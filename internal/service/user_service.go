package service

import (
	"context"
	"errors"
	"fmt"

	"Volunteer_Service/internal/model"
	"Volunteer_Service/internal/pkg"
	"Volunteer_Service/internal/repository/mysql"
	"Volunteer_Service/internal/repository/redis"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserService struct {
	repo   *mysql.UserRepository
	tokens *redis.TokenStore
	issuer *pkg.TokenIssuer
	deps   Deps
}

func NewUserService(db *gorm.DB, rdb *goredis.Client, issuer *pkg.TokenIssuer, deps Deps) *UserService {
	return &UserService{
		repo:   &mysql.UserRepository{DB: db},
		tokens: redis.NewTokenStore(rdb, issuer.AccessTTL),
		issuer: issuer,
		deps:   deps.withDefaults(),
	}
}

// Login 用户名或邮箱 + 密码；access token 写入 Redis，旧的随之失效
func (s *UserService) Login(ctx context.Context, login, password string) (*pkg.Pair, error) {
	const op = "service.UserService.Login"

	user, err := s.repo.FindByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.deps.Metrics.FailedLogins.Inc()
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !user.IsActive || bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		s.deps.Metrics.FailedLogins.Inc()
		return nil, ErrInvalidCredentials
	}

	pair, err := s.issuer.GeneratePair(user.ID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.tokens.Save(ctx, user.ID, pair.AccessToken); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.deps.Log.Info("user logged in", zap.String("op", op), zap.Uint64("user_id", user.ID))
	return pair, nil
}

func (s *UserService) Logout(ctx context.Context, userID uint64) error {
	if err := s.tokens.Delete(ctx, userID); err != nil {
		return fmt.Errorf("service.UserService.Logout: %w", err)
	}
	return nil
}

// Refresh 新的 access token 同样写入 Redis
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (*pkg.Pair, error) {
	const op = "service.UserService.Refresh"

	pair, err := s.issuer.Refresh(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", pkg.ErrUnauthenticated, err)
	}
	claims, err := s.issuer.ParseAccess(pair.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.tokens.Save(ctx, claims.UserID, pair.AccessToken); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return pair, nil
}

// Authenticate 校验 access token 与 Redis 中的一致，并滑动续期
func (s *UserService) Authenticate(ctx context.Context, token string) (*model.User, error) {
	const op = "service.UserService.Authenticate"

	claims, err := s.issuer.ParseAccess(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", pkg.ErrUnauthenticated, err)
	}

	stored, err := s.tokens.Get(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, redis.ErrTokenNotFound) {
			return nil, fmt.Errorf("%w: session expired", pkg.ErrUnauthenticated)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if stored != token {
		return nil, fmt.Errorf("%w: account has been logged in elsewhere", pkg.ErrUnauthenticated)
	}
	if err := s.tokens.Extend(ctx, claims.UserID); err != nil {
		s.deps.Log.Warn("token extend failed", zap.String("op", op), zap.Error(err))
	}

	user, err := s.repo.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user not found", pkg.ErrUnauthenticated)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !user.IsActive {
		return nil, fmt.Errorf("%w: user inactive", pkg.ErrUnauthenticated)
	}
	return user, nil
}
