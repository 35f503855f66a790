// seed 写入演示数据：管理员、普通用户和两个活动。重复执行不会产生重复记录。
package main

import (
	"context"
	"errors"
	"flag"
	"time"

	"Volunteer_Service/internal/config"
	"Volunteer_Service/internal/model"
	"Volunteer_Service/internal/pkg"
	"Volunteer_Service/internal/repository/mysql"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func main() {
	cfg := config.Load()

	dsn := flag.String("dsn", cfg.MySQL.DSN, "mysql dsn")
	adminPassword := flag.String("admin-password", "admin123", "password for admin@example.com")
	userPassword := flag.String("user-password", "user123", "password for user@example.com")
	flag.Parse()

	logger, err := pkg.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	db, err := mysql.Open(*dsn)
	if err != nil {
		logger.Fatal("failed to connect to mysql", zap.Error(err))
	}
	defer func() { _ = mysql.Close(db) }()

	if err := mysql.AutoMigrate(db); err != nil {
		logger.Fatal("failed to migrate", zap.Error(err))
	}

	if err := seed(context.Background(), db, logger, *adminPassword, *userPassword); err != nil {
		logger.Fatal("seed failed", zap.Error(err))
	}
	logger.Info("seed done")
}

func seed(ctx context.Context, db *gorm.DB, log *zap.Logger, adminPassword, userPassword string) error {
	users := &mysql.UserRepository{DB: db}

	if err := ensureUser(ctx, users, log, &model.User{
		Email: "admin@example.com", Username: "admin",
		IsStaff: true, IsSuperuser: true, IsActive: true,
	}, adminPassword); err != nil {
		return err
	}
	if err := ensureUser(ctx, users, log, &model.User{
		Email: "user@example.com", Username: "user",
		IsActive: true,
	}, userPassword); err != nil {
		return err
	}

	events := &mysql.EventRepository{DB: db}
	n, err := events.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		log.Info("events already present", zap.Int64("count", n))
		return nil
	}

	now := time.Now().UTC()
	demo := []model.Event{
		{
			Title:       "Park cleanup",
			Description: "Help us clean up the city park. Gloves and bags provided.",
			Location:    "Amsterdam",
			StartsAt:    now.Add(7 * 24 * time.Hour),
			EndsAt:      now.Add(7*24*time.Hour + 3*time.Hour),
		},
		{
			Title:       "Food bank sorting",
			Description: "Sort and pack food donations for local families.",
			Location:    "Rotterdam",
			StartsAt:    now.Add(14 * 24 * time.Hour),
			EndsAt:      now.Add(14*24*time.Hour + 4*time.Hour),
		},
	}
	for i := range demo {
		if err := events.Create(ctx, &demo[i]); err != nil {
			return err
		}
		log.Info("event created", zap.String("title", demo[i].Title))
	}
	return nil
}

func ensureUser(ctx context.Context, repo *mysql.UserRepository, log *zap.Logger, u *model.User, password string) error {
	_, err := repo.FindByEmail(ctx, u.Email)
	if err == nil {
		log.Info("user exists", zap.String("email", u.Email))
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hash)
	if err := repo.Create(ctx, u); err != nil {
		return err
	}
	log.Info("user created", zap.String("email", u.Email))
	return nil
}
