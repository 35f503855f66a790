// Package testutil 提供测试用的 SQLite 内存库和 miniredis。
package testutil

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"Volunteer_Service/internal/model"

	"github.com/alicebob/miniredis/v2"
	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB 每个测试独立的内存库，已建表
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(model.All()...))
	return db
}

// NewRedis 返回 miniredis 及连上它的客户端
func NewRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

const Password = "secret123"

// CreateUser 随机用户，密码固定为 Password
func CreateUser(t *testing.T, db *gorm.DB, mutate ...func(*model.User)) *model.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(Password), bcrypt.MinCost)
	require.NoError(t, err)

	u := &model.User{
		Email:    strings.ToLower(gofakeit.Email()),
		Username: gofakeit.Username() + uuid.NewString()[:8],
		Password: string(hash),
		IsActive: true,
	}
	for _, m := range mutate {
		m(u)
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

// Staff 设置为工作人员
func Staff(u *model.User) { u.IsStaff = true }

// Superuser 设置为超级管理员
func Superuser(u *model.User) {
	u.IsStaff = true
	u.IsSuperuser = true
}

// CreateEvent 随机活动，starts 为开始时间
func CreateEvent(t *testing.T, db *gorm.DB, starts time.Time, mutate ...func(*model.Event)) *model.Event {
	t.Helper()

	e := &model.Event{
		Title:       gofakeit.Sentence(3),
		Description: gofakeit.Paragraph(1, 2, 8, " "),
		Location:    gofakeit.City(),
		StartsAt:    starts.UTC(),
		EndsAt:      starts.UTC().Add(2 * time.Hour),
	}
	for _, m := range mutate {
		m(e)
	}
	require.NoError(t, db.Create(e).Error)
	return e
}

// Like 直接写入点赞记录
func Like(t *testing.T, db *gorm.DB, userID, eventID uint64) {
	t.Helper()
	require.NoError(t, db.Create(&model.Like{UserID: userID, EventID: eventID}).Error)
}

// CountApplications (user, event) 的报名条数
func CountApplications(t *testing.T, db *gorm.DB, userID, eventID uint64) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&model.VolunteerApplication{}).
		Where("user_id = ? AND event_id = ?", userID, eventID).
		Count(&n).Error)
	return n
}
