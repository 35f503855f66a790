package mysql

import (
	"context"
	"strings"

	"Volunteer_Service/internal/model"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	return r.DB.WithContext(ctx).Create(user).Error
}

// FindByLogin 用户名或邮箱登录
func (r *UserRepository) FindByLogin(ctx context.Context, login string) (*model.User, error) {
	var user model.User
	email := strings.ToLower(strings.TrimSpace(login))
	err := r.DB.WithContext(ctx).Where("username = ? OR email = ?", login, email).First(&user).Error
	return &user, err
}

func (r *UserRepository) FindByID(ctx context.Context, id uint64) (*model.User, error) {
	var user model.User
	err := r.DB.WithContext(ctx).First(&user, id).Error
	return &user, err
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var usr model.User
	err := r.DB.WithContext(ctx).Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&usr).Error
	return &usr, err
}

type PermissionRepository struct {
	DB *gorm.DB
}

// HasPerm 超级管理员拥有全部权限
func (r *PermissionRepository) HasPerm(ctx context.Context, user *model.User, codename string) (bool, error) {
	if user == nil || !user.IsActive {
		return false, nil
	}
	if user.IsSuperuser {
		return true, nil
	}
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.UserPermission{}).
		Where("user_id = ? AND codename = ?", user.ID, codename).
		Count(&n).Error
	return n > 0, err
}

// Grant 幂等授权
func (r *PermissionRepository) Grant(ctx context.Context, userID uint64, codename string) error {
	return r.DB.WithContext(ctx).
		Where(model.UserPermission{UserID: userID, Codename: codename}).
		FirstOrCreate(&model.UserPermission{}).Error
}
