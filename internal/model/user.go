package model

import "time"

type User struct {
	ID          uint64    `gorm:"primaryKey"`
	Email       string    `gorm:"uniqueIndex;size:254;not null"`
	Username    string    `gorm:"uniqueIndex;size:150;not null"`
	Password    string    `gorm:"size:255;not null"`
	IsStaff     bool      `gorm:"not null"`
	IsSuperuser bool      `gorm:"not null"`
	IsActive    bool      `gorm:"not null"`
	DateJoined  time.Time `gorm:"autoCreateTime"`
}

func (u User) String() string {
	return u.Email
}

// CanManage 员工或超级管理员
func (u *User) CanManage() bool {
	return u != nil && u.IsActive && (u.IsStaff || u.IsSuperuser)
}

// UserPermission 按模型授予的查看权限，例如 core.view_event
type UserPermission struct {
	ID       uint64 `gorm:"primaryKey"`
	UserID   uint64 `gorm:"not null;uniqueIndex:uk_user_codename"`
	Codename string `gorm:"size:100;not null;uniqueIndex:uk_user_codename"`
}

func (UserPermission) TableName() string {
	return "user_permissions"
}
