package model

// Like 唯一 (user_id, event_id)：点赞是开关而不是计数
type Like struct {
	ID      uint64 `gorm:"primaryKey;autoIncrement"`
	UserID  uint64 `gorm:"not null;index;uniqueIndex:uk_like_user_event"`
	EventID uint64 `gorm:"not null;index;uniqueIndex:uk_like_user_event"`
	Timestamps

	User  *User  `gorm:"foreignKey:UserID"`
	Event *Event `gorm:"foreignKey:EventID"`
}

func (Like) TableName() string {
	return "likes"
}

// All 需要建表的模型
func All() []any {
	return []any{
		&User{},
		&UserPermission{},
		&Event{},
		&VolunteerApplication{},
		&Like{},
	}
}
