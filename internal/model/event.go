package model

import "time"

type Event struct {
	ID          uint64    `gorm:"primaryKey"`
	Title       string    `gorm:"size:255;not null"`
	Description string    `gorm:"type:text;not null"`
	Location    string    `gorm:"size:255;not null;index"`
	StartsAt    time.Time `gorm:"not null;index"`
	EndsAt      time.Time `gorm:"not null"`
	Timestamps
}

func (e Event) String() string {
	return e.Title
}

// EventWithLikes 列表/详情读模型，附带点赞数
type EventWithLikes struct {
	Event
	LikesCount int64 `gorm:"column:likes_count"`
}
