package model

import "time"

// Timestamps 公共的创建/更新时间字段，组合进各实体
type Timestamps struct {
	CreatedAt time.Time `gorm:"not null;index"`
	UpdatedAt time.Time `gorm:"not null"`
}
