package model

import "fmt"

type ApplicationStatus string

const (
	StatusPending  ApplicationStatus = "PENDING"
	StatusApproved ApplicationStatus = "APPROVED"
	StatusRejected ApplicationStatus = "REJECTED"
)

func (s ApplicationStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// VolunteerApplication 唯一 (user_id, event_id)，同一用户对同一活动最多一条
type VolunteerApplication struct {
	ID         uint64            `gorm:"primaryKey"`
	UserID     uint64            `gorm:"not null;index;uniqueIndex:uk_application_user_event"`
	EventID    uint64            `gorm:"not null;index;uniqueIndex:uk_application_user_event"`
	Motivation string            `gorm:"type:text;not null"`
	Status     ApplicationStatus `gorm:"size:16;not null;default:'PENDING'"`
	Timestamps

	User  *User  `gorm:"foreignKey:UserID"`
	Event *Event `gorm:"foreignKey:EventID"`
}

func (VolunteerApplication) TableName() string {
	return "volunteer_applications"
}

func (a VolunteerApplication) String() string {
	return fmt.Sprintf("%d -> %d", a.UserID, a.EventID)
}
