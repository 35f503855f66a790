package mysql

import (
	"context"
	"errors"

	"Volunteer_Service/internal/model"

	"gorm.io/gorm"
)

type ApplicationRepository struct {
	DB *gorm.DB
}

// Create 唯一 (user_id, event_id) 冲突时返回 gorm.ErrDuplicatedKey
func (r *ApplicationRepository) Create(ctx context.Context, app *model.VolunteerApplication) error {
	if app.Status == "" {
		app.Status = model.StatusPending
	}
	return r.DB.WithContext(ctx).Create(app).Error
}

// FindByUserEvent 不存在时返回 (nil, nil)
func (r *ApplicationRepository) FindByUserEvent(ctx context.Context, userID, eventID uint64) (*model.VolunteerApplication, error) {
	var app model.VolunteerApplication
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND event_id = ?", userID, eventID).
		First(&app).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &app, nil
}

func (r *ApplicationRepository) FindByID(ctx context.Context, id uint64) (*model.VolunteerApplication, error) {
	var app model.VolunteerApplication
	err := r.DB.WithContext(ctx).First(&app, id).Error
	return &app, err
}

func (r *ApplicationRepository) ListByUser(ctx context.Context, userID uint64) ([]model.VolunteerApplication, error) {
	var list []model.VolunteerApplication
	err := r.DB.WithContext(ctx).
		Preload("Event").
		Where("user_id = ?", userID).
		Order("created_at DESC").Order("id DESC").
		Find(&list).Error
	return list, err
}

// UpdateStatus 只改状态；记录不存在返回 gorm.ErrRecordNotFound
func (r *ApplicationRepository) UpdateStatus(ctx context.Context, id uint64, status model.ApplicationStatus) (*model.VolunteerApplication, error) {
	var app model.VolunteerApplication
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&app, id).Error; err != nil {
			return err
		}
		return tx.Model(&app).Update("status", status).Error
	})
	app.Status = status
	if err != nil {
		return nil, err
	}
	return &app, nil
}
