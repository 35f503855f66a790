package mysql

import (
	"context"
	"errors"

	"Volunteer_Service/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LikeRepository struct {
	DB *gorm.DB
}

// Toggle 有则删、无则建，返回切换后的状态。
// 非锁定读查现状，再按主键删除或幂等插入，每步都是单语句，不开事务。
func (r *LikeRepository) Toggle(ctx context.Context, userID, eventID uint64) (bool, error) {
	db := r.DB.WithContext(ctx)

	var existing model.Like
	err := db.Select("id").
		Where("user_id = ? AND event_id = ?", userID, eventID).
		Take(&existing).Error
	switch {
	case err == nil:
		// 并发下别的请求可能已删掉，结果同样是未点赞
		if err := db.Delete(&model.Like{}, existing.ID).Error; err != nil {
			return false, err
		}
		return false, nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return false, err
	}

	// 撞上唯一索引说明另一请求已点赞，结果同样是 liked
	err = db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model.Like{UserID: userID, EventID: eventID}).Error
	if err != nil && !errors.Is(err, gorm.ErrDuplicatedKey) {
		return false, err
	}
	return true, nil
}

func (r *LikeRepository) IsLiked(ctx context.Context, userID, eventID uint64) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).
		Model(&model.Like{}).
		Where("user_id = ? AND event_id = ?", userID, eventID).
		Count(&count).Error
	return count > 0, err
}

// CountByEvent 以 likes 表为准的点赞数
func (r *LikeRepository) CountByEvent(ctx context.Context, eventID uint64) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).
		Model(&model.Like{}).
		Where("event_id = ?", eventID).
		Count(&count).Error
	return count, err
}

// LikedEventIDs 用户点过赞的活动 ID
func (r *LikeRepository) LikedEventIDs(ctx context.Context, userID uint64) ([]uint64, error) {
	var ids []uint64
	err := r.DB.WithContext(ctx).
		Model(&model.Like{}).
		Where("user_id = ?", userID).
		Pluck("event_id", &ids).Error
	return ids, err
}

func (r *LikeRepository) ListByUser(ctx context.Context, userID uint64) ([]model.Like, error) {
	var list []model.Like
	err := r.DB.WithContext(ctx).
		Preload("Event").
		Where("user_id = ?", userID).
		Order("created_at DESC").Order("id DESC").
		Find(&list).Error
	return list, err
}
