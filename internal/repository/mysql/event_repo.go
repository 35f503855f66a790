package mysql

import (
	"context"
	"strings"

	"Volunteer_Service/internal/model"

	"gorm.io/gorm"
)

const (
	SortStarts     = "starts"
	SortStartsDesc = "-starts"
	SortLikes      = "likes"
)

// EventFilter 列表查询条件，空字段表示不过滤
type EventFilter struct {
	Q        string
	Location string
	Sort     string
}

type EventRepository struct {
	DB *gorm.DB
}

func (r *EventRepository) Create(ctx context.Context, e *model.Event) error {
	return r.DB.WithContext(ctx).Create(e).Error
}

func (r *EventRepository) FindByID(ctx context.Context, id uint64) (*model.Event, error) {
	var e model.Event
	err := r.DB.WithContext(ctx).First(&e, id).Error
	return &e, err
}

func (r *EventRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.Event{}).Count(&n).Error
	return n, err
}

// withLikes events LEFT JOIN likes，按活动聚合点赞数
func (r *EventRepository) withLikes(ctx context.Context) *gorm.DB {
	return r.DB.WithContext(ctx).
		Model(&model.Event{}).
		Select("events.*, COUNT(DISTINCT likes.id) AS likes_count").
		Joins("LEFT JOIN likes ON likes.event_id = events.id").
		Group("events.id")
}

// FindWithLikes 单个活动及点赞数
func (r *EventRepository) FindWithLikes(ctx context.Context, id uint64) (*model.EventWithLikes, error) {
	var list []model.EventWithLikes
	if err := r.withLikes(ctx).Where("events.id = ?", id).Scan(&list).Error; err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &list[0], nil
}

// List 过滤 + 排序 + 点赞数聚合；不分页
func (r *EventRepository) List(ctx context.Context, f EventFilter) ([]model.EventWithLikes, error) {
	q := r.withLikes(ctx)

	if s := strings.TrimSpace(f.Q); s != "" {
		p := likePattern(s)
		q = q.Where("(LOWER(events.title) LIKE ? ESCAPE '!' OR LOWER(events.description) LIKE ? ESCAPE '!')", p, p)
	}
	if s := strings.TrimSpace(f.Location); s != "" {
		q = q.Where("LOWER(events.location) LIKE ? ESCAPE '!'", likePattern(s))
	}

	switch strings.TrimSpace(f.Sort) {
	case SortStarts:
		q = q.Order("events.starts_at ASC")
	case SortStartsDesc:
		q = q.Order("events.starts_at DESC")
	case SortLikes:
		q = q.Order("likes_count DESC").Order("events.starts_at DESC")
	default:
		q = q.Order("events.starts_at DESC")
	}
	q = q.Order("events.id DESC")

	var list []model.EventWithLikes
	err := q.Scan(&list).Error
	return list, err
}

// likePattern 小写后转义 LIKE 通配符，用 ! 作为转义字符（MySQL 与 SQLite 通用）
func likePattern(s string) string {
	r := strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")
	return "%" + r.Replace(strings.ToLower(s)) + "%"
}
