package service

import (
	"context"
	"fmt"
	"strings"

	"Volunteer_Service/internal/model"
	"Volunteer_Service/internal/repository/mysql"
	"Volunteer_Service/internal/repository/redis"

	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// EventQuery 列表查询参数，对应 ?q=&location=&sort=
type EventQuery struct {
	Q        string `form:"q"`
	Location string `form:"location"`
	Sort     string `form:"sort"`
}

type EventListResult struct {
	Events        []model.EventWithLikes
	LikedEventIDs map[uint64]struct{}
	Query         EventQuery
}

func (r *EventListResult) IsLiked(eventID uint64) bool {
	_, ok := r.LikedEventIDs[eventID]
	return ok
}

type EventDetail struct {
	Event       model.EventWithLikes
	Liked       bool
	Application *model.VolunteerApplication
}

type EventService struct {
	events *mysql.EventRepository
	apps   *mysql.ApplicationRepository
	liked  *likedSet
	deps   Deps
}

func NewEventService(db *gorm.DB, rdb *goredis.Client, deps Deps) *EventService {
	deps = deps.withDefaults()
	s := &EventService{
		events: &mysql.EventRepository{DB: db},
		apps:   &mysql.ApplicationRepository{DB: db},
		deps:   deps,
	}
	ls := &likedSet{repo: &mysql.LikeRepository{DB: db}, log: deps.Log}
	if rdb != nil {
		ls.cache = redis.NewLikeCacheRepository(rdb)
	}
	s.liked = ls
	return s
}

// List 过滤、排序并附带点赞数；viewerID 为 0 时 LikedEventIDs 为空
func (s *EventService) List(ctx context.Context, viewerID uint64, q EventQuery) (*EventListResult, error) {
	const op = "service.EventService.List"

	q = EventQuery{
		Q:        strings.TrimSpace(q.Q),
		Location: strings.TrimSpace(q.Location),
		Sort:     strings.TrimSpace(q.Sort),
	}

	events, err := s.events.List(ctx, mysql.EventFilter{Q: q.Q, Location: q.Location, Sort: q.Sort})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	liked, err := s.liked.IDs(ctx, viewerID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &EventListResult{Events: events, LikedEventIDs: liked, Query: q}, nil
}

func (s *EventService) Detail(ctx context.Context, viewerID, eventID uint64) (*EventDetail, error) {
	const op = "service.EventService.Detail"

	ev, err := s.events.FindWithLikes(ctx, eventID)
	if err != nil {
		return nil, notFound(op, err, ErrEventNotFound)
	}

	d := &EventDetail{Event: *ev}
	if viewerID == 0 {
		return d, nil
	}

	if d.Liked, err = s.liked.Has(ctx, viewerID, eventID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if d.Application, err = s.apps.FindByUserEvent(ctx, viewerID, eventID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return d, nil
}
