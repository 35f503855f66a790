package handler

import (
	"net/http"
	"time"

	"Volunteer_Service/internal/middleware"
	"Volunteer_Service/internal/model"
	"Volunteer_Service/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type EventHandler struct {
	svc *service.EventService
	log *zap.Logger
}

func NewEventHandler(svc *service.EventService, log *zap.Logger) *EventHandler {
	return &EventHandler{svc: svc, log: log}
}

type eventView struct {
	ID          uint64    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	StartsAt    time.Time `json:"starts_at"`
	EndsAt      time.Time `json:"ends_at"`
	LikesCount  int64     `json:"likes_count"`
	Liked       bool      `json:"liked"`
	URL         string    `json:"url"`
}

func newEventView(e model.EventWithLikes, liked bool) eventView {
	return eventView{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		Location:    e.Location,
		StartsAt:    e.StartsAt,
		EndsAt:      e.EndsAt,
		LikesCount:  e.LikesCount,
		Liked:       liked,
		URL:         eventURL(e.ID),
	}
}

type applicationView struct {
	ID         uint64                  `json:"id"`
	EventID    uint64                  `json:"event_id"`
	EventTitle string                  `json:"event_title,omitempty"`
	Status     model.ApplicationStatus `json:"status"`
	Motivation string                  `json:"motivation"`
	CreatedAt  time.Time               `json:"created_at"`
}

func newApplicationView(a *model.VolunteerApplication) *applicationView {
	if a == nil {
		return nil
	}
	v := &applicationView{
		ID:         a.ID,
		EventID:    a.EventID,
		Status:     a.Status,
		Motivation: a.Motivation,
		CreatedAt:  a.CreatedAt,
	}
	if a.Event != nil {
		v.EventTitle = a.Event.Title
	}
	return v
}

// List GET / ?q=&location=&sort=
func (h *EventHandler) List(c *gin.Context) {
	var q service.EventQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	res, err := h.svc.List(c.Request.Context(), middleware.CurrentUserID(c), q)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	events := make([]eventView, 0, len(res.Events))
	for _, e := range res.Events {
		events = append(events, newEventView(e, res.IsLiked(e.ID)))
	}
	c.JSON(http.StatusOK, gin.H{
		"events":   events,
		"q":        res.Query.Q,
		"location": res.Query.Location,
		"sort":     res.Query.Sort,
	})
}

// Detail GET /events/:id/
func (h *EventHandler) Detail(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	d, err := h.svc.Detail(c.Request.Context(), middleware.CurrentUserID(c), id)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"event":       newEventView(d.Event, d.Liked),
		"application": newApplicationView(d.Application),
	})
}
