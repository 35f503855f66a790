package handler

import (
	"net/http"
	"time"

	"Volunteer_Service/internal/middleware"
	"Volunteer_Service/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type LikeHandler struct {
	svc *service.LikeService
	log *zap.Logger
}

func NewLikeHandler(svc *service.LikeService, log *zap.Logger) *LikeHandler {
	return &LikeHandler{svc: svc, log: log}
}

// Toggle POST /events/:id/like/，完成后回到来源页
func (h *LikeHandler) Toggle(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	res, err := h.svc.Toggle(c.Request.Context(), middleware.CurrentUserID(c), id)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	respondRedirect(c, sameHostReferer(c, eventURL(id)), gin.H{
		"liked":       res.Liked,
		"likes_count": res.LikesCount,
		"changed":     res.Changed,
	})
}

// ToggleGet GET /events/:id/like/ 不改状态，直接回详情
func (h *LikeHandler) ToggleGet(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	respondRedirect(c, eventURL(id), nil)
}

type likeView struct {
	ID         uint64    `json:"id"`
	EventID    uint64    `json:"event_id"`
	EventTitle string    `json:"event_title,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Mine GET /me/likes/
func (h *LikeHandler) Mine(c *gin.Context) {
	list, err := h.svc.ListMine(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	out := make([]likeView, 0, len(list))
	for _, l := range list {
		v := likeView{ID: l.ID, EventID: l.EventID, CreatedAt: l.CreatedAt}
		if l.Event != nil {
			v.EventTitle = l.Event.Title
		}
		out = append(out, v)
	}
	c.JSON(http.StatusOK, gin.H{"likes": out})
}
