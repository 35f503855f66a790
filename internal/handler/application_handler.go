package handler

import (
	"errors"
	"net/http"

	"Volunteer_Service/internal/middleware"
	"Volunteer_Service/internal/model"
	"Volunteer_Service/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ApplicationHandler struct {
	svc *service.ApplicationService
	log *zap.Logger
}

func NewApplicationHandler(svc *service.ApplicationService, log *zap.Logger) *ApplicationHandler {
	return &ApplicationHandler{svc: svc, log: log}
}

// ApplyReq 表单或 JSON
type ApplyReq struct {
	Motivation string `form:"motivation" json:"motivation"`
}

type StatusReq struct {
	Status string `form:"status" json:"status" binding:"required"`
}

const msgAlreadyApplied = "You have already applied to this event."

// Form GET /events/:id/apply/
func (h *ApplicationHandler) Form(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	form, err := h.svc.Form(c.Request.Context(), middleware.CurrentUserID(c), id)
	if errors.Is(err, service.ErrDuplicateApplication) {
		respondRedirect(c, eventURL(id), gin.H{"msg": msgAlreadyApplied})
		return
	}
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"event": gin.H{"id": form.Event.ID, "title": form.Event.Title},
		"fields": gin.H{
			"motivation": gin.H{"required": true, "max_length": form.MaxMotivation},
		},
	})
}

// Apply POST /events/:id/apply/
func (h *ApplicationHandler) Apply(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req ApplyReq
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	res, err := h.svc.Apply(c.Request.Context(), middleware.CurrentUserID(c), id, req.Motivation)
	if errors.Is(err, service.ErrDuplicateApplication) {
		respondRedirect(c, eventURL(id), gin.H{"msg": msgAlreadyApplied})
		return
	}
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	respondRedirect(c, eventURL(id), gin.H{
		"msg":         "Application submitted.",
		"application": newApplicationView(res.Application),
	})
}

// Mine GET /me/applications/
func (h *ApplicationHandler) Mine(c *gin.Context) {
	list, err := h.svc.ListMine(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	out := make([]*applicationView, 0, len(list))
	for i := range list {
		out = append(out, newApplicationView(&list[i]))
	}
	c.JSON(http.StatusOK, gin.H{"applications": out})
}

// SetStatus POST /admin-tools/applications/:id/status/
func (h *ApplicationHandler) SetStatus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req StatusReq
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	app, err := h.svc.SetStatus(c.Request.Context(), middleware.CurrentUser(c), id, model.ApplicationStatus(req.Status))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"application": newApplicationView(app)})
}
