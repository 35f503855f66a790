package handler

import (
	"fmt"
	"net/http"

	"Volunteer_Service/internal/middleware"
	"Volunteer_Service/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ExportHandler 每个导出策略一个实例
type ExportHandler struct {
	svc *service.ExportService
	log *zap.Logger
}

func NewExportHandler(svc *service.ExportService, log *zap.Logger) *ExportHandler {
	return &ExportHandler{svc: svc, log: log}
}

// ExportReq model 为目录中的表，fields 可重复
type ExportReq struct {
	Model  string   `form:"model" json:"model"`
	Fields []string `form:"fields" json:"fields"`
}

// Form GET 返回可导出的表和列
func (h *ExportHandler) Form(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"tables": h.svc.Tables()})
}

// Download POST 生成并下载 XLSX
func (h *ExportHandler) Download(c *gin.Context) {
	var req ExportReq
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	f, err := h.svc.Build(c.Request.Context(), middleware.CurrentUser(c), req.Model, req.Fields)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, f.FileName))
	c.Data(http.StatusOK, f.ContentType, f.Content)
}
