package handler

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"Volunteer_Service/internal/middleware"
	"Volunteer_Service/internal/pkg"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// writeError 错误种类到状态码的唯一映射
func writeError(c *gin.Context, log *zap.Logger, err error) {
	var ve *pkg.ValidationError
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{"msg": ve.Msg, "errors": ve.Fields})
	case errors.Is(err, pkg.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"msg": message(err, pkg.ErrInvalidInput)})
	case errors.Is(err, pkg.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"msg": message(err, pkg.ErrUnauthenticated), "login_url": middleware.LoginURL})
	case errors.Is(err, pkg.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"msg": message(err, pkg.ErrForbidden)})
	case errors.Is(err, pkg.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"msg": err.Error()})
	case errors.Is(err, pkg.ErrDuplicate):
		c.JSON(http.StatusConflict, gin.H{"msg": message(err, pkg.ErrDuplicate)})
	default:
		log.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "internal server error"})
	}
}

// message 去掉末尾的种类后缀，只留给人看的部分
func message(err, kind error) string {
	msg := strings.TrimSuffix(err.Error(), ": "+kind.Error())
	if msg == "" {
		return kind.Error()
	}
	return msg
}

func wantsJSON(c *gin.Context) bool {
	return strings.Contains(c.GetHeader("Accept"), "application/json")
}

// respondRedirect 浏览器 303 跳转；JSON 客户端拿到 200 和 redirect 字段
func respondRedirect(c *gin.Context, location string, body gin.H) {
	if wantsJSON(c) {
		if body == nil {
			body = gin.H{}
		}
		body["redirect"] = location
		c.JSON(http.StatusOK, body)
		return
	}
	c.Redirect(http.StatusSeeOther, location)
}

// sameHostReferer 只接受站内来源，否则用 fallback
func sameHostReferer(c *gin.Context, fallback string) string {
	ref := c.GetHeader("Referer")
	if ref == "" {
		return fallback
	}
	u, err := url.Parse(ref)
	if err != nil || (u.Host != "" && u.Host != c.Request.Host) {
		return fallback
	}
	if u.Scheme != "" && u.Scheme != "http" && u.Scheme != "https" {
		return fallback
	}
	// "//host" 和 "/\host" 会被浏览器当成协议相对地址
	if strings.HasPrefix(u.Path, "//") || strings.HasPrefix(u.Path, "/\\") {
		return fallback
	}
	uri := u.RequestURI()
	if !strings.HasPrefix(uri, "/") {
		return fallback
	}
	return uri
}

func parseID(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusNotFound, gin.H{"msg": "not found"})
		return 0, false
	}
	return id, true
}

func eventURL(id uint64) string {
	return "/events/" + strconv.FormatUint(id, 10) + "/"
}
