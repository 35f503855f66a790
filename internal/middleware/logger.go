package middleware

import (
	"net/http"
	"runtime/debug"
	"strconv"
	"time"

	"Volunteer_Service/internal/pkg"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Logger 每个请求一行日志
func Logger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if uid := CurrentUserID(c); uid != 0 {
			fields = append(fields, zap.Uint64("user_id", uid))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		switch {
		case c.Writer.Status() >= http.StatusInternalServerError:
			log.Error("request", fields...)
		case c.Writer.Status() >= http.StatusBadRequest:
			log.Warn("request", fields...)
		default:
			log.Info("request", fields...)
		}
	}
}

// Metrics 按路由模板计数，未匹配的路由记为 unmatched
func Metrics(m *pkg.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.HTTPRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
	}
}

// Recovery 记录 panic 并返回 500
func Recovery(log *zap.Logger, m *pkg.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				m.PanicsRecovered.Inc()
				log.Error("recovered from panic",
					zap.Any("panic", r),
					zap.String("stack", string(debug.Stack())),
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"msg": "internal server error"})
			}
		}()
		c.Next()
	}
}
