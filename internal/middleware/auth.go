package middleware

import (
	"context"
	"net/http"
	"strings"

	"Volunteer_Service/internal/model"

	"github.com/gin-gonic/gin"
)

const (
	ContextUserIDKey = "user_id"
	ContextUserKey   = "user"

	LoginURL = "/api/user/login"
)

// Authenticator service.UserService 满足此接口
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*model.User, error)
}

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func unauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": msg, "login_url": LoginURL})
}

// AuthMiddleware 必须登录
func AuthMiddleware(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			unauthorized(c, "missing or invalid authorization header")
			return
		}
		user, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			unauthorized(c, "invalid or expired token")
			return
		}
		setUser(c, user)
		c.Next()
	}
}

// OptionalAuth 带了有效 token 就注入用户，否则按匿名处理
func OptionalAuth(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := bearerToken(c); ok {
			if user, err := auth.Authenticate(c.Request.Context(), token); err == nil {
				setUser(c, user)
			}
		}
		c.Next()
	}
}

// RequireStaff 放在 AuthMiddleware 之后
func RequireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			unauthorized(c, "authentication required")
			return
		}
		if !user.CanManage() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"msg": "forbidden"})
			return
		}
		c.Next()
	}
}

func setUser(c *gin.Context, user *model.User) {
	c.Set(ContextUserIDKey, user.ID)
	c.Set(ContextUserKey, user)
}

// CurrentUser 匿名时为 nil
func CurrentUser(c *gin.Context) *model.User {
	v, ok := c.Get(ContextUserKey)
	if !ok {
		return nil
	}
	user, _ := v.(*model.User)
	return user
}

// CurrentUserID 匿名时为 0
func CurrentUserID(c *gin.Context) uint64 {
	return c.GetUint64(ContextUserIDKey)
}
