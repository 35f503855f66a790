package router

import (
	"Volunteer_Service/internal/handler"
	"Volunteer_Service/internal/middleware"
	"Volunteer_Service/internal/pkg"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type Handlers struct {
	User          *handler.UserHandler
	Event         *handler.EventHandler
	Application   *handler.ApplicationHandler
	Like          *handler.LikeHandler
	RecordsExport *handler.ExportHandler
	AdminExport   *handler.ExportHandler
}

func InitRouter(log *zap.Logger, metrics *pkg.Metrics, auth middleware.Authenticator, h Handlers) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Recovery(log, metrics), middleware.Logger(log), middleware.Metrics(metrics))

	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))

	// 用户相关接口
	userGroup := r.Group("/api/user")
	{
		userGroup.POST("/login", h.User.Login)
		userGroup.POST("/logout", middleware.AuthMiddleware(auth), h.User.Logout)
		userGroup.GET("/me", middleware.AuthMiddleware(auth), h.User.Me)
	}

	// token相关接口
	tokenGroup := r.Group("/api/token")
	{
		tokenGroup.POST("/refresh", h.User.TokenRefresh)
	}

	// 活动浏览，匿名可访问
	public := r.Group("/")
	public.Use(middleware.OptionalAuth(auth))
	{
		public.GET("/", h.Event.List)
		public.GET("/events/:id/", h.Event.Detail)
		public.GET("/events/:id/like/", h.Like.ToggleGet)
	}

	// 登录态接口
	authGroup := r.Group("/")
	authGroup.Use(middleware.AuthMiddleware(auth))
	{
		authGroup.GET("/events/:id/apply/", h.Application.Form)
		authGroup.POST("/events/:id/apply/", h.Application.Apply)
		authGroup.POST("/events/:id/like/", h.Like.Toggle)
		authGroup.GET("/me/applications/", h.Application.Mine)
		authGroup.GET("/me/likes/", h.Like.Mine)
	}

	// 工作人员接口
	staffTools := r.Group("/admin-tools")
	staffTools.Use(middleware.AuthMiddleware(auth), middleware.RequireStaff())
	{
		staffTools.GET("/export/", h.RecordsExport.Form)
		staffTools.POST("/export/", h.RecordsExport.Download)
		staffTools.POST("/applications/:id/status/", h.Application.SetStatus)
	}

	adminGroup := r.Group("/admin")
	adminGroup.Use(middleware.AuthMiddleware(auth), middleware.RequireStaff())
	{
		adminGroup.GET("/export-xlsx/", h.AdminExport.Form)
		adminGroup.POST("/export-xlsx/", h.AdminExport.Download)
	}

	return r
}
