// Package app 把存储、服务和 HTTP 层装配成一个 gin.Engine。
package app

import (
	"time"

	"Volunteer_Service/internal/export"
	"Volunteer_Service/internal/handler"
	"Volunteer_Service/internal/pkg"
	"Volunteer_Service/internal/repository/mysql"
	"Volunteer_Service/internal/router"
	"Volunteer_Service/internal/service"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Options struct {
	DB        *gorm.DB
	Redis     *goredis.Client
	Log       *zap.Logger
	Metrics   *pkg.Metrics
	Publisher service.ActivityPublisher
	Issuer    *pkg.TokenIssuer

	ExportLocale   string
	ExportLocation *time.Location
	AdminRowLimit  int
}

func NewEngine(o Options) *gin.Engine {
	if o.Log == nil {
		o.Log = zap.NewNop()
	}
	if o.Metrics == nil {
		o.Metrics = pkg.NewMetrics()
	}
	deps := service.Deps{Log: o.Log, Metrics: o.Metrics, Publisher: o.Publisher}

	users := service.NewUserService(o.DB, o.Redis, o.Issuer, deps)
	events := service.NewEventService(o.DB, o.Redis, deps)
	apps := service.NewApplicationService(o.DB, deps)
	likes := service.NewLikeService(o.DB, o.Redis, deps)

	records := service.NewExportService(export.Records(o.DB), deps)
	admin := service.NewExportService(export.Admin(o.DB, &mysql.PermissionRepository{DB: o.DB}, export.AdminOptions{
		Locale:   o.ExportLocale,
		Location: o.ExportLocation,
		RowLimit: o.AdminRowLimit,
	}), deps)

	return router.InitRouter(o.Log, o.Metrics, users, router.Handlers{
		User:          handler.NewUserHandler(users, o.Log),
		Event:         handler.NewEventHandler(events, o.Log),
		Application:   handler.NewApplicationHandler(apps, o.Log),
		Like:          handler.NewLikeHandler(likes, o.Log),
		RecordsExport: handler.NewExportHandler(records, o.Log),
		AdminExport:   handler.NewExportHandler(admin, o.Log),
	})
}
