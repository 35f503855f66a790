package service

import (
	"Volunteer_Service/internal/pkg"

	"go.uber.org/zap"
)

// Deps 服务共享的基础设施
type Deps struct {
	Log       *zap.Logger
	Metrics   *pkg.Metrics
	Publisher ActivityPublisher
}

func (d Deps) withDefaults() Deps {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	if d.Metrics == nil {
		d.Metrics = pkg.NewMetrics()
	}
	if d.Publisher == nil {
		d.Publisher = NewLogActivityPublisher(d.Log)
	}
	return d
}
