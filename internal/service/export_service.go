package service

import (
	"context"

	"Volunteer_Service/internal/export"
	"Volunteer_Service/internal/model"

	"go.uber.org/zap"
)

// ExportService 在导出之外记录指标和活动
type ExportService struct {
	exporter *export.Exporter
	deps     Deps
}

func NewExportService(ex *export.Exporter, deps Deps) *ExportService {
	return &ExportService{exporter: ex, deps: deps.withDefaults()}
}

func (s *ExportService) Tables() []export.TableInfo {
	return s.exporter.Tables()
}

func (s *ExportService) Build(ctx context.Context, viewer *model.User, key string, columns []string) (*export.File, error) {
	if viewer == nil {
		return nil, ErrLoginRequired
	}
	f, err := s.exporter.Build(ctx, viewer, key, columns)
	if err != nil {
		return nil, err
	}

	s.deps.Metrics.ExportsBuilt.WithLabelValues(s.exporter.Name(), key).Inc()
	publish(ctx, s.deps.Publisher, s.deps.Log, Activity{
		Type:   ActivityExportBuilt,
		UserID: viewer.ID,
		Data:   map[string]any{"policy": s.exporter.Name(), "table": key, "bytes": len(f.Content)},
	})
	s.deps.Log.Info("export built",
		zap.String("policy", s.exporter.Name()),
		zap.String("table", key),
		zap.Uint64("user_id", viewer.ID),
	)
	return f, nil
}
