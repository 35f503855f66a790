package pkg

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics 每个实例独立 registry，测试里可以随意新建
type Metrics struct {
	Registry *prometheus.Registry

	HTTPRequests        *prometheus.CounterVec
	PanicsRecovered     prometheus.Counter
	ApplicationsCreated prometheus.Counter
	LikeToggles         *prometheus.CounterVec
	ExportsBuilt        *prometheus.CounterVec
	FailedLogins        prometheus.Counter
}

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		Registry: reg,
		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests by route and status.",
		}, []string{"method", "route", "status"}),
		PanicsRecovered: f.NewCounter(prometheus.CounterOpts{
			Name: "http_req_panics_recovered_total",
			Help: "Total number of HTTP requests recovered from internal panic.",
		}),
		ApplicationsCreated: f.NewCounter(prometheus.CounterOpts{
			Name: "volunteer_applications_created_total",
			Help: "Total number of volunteer applications created.",
		}),
		LikeToggles: f.NewCounterVec(prometheus.CounterOpts{
			Name: "event_like_toggles_total",
			Help: "Total number of like toggles by resulting state.",
		}, []string{"result"}),
		ExportsBuilt: f.NewCounterVec(prometheus.CounterOpts{
			Name: "xlsx_exports_total",
			Help: "Total number of XLSX exports built by policy and table.",
		}, []string{"policy", "table"}),
		FailedLogins: f.NewCounter(prometheus.CounterOpts{
			Name: "failed_login_attempts_total",
			Help: "Total number of failed login attempts.",
		}),
	}
}
