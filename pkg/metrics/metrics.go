package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the service's prometheus instruments.
type Metrics struct {
	Reloads       *prometheus.CounterVec
	StaleReloads  prometheus.Counter
	ActionsTotal  *prometheus.CounterVec
	AlertsFired   prometheus.Counter
	RenderSeconds prometheus.Histogram
}

// New registers and returns the metric set for the given namespace.
func New(namespace string) *Metrics {
	return &Metrics{
		Reloads: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pool_reloads_total",
			Help:      "Full pool reloads by table and outcome",
		}, []string{"table", "outcome"}),
		StaleReloads: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pool_reloads_stale_dropped_total",
			Help:      "Reload responses discarded by generation fencing",
		}),
		ActionsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "actions_total",
			Help:      "Operator actions by identifier and outcome",
		}, []string{"action", "outcome"}),
		AlertsFired: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "severity_alerts_total",
			Help:      "Audible cues fired on upward severity crossings",
		}),
		RenderSeconds: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "render_pass_seconds",
			Help:      "Time spent building board views per render pass",
			Buckets:   prometheus.DefBuckets,
		}),
	}
}
