// Package metrics holds the service's prometheus collectors. All of them
// register with the default registry and are served on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mr1hm/go-impact-risk/internal/models"
)

var (
	AssessmentsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "impact_assessments_total",
		Help: "Impact assessments computed, by severity level",
	}, []string{"severity"})

	AssessmentErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "impact_assessment_errors_total",
		Help: "Rejected impact assessments, by error kind",
	}, []string{"kind"})

	MitigationEvaluationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "impact_mitigation_evaluations_total",
		Help: "Mitigation feasibility evaluations",
	})

	SavedResultsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "impact_saved_results_total",
		Help: "Assessment results persisted",
	})

	TimelineCountdownSeconds = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "impact_timeline_countdown_seconds",
		Help: "Seconds remaining on the impact countdown",
	})

	TimelineRouteProgress = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "impact_timeline_route_progress_pct",
		Help: "Evacuation route computation progress",
	})

	StreamSubscribers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "impact_timeline_stream_subscribers",
		Help: "Clients attached to the timeline stream",
	})

	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "impact_http_requests_total",
		Help: "HTTP requests by route and status",
	}, []string{"method", "route", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "impact_http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
	}, []string{"method", "route"})
)

// Middleware records request counts and latency keyed by the matched route
// template, so path parameters do not blow up label cardinality.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		httpRequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}

// TimelineRecorder mirrors timeline snapshots into gauges.
type TimelineRecorder struct{}

func (TimelineRecorder) Publish(st models.TimelineState) {
	TimelineCountdownSeconds.Set(float64(st.CountdownSeconds))
	TimelineRouteProgress.Set(float64(st.RouteProgressPct))
}
