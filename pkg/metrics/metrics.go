// Package metrics exposes the application's prometheus instrumentation.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agent_platform_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "agent_platform_http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	// Business metrics
	MessagesCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agent_platform_messages_created_total",
			Help: "Total messages persisted",
		},
		[]string{"sender"},
	)

	VoiceRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agent_platform_voice_requests_total",
			Help: "Total voice pipeline invocations",
		},
		[]string{"outcome"}, // "success" or the failing stage
	)

	VoiceStageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "agent_platform_voice_stage_duration_seconds",
			Help:    "Duration of each voice pipeline stage",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"stage"}, // transcription, completion, synthesis
	)
)

// ObserveVoiceStage records the duration of one pipeline stage.
func ObserveVoiceStage(stage string, start time.Time) {
	VoiceStageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}

// Middleware returns a Gin middleware recording request counts and latency.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		method := c.Request.Method
		HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(c.Writer.Status())).Inc()
		HTTPRequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
	}
}
