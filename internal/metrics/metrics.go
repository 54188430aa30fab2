package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	MessagesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "mugamili_messages_total",
		Help: "Total number of messages posted",
	})
	ModerationFlagsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "mugamili_moderation_flags_total",
		Help: "Total number of moderation flag updates",
	})
	ModerationDeletesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "mugamili_moderation_deletes_total",
		Help: "Total number of messages deleted by moderation",
	})
	WsConnections = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "mugamili_ws_connections",
		Help: "Current number of active room stream subscribers",
	})
	HttpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
	HttpRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})
)

func init() {
	prometheus.MustRegister(
		MessagesTotal,
		ModerationFlagsTotal,
		ModerationDeletesTotal,
		WsConnections,
		HttpRequestsTotal,
		HttpRequestDuration,
	)
}

// GinMiddleware 统计基础请求指标，供 Prometheus 拉取。
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		status := strconv.Itoa(c.Writer.Status())
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		labels := prometheus.Labels{"method": c.Request.Method, "path": path, "status": status}
		HttpRequestsTotal.With(labels).Inc()
		HttpRequestDuration.With(labels).Observe(time.Since(start).Seconds())
	}
}
