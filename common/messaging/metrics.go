package messaging

import (
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	handledTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "campus",
		Subsystem: "mq",
		Name:      "handled_total",
		Help:      "Messages handled by router handlers.",
	}, []string{"handler", "result"})

	handleDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "campus",
		Subsystem: "mq",
		Name:      "handle_duration_seconds",
		Help:      "Router handler latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"handler"})
)

// metricsMiddleware 记录每个处理器的消息数与耗时
func metricsMiddleware(h message.HandlerFunc) message.HandlerFunc {
	return func(msg *message.Message) ([]*message.Message, error) {
		name := message.HandlerNameFromCtx(msg.Context())
		start := time.Now()

		produced, err := h(msg)

		result := "success"
		if err != nil {
			result = "error"
		}
		handledTotal.WithLabelValues(name, result).Inc()
		handleDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
		return produced, err
	}
}
