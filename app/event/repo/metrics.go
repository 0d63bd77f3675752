package repo

import (
	"strconv"
	"time"

	"campus-connect/common/errorx"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	opTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "campus",
		Subsystem: "event_repo",
		Name:      "ops_total",
		Help:      "Event repository operations by result code.",
	}, []string{"op", "code"})

	opDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "campus",
		Subsystem: "event_repo",
		Name:      "op_duration_seconds",
		Help:      "Event repository operation latency.",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
	}, []string{"op"})
)

// observe 记录一次操作；code=0 为成功
func observe(op string, start time.Time, err error) {
	opTotal.WithLabelValues(op, strconv.Itoa(errorx.CodeOf(err))).Inc()
	opDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}
