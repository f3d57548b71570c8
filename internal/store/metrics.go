package store

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// opTotal counts store operations by operation and result
	opTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "qa_store_operations_total",
		Help: "Total store operations by operation and result",
	}, []string{"operation", "result"})

	// opDuration tracks store operation latency
	opDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "qa_store_operation_duration_seconds",
		Help:    "Store operation duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.0001, 2, 14), // 0.1ms to ~800ms
	}, []string{"operation"})
)

func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrValidation):
		return "invalid"
	case errors.Is(err, ErrClosed):
		return "closed"
	default:
		return "error"
	}
}

// observe records one operation; call it deferred with a pointer to the
// named error result.
func observe(op string, start time.Time, err *error) {
	opDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	opTotal.WithLabelValues(op, resultLabel(*err)).Inc()
}
