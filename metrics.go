package adminapi

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"go.cachewatch.io/adminapi/graphql"
)

// MetricsMiddleware records request counts and latencies for every
// executed operation into the given registerer.
func MetricsMiddleware(reg prometheus.Registerer) MiddlewareFunc {
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "graphql_requests_total",
		Help: "Number of executed graphql operations.",
	}, []string{"kind", "status"})

	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "graphql_request_duration_seconds",
		Help:    "Execution latency of graphql operations.",
		Buckets: prometheus.DefBuckets,
	}, []string{"kind"})

	reg.MustRegister(requests, duration)

	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, root graphql.Type, query *graphql.Query) (interface{}, error) {
			start := time.Now()
			output, err := next(ctx, root, query)

			status := "ok"
			if err != nil {
				status = "error"
			}
			requests.WithLabelValues(query.Kind, status).Inc()
			duration.WithLabelValues(query.Kind).Observe(time.Since(start).Seconds())

			return output, err
		}
	}
}
