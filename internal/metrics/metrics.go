// Package metrics содержит метрики Prometheus для GraphQL сервера.
package metrics

import (
	"context"
	"time"

	"github.com/99designs/gqlgen/graphql"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "graphql_basics"

var _ interface {
	graphql.HandlerExtension
	graphql.ResponseInterceptor
} = (*Metrics)(nil)

// Metrics расширение handler-а gqlgen: считает операции и время их выполнения.
type Metrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Ответы GraphQL по типу операции и статусу.",
		}, []string{"operation", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Время формирования ответа GraphQL.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
	}
	reg.MustRegister(m.operations, m.duration)
	return m
}

func (m *Metrics) ExtensionName() string {
	return "PrometheusMetrics"
}

func (m *Metrics) Validate(graphql.ExecutableSchema) error {
	return nil
}

func (m *Metrics) InterceptResponse(ctx context.Context, next graphql.ResponseHandler) *graphql.Response {
	start := time.Now()
	resp := next(ctx)
	if resp == nil {
		// конец потока подписки
		return nil
	}

	operation := "unknown"
	if oc := graphql.GetOperationContext(ctx); oc != nil && oc.Operation != nil {
		operation = string(oc.Operation.Operation)
	}

	status := "ok"
	if len(resp.Errors) > 0 {
		status = "error"
	}

	m.operations.WithLabelValues(operation, status).Inc()
	m.duration.WithLabelValues(operation).Observe(time.Since(start).Seconds())

	return resp
}

// Counter умеет сообщать, сколько записей в нем хранится
type Counter interface {
	Count() int
}

// RegisterStoreGauges отдает размер каждой коллекции как graphql_basics_store_records{collection=...}
func RegisterStoreGauges(reg prometheus.Registerer, collections map[string]Counter) {
	for name, c := range collections {
		c := c
		reg.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "store_records",
			Help:        "Количество записей в памяти.",
			ConstLabels: prometheus.Labels{"collection": name},
		}, func() float64 {
			return float64(c.Count())
		}))
	}
}
