package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	partnerRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "partner_requests_total",
			Help: "Total number of HTTP requests to partner APIs.",
		},
		[]string{"service", "method", "status"},
	)
	partnerRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "partner_request_duration_seconds",
			Help:    "Histogram of partner API request durations.",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
		},
		[]string{"service", "method", "status"},
	)
	partnerRetriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "partner_retries_total",
			Help: "Total number of retried partner API calls.",
		},
		[]string{"service"},
	)
	outletOpsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "outlet_operations_total",
			Help: "Reconciliation outcomes per operation.",
		},
		[]string{"operation", "result"},
	)
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of served HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Histogram of served HTTP request durations.",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{"method", "path", "status"},
	)
)

func init() {
	prometheus.MustRegister(partnerRequestsTotal)
	prometheus.MustRegister(partnerRequestDuration)
	prometheus.MustRegister(partnerRetriesTotal)
	prometheus.MustRegister(outletOpsTotal)
	prometheus.MustRegister(httpRequestsTotal)
	prometheus.MustRegister(httpRequestDuration)
}

// RecordRequest записывает метрики для запроса к партнёрскому API.
func RecordRequest(service, method string, statusCode int, duration time.Duration) {
	status := classifyStatus(statusCode)
	partnerRequestsTotal.WithLabelValues(service, method, status).Inc()
	partnerRequestDuration.WithLabelValues(service, method, status).Observe(duration.Seconds())
}

// RecordRetry записывает повтор запроса после транзиентной ошибки.
func RecordRetry(service string) {
	partnerRetriesTotal.WithLabelValues(service).Inc()
}

// RecordOutletOp записывает исход операции сверки: create/update/delete,
// result -- ok/failed/skipped.
func RecordOutletOp(operation, result string) {
	outletOpsTotal.WithLabelValues(operation, result).Inc()
}

// RecordHTTPRequest записывает метрики для обслуженного HTTP-запроса.
func RecordHTTPRequest(method, path string, statusCode int, duration time.Duration) {
	status := classifyStatus(statusCode)
	httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	httpRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// classifyStatus классифицирует HTTP-статус код в строку.
func classifyStatus(statusCode int) string {
	if statusCode >= 200 && statusCode < 300 {
		return "2xx"
	} else if statusCode >= 300 && statusCode < 400 {
		return "3xx"
	} else if statusCode >= 400 && statusCode < 500 {
		return "4xx"
	} else if statusCode >= 500 && statusCode < 600 {
		return "5xx"
	}
	return "unknown"
}

// MetricsHandler возвращает HTTP-обработчик для экспорта метрик Prometheus.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
