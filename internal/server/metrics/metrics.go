// Package metrics содержит Prometheus-метрики сервера.
//
// Метрики регистрируются в реестре по умолчанию при импорте пакета
// и отдаются через promhttp.Handler().
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Причины отказа в доступе на закрытом маршруте.
const (
	ReasonHeaderMissing = "header_missing"
	ReasonHeaderInvalid = "header_invalid"
)

var (
	// HTTP-запросы, route — шаблон маршрута chi, а не сырой путь
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms .. ~4s
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	// отказы на закрытом маршруте
	AuthGateRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_gate_rejections_total",
			Help: "Requests rejected by the authorisation gate",
		},
		[]string{"reason"}, // header_missing, header_invalid
	)

	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
		},
		[]string{"operation", "table"},
	)
)

// RecordHTTPRequest учитывает один обработанный HTTP-запрос.
func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	s := strconv.Itoa(status)
	HTTPRequestDuration.WithLabelValues(method, route, s).Observe(duration.Seconds())
	HTTPRequestsTotal.WithLabelValues(method, route, s).Inc()
}

// IncAuthGateRejection увеличивает счётчик отказов с причиной reason.
func IncAuthGateRejection(reason string) {
	AuthGateRejections.WithLabelValues(reason).Inc()
}

// ObserveDBQuery учитывает длительность запроса к БД, начатого в start.
//
//	defer metrics.ObserveDBQuery("latest", "stocks", time.Now())
func ObserveDBQuery(operation, table string, start time.Time) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
}
