package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/IvanChernomyrdin/go-stocks-api/internal/server/metrics"
)

// unmatchedRoute — метка для запросов, не попавших ни в один маршрут.
const unmatchedRoute = "unmatched"

// Metrics учитывает запросы в Prometheus.
//
// В метку route попадает шаблон маршрута chi (/stocks/{symbol}), чтобы
// число рядов не зависело от тикеров в запросах.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wr := wrap(w)
		next.ServeHTTP(wr, r)

		route := unmatchedRoute
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}

		status := wr.Status
		if status == 0 {
			status = http.StatusOK
		}
		metrics.RecordHTTPRequest(r.Method, route, status, time.Since(start))
	})
}
