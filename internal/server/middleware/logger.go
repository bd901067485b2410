// Логирование HTTP-запросов
package middleware

import (
	"net/http"
	"time"

	"github.com/IvanChernomyrdin/go-stocks-api/internal/shared/logger"
)

// ResponseWriter запоминает статус и размер ответа.
type ResponseWriter struct {
	http.ResponseWriter
	Status int
	Size   int
}

func (w *ResponseWriter) WriteHeader(status int) {
	w.Status = status
	w.ResponseWriter.WriteHeader(status)
}

func (w *ResponseWriter) Write(b []byte) (int, error) {
	if w.Status == 0 {
		w.Status = http.StatusOK
	}
	size, err := w.ResponseWriter.Write(b)
	w.Size += size
	return size, err
}

// wrap переиспользует уже обёрнутый writer, чтобы цепочка middleware видела один и тот же статус.
func wrap(w http.ResponseWriter) *ResponseWriter {
	if rw, ok := w.(*ResponseWriter); ok {
		return rw
	}
	return &ResponseWriter{ResponseWriter: w}
}

// LoggerMiddleware пишет в log одну запись на каждый запрос.
func LoggerMiddleware(log *logger.HTTPLogger) func(http.Handler) http.Handler {
	if log == nil {
		log = logger.NewNop()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wr := wrap(w)
			next.ServeHTTP(wr, r)

			status := wr.Status
			if status == 0 {
				status = http.StatusOK
			}
			duration := time.Since(start).Seconds() * 1000
			log.LogRequest(r.Method, r.RequestURI, status, wr.Size, duration)
		})
	}
}
