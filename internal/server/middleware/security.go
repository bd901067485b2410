package middleware

import "net/http"

// HSTSValue — 30 дней, с поддоменами.
const HSTSValue = "max-age=2592000; includeSubDomains"

// SecurityHeaders добавляет Strict-Transport-Security и X-Content-Type-Options ко всем ответам.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Strict-Transport-Security", HSTSValue)
		h.Set("X-Content-Type-Options", "nosniff")
		next.ServeHTTP(w, r)
	})
}
