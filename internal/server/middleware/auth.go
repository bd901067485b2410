// Package middleware содержит HTTP middleware сервера.
package middleware

import (
	"net/http"
	"strings"

	"github.com/IvanChernomyrdin/go-stocks-api/internal/server/api"
	"github.com/IvanChernomyrdin/go-stocks-api/internal/server/metrics"
)

// Сообщения об отказе в доступе.
const (
	MsgHeaderNotFound = "Authorisation header not found"
	MsgHeaderInvalid  = "Authorisation header is invalid"
)

// TokenVerifier проверяет access-токен. *crypto.TokenManager подходит.
type TokenVerifier interface {
	Verify(token string) bool
}

// AuthGate пропускает запрос дальше только с валидным токеном в заголовке Authorization.
//
// Ожидаемый формат:
//
//	Authorization: Bearer <token>
//
// Первое слово не проверяется: важно только, что частей ровно две.
// Любой отказ — 403 с JSON-телом.
type AuthGate struct {
	verifier TokenVerifier
}

// NewAuthGate создаёт AuthGate поверх verifier.
func NewAuthGate(verifier TokenVerifier) *AuthGate {
	return &AuthGate{verifier: verifier}
}

// Middleware возвращает HTTP middleware проверки токена.
func (g *AuthGate) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				metrics.IncAuthGateRejection(metrics.ReasonHeaderMissing)
				api.WriteError(w, http.StatusForbidden, MsgHeaderNotFound)
				return
			}

			token, ok := ExtractToken(header)
			if !ok || !g.verifier.Verify(token) {
				metrics.IncAuthGateRejection(metrics.ReasonHeaderInvalid)
				api.WriteError(w, http.StatusForbidden, MsgHeaderInvalid)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// ExtractToken достаёт токен из заголовка вида "<scheme> <token>".
//
// Заголовок делится по одиночному пробелу; если частей не ровно две, ok = false.
func ExtractToken(header string) (string, bool) {
	parts := strings.Split(header, " ")
	if len(parts) != 2 {
		return "", false
	}
	return parts[1], true
}
