// Package crypto содержит криптографические примитивы,
// используемые сервером Stocks API.
//
// В частности, пакет отвечает за:
//   - генерацию, подпись и проверку JWT access-токенов;
//   - хэширование и проверку паролей пользователей.
package crypto

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenType — тип токена, который отдаётся клиенту вместе с самим токеном.
const TokenType = "Bearer"

// JWTConfig описывает параметры генерации JWT access-токена.
type JWTConfig struct {
	// SigningKey — секретный ключ для подписи токена (HS256).
	// Должен быть достаточно длинным и случайным.
	SigningKey string
	// AccessTTL — срок жизни access-токена.
	AccessTTL time.Duration
}

// Claims — полезная нагрузка access-токена.
//
// ExpiresAtMs хранится в миллисекундах с начала эпохи, а не в секундах,
// как принято для стандартного exp. Выпуск и проверка используют одну и ту же
// единицу, поэтому стандартная проверка exp библиотекой отключена
// (GetExpirationTime возвращает nil) и срок проверяется в Verify.
type Claims struct {
	Email       string `json:"email"`
	ExpiresAtMs int64  `json:"exp"`
}

func (c Claims) GetExpirationTime() (*jwt.NumericDate, error) { return nil, nil }
func (c Claims) GetIssuedAt() (*jwt.NumericDate, error)       { return nil, nil }
func (c Claims) GetNotBefore() (*jwt.NumericDate, error)      { return nil, nil }
func (c Claims) GetIssuer() (string, error)                   { return "", nil }
func (c Claims) GetSubject() (string, error)                  { return c.Email, nil }
func (c Claims) GetAudience() (jwt.ClaimStrings, error)       { return nil, nil }

// IssuedToken — результат успешного логина.
type IssuedToken struct {
	Token     string
	TokenType string
	// ExpiresIn — через сколько секунд токен перестанет быть валидным.
	ExpiresIn int64
}

// TokenManager выпускает и проверяет access-токены.
//
// Ключ подписи передаётся при создании и больше нигде не читается.
type TokenManager struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

// NewTokenManager создаёт TokenManager с параметрами из cfg.
func NewTokenManager(cfg JWTConfig) *TokenManager {
	return &TokenManager{
		key: []byte(cfg.SigningKey),
		ttl: cfg.AccessTTL,
		now: time.Now,
	}
}

// WithClock подменяет источник текущего времени (для тестов).
func (m *TokenManager) WithClock(now func() time.Time) *TokenManager {
	m.now = now
	return m
}

// Issue создаёт и подписывает токен для email.
//
// Используется алгоритм подписи HS256.
func (m *TokenManager) Issue(email string) (IssuedToken, error) {
	if email == "" {
		return IssuedToken{}, errors.New("empty email")
	}

	claims := Claims{
		Email:       email,
		ExpiresAtMs: m.now().Add(m.ttl).UnixMilli(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.key)
	if err != nil {
		return IssuedToken{}, err
	}

	return IssuedToken{
		Token:     signed,
		TokenType: TokenType,
		ExpiresIn: int64(m.ttl / time.Second),
	}, nil
}

// Verify проверяет подпись и срок действия токена.
//
// Любая ошибка разбора или подписи, как и истёкший срок, даёт false:
// вызывающему не сообщается, почему токен не принят.
func (m *TokenManager) Verify(token string) bool {
	claims := &Claims{}

	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}))
	parsed, err := parser.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return m.key, nil
	})
	if err != nil || parsed == nil || !parsed.Valid {
		return false
	}

	return claims.ExpiresAtMs > m.now().UnixMilli()
}
