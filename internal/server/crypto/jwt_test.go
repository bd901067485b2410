package crypto_test

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	crypt "github.com/IvanChernomyrdin/go-stocks-api/internal/server/crypto"
)

const testKey = "supersecretkeysupersecretkey123456"

// фиксированные часы, которые можно двигать
type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newManager(c *clock) *crypt.TokenManager {
	return crypt.NewTokenManager(crypt.JWTConfig{
		SigningKey: testKey,
		AccessTTL:  24 * time.Hour,
	}).WithClock(c.now)
}

func TestTokenManager_Issue_Fields(t *testing.T) {
	c := &clock{t: time.Date(2020, 3, 15, 10, 0, 0, 0, time.UTC)}
	m := newManager(c)

	tok, err := m.Issue("user@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tok.TokenType != "Bearer" {
		t.Fatalf("expected token type Bearer, got %q", tok.TokenType)
	}
	if tok.ExpiresIn != 86400 {
		t.Fatalf("expected expires_in 86400, got %d", tok.ExpiresIn)
	}
	if strings.Count(tok.Token, ".") != 2 {
		t.Fatalf("token does not look like JWT: %q", tok.Token)
	}

	// exp в миллисекундах
	claims := jwt.MapClaims{}
	_, _, err = jwt.NewParser().ParseUnverified(tok.Token, claims)
	if err != nil {
		t.Fatalf("parse unverified: %v", err)
	}
	want := c.t.Add(24 * time.Hour).UnixMilli()
	if got := int64(claims["exp"].(float64)); got != want {
		t.Fatalf("expected exp %d (ms), got %d", want, got)
	}
	if claims["email"] != "user@example.com" {
		t.Fatalf("expected email claim, got %v", claims["email"])
	}
}

// Токен, выпущенный в T, валиден в T+1h и невалиден в T+25h
func TestTokenManager_Verify_Expiry(t *testing.T) {
	c := &clock{t: time.Date(2020, 3, 15, 10, 0, 0, 0, time.UTC)}
	m := newManager(c)

	tok, err := m.Issue("user@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	issued := c.t

	c.t = issued.Add(time.Hour)
	if !m.Verify(tok.Token) {
		t.Fatal("expected token to be valid at T+1h")
	}

	c.t = issued.Add(25 * time.Hour)
	if m.Verify(tok.Token) {
		t.Fatal("expected token to be invalid at T+25h")
	}

	// граница: exp должен быть строго больше текущего времени
	c.t = issued.Add(24 * time.Hour)
	if m.Verify(tok.Token) {
		t.Fatal("expected token to be invalid exactly at expiry")
	}
}

func TestTokenManager_Verify_WrongKey(t *testing.T) {
	c := &clock{t: time.Now()}
	tok, err := newManager(c).Issue("user@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	other := crypt.NewTokenManager(crypt.JWTConfig{
		SigningKey: "another-key-another-key-another-key",
		AccessTTL:  time.Hour,
	}).WithClock(c.now)

	if other.Verify(tok.Token) {
		t.Fatal("expected token signed with another key to be invalid")
	}
}

func TestTokenManager_Verify_Garbage(t *testing.T) {
	m := newManager(&clock{t: time.Now()})

	for _, s := range []string{"", "abc", "a.b.c", "Bearer x"} {
		if m.Verify(s) {
			t.Fatalf("expected %q to be invalid", s)
		}
	}
}

// Алгоритм none и прочие не-HS256 не принимаются
func TestTokenManager_Verify_RejectsNoneAlg(t *testing.T) {
	c := &clock{t: time.Now()}
	m := newManager(c)

	claims := jwt.MapClaims{
		"email": "user@example.com",
		"exp":   c.t.Add(time.Hour).UnixMilli(),
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if m.Verify(s) {
		t.Fatal("expected alg=none token to be rejected")
	}
}

// Токен со стандартным exp в секундах считается истёкшим
func TestTokenManager_Verify_SecondsExpIsExpired(t *testing.T) {
	c := &clock{t: time.Now()}
	m := newManager(c)

	claims := jwt.MapClaims{
		"email": "user@example.com",
		"exp":   c.t.Add(time.Hour).Unix(),
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testKey))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if m.Verify(s) {
		t.Fatal("expected seconds-based exp to be treated as expired")
	}
}

func TestTokenManager_Issue_EmptyEmail(t *testing.T) {
	if _, err := newManager(&clock{t: time.Now()}).Issue(""); err == nil {
		t.Fatal("expected error for empty email")
	}
}
