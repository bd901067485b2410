// Хэширование паролей
package crypto

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher — односторонний хэш пароля с солью и проверка в постоянное время.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, encoded string) (bool, error)
}

// Hasher хэширует новые пароли алгоритмом primary, а проверяет по префиксу
// сохранённого хэша: $2 — bcrypt, $argon2id$ — argon2id. Старые хэши
// остаются рабочими после смены password.hasher.
type Hasher struct {
	primary PasswordHasher
	bcrypt  *BcryptHasher
	argon2  *Argon2Hasher
}

// ErrUnknownHashFormat — хэш не относится ни к одному поддерживаемому алгоритму.
var ErrUnknownHashFormat = errors.New("unknown password hash format")

func NewHasher(primary PasswordHasher) *Hasher {
	// параметры проверки берутся из самого хэша
	return &Hasher{primary: primary, bcrypt: &BcryptHasher{}, argon2: &Argon2Hasher{}}
}

func (h *Hasher) Hash(password string) (string, error) {
	return h.primary.Hash(password)
}

func (h *Hasher) Verify(password, encoded string) (bool, error) {
	switch {
	case strings.HasPrefix(encoded, "$argon2id$"):
		return h.argon2.Verify(password, encoded)
	case strings.HasPrefix(encoded, "$2"):
		return h.bcrypt.Verify(password, encoded)
	default:
		return false, ErrUnknownHashFormat
	}
}

// DefaultBcryptCost — фиксированный work factor для bcrypt.
const DefaultBcryptCost = 10

// BcryptHasher хэширует пароли через bcrypt.
//
// bcrypt учитывает только первые 72 байта пароля, поэтому длина пароля
// ограничивается на уровне валидации регистрации.
type BcryptHasher struct {
	Cost int
}

// NewBcryptHasher создаёт BcryptHasher; cost <= 0 заменяется на DefaultBcryptCost.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost <= 0 {
		cost = DefaultBcryptCost
	}
	return &BcryptHasher{Cost: cost}
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	if password == "" {
		return "", errors.New("empty password")
	}
	b, err := bcrypt.GenerateFromPassword([]byte(password), h.Cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt: %w", err)
	}
	return string(b), nil
}

func (h *BcryptHasher) Verify(password, encoded string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(encoded), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, err
	}
}

// Argon2Params — параметры argon2id. Time, MemoryKiB и Threads пишутся в
// закодированный хэш, поэтому смена параметров не ломает старые записи.
type Argon2Params struct {
	Time      uint32
	MemoryKiB uint32
	Threads   uint8
	KeyLen    uint32
	SaltLen   uint32
}

var errBadArgon2Hash = errors.New("invalid argon2id hash")

// Argon2Hasher хэширует пароли через argon2id.
//
// Формат: $argon2id$v=19$m=65536,t=3,p=2$<salt>$<hash> (base64 без паддинга),
// строка в формате PHC.
type Argon2Hasher struct {
	Params Argon2Params
}

func NewArgon2Hasher(p Argon2Params) *Argon2Hasher {
	return &Argon2Hasher{Params: p}
}

func (h *Argon2Hasher) Hash(password string) (string, error) {
	if password == "" {
		return "", errors.New("empty password")
	}

	salt := make([]byte, h.Params.SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("read salt: %w", err)
	}

	p := h.Params
	key := argon2.IDKey([]byte(password), salt, p.Time, p.MemoryKiB, p.Threads, p.KeyLen)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, p.MemoryKiB, p.Time, p.Threads,
		b64.EncodeToString(salt), b64.EncodeToString(key),
	), nil
}

func (h *Argon2Hasher) Verify(password, encoded string) (bool, error) {
	p, salt, want, err := decodeArgon2(encoded)
	if err != nil {
		return false, err
	}

	got := argon2.IDKey([]byte(password), salt, p.Time, p.MemoryKiB, p.Threads, uint32(len(want)))
	return subtle.ConstantTimeCompare(got, want) == 1, nil
}

var b64 = base64.RawStdEncoding

// decodeArgon2 разбирает закодированный хэш на параметры, соль и ключ.
func decodeArgon2(encoded string) (Argon2Params, []byte, []byte, error) {
	var p Argon2Params

	// ведущий '$' даёт пустой первый элемент
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != "argon2id" {
		return p, nil, nil, errBadArgon2Hash
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return p, nil, nil, fmt.Errorf("%w: unsupported version", errBadArgon2Hash)
	}
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.MemoryKiB, &p.Time, &p.Threads); err != nil {
		return p, nil, nil, fmt.Errorf("%w: params", errBadArgon2Hash)
	}

	salt, err := b64.DecodeString(parts[4])
	if err != nil {
		return p, nil, nil, fmt.Errorf("%w: salt", errBadArgon2Hash)
	}
	key, err := b64.DecodeString(parts[5])
	if err != nil || len(key) == 0 {
		return p, nil, nil, fmt.Errorf("%w: key", errBadArgon2Hash)
	}
	return p, salt, key, nil
}
