package crypto_test

import (
	"errors"
	"strings"
	"testing"

	crypt "github.com/IvanChernomyrdin/go-stocks-api/internal/server/crypto"
)

func defaultParams() crypt.Argon2Params {
	return crypt.Argon2Params{
		Time:      1,
		MemoryKiB: 32 * 1024,
		Threads:   1,
		KeyLen:    32,
		SaltLen:   16,
	}
}

func hashers() map[string]crypt.PasswordHasher {
	return map[string]crypt.PasswordHasher{
		"bcrypt":   crypt.NewBcryptHasher(bcryptTestCost),
		"argon2id": crypt.NewArgon2Hasher(defaultParams()),
	}
}

// минимальная стоимость bcrypt, чтобы тесты были быстрыми
const bcryptTestCost = 4

// Хэширование и успешная проверка
func TestHashers_HashAndVerify_OK(t *testing.T) {
	for name, h := range hashers() {
		t.Run(name, func(t *testing.T) {
			hash, err := h.Hash("super-secret-password")
			if err != nil {
				t.Fatalf("Hash error: %v", err)
			}

			ok, err := h.Verify("super-secret-password", hash)
			if err != nil {
				t.Fatalf("Verify error: %v", err)
			}
			if !ok {
				t.Fatal("expected password to be valid")
			}
		})
	}
}

// Неверный пароль
func TestHashers_WrongPassword(t *testing.T) {
	for name, h := range hashers() {
		t.Run(name, func(t *testing.T) {
			hash, err := h.Hash("correct-password")
			if err != nil {
				t.Fatalf("Hash error: %v", err)
			}

			ok, err := h.Verify("wrong-password", hash)
			if err != nil {
				t.Fatalf("Verify error: %v", err)
			}
			if ok {
				t.Fatal("expected password to be invalid")
			}
		})
	}
}

// Пустой пароль
func TestHashers_EmptyPassword(t *testing.T) {
	for name, h := range hashers() {
		t.Run(name, func(t *testing.T) {
			if _, err := h.Hash(""); err == nil {
				t.Fatal("expected error for empty password")
			}
		})
	}
}

// Соль разная — хэши разные
func TestHashers_DifferentSalt(t *testing.T) {
	for name, h := range hashers() {
		t.Run(name, func(t *testing.T) {
			h1, _ := h.Hash("same-password")
			h2, _ := h.Hash("same-password")
			if h1 == h2 {
				t.Fatal("expected different hashes for same password")
			}
		})
	}
}

// Битый формат хэша
func TestHashers_InvalidFormat(t *testing.T) {
	for name, h := range hashers() {
		t.Run(name, func(t *testing.T) {
			if _, err := h.Verify("password", "not-a-valid-hash"); err == nil {
				t.Fatal("expected error for invalid hash format")
			}
		})
	}
}

func TestNewBcryptHasher_DefaultCost(t *testing.T) {
	if got := crypt.NewBcryptHasher(0).Cost; got != crypt.DefaultBcryptCost {
		t.Fatalf("expected cost %d, got %d", crypt.DefaultBcryptCost, got)
	}
}

func TestArgon2Hasher_Format(t *testing.T) {
	h := crypt.NewArgon2Hasher(defaultParams())

	hash, err := h.Hash("pw")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$v=19$m=32768,t=1,p=1$") {
		t.Fatalf("unexpected encoding: %s", hash)
	}

	// хэш, выпущенный с другими параметрами, проверяется по своим параметрам
	other := crypt.NewArgon2Hasher(crypt.Argon2Params{Time: 2, MemoryKiB: 8 * 1024, Threads: 1, KeyLen: 16, SaltLen: 8})
	ok, err := other.Verify("pw", hash)
	if err != nil || !ok {
		t.Fatalf("expected (true, nil), got (%v, %v)", ok, err)
	}

	for _, bad := range []string{
		strings.Replace(hash, "v=19", "v=16", 1),
		strings.Replace(hash, "$argon2id$", "$argon2i$", 1),
		strings.TrimPrefix(hash, "$"),
	} {
		if _, err := h.Verify("pw", bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

// Хэш проверяется своим алгоритмом, независимо от того, каким хэшируются новые пароли
func TestHasher_VerifiesByHashPrefix(t *testing.T) {
	bcryptHash, err := crypt.NewBcryptHasher(bcryptTestCost).Hash("pw")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	argonHash, err := crypt.NewArgon2Hasher(defaultParams()).Hash("pw")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}

	for name, primary := range hashers() {
		t.Run(name, func(t *testing.T) {
			h := crypt.NewHasher(primary)

			for _, stored := range []string{bcryptHash, argonHash} {
				ok, err := h.Verify("pw", stored)
				if err != nil || !ok {
					t.Fatalf("expected (true, nil) for %q, got (%v, %v)", stored, ok, err)
				}
				ok, err = h.Verify("wrong", stored)
				if err != nil || ok {
					t.Fatalf("expected (false, nil) for %q, got (%v, %v)", stored, ok, err)
				}
			}

			// новые хэши — алгоритмом primary
			fresh, err := h.Hash("pw")
			if err != nil {
				t.Fatalf("Hash error: %v", err)
			}
			isArgon := strings.HasPrefix(fresh, "$argon2id$")
			if isArgon != (name == "argon2id") {
				t.Fatalf("hash %q not produced by %s", fresh, name)
			}

			if _, err := h.Verify("pw", "plain"); !errors.Is(err, crypt.ErrUnknownHashFormat) {
				t.Fatalf("expected ErrUnknownHashFormat, got %v", err)
			}
		})
	}
}
