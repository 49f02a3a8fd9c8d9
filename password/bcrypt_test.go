package password

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHashAndVerify(t *testing.T) {
	hasher, err := NewBcrypt(bcrypt.MinCost)
	if err != nil {
		t.Fatalf("NewBcrypt error: %v", err)
	}

	hash, err := hasher.Hash("Secret123")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	if !strings.HasPrefix(hash, "$2a$") {
		t.Fatalf("unexpected bcrypt prefix: %s", hash)
	}

	ok, err := hasher.Verify("Secret123", hash)
	if err != nil || !ok {
		t.Fatalf("expected verify to succeed, ok=%v err=%v", ok, err)
	}
	ok, err = hasher.Verify("Secret124", hash)
	if err != nil || ok {
		t.Fatalf("expected mismatch, ok=%v err=%v", ok, err)
	}
}

func TestBcryptDefaultCost(t *testing.T) {
	hasher, err := NewBcrypt(0)
	if err != nil {
		t.Fatalf("NewBcrypt error: %v", err)
	}
	if hasher.cost != DefaultBcryptCost {
		t.Fatalf("expected default cost %d, got %d", DefaultBcryptCost, hasher.cost)
	}
}

func TestBcryptRejectsBadCost(t *testing.T) {
	if _, err := NewBcrypt(99); err == nil {
		t.Fatal("expected out-of-range cost to fail")
	}
}

func TestBcryptMalformedHash(t *testing.T) {
	hasher, _ := NewBcrypt(bcrypt.MinCost)
	if _, err := hasher.Verify("x", "$2a$nonsense"); !errors.Is(err, ErrMalformedHash) {
		t.Fatalf("expected ErrMalformedHash, got %v", err)
	}
}

func TestBcryptNeedsUpgrade(t *testing.T) {
	weak, _ := NewBcrypt(bcrypt.MinCost)
	strong, _ := NewBcrypt(bcrypt.MinCost + 1)

	hash, _ := weak.Hash("Secret123")
	if up, err := strong.NeedsUpgrade(hash); err != nil || !up {
		t.Fatalf("expected upgrade, got %v err=%v", up, err)
	}
	if up, _ := weak.NeedsUpgrade(hash); up {
		t.Fatal("same cost must not need upgrade")
	}
}

func TestMultiDispatchesOnPrefix(t *testing.T) {
	b, _ := NewBcrypt(bcrypt.MinCost)
	a, err := NewArgon2(Config{Memory: 8 * 1024, Time: 1, Parallelism: 1, SaltLength: 16, KeyLength: 16})
	if err != nil {
		t.Fatalf("NewArgon2 error: %v", err)
	}

	bHash, _ := b.Hash("Secret123")
	aHash, _ := a.Hash("Secret123")

	m := NewMulti(a, b, a)

	for _, h := range []string{bHash, aHash} {
		ok, err := m.Verify("Secret123", h)
		if err != nil || !ok {
			t.Fatalf("verify %s: ok=%v err=%v", h[:8], ok, err)
		}
	}

	fresh, _ := m.Hash("Secret123")
	if !strings.HasPrefix(fresh, "$argon2id$") {
		t.Fatalf("expected primary algorithm for new hashes, got %s", fresh)
	}

	if _, err := m.Verify("x", "plaintext"); !errors.Is(err, ErrUnsupportedHash) {
		t.Fatalf("expected ErrUnsupportedHash, got %v", err)
	}
}

func TestMultiWithoutArgon2(t *testing.T) {
	b, _ := NewBcrypt(bcrypt.MinCost)
	m := NewMulti(b, b, nil)

	if _, err := m.Verify("x", "$argon2id$v=19$m=1,t=1,p=1$a$b"); !errors.Is(err, ErrUnsupportedHash) {
		t.Fatalf("expected ErrUnsupportedHash, got %v", err)
	}
}

func TestMultiNeedsUpgrade(t *testing.T) {
	weak, _ := NewBcrypt(bcrypt.MinCost)
	strong, _ := NewBcrypt(bcrypt.MinCost + 1)
	a, err := NewArgon2(Config{Memory: 8 * 1024, Time: 1, Parallelism: 1, SaltLength: 16, KeyLength: 16})
	if err != nil {
		t.Fatalf("NewArgon2 error: %v", err)
	}

	aHash, _ := a.Hash("Secret123")
	weakHash, _ := weak.Hash("Secret123")
	strongHash, _ := strong.Hash("Secret123")

	m := NewMulti(strong, strong, a)
	cases := []struct {
		name string
		hash string
		want bool
	}{
		{"other algorithm", aHash, true},
		{"lower bcrypt cost", weakHash, true},
		{"current settings", strongHash, false},
	}
	for _, tc := range cases {
		got, err := m.NeedsUpgrade(tc.hash)
		if err != nil {
			t.Fatalf("%s: NeedsUpgrade error: %v", tc.name, err)
		}
		if got != tc.want {
			t.Fatalf("%s: NeedsUpgrade = %v, want %v", tc.name, got, tc.want)
		}
	}

	if _, err := m.NeedsUpgrade("plaintext"); !errors.Is(err, ErrUnsupportedHash) {
		t.Fatalf("expected ErrUnsupportedHash, got %v", err)
	}
}
