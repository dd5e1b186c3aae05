package security_test

import (
	"strings"
	"testing"

	"github.com/angelmondragon/leaddesk-backend/pkg/config"
	"github.com/angelmondragon/leaddesk-backend/pkg/security"
)

func TestHashAndVerifyPassword(t *testing.T) {
	cfg := config.PasswordConfig{
		ArgonMemoryKB:    32768,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}

	hash, err := security.HashPassword("very-secure-password", cfg)
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	if hash == "" {
		t.Fatal("HashPassword returned empty string")
	}

	ok, err := security.VerifyPassword("very-secure-password", hash)
	if err != nil {
		t.Fatalf("VerifyPassword returned error for valid hash: %v", err)
	}
	if !ok {
		t.Fatal("VerifyPassword failed for the correct password")
	}

	ok, err = security.VerifyPassword("bogus-password", hash)
	if err != nil {
		t.Fatalf("VerifyPassword returned error for invalid password: %v", err)
	}
	if ok {
		t.Fatal("VerifyPassword returned true for incorrect password")
	}
}

func TestVerifyPasswordBadHash(t *testing.T) {
	if _, err := security.VerifyPassword("irrelevant", "not-a-hash"); err == nil {
		t.Fatal("expected error for malformed hash")
	}
}

func TestHashPasswordRejectsEmpty(t *testing.T) {
	if _, err := security.HashPassword("", config.PasswordConfig{}); err == nil {
		t.Fatal("expected error for empty password")
	}
}

func TestIsStrongPassword(t *testing.T) {
	cases := map[string]bool{
		"Admin@123":   true,
		"Str0ng pass": true,
		"Sh0rt!":      false,
		"alllower1!":  false,
		"ALLUPPER1!":  false,
		"NoDigits!!":  false,
		"NoSymbol123": false,
		"":            false,
	}
	for pw, want := range cases {
		if got := security.IsStrongPassword(pw); got != want {
			t.Errorf("IsStrongPassword(%q) = %v, want %v", pw, got, want)
		}
	}
}

func TestHashPasswordFormat(t *testing.T) {
	hash, err := security.HashPassword("Admin@123", config.PasswordConfig{})
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$v=19$m=8,t=1,p=1$") {
		t.Fatalf("unexpected hash prefix %q", hash)
	}
}

func TestVerifyPasswordRejectsTamperedParams(t *testing.T) {
	hash, err := security.HashPassword("Admin@123", config.PasswordConfig{})
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	cases := map[string]string{
		"version": strings.Replace(hash, "v=19", "v=16", 1),
		"params":  strings.Replace(hash, "m=8,t=1,p=1", "m=x,t=1,p=1", 1),
		"algo":    strings.Replace(hash, "argon2id", "argon2i", 1),
	}
	for name, tampered := range cases {
		if _, err := security.VerifyPassword("Admin@123", tampered); err == nil {
			t.Errorf("%s: expected error for %q", name, tampered)
		}
	}
}
