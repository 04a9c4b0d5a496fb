package crypto_test

import (
	"strings"
	"testing"

	commoncrypto "github.com/devlink/devlink/backend/internal/common/crypto"
)

func TestBcryptHasher_RoundTrip(t *testing.T) {
	hasher := &commoncrypto.BcryptHasher{}

	hash, err := hasher.Hash("correct horse battery staple")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if hash == "correct horse battery staple" {
		t.Fatal("expected hash to differ from plaintext")
	}

	if err := hasher.Compare(hash, "correct horse battery staple"); err != nil {
		t.Fatalf("expected matching password to compare, got %v", err)
	}
}

func TestBcryptHasher_WrongPassword(t *testing.T) {
	hasher := &commoncrypto.BcryptHasher{}

	hash, err := hasher.Hash("password-one")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if err := hasher.Compare(hash, "password-two"); err == nil {
		t.Fatal("expected mismatch error")
	}
}

func TestBcryptHasher_MalformedHash(t *testing.T) {
	hasher := &commoncrypto.BcryptHasher{}

	if err := hasher.Compare("not-a-bcrypt-hash", "anything"); err == nil {
		t.Fatal("expected error for malformed hash")
	}
}

func TestUUIDGenerator_ProducesDistinctIDs(t *testing.T) {
	gen := commoncrypto.NewUUIDGenerator()

	a, err := gen.NewID()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	b, err := gen.NewID()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if a == b {
		t.Fatal("expected distinct ids")
	}
	if strings.TrimSpace(a) == "" {
		t.Fatal("expected non-empty id")
	}
}
