package credential

import (
	"testing"

	"aiqr-api/apperror"

	"golang.org/x/crypto/bcrypt"
)

func TestHashVerify(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)
	hash, err := h.Hash("  secret123 ")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	tests := []struct {
		plaintext string
		want      bool
	}{
		{"secret123", true},
		{"secret123\n", true},
		{"Secret123", false},
		{"secret12", false},
	}
	for _, tt := range tests {
		got, err := h.Verify(tt.plaintext, hash)
		if err != nil {
			t.Fatalf("Verify(%q): %v", tt.plaintext, err)
		}
		if got != tt.want {
			t.Errorf("Verify(%q) = %v, want %v", tt.plaintext, got, tt.want)
		}
	}
}

func TestVerifyMalformedHash(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)
	if _, err := h.Verify("secret123", "plain"); !apperror.Is(err, apperror.KindServer) {
		t.Errorf("err = %v, want server error", err)
	}
}

func TestHashBadCost(t *testing.T) {
	h := Hasher{Cost: bcrypt.MaxCost + 1}
	if _, err := h.Hash("secret123"); !apperror.Is(err, apperror.KindServer) {
		t.Errorf("err = %v, want server error", err)
	}
}
