package service

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHasher_HashAndVerify(t *testing.T) {
	hasher := NewPasswordHasher(bcrypt.MinCost)

	digest, err := hasher.Hash("S3cure!password")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	if digest == "S3cure!password" {
		t.Fatal("Expected digest to differ from the plain password")
	}

	if !hasher.Verify(digest, "S3cure!password") {
		t.Error("Expected Verify to accept the original password")
	}
	if hasher.Verify(digest, "wrong-password") {
		t.Error("Expected Verify to reject a wrong password")
	}
}

func TestPasswordHasher_DistinctDigests(t *testing.T) {
	hasher := NewPasswordHasher(bcrypt.MinCost)

	first, err := hasher.Hash("S3cure!password")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	second, err := hasher.Hash("S3cure!password")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}

	// Each digest carries its own salt
	if first == second {
		t.Error("Expected two hashes of the same password to differ")
	}
	if !hasher.Verify(second, "S3cure!password") {
		t.Error("Expected second digest to verify")
	}
}

func TestPasswordHasher_VerifyMalformedDigest(t *testing.T) {
	hasher := NewPasswordHasher(bcrypt.MinCost)

	// A broken stored digest is a mismatch, never a panic or error
	for _, digest := range []string{"", "not-a-bcrypt-digest", "$2a$10$tooshort"} {
		if hasher.Verify(digest, "anything") {
			t.Errorf("Expected Verify to reject malformed digest %q", digest)
		}
	}
}

func TestNewPasswordHasher_CostClamped(t *testing.T) {
	tests := []struct {
		name string
		cost int
		want int
	}{
		{"below minimum", bcrypt.MinCost - 1, bcrypt.DefaultCost},
		{"above maximum", bcrypt.MaxCost + 1, bcrypt.DefaultCost},
		{"zero", 0, bcrypt.DefaultCost},
		{"minimum kept", bcrypt.MinCost, bcrypt.MinCost},
		{"default kept", bcrypt.DefaultCost, bcrypt.DefaultCost},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if hasher := NewPasswordHasher(tt.cost); hasher.cost != tt.want {
				t.Errorf("Expected cost %d, got %d", tt.want, hasher.cost)
			}
		})
	}
}
