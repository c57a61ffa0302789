package service

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/restockr/auth-service/internal/constants"
)

func TestActivationService_Generate(t *testing.T) {
	activation := NewActivationService(time.Hour)

	before := time.Now()
	token, expiry, err := activation.Generate()
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	// Token must survive a URL without escaping
	if strings.ContainsAny(token, "+/=") {
		t.Errorf("Expected URL-safe token, got %q", token)
	}

	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		t.Fatalf("Expected base64url token, decode failed: %v", err)
	}
	if len(raw) != constants.ActivationTokenBytes {
		t.Errorf("Expected %d random bytes, got %d", constants.ActivationTokenBytes, len(raw))
	}

	if expiry.Before(before.Add(time.Hour)) || expiry.After(time.Now().Add(time.Hour+time.Second)) {
		t.Errorf("Expected expiry about 1h from now, got %s", expiry)
	}
}

func TestActivationService_GenerateUnique(t *testing.T) {
	activation := NewActivationService(time.Hour)

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		token, _, err := activation.Generate()
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		if seen[token] {
			t.Fatalf("Generated duplicate token %q", token)
		}
		seen[token] = true
	}
}
