package service

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/restockr/auth-service/internal/constants"
)

// ActivationService mints single-use account activation tokens.
type ActivationService struct {
	ttl time.Duration
}

func NewActivationService(ttl time.Duration) *ActivationService {
	return &ActivationService{ttl: ttl}
}

// Generate creates a URL-safe random token and its expiry timestamp. The
// token is opaque; validity lives entirely in the stored copy.
func (s *ActivationService) Generate() (string, time.Time, error) {
	bytes := make([]byte, constants.ActivationTokenBytes)
	if _, err := rand.Read(bytes); err != nil {
		return "", time.Time{}, fmt.Errorf("failed to generate activation token: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(bytes), time.Now().Add(s.ttl), nil
}
