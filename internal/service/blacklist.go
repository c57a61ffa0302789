package service

import (
	"context"
	"time"

	"github.com/restockr/auth-service/internal/constants"
	ctxutil "github.com/restockr/auth-service/pkg/context"
	"github.com/restockr/auth-service/pkg/logger"
	"github.com/restockr/auth-service/pkg/redis"
)

// RevocationLedger records revoked access tokens until their natural expiry.
type RevocationLedger interface {
	Blacklist(ctx context.Context, token string, ttl time.Duration) error
	IsBlacklisted(ctx context.Context, token string) bool
}

// BlacklistService implements RevocationLedger on Redis. Each entry carries
// a TTL equal to the token's remaining life, so the ledger cleans itself up.
type BlacklistService struct {
	client redis.Client
}

func NewBlacklistService(client redis.Client) *BlacklistService {
	return &BlacklistService{client: client}
}

// Blacklist records a token as revoked for the given TTL. Tokens with no
// remaining life are not recorded, and a deliberately disabled ledger
// accepts the call as a no-op.
func (s *BlacklistService) Blacklist(ctx context.Context, token string, ttl time.Duration) error {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "Blacklist")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "service")

	if ttl <= 0 || !s.client.IsEnabled() {
		return nil
	}

	if err := s.client.Set(ctx, constants.BlacklistKeyPrefix+token, "1", ttl); err != nil {
		logger.ErrorWithContext(ctx, "Failed to record token revocation").
			Duration(ttl).
			Err(err).
			Log()
		return err
	}

	logger.DebugWithContext(ctx, "Token revoked").
		Duration(ttl).
		Log()

	return nil
}

// IsBlacklisted reports whether a token has been revoked. When the ledger is
// unreachable the token is treated as not revoked (fail open) and the outage
// is logged; a deliberately disabled ledger fails open silently.
func (s *BlacklistService) IsBlacklisted(ctx context.Context, token string) bool {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "IsBlacklisted")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "service")

	if !s.client.IsEnabled() {
		return false
	}

	exists, err := s.client.Exists(ctx, constants.BlacklistKeyPrefix+token)
	if err != nil {
		logger.ErrorWithContext(ctx, "Revocation check failed, treating token as not revoked").
			Err(err).
			Log()
		return false
	}

	return exists
}
