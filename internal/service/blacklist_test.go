package service

import (
	"context"
	"errors"
	"testing"
	"time"
)

// fakeRedis is an in-memory stand-in for the Redis client.
type fakeRedis struct {
	enabled     bool
	data        map[string]string
	ttls        map[string]time.Duration
	setErr      error
	existsErr   error
	existsCalls int
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{
		enabled: true,
		data:    make(map[string]string),
		ttls:    make(map[string]time.Duration),
	}
}

func (f *fakeRedis) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.data[key] = value
	f.ttls[key] = ttl
	return nil
}

func (f *fakeRedis) Exists(ctx context.Context, key string) (bool, error) {
	f.existsCalls++
	if f.existsErr != nil {
		return false, f.existsErr
	}
	_, ok := f.data[key]
	return ok, nil
}

func (f *fakeRedis) Ping(ctx context.Context) error { return nil }
func (f *fakeRedis) IsEnabled() bool                { return f.enabled }
func (f *fakeRedis) Close() error                   { return nil }

func TestBlacklistService_RecordsWithTTL(t *testing.T) {
	rdb := newFakeRedis()
	ledger := NewBlacklistService(rdb)
	ctx := context.Background()

	if err := ledger.Blacklist(ctx, "some-access-token", 5*time.Minute); err != nil {
		t.Fatalf("Blacklist failed: %v", err)
	}

	if rdb.data["blacklist:some-access-token"] != "1" {
		t.Error("Expected token recorded under the blacklist prefix")
	}
	if ttl := rdb.ttls["blacklist:some-access-token"]; ttl != 5*time.Minute {
		t.Errorf("Expected entry TTL 5m, got %s", ttl)
	}

	if !ledger.IsBlacklisted(ctx, "some-access-token") {
		t.Error("Expected recorded token to be reported as revoked")
	}
	if ledger.IsBlacklisted(ctx, "another-token") {
		t.Error("Expected unknown token to not be revoked")
	}
}

func TestBlacklistService_SkipsExpiredToken(t *testing.T) {
	rdb := newFakeRedis()
	ledger := NewBlacklistService(rdb)
	ctx := context.Background()

	// A token past its natural expiry needs no ledger entry
	for _, ttl := range []time.Duration{0, -time.Minute} {
		if err := ledger.Blacklist(ctx, "expired-token", ttl); err != nil {
			t.Errorf("Blacklist(ttl=%s): expected nil error, got %v", ttl, err)
		}
	}

	if len(rdb.data) != 0 {
		t.Errorf("Expected no entries recorded, got %d", len(rdb.data))
	}
}

func TestBlacklistService_SetErrorSurfaces(t *testing.T) {
	rdb := newFakeRedis()
	rdb.setErr = errors.New("connection refused")
	ledger := NewBlacklistService(rdb)

	err := ledger.Blacklist(context.Background(), "some-token", time.Minute)
	if !errors.Is(err, rdb.setErr) {
		t.Errorf("Expected the write error to surface, got %v", err)
	}
}

func TestBlacklistService_DisabledFailsOpenSilently(t *testing.T) {
	rdb := newFakeRedis()
	rdb.enabled = false
	ledger := NewBlacklistService(rdb)

	if ledger.IsBlacklisted(context.Background(), "some-token") {
		t.Error("Expected disabled ledger to treat tokens as not revoked")
	}
	// A disabled ledger is never consulted
	if rdb.existsCalls != 0 {
		t.Errorf("Expected no lookups against a disabled client, got %d", rdb.existsCalls)
	}

	if err := ledger.Blacklist(context.Background(), "some-token", time.Minute); err != nil {
		t.Errorf("Expected disabled ledger to accept revocations as no-ops, got %v", err)
	}
	if len(rdb.data) != 0 {
		t.Errorf("Expected no entries recorded against a disabled client, got %d", len(rdb.data))
	}
}

func TestBlacklistService_LookupErrorFailsOpen(t *testing.T) {
	rdb := newFakeRedis()
	rdb.existsErr = errors.New("connection refused")
	ledger := NewBlacklistService(rdb)

	if ledger.IsBlacklisted(context.Background(), "some-token") {
		t.Error("Expected unreachable ledger to treat tokens as not revoked")
	}
	if rdb.existsCalls != 1 {
		t.Errorf("Expected exactly one lookup attempt, got %d", rdb.existsCalls)
	}
}
