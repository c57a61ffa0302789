package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/restockr/auth-service/internal/model"
	"github.com/restockr/auth-service/internal/service"
	ctxutil "github.com/restockr/auth-service/pkg/context"
)

// stubStore serves one account; the guard only ever calls FindByEmail, the
// embedded interface covers the rest.
type stubStore struct {
	service.UserStore
	user *model.User
	err  error
}

func (s *stubStore) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.user, s.err
}

type stubLedger struct {
	revoked bool
}

func (s *stubLedger) Blacklist(ctx context.Context, token string, ttl time.Duration) error {
	return nil
}

func (s *stubLedger) IsBlacklisted(ctx context.Context, token string) bool {
	return s.revoked
}

func guardTokens() *service.TokenService {
	return service.NewTokenService("guard-test-secret", time.Hour, 24*time.Hour)
}

func guardUser() *model.User {
	return &model.User{
		Model:       gorm.Model{ID: 7},
		FullName:    "Ada Obi",
		Email:       "ada@example.com",
		PhoneNumber: "+2348012345678",
		Role:        model.RoleCustomer,
		IsActive:    true,
	}
}

// newGuardedRouter wires RequireAuth in front of a handler that echoes the
// principal it received.
func newGuardedRouter(t *testing.T, tokens *service.TokenService, ledger service.RevocationLedger, store service.UserStore) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	guard := NewAuthMiddleware(tokens, ledger, store)
	r.GET("/protected", guard.RequireAuth(), func(c *gin.Context) {
		userID, _ := c.Get("user_id")
		ctxUserID, _ := ctxutil.GetUserID(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{
			"user_id":     userID,
			"email":       c.GetString("email"),
			"role":        c.GetString("role"),
			"token":       c.GetString("access_token"),
			"ctx_user_id": ctxUserID,
		})
	})
	return r
}

func performGet(r *gin.Engine, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireAuth_Success(t *testing.T) {
	tokens := guardTokens()
	user := guardUser()
	r := newGuardedRouter(t, tokens, &stubLedger{}, &stubStore{user: user})

	accessToken, err := tokens.IssueAccessToken(user.Email, user.Role)
	if err != nil {
		t.Fatalf("IssueAccessToken failed: %v", err)
	}

	w := performGet(r, "Bearer "+accessToken)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}

	if body["email"] != "ada@example.com" {
		t.Errorf("Expected email ada@example.com, got %v", body["email"])
	}
	if body["role"] != "customer" {
		t.Errorf("Expected role customer, got %v", body["role"])
	}
	if body["token"] != accessToken {
		t.Error("Expected the raw access token available to handlers")
	}
	if body["user_id"] != float64(7) {
		t.Errorf("Expected user_id 7, got %v", body["user_id"])
	}
	// The principal also travels on the request context for log enrichment
	if body["ctx_user_id"] != float64(7) {
		t.Errorf("Expected context user id 7, got %v", body["ctx_user_id"])
	}
}

func TestRequireAuth_MissingOrMalformedHeader(t *testing.T) {
	r := newGuardedRouter(t, guardTokens(), &stubLedger{}, &stubStore{user: guardUser()})

	tests := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"wrong scheme", "Basic dXNlcjpwYXNz"},
		{"lowercase scheme", "bearer some-token"},
		{"scheme only", "Bearer"},
		{"empty token", "Bearer "},
		{"extra parts", "Bearer one two"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := performGet(r, tt.header)
			if w.Code != http.StatusUnauthorized {
				t.Errorf("Expected status 401, got %d", w.Code)
			}
			if challenge := w.Header().Get("WWW-Authenticate"); challenge != "Bearer" {
				t.Errorf("Expected WWW-Authenticate: Bearer, got %q", challenge)
			}
		})
	}
}

func TestRequireAuth_RejectsRefreshToken(t *testing.T) {
	tokens := guardTokens()
	r := newGuardedRouter(t, tokens, &stubLedger{}, &stubStore{user: guardUser()})

	refreshToken, err := tokens.IssueRefreshToken("ada@example.com")
	if err != nil {
		t.Fatalf("IssueRefreshToken failed: %v", err)
	}

	if w := performGet(r, "Bearer "+refreshToken); w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401 for a refresh token, got %d", w.Code)
	}
}

func TestRequireAuth_RejectsExpiredToken(t *testing.T) {
	expired := service.NewTokenService("guard-test-secret", -time.Minute, -time.Minute)
	r := newGuardedRouter(t, guardTokens(), &stubLedger{}, &stubStore{user: guardUser()})

	accessToken, err := expired.IssueAccessToken("ada@example.com", model.RoleCustomer)
	if err != nil {
		t.Fatalf("IssueAccessToken failed: %v", err)
	}

	if w := performGet(r, "Bearer "+accessToken); w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401 for an expired token, got %d", w.Code)
	}
}

func TestRequireAuth_RejectsRevokedToken(t *testing.T) {
	tokens := guardTokens()
	r := newGuardedRouter(t, tokens, &stubLedger{revoked: true}, &stubStore{user: guardUser()})

	accessToken, err := tokens.IssueAccessToken("ada@example.com", model.RoleCustomer)
	if err != nil {
		t.Fatalf("IssueAccessToken failed: %v", err)
	}

	w := performGet(r, "Bearer "+accessToken)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("Expected status 401 for a revoked token, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "revoked") {
		t.Errorf("Expected the response to name the revocation, got %s", w.Body.String())
	}
}

func TestRequireAuth_UnknownSubject(t *testing.T) {
	tokens := guardTokens()
	// Token verifies but the account is gone
	r := newGuardedRouter(t, tokens, &stubLedger{}, &stubStore{user: nil})

	accessToken, err := tokens.IssueAccessToken("deleted@example.com", model.RoleCustomer)
	if err != nil {
		t.Fatalf("IssueAccessToken failed: %v", err)
	}

	if w := performGet(r, "Bearer "+accessToken); w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401 for a deleted subject, got %d", w.Code)
	}
}

func TestRequireAuth_SubjectLookupError(t *testing.T) {
	tokens := guardTokens()
	r := newGuardedRouter(t, tokens, &stubLedger{}, &stubStore{err: context.DeadlineExceeded})

	accessToken, err := tokens.IssueAccessToken("ada@example.com", model.RoleCustomer)
	if err != nil {
		t.Fatalf("IssueAccessToken failed: %v", err)
	}

	if w := performGet(r, "Bearer "+accessToken); w.Code != http.StatusInternalServerError {
		t.Errorf("Expected status 500 on lookup failure, got %d", w.Code)
	}
}

func TestRequireAuth_DeactivatedAccount(t *testing.T) {
	tokens := guardTokens()
	user := guardUser()
	user.IsActive = false
	r := newGuardedRouter(t, tokens, &stubLedger{}, &stubStore{user: user})

	accessToken, err := tokens.IssueAccessToken(user.Email, user.Role)
	if err != nil {
		t.Fatalf("IssueAccessToken failed: %v", err)
	}

	// A valid token no longer helps once the account is deactivated
	if w := performGet(r, "Bearer "+accessToken); w.Code != http.StatusForbidden {
		t.Errorf("Expected status 403 for a deactivated account, got %d", w.Code)
	}
}
