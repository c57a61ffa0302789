package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/restockr/auth-service/internal/errors"
	"github.com/restockr/auth-service/internal/model"
)

// Token type claims. An access token authorizes requests; a refresh token
// may only be exchanged for a new pair.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// TokenClaims is the decoded, verified content of a session token.
type TokenClaims struct {
	Subject   string // account email
	Role      string // present on access tokens only
	TokenType string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenService issues and verifies signed session tokens. Both token kinds
// are self-contained HS256 JWTs keyed by the account email.
type TokenService struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewTokenService(secret string, accessTTL, refreshTTL time.Duration) *TokenService {
	return &TokenService{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// AccessTTL returns the configured access token lifetime.
func (s *TokenService) AccessTTL() time.Duration {
	return s.accessTTL
}

// IssueAccessToken creates a short-lived access token carrying the subject's
// role so authorization never needs a second lookup.
func (s *TokenService) IssueAccessToken(email string, role model.UserRole) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  email,
		"role": string(role),
		"type": TokenTypeAccess,
		"iat":  now.Unix(),
		"exp":  now.Add(s.accessTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// IssueRefreshToken creates a long-lived refresh token. Refresh tokens carry
// no role claim.
func (s *TokenService) IssueRefreshToken(email string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  email,
		"type": TokenTypeRefresh,
		"iat":  now.Unix(),
		"exp":  now.Add(s.refreshTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Decode parses and verifies a token. Bad signature, malformed payload,
// missing claims and expiry all collapse into ErrInvalidToken; callers never
// learn which check failed.
func (s *TokenService) Decode(tokenString string) (*TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Validate signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, apperrors.ErrInvalidToken
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, apperrors.ErrInvalidToken
	}

	subject, _ := mapClaims["sub"].(string)
	tokenType, _ := mapClaims["type"].(string)
	if subject == "" || tokenType == "" {
		return nil, apperrors.ErrInvalidToken
	}

	claims := &TokenClaims{
		Subject:   subject,
		TokenType: tokenType,
	}
	if role, ok := mapClaims["role"].(string); ok {
		claims.Role = role
	}
	if iat, ok := mapClaims["iat"].(float64); ok {
		claims.IssuedAt = time.Unix(int64(iat), 0)
	}
	if exp, ok := mapClaims["exp"].(float64); ok {
		claims.ExpiresAt = time.Unix(int64(exp), 0)
	}

	return claims, nil
}

// VerifyType decodes a token and asserts its type claim. Every verification
// path goes through here so an access token can never be replayed into a
// refresh exchange or the reverse.
func (s *TokenService) VerifyType(tokenString, expectedType string) (*TokenClaims, error) {
	claims, err := s.Decode(tokenString)
	if err != nil {
		return nil, err
	}

	if claims.TokenType != expectedType {
		return nil, apperrors.ErrInvalidToken
	}

	return claims, nil
}
