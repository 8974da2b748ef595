package service

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/salesdesk/sales-management/internal/core/domain"
)

const defaultTokenTTL = 24 * time.Hour

// tokenClaims is the JWT payload shared by every service.
type tokenClaims struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies HS256 bearer tokens with a shared secret.
// It holds no mutable state and is safe for concurrent use.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &TokenService{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue signs a token for user valid for the configured TTL.
func (s *TokenService) Issue(user *domain.User) (string, error) {
	now := s.now()
	claims := tokenClaims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.secret)
}

// Verify validates the value of an Authorization header.
//
//	absent header, non-Bearer scheme, empty token  → ErrMissingCredential
//	bad signature, malformed token, bad claim set  → ErrInvalidCredential
//	expired token                                  → ErrExpiredCredential
func (s *TokenService) Verify(rawHeader string) (*domain.Claims, error) {
	raw, ok := bearerToken(rawHeader)
	if !ok {
		return nil, domain.ErrMissingCredential
	}

	var tc tokenClaims
	_, err := jwt.ParseWithClaims(raw, &tc, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrExpiredCredential
		}
		return nil, domain.NewError(domain.KindInvalidCredential, domain.ErrInvalidCredential.Message, err)
	}

	subject := tc.UserID
	if subject == "" {
		subject = tc.Subject
	}
	if subject == "" || !domain.ValidRole(tc.Role) {
		return nil, domain.ErrInvalidCredential
	}

	claims := &domain.Claims{
		SubjectID: subject,
		Email:     tc.Email,
		Role:      tc.Role,
		ExpiresAt: tc.ExpiresAt.Time,
		Raw:       raw,
	}
	if tc.IssuedAt != nil {
		claims.IssuedAt = tc.IssuedAt.Time
		if !claims.ExpiresAt.After(claims.IssuedAt) {
			return nil, domain.ErrInvalidCredential
		}
	}

	return claims, nil
}

// bearerToken extracts the token from "Bearer <token>", scheme case-insensitive.
func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
