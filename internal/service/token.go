package service

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/NagawaEsther/live-well/internal/domain"
)

// ErrTokenExpired is joined to ErrUnauthenticated when a token was valid but
// has run past its expiry.
var ErrTokenExpired = errors.New("token expired")

type tokenClaims struct {
	Role domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies HS256 bearer tokens carrying an
// identity claim.
type TokenService struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

// NewTokenService creates a TokenService. Tokens expire ttl after issue.
func NewTokenService(secret, issuer string, ttl time.Duration) *TokenService {
	return &TokenService{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
	}
}

// TTL returns how long issued tokens stay valid.
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

// Issue signs a token for the claim.
func (s *TokenService) Issue(claim domain.IdentityClaim) (string, error) {
	now := time.Now()
	claims := tokenClaims{
		Role: claim.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   strconv.FormatInt(claim.UserID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}

// Verify checks the token's signature, algorithm, issuer and expiry and
// rebuilds the identity claim. Every failure wraps ErrUnauthenticated.
func (s *TokenService) Verify(tokenString string) (domain.IdentityClaim, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(s.issuer),
	)

	claims := &tokenClaims{}
	_, err := parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return domain.IdentityClaim{}, errors.Join(domain.ErrUnauthenticated, ErrTokenExpired)
		}
		return domain.IdentityClaim{}, fmt.Errorf("%w: %v", domain.ErrUnauthenticated, err)
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return domain.IdentityClaim{}, fmt.Errorf("%w: malformed subject", domain.ErrUnauthenticated)
	}
	if !claims.Role.Valid() {
		return domain.IdentityClaim{}, fmt.Errorf("%w: unknown role %q", domain.ErrUnauthenticated, claims.Role)
	}

	return domain.IdentityClaim{UserID: userID, Role: claims.Role}, nil
}
