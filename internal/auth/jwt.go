package auth

import (
	"crypto/rand"
	"errors"
	"fmt"
	"labsite/internal/entity"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionLifetime is fixed; there is no refresh, expiry forces a new login.
const SessionLifetime = 24 * time.Hour

// Claims represents JWT claims for authenticated requests.
type Claims struct {
	UserID uint   `json:"uid"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Identity returns the identity asserted by the token.
func (c *Claims) Identity() *entity.Identity {
	if c == nil {
		return nil
	}
	return &entity.Identity{ID: c.UserID, Email: c.Email, Name: c.Name, Role: c.Role}
}

// Manager encapsulates JWT generation and validation.
type Manager struct {
	secret []byte
	issuer string
	now    func() time.Time
}

// NewManager creates a new JWT manager. An empty secret is replaced with
// random bytes, so tokens are only valid for this process.
func NewManager(secret, issuer string) (*Manager, error) {
	key := []byte(strings.TrimSpace(secret))
	if len(key) == 0 {
		key = make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			return nil, fmt.Errorf("generate jwt secret: %w", err)
		}
	}
	if strings.TrimSpace(issuer) == "" {
		issuer = "labsite"
	}
	return &Manager{
		secret: key,
		issuer: issuer,
		now:    time.Now,
	}, nil
}

// WithClock overrides the time source used for issuing and validating tokens.
func (m *Manager) WithClock(now func() time.Time) *Manager {
	if m != nil && now != nil {
		m.now = now
	}
	return m
}

// GenerateToken issues a signed JWT for the provided identity.
func (m *Manager) GenerateToken(identity *entity.Identity) (string, time.Time, error) {
	if m == nil {
		return "", time.Time{}, errors.New("jwt manager is nil")
	}
	if identity == nil || identity.ID == 0 {
		return "", time.Time{}, errors.New("invalid identity for token generation")
	}
	now := m.now().UTC()
	expiry := now.Add(SessionLifetime)

	claims := Claims{
		UserID: identity.ID,
		Email:  identity.Email,
		Name:   identity.Name,
		Role:   identity.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", identity.ID),
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiry),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiry, nil
}

// ParseToken validates the token and returns claims.
func (m *Manager) ParseToken(tokenString string) (*Claims, error) {
	if m == nil {
		return nil, errors.New("jwt manager is nil")
	}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)

	token, err := parser.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == 0 {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}
