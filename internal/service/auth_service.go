package service

import (
	"context"
	"errors"
	"labsite/internal/auth"
	"labsite/internal/entity"
	"labsite/internal/model"
	"strings"

	"github.com/sirupsen/logrus"
)

// ErrInvalidCredentials is the only failure a login attempt ever reports.
var ErrInvalidCredentials = &Error{Kind: KindAuthentication, Message: "invalid email or password"}

// AuthService exchanges credentials for a session.
type AuthService struct {
	repo   model.Repository
	tokens *auth.Manager
	clock  Clock
}

// NewAuthService 创建认证服务
func NewAuthService(repo model.Repository, tokens *auth.Manager, clock Clock) *AuthService {
	return &AuthService{repo: repo, tokens: tokens, clock: clockOrSystem(clock)}
}

// Authenticate checks email and password. Unknown email, inactive account and
// wrong password are indistinguishable to the caller.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*entity.Identity, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		auth.BurnCompare(password)
		return nil, ErrInvalidCredentials
	}

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, model.ErrNotFound) {
			logrus.WithError(err).Error("failed to load user for login")
			return nil, errInternal("failed to authenticate", err)
		}
		auth.BurnCompare(password)
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		auth.BurnCompare(password)
		return nil, ErrInvalidCredentials
	}
	if err := auth.VerifyPassword(user.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := s.repo.TouchLastLogin(ctx, user.ID, s.clock.Now()); err != nil {
		logrus.WithError(err).WithField("user_id", user.ID).Warn("failed to record last login")
	}

	return &entity.Identity{
		ID:    user.ID,
		Email: user.Email,
		Name:  user.NameOrEmail(),
		Role:  user.Role,
	}, nil
}

// Login authenticates and issues a session token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*entity.AuthResponse, error) {
	identity, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}
	token, expiresAt, err := s.tokens.GenerateToken(identity)
	if err != nil {
		logrus.WithError(err).WithField("user_id", identity.ID).Error("failed to issue session token")
		return nil, errInternal("failed to issue session", err)
	}
	return &entity.AuthResponse{Token: token, ExpiresAt: expiresAt, User: *identity}, nil
}

// ParseSession returns the identity asserted by a session token. The role in
// the token is informational only; Authorizer re-reads the account.
func (s *AuthService) ParseSession(token string) (*entity.Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, newError(KindAuthentication, "missing session")
	}
	claims, err := s.tokens.ParseToken(token)
	if err != nil {
		return nil, &Error{Kind: KindAuthentication, Message: "invalid or expired session", Err: err}
	}
	return claims.Identity(), nil
}
