package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/schoolsuite/institute-admin-api/internal/domain"
	"github.com/schoolsuite/institute-admin-api/internal/observability"
	"github.com/schoolsuite/institute-admin-api/internal/repository"
	"github.com/schoolsuite/institute-admin-api/internal/security"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountDisabled    = errors.New("account disabled")
)

// LoginResult bundles the access token with the session's resolved codenames
// so the caller can derive its capability map from a single round trip.
type LoginResult struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresIn   int64        `json:"expires_in"`
	User        *domain.User `json:"user"`
	Permissions []string     `json:"permissions"`
}

type AuthService struct {
	users    repository.UserRepository
	rbac     *RBACService
	tokens   *security.JWTManager
	tokenTTL time.Duration
}

func NewAuthService(users repository.UserRepository, rbac *RBACService, tokens *security.JWTManager, tokenTTL time.Duration) *AuthService {
	return &AuthService{users: users, rbac: rbac, tokens: tokens, tokenTTL: tokenTTL}
}

// Login verifies credentials and issues an access token. Lookup failures and
// password mismatches collapse into the same error so the response never
// reveals whether the email exists.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		observability.RecordAuthLogin(ctx, "bad_request")
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			observability.RecordAuthLogin(ctx, "invalid_credentials")
			return nil, ErrInvalidCredentials
		}
		observability.RecordAuthLogin(ctx, "error")
		return nil, err
	}

	ok, err := security.VerifyPassword(user.PasswordHash, password)
	if err != nil || !ok {
		observability.RecordAuthLogin(ctx, "invalid_credentials")
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		observability.RecordAuthLogin(ctx, "account_disabled")
		return nil, ErrAccountDisabled
	}

	token, err := s.tokens.IssueAccessToken(user)
	if err != nil {
		observability.RecordAuthLogin(ctx, "error")
		return nil, err
	}
	_ = s.users.TouchLastLogin(user.ID, time.Now().UTC())

	permissions := s.rbac.PermissionsFromGroup(user.Group)
	if permissions == nil {
		permissions = []string{}
	}
	observability.RecordAuthLogin(ctx, "success")
	return &LoginResult{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.tokenTTL.Seconds()),
		User:        user,
		Permissions: permissions,
	}, nil
}

// Me returns the stored user for a parsed session, with group preloaded.
func (s *AuthService) Me(_ context.Context, claims *security.Claims) (*domain.User, error) {
	if claims == nil {
		return nil, ErrInvalidCredentials
	}
	id, err := claims.UserID()
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	return s.users.FindByID(id)
}
