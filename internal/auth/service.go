package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/glzzd/orion/internal/ids"
)

// Service wires the token service to user and role persistence. It owns
// registration, credential login, refresh-token rotation and bearer-token
// authentication.
type Service struct {
	users  UserStore
	roles  RoleDirectory
	tokens *TokenService
	log    *zap.Logger
	now    func() time.Time
}

// NewService constructs the auth service.
func NewService(users UserStore, roles RoleDirectory, tokens *TokenService, log *zap.Logger) (*Service, error) {
	if users == nil || roles == nil || tokens == nil {
		return nil, errors.New("auth: user store, role directory and token service are required")
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{users: users, roles: roles, tokens: tokens, log: log, now: time.Now}, nil
}

// RegisterInput carries the self-registration payload.
type RegisterInput struct {
	TenantID     string
	Username     string
	Email        string
	Password     string
	PersonalData PersonalData
}

// Register creates a new active user. Username and email are lower-cased
// before the uniqueness check, mirroring login matching.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*User, error) {
	username := strings.TrimSpace(strings.ToLower(in.Username))
	email := strings.TrimSpace(strings.ToLower(in.Email))
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", ErrInvalidInput)
	}
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: valid email is required", ErrInvalidInput)
	}
	if in.Password == "" {
		return nil, fmt.Errorf("%w: password is required", ErrInvalidInput)
	}
	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	user := &User{
		ID:           ids.New(),
		TenantID:     strings.TrimSpace(in.TenantID),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Status:       UserStatusActive,
		PersonalData: in.PersonalData,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// LoginResult is what a successful credential login returns: the token
// pair, the resolved principal and the user record.
type LoginResult struct {
	Tokens    TokenPair
	Principal Principal
	User      *User
}

// Login authenticates by username-or-email identifier plus password. Any
// credential failure, including an unknown identifier or a non-active
// account, collapses to ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, identifier, password string) (LoginResult, error) {
	identifier = strings.TrimSpace(strings.ToLower(identifier))
	if identifier == "" || password == "" {
		return LoginResult{}, ErrInvalidCredentials
	}
	user, err := s.users.FindUserByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, err
	}
	if err := VerifyPassword(user.PasswordHash, password); err != nil {
		return LoginResult{}, ErrInvalidCredentials
	}
	if user.Status != UserStatusActive {
		return LoginResult{}, ErrInvalidCredentials
	}
	principal, err := s.principalFor(ctx, user)
	if err != nil {
		return LoginResult{}, err
	}
	pair, err := s.Issue(ctx, user.ID)
	if err != nil {
		return LoginResult{}, err
	}
	return LoginResult{Tokens: pair, Principal: principal, User: user}, nil
}

// Issue mints a fresh token pair and appends the refresh token to the
// user's persisted set before returning it.
func (s *Service) Issue(ctx context.Context, userID string) (TokenPair, error) {
	pair, err := s.tokens.Generate(userID)
	if err != nil {
		return TokenPair{}, err
	}
	if err := s.users.AddRefreshToken(ctx, userID, pair.RefreshToken); err != nil {
		return TokenPair{}, err
	}
	return pair, nil
}

// Rotate exchanges a refresh token for a new pair. The presented token is
// removed from the user's set first; if it was already absent the token
// was rotated before (or never issued) and the call fails as replayed with
// no side effect. Exactly one of two concurrent rotations of the same
// token can win the removal.
func (s *Service) Rotate(ctx context.Context, refreshToken string) (TokenPair, error) {
	userID, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return TokenPair{}, err
	}
	removed, err := s.users.RemoveRefreshToken(ctx, userID, refreshToken)
	if err != nil {
		return TokenPair{}, err
	}
	if !removed {
		return TokenPair{}, ErrTokenReplayed
	}
	return s.Issue(ctx, userID)
}

// Logout invalidates the presented refresh token. Removing an
// already-absent token is not an error.
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	userID, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return err
	}
	_, err = s.users.RemoveRefreshToken(ctx, userID, refreshToken)
	return err
}

// Authenticate verifies a bearer access token and resolves its principal.
func (s *Service) Authenticate(ctx context.Context, accessToken string) (Principal, error) {
	userID, err := s.tokens.VerifyAccess(accessToken)
	if err != nil {
		return Principal{}, err
	}
	user, err := s.users.FindUser(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Principal{}, ErrInvalidToken
		}
		return Principal{}, err
	}
	if user.Status != UserStatusActive {
		return Principal{}, ErrForbidden
	}
	return s.principalFor(ctx, user)
}

// Principal loads a user and resolves its effective permission set.
func (s *Service) Principal(ctx context.Context, userID string) (Principal, error) {
	user, err := s.users.FindUser(ctx, userID)
	if err != nil {
		return Principal{}, err
	}
	return s.principalFor(ctx, user)
}

func (s *Service) principalFor(ctx context.Context, user *User) (Principal, error) {
	assignments, err := s.roles.AssignmentsForUser(ctx, user.ID)
	if err != nil {
		return Principal{}, err
	}
	roleIDs := make([]string, 0, len(assignments))
	for _, a := range assignments {
		roleIDs = append(roleIDs, a.RoleID)
	}
	rolesByID, err := s.roles.RolesByID(ctx, roleIDs)
	if err != nil {
		return Principal{}, err
	}
	return ResolvePrincipal(user, assignments, rolesByID, s.log), nil
}
