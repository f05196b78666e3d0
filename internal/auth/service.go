package auth

import (
	"context"
	"errors"
	"log/slog"

	"github.com/frahmantamala/identity-access/internal"
	"github.com/frahmantamala/identity-access/internal/metrics"
	"github.com/frahmantamala/identity-access/internal/user"
)

// UserReader is the slice of the user service that authentication needs.
type UserReader interface {
	FindUser(ctx context.Context, username string) (*user.User, error)
	GetUserByID(ctx context.Context, id string) (*user.User, error)
	VerifyUserPassword(ctx context.Context, username, candidate string) (bool, error)
}

type TokenConfig struct {
	AccessExpireMinutes  int
	RefreshExpireMinutes int
}

type Service struct {
	users    UserReader
	tokens   TokenIssuer
	resolver PermissionResolver
	revoker  Revoker
	cfg      TokenConfig
	logger   *slog.Logger
}

// NewService wires authentication. A nil revoker falls back to an in-process one.
func NewService(users UserReader, tokens TokenIssuer, resolver PermissionResolver, revoker Revoker, cfg TokenConfig, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if revoker == nil {
		revoker = NewMemoryRevoker()
	}
	if cfg.AccessExpireMinutes <= 0 {
		cfg.AccessExpireMinutes = DefaultExpireMinutes
	}
	if cfg.RefreshExpireMinutes <= 0 {
		cfg.RefreshExpireMinutes = cfg.AccessExpireMinutes * 48
	}
	return &Service{
		users:    users,
		tokens:   tokens,
		resolver: resolver,
		revoker:  revoker,
		cfg:      cfg,
		logger:   logger,
	}
}

// Authenticate checks the credentials and issues an access/refresh pair.
// Unknown users and wrong passwords are indistinguishable to the caller.
func (s *Service) Authenticate(ctx context.Context, dto LoginDTO) (TokenResponse, error) {
	if err := dto.Validate(); err != nil {
		return TokenResponse{}, err
	}

	u, err := s.users.FindUser(ctx, dto.Username)
	if err != nil {
		return TokenResponse{}, err
	}
	if u == nil {
		s.logger.WarnContext(ctx, "login failed: unknown user", "username", dto.Username)
		metrics.IncAuthAttempt(metrics.AuthResultWrongCredentials)
		return TokenResponse{}, internal.ErrWrongCredentials
	}

	ok, err := s.users.VerifyUserPassword(ctx, u.Username, dto.Password)
	if err != nil {
		return TokenResponse{}, err
	}
	if !ok {
		s.logger.WarnContext(ctx, "login failed: wrong password", "username", u.Username)
		metrics.IncAuthAttempt(metrics.AuthResultWrongCredentials)
		return TokenResponse{}, internal.ErrWrongCredentials
	}
	if !u.IsActive() {
		s.logger.WarnContext(ctx, "login refused: user not active", "username", u.Username, "status", u.Status)
		metrics.IncAuthAttempt(metrics.AuthResultInactive)
		return TokenResponse{}, internal.ErrUserInactive
	}

	metrics.IncAuthAttempt(metrics.AuthResultSuccess)
	return s.issueTokens(u)
}

// RefreshTokens rotates a refresh token: the presented one is revoked and a
// new pair is issued.
func (s *Service) RefreshTokens(ctx context.Context, refreshToken string) (TokenResponse, error) {
	claims, err := s.verify(ctx, refreshToken, TokenTypeRefresh)
	if err != nil {
		return TokenResponse{}, err
	}

	u, err := s.users.GetUserByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, internal.ErrUserNotFound) {
			return TokenResponse{}, internal.ErrTokenInvalid
		}
		return TokenResponse{}, err
	}
	if !u.IsActive() {
		return TokenResponse{}, internal.ErrUserInactive
	}

	if err := s.revoker.Revoke(ctx, claims.TokenID, claims.ExpiresAt); err != nil {
		return TokenResponse{}, internal.NewInternalError("failed to rotate refresh token", err)
	}
	return s.issueTokens(u)
}

// ValidateAccessToken verifies signature, expiry, token type and revocation.
func (s *Service) ValidateAccessToken(ctx context.Context, token string) (*Claims, error) {
	return s.verify(ctx, token, TokenTypeAccess)
}

// Authorize turns an access token into a Principal carrying the caller's
// effective roles and permissions.
func (s *Service) Authorize(ctx context.Context, token string) (*internal.Principal, error) {
	claims, err := s.ValidateAccessToken(ctx, token)
	if err != nil {
		return nil, err
	}

	u, err := s.users.GetUserByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, internal.ErrUserNotFound) {
			return nil, internal.ErrTokenInvalid
		}
		return nil, err
	}
	if !u.IsActive() {
		return nil, internal.ErrUserInactive
	}

	roles, permissions, err := s.resolver.ResolvePermissions(ctx, u.ID)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to resolve permissions", "user_id", u.ID, "error", err)
		return nil, internal.NewInternalError("failed to resolve permissions", err)
	}

	return &internal.Principal{
		UserID:      u.ID,
		Username:    u.Username,
		Roles:       roles,
		Permissions: permissions,
		TokenID:     claims.TokenID,
		ExpiresAt:   claims.ExpiresAt,
	}, nil
}

// Logout revokes the access token and, when given and still valid, the
// refresh token.
func (s *Service) Logout(ctx context.Context, accessToken, refreshToken string) error {
	claims, err := s.ValidateAccessToken(ctx, accessToken)
	if err != nil {
		return err
	}
	if err := s.revoker.Revoke(ctx, claims.TokenID, claims.ExpiresAt); err != nil {
		return internal.NewInternalError("failed to revoke token", err)
	}

	if refreshToken == "" {
		return nil
	}
	refresh, err := s.verify(ctx, refreshToken, TokenTypeRefresh)
	if err != nil || refresh.Subject != claims.Subject {
		s.logger.DebugContext(ctx, "logout: ignoring refresh token", "user_id", claims.Subject)
		return nil
	}
	if err := s.revoker.Revoke(ctx, refresh.TokenID, refresh.ExpiresAt); err != nil {
		return internal.NewInternalError("failed to revoke token", err)
	}
	return nil
}

func (s *Service) CurrentUser(ctx context.Context, principal *internal.Principal) (*UserInfo, error) {
	if principal == nil {
		return nil, internal.ErrTokenInvalid
	}
	u, err := s.users.GetUserByID(ctx, principal.UserID)
	if err != nil {
		return nil, err
	}
	return &UserInfo{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		Status:      string(u.Status),
		Roles:       nonNil(principal.Roles),
		Permissions: nonNil(principal.Permissions),
	}, nil
}

func (s *Service) verify(ctx context.Context, token, tokenType string) (*Claims, error) {
	if token == "" {
		return nil, internal.ErrTokenInvalid
	}
	payload, err := s.tokens.VerifyToken(token)
	if err != nil {
		return nil, err
	}
	claims, err := claimsFromPayload(payload)
	if err != nil {
		return nil, err
	}
	if claims.Type != tokenType {
		return nil, internal.ErrTokenInvalid
	}

	revoked, err := s.revoker.IsRevoked(ctx, claims.TokenID)
	if err != nil {
		s.logger.ErrorContext(ctx, "revocation lookup failed", "error", err)
		return nil, internal.NewInternalError("failed to check token revocation", err)
	}
	if revoked {
		return nil, internal.ErrTokenInvalid
	}
	return claims, nil
}

func (s *Service) issueTokens(u *user.User) (TokenResponse, error) {
	access, err := s.tokens.GenerateToken(map[string]any{
		"sub":      u.ID,
		"username": u.Username,
		"type":     TokenTypeAccess,
	}, s.cfg.AccessExpireMinutes)
	if err != nil {
		return TokenResponse{}, internal.NewInternalError("failed to issue token", err)
	}

	refresh, err := s.tokens.GenerateToken(map[string]any{
		"sub":  u.ID,
		"type": TokenTypeRefresh,
	}, s.cfg.RefreshExpireMinutes)
	if err != nil {
		return TokenResponse{}, internal.NewInternalError("failed to issue token", err)
	}

	return TokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    BearerTokenType,
		ExpiresIn:    s.cfg.AccessExpireMinutes * 60,
	}, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
