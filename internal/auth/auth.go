package auth

import (
	"context"
	"time"

	"github.com/frahmantamala/identity-access/internal"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"

	BearerTokenType = "bearer"
)

// Claims is the typed view of a verified token payload.
type Claims struct {
	Subject   string
	Username  string
	Type      string
	TokenID   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenResponse is returned by login and refresh.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
}

type UserInfo struct {
	ID          string   `json:"id"`
	Username    string   `json:"username"`
	Email       string   `json:"email"`
	Status      string   `json:"status"`
	Roles       []string `json:"roles"`
	Permissions []string `json:"permissions"`
}

// TokenIssuer creates and verifies signed tokens.
type TokenIssuer interface {
	GenerateToken(payload map[string]any, expireMinutes int) (string, error)
	VerifyToken(token string) (map[string]any, error)
}

// PermissionResolver returns the roles held by a user and the flat union of
// permissions those roles grant.
type PermissionResolver interface {
	ResolvePermissions(ctx context.Context, userID string) (roles []string, permissions []string, err error)
}

// Revoker tracks logged out token ids until they would have expired anyway.
type Revoker interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

func claimsFromPayload(payload map[string]any) (*Claims, error) {
	c := &Claims{}
	c.Subject, _ = payload["sub"].(string)
	c.Username, _ = payload["username"].(string)
	c.Type, _ = payload["type"].(string)
	c.TokenID, _ = payload["jti"].(string)

	if exp, ok := numericClaim(payload["exp"]); ok {
		c.ExpiresAt = time.Unix(exp, 0)
	}
	if iat, ok := numericClaim(payload["iat"]); ok {
		c.IssuedAt = time.Unix(iat, 0)
	}

	if c.Subject == "" || c.TokenID == "" || c.ExpiresAt.IsZero() {
		return nil, internal.ErrTokenInvalid
	}
	return c, nil
}

func numericClaim(v any) (int64, bool) {
	switch n := v.(type) {
	case float64:
		return int64(n), true
	case int64:
		return n, true
	case int:
		return int64(n), true
	}
	return 0, false
}
