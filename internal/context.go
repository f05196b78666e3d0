package internal

import (
	"context"
	"time"
)

type ctxKey string

const (
	ContextUserKey     ctxKey = "user"
	ContextLanguageKey ctxKey = "lang"
)

const defaultQueryTimeout = 5 * time.Second

// Principal is the authenticated caller attached to a request context.
type Principal struct {
	UserID      string
	Username    string
	Roles       []string
	Permissions []string
	TokenID     string
	ExpiresAt   time.Time
}

func (p *Principal) HasPermission(permission string) bool {
	for _, perm := range p.Permissions {
		if perm == permission {
			return true
		}
	}
	return false
}

func ContextWithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, ContextUserKey, p)
}

func PrincipalFromContext(ctx context.Context) (*Principal, bool) {
	if ctx == nil {
		return nil, false
	}
	p, ok := ctx.Value(ContextUserKey).(*Principal)
	return p, ok && p != nil
}

func UserIDFromContext(ctx context.Context) string {
	if p, ok := PrincipalFromContext(ctx); ok {
		return p.UserID
	}
	return ""
}

func ContextWithLanguage(ctx context.Context, lang string) context.Context {
	return context.WithValue(ctx, ContextLanguageKey, lang)
}

// LanguageFromContext returns the negotiated message language, DefaultLanguage if unset.
func LanguageFromContext(ctx context.Context) string {
	if ctx == nil {
		return DefaultLanguage
	}
	if lang, ok := ctx.Value(ContextLanguageKey).(string); ok && lang != "" {
		return lang
	}
	return DefaultLanguage
}

// WithTimeout returns a context with timeout, defaulting to 5 seconds if duration is zero or negative.
func WithTimeout(ctx context.Context, duration time.Duration) (context.Context, context.CancelFunc) {
	if duration <= 0 {
		duration = defaultQueryTimeout
	}
	return context.WithTimeout(ctx, duration)
}
