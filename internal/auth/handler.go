package auth

import (
	"context"
	"net/http"

	"github.com/frahmantamala/identity-access/internal"
	"github.com/frahmantamala/identity-access/internal/transport"
)

type ServiceAPI interface {
	Authenticate(ctx context.Context, dto LoginDTO) (TokenResponse, error)
	RefreshTokens(ctx context.Context, refreshToken string) (TokenResponse, error)
	Authorize(ctx context.Context, token string) (*internal.Principal, error)
	Logout(ctx context.Context, accessToken, refreshToken string) error
	CurrentUser(ctx context.Context, principal *internal.Principal) (*UserInfo, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, svc ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     svc,
	}
}

// Login handles POST /auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if !h.Bind(w, r, &dto) {
		return
	}

	tokens, err := h.Service.Authenticate(r.Context(), dto)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, tokens)
}

// RefreshToken handles POST /auth/refresh
func (h *Handler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var dto RefreshTokenDTO
	if !h.Bind(w, r, &dto) {
		return
	}

	tokens, err := h.Service.RefreshTokens(r.Context(), dto.RefreshToken)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, tokens)
}

// Logout handles POST /auth/logout. The body is optional.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	token := h.ExtractTokenFromHeader(r)
	if token == "" {
		h.WriteAppError(w, r, internal.ErrTokenInvalid)
		return
	}

	var dto LogoutDTO
	if r.ContentLength > 0 {
		if err := h.DecodeJSON(r, &dto); err != nil {
			h.WriteAppError(w, r, err)
			return
		}
	}

	if err := h.Service.Logout(r.Context(), token, dto.RefreshToken); err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Me handles GET /auth/me
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	principal, ok := internal.PrincipalFromContext(r.Context())
	if !ok {
		h.WriteAppError(w, r, internal.ErrTokenInvalid)
		return
	}

	info, err := h.Service.CurrentUser(r.Context(), principal)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, info)
}

// AuthMiddleware resolves the bearer token into a Principal and stores it on
// the request context.
func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := h.ExtractTokenFromHeader(r)
		if token == "" {
			h.Logger.WarnContext(r.Context(), "auth middleware: missing authorization token", "path", r.URL.Path)
			h.WriteAppError(w, r, internal.ErrTokenInvalid)
			return
		}

		principal, err := h.Service.Authorize(r.Context(), token)
		if err != nil {
			h.WriteAppError(w, r, err)
			return
		}

		h.Logger.DebugContext(r.Context(), "auth middleware: authenticated", "user_id", principal.UserID)
		next.ServeHTTP(w, r.WithContext(internal.ContextWithPrincipal(r.Context(), principal)))
	})
}
