package user

import (
	"context"
	"net/http"

	"github.com/frahmantamala/identity-access/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	CreateUser(ctx context.Context, username, email, password string) (*User, error)
	GetUser(ctx context.Context, username string) (*User, error)
	GetAllUsers(ctx context.Context) ([]*User, error)
	UpdateUsername(ctx context.Context, username, newUsername string) (*User, error)
	UpdateEmail(ctx context.Context, username, newEmail string) (*User, error)
	UpdatePassword(ctx context.Context, username, currentPassword, newPassword string) (*User, error)
	ChangeStatus(ctx context.Context, username, status string) (*User, error)
	DeleteUser(ctx context.Context, username string) error
}

// RoleReader lists the role ids assigned to a user id.
type RoleReader interface {
	RoleIDsForUser(ctx context.Context, userID string) ([]string, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
	Roles   RoleReader
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI, roles RoleReader) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
		Roles:       roles,
	}
}

// Register handles POST /users
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var dto CreateUserDTO
	if !h.Bind(w, r, &dto) {
		return
	}

	u, err := h.Service.CreateUser(r.Context(), dto.Username, dto.Email, dto.Password)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, ToResponse(u))
}

// List handles GET /users
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.Service.GetAllUsers(r.Context())
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, ToListResponse(users))
}

// Get handles GET /users/{username}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	u, err := h.Service.GetUser(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	var roles []string
	if h.Roles != nil {
		roles, err = h.Roles.RoleIDsForUser(r.Context(), u.ID)
		if err != nil {
			h.WriteAppError(w, r, err)
			return
		}
	}
	h.WriteJSON(w, http.StatusOK, ToResponseWithRoles(u, roles))
}

// UpdateEmail handles PATCH /users/{username}/email
func (h *Handler) UpdateEmail(w http.ResponseWriter, r *http.Request) {
	var dto UpdateEmailDTO
	if !h.Bind(w, r, &dto) {
		return
	}
	h.respond(w, r)(h.Service.UpdateEmail(r.Context(), chi.URLParam(r, "username"), dto.Email))
}

// UpdateUsername handles PATCH /users/{username}/username
func (h *Handler) UpdateUsername(w http.ResponseWriter, r *http.Request) {
	var dto UpdateUsernameDTO
	if !h.Bind(w, r, &dto) {
		return
	}
	h.respond(w, r)(h.Service.UpdateUsername(r.Context(), chi.URLParam(r, "username"), dto.NewUsername))
}

// ChangePassword handles PATCH /users/{username}/password
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var dto ChangePasswordDTO
	if !h.Bind(w, r, &dto) {
		return
	}
	h.respond(w, r)(h.Service.UpdatePassword(r.Context(), chi.URLParam(r, "username"), dto.CurrentPassword, dto.NewPassword))
}

// UpdateStatus handles PATCH /users/{username}/status
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var dto UpdateStatusDTO
	if !h.Bind(w, r, &dto) {
		return
	}
	h.respond(w, r)(h.Service.ChangeStatus(r.Context(), chi.URLParam(r, "username"), dto.Status))
}

// Delete handles DELETE /users/{username}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.DeleteUser(r.Context(), chi.URLParam(r, "username")); err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) respond(w http.ResponseWriter, r *http.Request) func(*User, error) {
	return func(u *User, err error) {
		if err != nil {
			h.WriteAppError(w, r, err)
			return
		}
		h.WriteJSON(w, http.StatusOK, ToResponse(u))
	}
}
