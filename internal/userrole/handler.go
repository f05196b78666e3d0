package userrole

import (
	"context"
	"net/http"

	"github.com/frahmantamala/identity-access/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	AssignRole(ctx context.Context, userID, roleID string) (*UserRole, error)
	GetUserRoles(ctx context.Context, userID string) ([]UserRole, error)
	GetUsersByRole(ctx context.Context, roleID string) ([]UserRole, error)
	GetAllRelations(ctx context.Context) ([]UserRole, error)
	UpdateUserRole(ctx context.Context, userID, oldRoleID, newRoleID string) (*UserRole, error)
	UserHasRole(ctx context.Context, userID, roleID string) (bool, error)
	RemoveRole(ctx context.Context, userID, roleID string) error
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

// List handles GET /user-roles
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	h.respondList(w, r)(h.Service.GetAllRelations(r.Context()))
}

// ListByUser handles GET /users/{userID}/roles
func (h *Handler) ListByUser(w http.ResponseWriter, r *http.Request) {
	h.respondList(w, r)(h.Service.GetUserRoles(r.Context(), chi.URLParam(r, "userID")))
}

// ListByRole handles GET /roles/{roleID}/users
func (h *Handler) ListByRole(w http.ResponseWriter, r *http.Request) {
	h.respondList(w, r)(h.Service.GetUsersByRole(r.Context(), chi.URLParam(r, "roleID")))
}

// Assign handles POST /users/{userID}/roles
func (h *Handler) Assign(w http.ResponseWriter, r *http.Request) {
	var dto AssignRoleDTO
	if !h.Bind(w, r, &dto) {
		return
	}

	ur, err := h.Service.AssignRole(r.Context(), chi.URLParam(r, "userID"), dto.RoleID)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, ur)
}

// Check handles GET /users/{userID}/roles/{roleID}
func (h *Handler) Check(w http.ResponseWriter, r *http.Request) {
	userID, roleID := chi.URLParam(r, "userID"), chi.URLParam(r, "roleID")
	has, err := h.Service.UserHasRole(r.Context(), userID, roleID)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, HasRoleResponse{UserID: userID, RoleID: roleID, HasRole: has})
}

// Update handles PUT /users/{userID}/roles/{roleID}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var dto UpdateUserRoleDTO
	if !h.Bind(w, r, &dto) {
		return
	}

	ur, err := h.Service.UpdateUserRole(r.Context(), chi.URLParam(r, "userID"), chi.URLParam(r, "roleID"), dto.NewRoleID)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, ur)
}

// Remove handles DELETE /users/{userID}/roles/{roleID}
func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.RemoveRole(r.Context(), chi.URLParam(r, "userID"), chi.URLParam(r, "roleID")); err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) respondList(w http.ResponseWriter, r *http.Request) func([]UserRole, error) {
	return func(relations []UserRole, err error) {
		if err != nil {
			h.WriteAppError(w, r, err)
			return
		}
		h.WriteJSON(w, http.StatusOK, ToListResponse(relations))
	}
}
