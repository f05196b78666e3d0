package rolepermission

import (
	"context"
	"net/http"

	"github.com/frahmantamala/identity-access/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	AddPermissionToRole(ctx context.Context, roleID, permissionID string) (*RolePermission, error)
	GetAllRelations(ctx context.Context) ([]RolePermission, error)
	GetPermissionsByRole(ctx context.Context, roleID string) ([]RolePermission, error)
	GetRolesByPermission(ctx context.Context, permissionID string) ([]RolePermission, error)
	UpdatePermissionRelation(ctx context.Context, roleID, permissionID, newPermissionID string) (*RolePermission, error)
	RoleHasPermission(ctx context.Context, roleID, permissionID string) (bool, error)
	RemovePermissionFromRole(ctx context.Context, roleID, permissionID string) error
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

// List handles GET /role-permissions
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	h.respondList(w, r)(h.Service.GetAllRelations(r.Context()))
}

// ListByRole handles GET /roles/{roleID}/permissions
func (h *Handler) ListByRole(w http.ResponseWriter, r *http.Request) {
	h.respondList(w, r)(h.Service.GetPermissionsByRole(r.Context(), chi.URLParam(r, "roleID")))
}

// ListByPermission handles GET /permissions/{permissionID}/roles
func (h *Handler) ListByPermission(w http.ResponseWriter, r *http.Request) {
	h.respondList(w, r)(h.Service.GetRolesByPermission(r.Context(), chi.URLParam(r, "permissionID")))
}

// Grant handles POST /roles/{roleID}/permissions
func (h *Handler) Grant(w http.ResponseWriter, r *http.Request) {
	var dto GrantPermissionDTO
	if !h.Bind(w, r, &dto) {
		return
	}

	rp, err := h.Service.AddPermissionToRole(r.Context(), chi.URLParam(r, "roleID"), dto.PermissionID)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, rp)
}

// Check handles GET /roles/{roleID}/permissions/{permissionID}
func (h *Handler) Check(w http.ResponseWriter, r *http.Request) {
	roleID, permissionID := chi.URLParam(r, "roleID"), chi.URLParam(r, "permissionID")
	has, err := h.Service.RoleHasPermission(r.Context(), roleID, permissionID)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, HasPermissionResponse{RoleID: roleID, PermissionID: permissionID, HasPermission: has})
}

// Update handles PUT /roles/{roleID}/permissions/{permissionID}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var dto UpdateRolePermissionDTO
	if !h.Bind(w, r, &dto) {
		return
	}

	rp, err := h.Service.UpdatePermissionRelation(r.Context(), chi.URLParam(r, "roleID"), chi.URLParam(r, "permissionID"), dto.NewPermissionID)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, rp)
}

// Revoke handles DELETE /roles/{roleID}/permissions/{permissionID}
func (h *Handler) Revoke(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.RemovePermissionFromRole(r.Context(), chi.URLParam(r, "roleID"), chi.URLParam(r, "permissionID")); err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) respondList(w http.ResponseWriter, r *http.Request) func([]RolePermission, error) {
	return func(relations []RolePermission, err error) {
		if err != nil {
			h.WriteAppError(w, r, err)
			return
		}
		h.WriteJSON(w, http.StatusOK, ToListResponse(relations))
	}
}
