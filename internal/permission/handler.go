package permission

import (
	"context"
	"net/http"

	"github.com/frahmantamala/identity-access/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	CreatePermission(ctx context.Context, name, description string) (*Permission, error)
	GetPermission(ctx context.Context, name string) (*Permission, error)
	GetAllPermissions(ctx context.Context) ([]*Permission, error)
	UpdateDescription(ctx context.Context, name string, description *string) (*Permission, error)
	DeletePermission(ctx context.Context, name string) error
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

// Create handles POST /permissions
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var dto CreatePermissionDTO
	if !h.Bind(w, r, &dto) {
		return
	}

	created, err := h.Service.CreatePermission(r.Context(), dto.Name, dto.Description)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, ToResponse(created))
}

// List handles GET /permissions
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	permissions, err := h.Service.GetAllPermissions(r.Context())
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, ToListResponse(permissions))
}

// Get handles GET /permissions/{name}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	found, err := h.Service.GetPermission(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, ToResponse(found))
}

// Update handles PATCH /permissions/{name}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var dto UpdatePermissionDTO
	if !h.Bind(w, r, &dto) {
		return
	}

	updated, err := h.Service.UpdateDescription(r.Context(), chi.URLParam(r, "name"), dto.Description)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, ToResponse(updated))
}

// Delete handles DELETE /permissions/{name}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.DeletePermission(r.Context(), chi.URLParam(r, "name")); err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
