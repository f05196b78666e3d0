package role

import (
	"context"
	"net/http"

	"github.com/frahmantamala/identity-access/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	CreateRole(ctx context.Context, name, description string) (*Role, error)
	GetRole(ctx context.Context, name string) (*Role, error)
	GetAllRoles(ctx context.Context) ([]*Role, error)
	UpdateDescription(ctx context.Context, name string, description *string) (*Role, error)
	DeleteRole(ctx context.Context, name string) error
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

// Create handles POST /roles
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var dto CreateRoleDTO
	if !h.Bind(w, r, &dto) {
		return
	}

	created, err := h.Service.CreateRole(r.Context(), dto.Name, dto.Description)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, ToResponse(created))
}

// List handles GET /roles
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	roles, err := h.Service.GetAllRoles(r.Context())
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, ToListResponse(roles))
}

// Get handles GET /roles/{name}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	found, err := h.Service.GetRole(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, ToResponse(found))
}

// Update handles PATCH /roles/{name}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var dto UpdateRoleDTO
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

// Delete handles DELETE /roles/{name}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.DeleteRole(r.Context(), chi.URLParam(r, "name")); err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
