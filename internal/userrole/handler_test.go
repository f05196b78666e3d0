package userrole_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/frahmantamala/identity-access/internal"
	"github.com/frahmantamala/identity-access/internal/transport"
	"github.com/frahmantamala/identity-access/internal/userrole"
	userroleMemory "github.com/frahmantamala/identity-access/internal/userrole/memory"
	"github.com/frahmantamala/identity-access/pkg/logger"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("UserRole Handler", func() {
	var router chi.Router

	BeforeEach(func() {
		service := userrole.NewService(userroleMemory.NewUserRoleRepository(), nil, logger.Discard())
		handler := userrole.NewHandler(transport.NewBaseHandler(logger.Discard()), service)

		router = chi.NewRouter()
		router.Get("/user-roles", handler.List)
		router.Get("/users/{userID}/roles", handler.ListByUser)
		router.Post("/users/{userID}/roles", handler.Assign)
		router.Get("/users/{userID}/roles/{roleID}", handler.Check)
		router.Put("/users/{userID}/roles/{roleID}", handler.Update)
		router.Delete("/users/{userID}/roles/{roleID}", handler.Remove)
		router.Get("/roles/{roleID}/users", handler.ListByRole)
	})

	do := func(method, path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	decodeList := func(w *httptest.ResponseRecorder) userrole.UserRoleListResponse {
		var list userrole.UserRoleListResponse
		Expect(json.NewDecoder(w.Body).Decode(&list)).To(Succeed())
		return list
	}

	It("should assign, query, update and remove a role", func() {
		w := do(http.MethodPost, "/users/u1/roles", `{"role_id":"Admin"}`)
		Expect(w.Code).To(Equal(http.StatusCreated))
		var created userrole.UserRole
		Expect(json.NewDecoder(w.Body).Decode(&created)).To(Succeed())
		Expect(created).To(Equal(userrole.UserRole{UserID: "u1", RoleID: "admin"}))

		list := decodeList(do(http.MethodGet, "/users/u1/roles", ""))
		Expect(list.Total).To(Equal(1))

		list = decodeList(do(http.MethodGet, "/roles/admin/users", ""))
		Expect(list.UserRoles[0].UserID).To(Equal("u1"))

		var check userrole.HasRoleResponse
		Expect(json.NewDecoder(do(http.MethodGet, "/users/u1/roles/admin", "").Body).Decode(&check)).To(Succeed())
		Expect(check.HasRole).To(BeTrue())

		w = do(http.MethodPut, "/users/u1/roles/admin", `{"new_role_id":"editor"}`)
		Expect(w.Code).To(Equal(http.StatusOK))

		w = do(http.MethodDelete, "/users/u1/roles/editor", "")
		Expect(w.Code).To(Equal(http.StatusNoContent))

		list = decodeList(do(http.MethodGet, "/user-roles", ""))
		Expect(list.Total).To(BeZero())
		Expect(list.UserRoles).NotTo(BeNil())
	})

	It("should map relation errors to status codes", func() {
		do(http.MethodPost, "/users/u1/roles", `{"role_id":"admin"}`)

		w := do(http.MethodPost, "/users/u1/roles", `{"role_id":"admin"}`)
		Expect(w.Code).To(Equal(http.StatusConflict))

		w = do(http.MethodPut, "/users/u1/roles/admin", `{"new_role_id":"admin"}`)
		Expect(w.Code).To(Equal(http.StatusUnprocessableEntity))

		w = do(http.MethodDelete, "/users/u1/roles/ghost", "")
		Expect(w.Code).To(Equal(http.StatusNotFound))

		var body struct {
			Error struct {
				Code string `json:"code"`
			} `json:"error"`
		}
		Expect(json.NewDecoder(w.Body).Decode(&body)).To(Succeed())
		Expect(body.Error.Code).To(Equal(string(internal.ErrCodeUserRoleNotFound)))
	})

	It("should reject a missing role id", func() {
		w := do(http.MethodPost, "/users/u1/roles", `{"role_id":"  "}`)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})
})
