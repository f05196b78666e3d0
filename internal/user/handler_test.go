package user_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/frahmantamala/identity-access/internal"
	"github.com/frahmantamala/identity-access/internal/transport"
	"github.com/frahmantamala/identity-access/internal/user"
	userMemory "github.com/frahmantamala/identity-access/internal/user/memory"
	"github.com/frahmantamala/identity-access/pkg/logger"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type stubRoles map[string][]string

func (s stubRoles) RoleIDsForUser(_ context.Context, userID string) ([]string, error) {
	return s[userID], nil
}

type errorBody struct {
	Error struct {
		Type    string `json:"type"`
		Code    string `json:"code"`
		Message string `json:"message"`
		Details struct {
			Errors []internal.ValidationError `json:"errors"`
		} `json:"details"`
	} `json:"error"`
}

var _ = Describe("User Handler", func() {
	var (
		service *user.Service
		roles   stubRoles
		router  chi.Router
	)

	BeforeEach(func() {
		service = user.NewService(userMemory.NewUserRepository(), bcryptHasher{}, nil, logger.Discard())
		roles = stubRoles{}
		handler := user.NewHandler(transport.NewBaseHandler(logger.Discard()), service, roles)

		router = chi.NewRouter()
		router.Post("/users", handler.Register)
		router.Get("/users", handler.List)
		router.Get("/users/{username}", handler.Get)
		router.Patch("/users/{username}/email", handler.UpdateEmail)
		router.Patch("/users/{username}/username", handler.UpdateUsername)
		router.Patch("/users/{username}/password", handler.ChangePassword)
		router.Patch("/users/{username}/status", handler.UpdateStatus)
		router.Delete("/users/{username}", handler.Delete)
	})

	do := func(method, path, body string) *httptest.ResponseRecorder {
		var req *http.Request
		if body == "" {
			req = httptest.NewRequest(method, path, nil)
		} else {
			req = httptest.NewRequest(method, path, strings.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	decodeError := func(w *httptest.ResponseRecorder) errorBody {
		var body errorBody
		Expect(json.NewDecoder(w.Body).Decode(&body)).To(Succeed())
		return body
	}

	It("should register a user and never return the password hash", func() {
		w := do(http.MethodPost, "/users", `{"username":"Tomas","email":"tomas01@correo.com","password":"secret01"}`)
		Expect(w.Code).To(Equal(http.StatusCreated))
		Expect(w.Header().Get("Content-Type")).To(ContainSubstring("application/json"))
		Expect(w.Body.String()).NotTo(ContainSubstring("password"))

		var resp user.UserResponse
		Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
		Expect(resp.Username).To(Equal("Tomas"))
		Expect(resp.Status).To(Equal(user.StatusInactive))
	})

	It("should report field errors for an invalid body", func() {
		w := do(http.MethodPost, "/users", `{"username":"To","email":"nope","password":"123"}`)
		Expect(w.Code).To(Equal(http.StatusBadRequest))

		body := decodeError(w)
		Expect(body.Error.Code).To(Equal(string(internal.ErrCodeValidationFailed)))
		fields := []string{}
		for _, e := range body.Error.Details.Errors {
			fields = append(fields, e.Field)
		}
		Expect(fields).To(ConsistOf("username", "email", "password"))
	})

	It("should reject unknown fields and empty bodies", func() {
		w := do(http.MethodPost, "/users", `{"username":"Tomas","email":"tomas01@correo.com","password":"secret01","admin":true}`)
		Expect(w.Code).To(Equal(http.StatusBadRequest))

		w = do(http.MethodPost, "/users", "")
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	Describe("with a registered user", func() {
		var tomas *user.User

		BeforeEach(func() {
			var err error
			tomas, err = service.CreateUser(context.Background(), "Tomas", "tomas01@correo.com", "secret01")
			Expect(err).NotTo(HaveOccurred())
			roles[tomas.ID] = []string{"admin", "editor"}
		})

		It("should return a conflict for a duplicate username", func() {
			w := do(http.MethodPost, "/users", `{"username":"Tomas","email":"otro@correo.com","password":"secret01"}`)
			Expect(w.Code).To(Equal(http.StatusConflict))
			Expect(decodeError(w).Error.Code).To(Equal(string(internal.ErrCodeUserAlreadyExists)))
		})

		It("should list users with a total", func() {
			w := do(http.MethodGet, "/users", "")
			Expect(w.Code).To(Equal(http.StatusOK))

			var resp user.UserListResponse
			Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
			Expect(resp.Total).To(Equal(1))
			Expect(resp.Users[0].Username).To(Equal("Tomas"))
		})

		It("should return the user with its roles", func() {
			w := do(http.MethodGet, "/users/Tomas", "")
			Expect(w.Code).To(Equal(http.StatusOK))

			var resp user.UserWithRolesResponse
			Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
			Expect(resp.ID).To(Equal(tomas.ID))
			Expect(resp.Roles).To(Equal([]string{"admin", "editor"}))
		})

		It("should return 404 for an unknown user", func() {
			w := do(http.MethodGet, "/users/Axel", "")
			Expect(w.Code).To(Equal(http.StatusNotFound))
			Expect(decodeError(w).Error.Code).To(Equal(string(internal.ErrCodeUserNotFound)))
		})

		It("should reject the same email with 422", func() {
			w := do(http.MethodPatch, "/users/Tomas/email", `{"email":"tomas01@correo.com"}`)
			Expect(w.Code).To(Equal(http.StatusUnprocessableEntity))
			Expect(decodeError(w).Error.Code).To(Equal(string(internal.ErrCodeSameEmail)))
		})

		It("should update the username", func() {
			w := do(http.MethodPatch, "/users/Tomas/username", `{"new_username":"Tomas2"}`)
			Expect(w.Code).To(Equal(http.StatusOK))

			var resp user.UserResponse
			Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
			Expect(resp.Username).To(Equal("Tomas2"))
		})

		It("should reject a wrong current password with 401", func() {
			w := do(http.MethodPatch, "/users/Tomas/password", `{"current_password":"nope","new_password":"secret02"}`)
			Expect(w.Code).To(Equal(http.StatusUnauthorized))
			Expect(decodeError(w).Error.Code).To(Equal(string(internal.ErrCodeWrongPassword)))
		})

		It("should change the status", func() {
			w := do(http.MethodPatch, "/users/Tomas/status", `{"status":"active"}`)
			Expect(w.Code).To(Equal(http.StatusOK))

			var resp user.UserResponse
			Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
			Expect(resp.Status).To(Equal(user.StatusActive))
		})

		It("should reject an unknown status", func() {
			w := do(http.MethodPatch, "/users/Tomas/status", `{"status":"archived"}`)
			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("should delete the user", func() {
			w := do(http.MethodDelete, "/users/Tomas", "")
			Expect(w.Code).To(Equal(http.StatusNoContent))

			w = do(http.MethodDelete, "/users/Tomas", "")
			Expect(w.Code).To(Equal(http.StatusNotFound))
		})

		It("should localize error messages from the request language", func() {
			req := httptest.NewRequest(http.MethodGet, "/users/Axel", nil)
			req = req.WithContext(internal.ContextWithLanguage(req.Context(), "es"))
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusNotFound))
			body := decodeError(w)
			Expect(body.Error.Message).NotTo(Equal(internal.Message(internal.ErrCodeUserNotFound)))
		})
	})
})
