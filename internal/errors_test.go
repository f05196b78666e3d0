package internal_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/frahmantamala/identity-access/internal"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("AppError", func() {
	It("should match sentinels by code through wrapping", func() {
		wrapped := fmt.Errorf("update: %w", internal.ErrSameEmail.WithCause(errors.New("db")))

		Expect(errors.Is(wrapped, internal.ErrSameEmail)).To(BeTrue())
		Expect(errors.Is(wrapped, internal.ErrSameUsername)).To(BeFalse())

		appErr, ok := internal.IsAppError(wrapped)
		Expect(ok).To(BeTrue())
		Expect(appErr.StatusCode).To(Equal(http.StatusUnprocessableEntity))
	})

	It("should not mutate the sentinel when adding a cause", func() {
		withCause := internal.ErrUserNotFound.WithCause(errors.New("boom"))

		Expect(withCause.Cause).To(HaveOccurred())
		Expect(internal.ErrUserNotFound.Cause).To(BeNil())
		Expect(withCause.Error()).To(Equal("User not found: boom"))
	})

	It("should surface the first field error as its message", func() {
		err := internal.NewValidationFieldErrors([]internal.ValidationError{
			{Field: "email", Message: "email is not valid", Code: "identity_email"},
			{Field: "password", Message: "password is too short", Code: "min"},
		})

		Expect(err.Error()).To(Equal("email is not valid"))
		Expect(err.GetDetailedMessage()).To(Equal("email is not valid; password is too short"))
		Expect(errors.Is(err, internal.ErrValidationFailed)).To(BeTrue())
	})

	It("should render the HTTP body without the cause", func() {
		status, body := internal.ErrForbidden.WithCause(errors.New("secret detail")).ToHTTPResponse()
		Expect(status).To(Equal(http.StatusForbidden))

		raw, err := json.Marshal(body)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(raw)).To(MatchJSON(`{"error":{"type":"FORBIDDEN","code":"FORBIDDEN","message":"Insufficient permissions"}}`))
	})

	It("should keep internal error messages as given", func() {
		err := internal.NewInternalError("failed to list users", errors.New("conn reset"))
		Expect(err.StatusCode).To(Equal(http.StatusInternalServerError))
		Expect(errors.Is(err, internal.NewInternalError("other", nil))).To(BeTrue())
	})

	It("should answer 429 for rate limiting", func() {
		Expect(internal.ErrTooManyRequests.StatusCode).To(Equal(http.StatusTooManyRequests))
	})
})

var _ = Describe("Localization", func() {
	DescribeTable("Localize",
		func(err *internal.AppError, lang, expected string) {
			Expect(err.Localize(lang)).To(Equal(expected))
		},
		Entry("default english", internal.ErrUserNotFound, "en", "User not found"),
		Entry("spanish", internal.ErrUserNotFound, "es", "El usuario no fue encontrado"),
		Entry("region subtag", internal.ErrUserNotFound, "es-AR", "El usuario no fue encontrado"),
		Entry("unsupported falls back to english", internal.ErrUserNotFound, "fr", "User not found"),
	)

	It("should normalize supported language tags", func() {
		lang, ok := internal.SupportedLanguage(" ES_mx ")
		Expect(ok).To(BeTrue())
		Expect(lang).To(Equal("es"))

		_, ok = internal.SupportedLanguage("de")
		Expect(ok).To(BeFalse())
	})

	It("should carry the language on the context", func() {
		Expect(internal.LanguageFromContext(context.Background())).To(Equal(internal.DefaultLanguage))

		ctx := internal.ContextWithLanguage(context.Background(), "es")
		Expect(internal.LanguageFromContext(ctx)).To(Equal("es"))
	})
})

var _ = Describe("Principal", func() {
	It("should round trip through the context", func() {
		p := &internal.Principal{UserID: "u-1", Permissions: []string{"users:read"}}
		ctx := internal.ContextWithPrincipal(context.Background(), p)

		got, ok := internal.PrincipalFromContext(ctx)
		Expect(ok).To(BeTrue())
		Expect(got.HasPermission("users:read")).To(BeTrue())
		Expect(got.HasPermission("identity:manage")).To(BeFalse())
		Expect(internal.UserIDFromContext(ctx)).To(Equal("u-1"))
	})

	It("should report no principal on a bare context", func() {
		_, ok := internal.PrincipalFromContext(context.Background())
		Expect(ok).To(BeFalse())
		Expect(internal.UserIDFromContext(context.Background())).To(BeEmpty())
	})
})
