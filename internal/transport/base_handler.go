package transport

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/frahmantamala/identity-access/internal"
	"github.com/frahmantamala/identity-access/pkg/logger"
)

const maxBodyBytes = 1 << 20

// BaseHandler provides common functionality for HTTP handlers
type BaseHandler struct {
	Logger *slog.Logger
}

// NewBaseHandler creates a base handler with logger
func NewBaseHandler(lg *slog.Logger) *BaseHandler {
	if lg == nil {
		lg = logger.LoggerWrapper()
		if lg == nil {
			lg = slog.Default()
		}
	}
	return &BaseHandler{Logger: lg}
}

// WriteJSON writes a JSON response
func (h *BaseHandler) WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.Logger.Error("failed to encode JSON response", "error", err)
	}
}

// WriteError writes a plain error response for failures that have no AppError.
func (h *BaseHandler) WriteError(w http.ResponseWriter, status int, message string) {
	h.Logger.Error("http error", "status", status, "message", message)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	errorResp := map[string]interface{}{
		"code":    status,
		"message": message,
	}

	if err := json.NewEncoder(w).Encode(errorResp); err != nil {
		h.Logger.Error("failed to encode error response", "error", err)
	}
}

// WriteAppError renders err as {"error": {...}} with the status carried by the
// AppError, localized to the request language. Anything else is a 500.
func (h *BaseHandler) WriteAppError(w http.ResponseWriter, r *http.Request, err error) {
	appErr, ok := internal.IsAppError(err)
	if !ok {
		h.Logger.ErrorContext(r.Context(), "unhandled error", "error", err, "path", r.URL.Path)
		appErr = internal.NewInternalError(internal.Message(internal.ErrCodeInternal), err)
	}

	if appErr.StatusCode >= http.StatusInternalServerError {
		h.Logger.ErrorContext(r.Context(), "request failed", "code", appErr.Code, "error", appErr.Error())
	} else {
		h.Logger.WarnContext(r.Context(), "request rejected", "code", appErr.Code, "status", appErr.StatusCode)
	}

	rendered := *appErr
	rendered.Message = appErr.Localize(internal.LanguageFromContext(r.Context()))
	status, body := rendered.ToHTTPResponse()
	h.WriteJSON(w, status, body)
}

// DecodeJSON reads a JSON body into dst, rejecting unknown fields.
func (h *BaseHandler) DecodeJSON(r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return internal.NewValidationFieldErrors([]internal.ValidationError{{
			Field: "body", Message: "request body is required", Code: string(internal.ErrCodeValidationFailed),
		}})
	}
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		msg := "invalid request body"
		if errors.Is(err, io.EOF) {
			msg = "request body is required"
		}
		return internal.NewValidationFieldErrors([]internal.ValidationError{{
			Field: "body", Message: msg, Code: string(internal.ErrCodeValidationFailed),
		}})
	}
	return nil
}

// Validatable is implemented by request DTOs.
type Validatable interface {
	Validate() error
}

// Bind decodes the body into dst and validates it, writing the error response
// itself when either step fails.
func (h *BaseHandler) Bind(w http.ResponseWriter, r *http.Request, dst Validatable) bool {
	if err := h.DecodeJSON(r, dst); err != nil {
		h.WriteAppError(w, r, err)
		return false
	}
	if err := dst.Validate(); err != nil {
		h.WriteAppError(w, r, err)
		return false
	}
	return true
}

// ExtractTokenFromHeader extracts Bearer token from Authorization header
func (h *BaseHandler) ExtractTokenFromHeader(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	scheme, token, found := strings.Cut(authHeader, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}

	return strings.TrimSpace(token)
}
