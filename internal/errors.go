package internal

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

type ErrorType string

const (
	ErrorTypeValidation   ErrorType = "VALIDATION_ERROR"
	ErrorTypeNotFound     ErrorType = "NOT_FOUND"
	ErrorTypeConflict     ErrorType = "CONFLICT"
	ErrorTypeSameValue    ErrorType = "SAME_VALUE"
	ErrorTypeUnauthorized ErrorType = "UNAUTHORIZED"
	ErrorTypeForbidden    ErrorType = "FORBIDDEN"
	ErrorTypeRateLimited  ErrorType = "RATE_LIMITED"
	ErrorTypeInternal     ErrorType = "INTERNAL_ERROR"
)

type ErrorCode string

const (
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"

	ErrCodeUserInvalidUsername    ErrorCode = "USER_INVALID_USERNAME"
	ErrCodeUserInvalidEmail       ErrorCode = "USER_INVALID_EMAIL"
	ErrCodeUserInvalidPassword    ErrorCode = "USER_INVALID_PASSWORD"
	ErrCodeUserInvalidStatus      ErrorCode = "USER_INVALID_STATUS"
	ErrCodeUserAlreadyExists      ErrorCode = "USER_ALREADY_EXISTS"
	ErrCodeUserNotFound           ErrorCode = "USER_NOT_FOUND"
	ErrCodeSameEmail              ErrorCode = "SAME_EMAIL"
	ErrCodeSameUsername           ErrorCode = "SAME_USERNAME"
	ErrCodeWrongPassword          ErrorCode = "WRONG_PASSWORD"
	ErrCodeEmailAlreadyRegistered ErrorCode = "EMAIL_ALREADY_REGISTERED"

	ErrCodeRoleInvalidName        ErrorCode = "ROLE_INVALID_NAME"
	ErrCodeRoleAlreadyExists      ErrorCode = "ROLE_ALREADY_EXISTS"
	ErrCodeRoleNotFound           ErrorCode = "ROLE_NOT_FOUND"
	ErrCodePermissionInvalidName  ErrorCode = "PERMISSION_INVALID_NAME"
	ErrCodePermissionAlreadyExist ErrorCode = "PERMISSION_ALREADY_EXISTS"
	ErrCodePermissionNotFound     ErrorCode = "PERMISSION_NOT_FOUND"
	ErrCodeDescriptionRequired    ErrorCode = "DESCRIPTION_REQUIRED"

	ErrCodeRelationFieldsRequired      ErrorCode = "RELATION_FIELDS_REQUIRED"
	ErrCodeUserRoleAlreadyExists       ErrorCode = "USER_ROLE_ALREADY_EXISTS"
	ErrCodeUserRoleNotFound            ErrorCode = "USER_ROLE_NOT_FOUND"
	ErrCodeSameRole                    ErrorCode = "SAME_ROLE"
	ErrCodeRolePermissionAlreadyExists ErrorCode = "ROLE_PERMISSION_ALREADY_EXISTS"
	ErrCodeRolePermissionNotFound      ErrorCode = "ROLE_PERMISSION_NOT_FOUND"
	ErrCodeSamePermission              ErrorCode = "SAME_PERMISSION"

	ErrCodeWrongCredentials ErrorCode = "WRONG_CREDENTIALS"
	ErrCodeUserInactive     ErrorCode = "USER_INACTIVE"
	ErrCodeTokenInvalid     ErrorCode = "TOKEN_INVALID"
	ErrCodeTokenExpired     ErrorCode = "TOKEN_EXPIRED"
	ErrCodeForbidden        ErrorCode = "FORBIDDEN"
	ErrCodeTooManyRequests  ErrorCode = "TOO_MANY_REQUESTS"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

type AppError struct {
	Type       ErrorType   `json:"type"`
	Code       ErrorCode   `json:"code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
	StatusCode int         `json:"-"`
	Cause      error       `json:"-"`
}

func (e *AppError) Error() string {
	if e.Details != nil {
		if validationErrors, ok := e.Details.(ValidationErrors); ok && len(validationErrors.Errors) > 0 {
			return validationErrors.Errors[0].Message
		}
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) GetDetailedMessage() string {
	if e.Details != nil {
		if validationErrors, ok := e.Details.(ValidationErrors); ok && len(validationErrors.Errors) > 0 {
			messages := make([]string, len(validationErrors.Errors))
			for i, err := range validationErrors.Errors {
				messages[i] = err.Message
			}
			return strings.Join(messages, "; ")
		}
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is reports a match when target is an *AppError carrying the same code, so
// sentinels compare equal to freshly built or wrapped errors of the same kind.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// Localize renders the message for the given language from the catalog,
// falling back to the stored message.
func (e *AppError) Localize(lang string) string {
	if msg, ok := lookupMessage(e.Code, lang); ok {
		return msg
	}
	return e.Message
}

func (e *AppError) WithCause(cause error) *AppError {
	clone := *e
	clone.Cause = cause
	return &clone
}

func (e *AppError) WithDetails(details interface{}) *AppError {
	clone := *e
	clone.Details = details
	return &clone
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func newAppError(t ErrorType, code ErrorCode, status int) *AppError {
	return &AppError{
		Type:       t,
		Code:       code,
		Message:    Message(code),
		StatusCode: status,
	}
}

func NewValidationError(code ErrorCode) *AppError {
	return newAppError(ErrorTypeValidation, code, http.StatusBadRequest)
}

func NewValidationFieldErrors(errs []ValidationError) *AppError {
	return newAppError(ErrorTypeValidation, ErrCodeValidationFailed, http.StatusBadRequest).
		WithDetails(ValidationErrors{Errors: errs})
}

func NewNotFoundError(code ErrorCode) *AppError {
	return newAppError(ErrorTypeNotFound, code, http.StatusNotFound)
}

func NewConflictError(code ErrorCode) *AppError {
	return newAppError(ErrorTypeConflict, code, http.StatusConflict)
}

func NewSameValueError(code ErrorCode) *AppError {
	return newAppError(ErrorTypeSameValue, code, http.StatusUnprocessableEntity)
}

func NewUnauthorizedError(code ErrorCode) *AppError {
	return newAppError(ErrorTypeUnauthorized, code, http.StatusUnauthorized)
}

func NewForbiddenError(code ErrorCode) *AppError {
	return newAppError(ErrorTypeForbidden, code, http.StatusForbidden)
}

func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Code:       ErrCodeInternal,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

var (
	ErrValidationFailed = NewValidationError(ErrCodeValidationFailed)

	ErrUserInvalidUsername    = NewValidationError(ErrCodeUserInvalidUsername)
	ErrUserInvalidEmail       = NewValidationError(ErrCodeUserInvalidEmail)
	ErrUserInvalidPassword    = NewValidationError(ErrCodeUserInvalidPassword)
	ErrUserInvalidStatus      = NewValidationError(ErrCodeUserInvalidStatus)
	ErrUserAlreadyExists      = NewConflictError(ErrCodeUserAlreadyExists)
	ErrUserNotFound           = NewNotFoundError(ErrCodeUserNotFound)
	ErrSameEmail              = NewSameValueError(ErrCodeSameEmail)
	ErrSameUsername           = NewSameValueError(ErrCodeSameUsername)
	ErrWrongPassword          = NewUnauthorizedError(ErrCodeWrongPassword)
	ErrEmailAlreadyRegistered = NewConflictError(ErrCodeEmailAlreadyRegistered)

	ErrRoleInvalidName         = NewValidationError(ErrCodeRoleInvalidName)
	ErrRoleAlreadyExists       = NewConflictError(ErrCodeRoleAlreadyExists)
	ErrRoleNotFound            = NewNotFoundError(ErrCodeRoleNotFound)
	ErrPermissionInvalidName   = NewValidationError(ErrCodePermissionInvalidName)
	ErrPermissionAlreadyExists = NewConflictError(ErrCodePermissionAlreadyExist)
	ErrPermissionNotFound      = NewNotFoundError(ErrCodePermissionNotFound)
	ErrDescriptionRequired     = NewValidationError(ErrCodeDescriptionRequired)

	ErrRelationFieldsRequired      = NewValidationError(ErrCodeRelationFieldsRequired)
	ErrUserRoleAlreadyExists       = NewConflictError(ErrCodeUserRoleAlreadyExists)
	ErrUserRoleNotFound            = NewNotFoundError(ErrCodeUserRoleNotFound)
	ErrSameRole                    = NewSameValueError(ErrCodeSameRole)
	ErrRolePermissionAlreadyExists = NewConflictError(ErrCodeRolePermissionAlreadyExists)
	ErrRolePermissionNotFound      = NewNotFoundError(ErrCodeRolePermissionNotFound)
	ErrSamePermission              = NewSameValueError(ErrCodeSamePermission)

	ErrWrongCredentials = NewUnauthorizedError(ErrCodeWrongCredentials)
	ErrUserInactive     = NewForbiddenError(ErrCodeUserInactive)
	ErrTokenInvalid     = NewUnauthorizedError(ErrCodeTokenInvalid)
	ErrTokenExpired     = NewUnauthorizedError(ErrCodeTokenExpired)
	ErrForbidden        = NewForbiddenError(ErrCodeForbidden)
	ErrTooManyRequests  = newAppError(ErrorTypeRateLimited, ErrCodeTooManyRequests, http.StatusTooManyRequests)
)

func IsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

type Response struct {
	Error *AppError `json:"error"`
}

func (e *AppError) ToHTTPResponse() (int, interface{}) {
	return e.StatusCode, Response{Error: e}
}

func (e *AppError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    ErrorType   `json:"type"`
		Code    ErrorCode   `json:"code"`
		Message string      `json:"message"`
		Details interface{} `json:"details,omitempty"`
	}{
		Type:    e.Type,
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	})
}
