package internal

import "strings"

const DefaultLanguage = "en"

var catalog = map[string]map[ErrorCode]string{
	"en": {
		ErrCodeValidationFailed: "Validation failed",

		ErrCodeUserInvalidUsername:    "Username cannot be empty",
		ErrCodeUserInvalidEmail:       "Email is not valid",
		ErrCodeUserInvalidPassword:    "Password must be at least 6 characters long",
		ErrCodeUserInvalidStatus:      "Status must be one of: active, inactive, suspended, blocked",
		ErrCodeUserAlreadyExists:      "User is already registered",
		ErrCodeUserNotFound:           "User not found",
		ErrCodeSameEmail:              "New email cannot be the same as the current one",
		ErrCodeSameUsername:           "New username cannot be the same as the current one",
		ErrCodeWrongPassword:          "Wrong password",
		ErrCodeEmailAlreadyRegistered: "Email is already registered",

		ErrCodeRoleInvalidName:        "Role name cannot be empty",
		ErrCodeRoleAlreadyExists:      "Role is already registered",
		ErrCodeRoleNotFound:           "Role not found",
		ErrCodePermissionInvalidName:  "Permission name cannot be empty",
		ErrCodePermissionAlreadyExist: "Permission is already registered",
		ErrCodePermissionNotFound:     "Permission not found",
		ErrCodeDescriptionRequired:    "Description cannot be null",

		ErrCodeRelationFieldsRequired:      "Both identifiers of the relation are required",
		ErrCodeUserRoleAlreadyExists:       "User already has that role",
		ErrCodeUserRoleNotFound:            "User does not have that role",
		ErrCodeSameRole:                    "New role cannot be the same as the current one",
		ErrCodeRolePermissionAlreadyExists: "Role already has that permission",
		ErrCodeRolePermissionNotFound:      "Role does not have that permission",
		ErrCodeSamePermission:              "New permission cannot be the same as the current one",

		ErrCodeWrongCredentials: "Invalid username or password",
		ErrCodeUserInactive:     "User account is not active",
		ErrCodeTokenInvalid:     "Invalid token",
		ErrCodeTokenExpired:     "Token has expired",
		ErrCodeForbidden:        "Insufficient permissions",
		ErrCodeTooManyRequests:  "Too many requests, try again later",

		ErrCodeInternal: "Internal server error",
	},
	"es": {
		ErrCodeValidationFailed: "La validacion fallo",

		ErrCodeUserInvalidUsername:    "El campo username no puede estar vacio",
		ErrCodeUserInvalidEmail:       "El email no es valido",
		ErrCodeUserInvalidPassword:    "La contraseña debe tener al menos 6 caracteres",
		ErrCodeUserInvalidStatus:      "El estado debe ser: active, inactive, suspended o blocked",
		ErrCodeUserAlreadyExists:      "El usuario que desea ingresar ya se encuentra registrado",
		ErrCodeUserNotFound:           "El usuario no fue encontrado",
		ErrCodeSameEmail:              "El nuevo correo no puede ser igual al actual",
		ErrCodeSameUsername:           "El nuevo username no puede ser igual al actual",
		ErrCodeWrongPassword:          "Contraseña incorrecta",
		ErrCodeEmailAlreadyRegistered: "El email ya se encuentra registrado",

		ErrCodeRoleInvalidName:        "El nombre del rol no puede estar vacio",
		ErrCodeRoleAlreadyExists:      "El rol ya se encuentra registrado",
		ErrCodeRoleNotFound:           "El rol no fue encontrado",
		ErrCodePermissionInvalidName:  "El nombre del permiso no puede estar vacio",
		ErrCodePermissionAlreadyExist: "El permiso ya se encuentra registrado",
		ErrCodePermissionNotFound:     "El permiso no fue encontrado",
		ErrCodeDescriptionRequired:    "La descripcion no puede ser nula",

		ErrCodeRelationFieldsRequired:      "Ambos identificadores de la relacion son requeridos",
		ErrCodeUserRoleAlreadyExists:       "El usuario ya tiene asignado ese rol",
		ErrCodeUserRoleNotFound:            "El usuario no tiene asignado ese rol",
		ErrCodeSameRole:                    "El nuevo rol no puede ser igual al actual",
		ErrCodeRolePermissionAlreadyExists: "El rol ya tiene asignado ese permiso",
		ErrCodeRolePermissionNotFound:      "El rol no tiene asignado ese permiso",
		ErrCodeSamePermission:              "El nuevo permiso no puede ser igual al actual",

		ErrCodeWrongCredentials: "Usuario o contraseña incorrectos",
		ErrCodeUserInactive:     "La cuenta del usuario no esta activa",
		ErrCodeTokenInvalid:     "Token invalido",
		ErrCodeTokenExpired:     "El token ha expirado",
		ErrCodeForbidden:        "Permisos insuficientes",
		ErrCodeTooManyRequests:  "Demasiadas solicitudes, intente mas tarde",

		ErrCodeInternal: "Error interno del servidor",
	},
}

// Message returns the default-language message for code, or the code itself.
func Message(code ErrorCode) string {
	if msg, ok := lookupMessage(code, DefaultLanguage); ok {
		return msg
	}
	return string(code)
}

// SupportedLanguage reduces a tag such as "es-AR" to its base language and
// reports whether the catalog has it.
func SupportedLanguage(tag string) (string, bool) {
	lang := strings.ToLower(strings.TrimSpace(tag))
	if i := strings.IndexAny(lang, "-_"); i > 0 {
		lang = lang[:i]
	}
	_, ok := catalog[lang]
	return lang, ok
}

func lookupMessage(code ErrorCode, lang string) (string, bool) {
	lang, _ = SupportedLanguage(lang)
	messages, ok := catalog[lang]
	if !ok {
		return "", false
	}
	msg, ok := messages[code]
	return msg, ok
}
