package auth

import "github.com/frahmantamala/identity-access/internal/core/common/validation"

type LoginDTO struct {
	Username string `json:"username" validate:"required,notblank"`
	Password string `json:"password" validate:"required"`
}

func (d LoginDTO) Validate() error {
	if err := validation.Struct(d); err != nil {
		return err
	}
	return nil
}

type RefreshTokenDTO struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

func (d RefreshTokenDTO) Validate() error {
	if err := validation.Struct(d); err != nil {
		return err
	}
	return nil
}

// LogoutDTO optionally carries the refresh token so it is revoked together
// with the access token.
type LogoutDTO struct {
	RefreshToken string `json:"refresh_token"`
}
