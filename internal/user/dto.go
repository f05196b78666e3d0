package user

import (
	"time"

	"github.com/frahmantamala/identity-access/internal/core/common/validation"
)

type CreateUserDTO struct {
	Username string `json:"username" validate:"required,notblank,min=3,max=50"`
	Email    string `json:"email" validate:"required,identity_email"`
	Password string `json:"password" validate:"required,min=6"`
}

func (d CreateUserDTO) Validate() error {
	if err := validation.Struct(d); err != nil {
		return err
	}
	return nil
}

type UpdateEmailDTO struct {
	Email string `json:"email" validate:"required,identity_email"`
}

func (d UpdateEmailDTO) Validate() error {
	if err := validation.Struct(d); err != nil {
		return err
	}
	return nil
}

type UpdateUsernameDTO struct {
	NewUsername string `json:"new_username" validate:"required,notblank,min=3,max=50"`
}

func (d UpdateUsernameDTO) Validate() error {
	if err := validation.Struct(d); err != nil {
		return err
	}
	return nil
}

type ChangePasswordDTO struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=6"`
}

func (d ChangePasswordDTO) Validate() error {
	if err := validation.Struct(d); err != nil {
		return err
	}
	return nil
}

type UpdateStatusDTO struct {
	Status string `json:"status" validate:"required,oneof=active inactive suspended blocked"`
}

func (d UpdateStatusDTO) Validate() error {
	if err := validation.Struct(d); err != nil {
		return err
	}
	return nil
}

type UserResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type UserWithRolesResponse struct {
	UserResponse
	Roles []string `json:"roles"`
}

type UserListResponse struct {
	Users []UserResponse `json:"users"`
	Total int            `json:"total"`
}

func ToResponse(u *User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Status:    u.Status,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// ToResponseWithRoles falls back to the roles stored on the user when roles is nil.
func ToResponseWithRoles(u *User, roles []string) UserWithRolesResponse {
	if roles == nil {
		roles = u.Roles
	}
	if roles == nil {
		roles = []string{}
	}
	return UserWithRolesResponse{
		UserResponse: ToResponse(u),
		Roles:        roles,
	}
}

func ToListResponse(users []*User) UserListResponse {
	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, ToResponse(u))
	}
	return UserListResponse{Users: out, Total: len(out)}
}
