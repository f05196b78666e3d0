package user

import (
	"strings"
	"time"

	"github.com/frahmantamala/identity-access/internal"
	"github.com/frahmantamala/identity-access/internal/core/common/validation"
	identityDatamodel "github.com/frahmantamala/identity-access/internal/core/datamodel/identity"
	"github.com/google/uuid"
)

const MinPasswordLength = 6

type Status string

const (
	StatusActive    Status = "active"
	StatusInactive  Status = "inactive"
	StatusSuspended Status = "suspended"
	StatusBlocked   Status = "blocked"
)

func ParseStatus(s string) (Status, error) {
	switch Status(strings.ToLower(strings.TrimSpace(s))) {
	case StatusActive:
		return StatusActive, nil
	case StatusInactive:
		return StatusInactive, nil
	case StatusSuspended:
		return StatusSuspended, nil
	case StatusBlocked:
		return StatusBlocked, nil
	}
	return "", internal.ErrUserInvalidStatus
}

type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Status       Status    `json:"status"`
	Roles        []string  `json:"roles"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewUser builds an inactive user. password is whatever will be stored,
// normally a hash, and only its length is checked here.
func NewUser(username, email, password string) (*User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	if username == "" {
		return nil, internal.ErrUserInvalidUsername
	}
	if !validation.IsEmail(email) {
		return nil, internal.ErrUserInvalidEmail
	}
	if len(password) < MinPasswordLength {
		return nil, internal.ErrUserInvalidPassword
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, internal.NewInternalError("failed to generate user id", err)
	}

	now := time.Now()
	return &User{
		ID:           id.String(),
		Username:     username,
		Email:        email,
		PasswordHash: password,
		Status:       StatusInactive,
		Roles:        []string{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

func (u *User) UpdateEmail(email string) error {
	email = strings.TrimSpace(email)
	if !validation.IsEmail(email) {
		return internal.ErrUserInvalidEmail
	}
	u.Email = email
	u.touch()
	return nil
}

func (u *User) UpdateUsername(username string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return internal.ErrUserInvalidUsername
	}
	u.Username = username
	u.touch()
	return nil
}

func (u *User) UpdatePassword(passwordHash string) error {
	if len(passwordHash) < MinPasswordLength {
		return internal.ErrUserInvalidPassword
	}
	u.PasswordHash = passwordHash
	u.touch()
	return nil
}

func (u *User) Activate()   { u.setStatus(StatusActive) }
func (u *User) Deactivate() { u.setStatus(StatusInactive) }
func (u *User) Suspend()    { u.setStatus(StatusSuspended) }
func (u *User) Block()      { u.setStatus(StatusBlocked) }

func (u *User) IsActive() bool {
	return u.Status == StatusActive
}

// ApplyStatus runs the transition named by status. Any state may move to any
// other state.
func (u *User) ApplyStatus(status string) error {
	parsed, err := ParseStatus(status)
	if err != nil {
		return err
	}
	switch parsed {
	case StatusActive:
		u.Activate()
	case StatusInactive:
		u.Deactivate()
	case StatusSuspended:
		u.Suspend()
	case StatusBlocked:
		u.Block()
	}
	return nil
}

func (u *User) setStatus(s Status) {
	u.Status = s
	u.touch()
}

// touch keeps UpdatedAt strictly increasing even when the clock has not
// advanced since the previous mutation.
func (u *User) touch() {
	now := time.Now()
	if !now.After(u.UpdatedAt) {
		now = u.UpdatedAt.Add(time.Nanosecond)
	}
	u.UpdatedAt = now
}

func (u User) Clone() User {
	u.Roles = append([]string{}, u.Roles...)
	return u
}

func ToDataModel(u *User) *identityDatamodel.User {
	return &identityDatamodel.User{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Status:       string(u.Status),
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func FromDataModel(u *identityDatamodel.User) *User {
	return &User{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Status:       Status(u.Status),
		Roles:        []string{},
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}
