package userrole

import (
	"strings"

	"github.com/frahmantamala/identity-access/internal"
	"github.com/frahmantamala/identity-access/internal/core/common/validation"
	identityDatamodel "github.com/frahmantamala/identity-access/internal/core/datamodel/identity"
)

// UserRole assigns the role RoleID to the user UserID. Neither side is checked
// against the user or role repositories.
type UserRole struct {
	UserID string `json:"user_id"`
	RoleID string `json:"role_id"`
}

// NewUserRole trims the user id and normalizes the role id the same way role
// names are normalized.
func NewUserRole(userID, roleID string) (UserRole, error) {
	ur := UserRole{
		UserID: strings.TrimSpace(userID),
		RoleID: validation.NormalizeName(roleID),
	}
	if ur.UserID == "" || ur.RoleID == "" {
		return UserRole{}, internal.ErrRelationFieldsRequired
	}
	return ur, nil
}

func (ur UserRole) Same(other UserRole) bool {
	return ur.UserID == other.UserID && ur.RoleID == other.RoleID
}

func RoleIDs(relations []UserRole) []string {
	out := make([]string, 0, len(relations))
	for _, rel := range relations {
		out = append(out, rel.RoleID)
	}
	return out
}

func ToDataModel(ur UserRole) *identityDatamodel.UserRole {
	return &identityDatamodel.UserRole{UserID: ur.UserID, RoleID: ur.RoleID}
}

func FromDataModel(row *identityDatamodel.UserRole) UserRole {
	return UserRole{UserID: row.UserID, RoleID: row.RoleID}
}
