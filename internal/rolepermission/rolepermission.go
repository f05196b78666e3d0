package rolepermission

import (
	"github.com/frahmantamala/identity-access/internal"
	"github.com/frahmantamala/identity-access/internal/core/common/validation"
	identityDatamodel "github.com/frahmantamala/identity-access/internal/core/datamodel/identity"
)

// RolePermission grants PermissionID to RoleID. Both ids are normalized names.
type RolePermission struct {
	RoleID       string `json:"role_id"`
	PermissionID string `json:"permission_id"`
}

func NewRolePermission(roleID, permissionID string) (RolePermission, error) {
	rp := RolePermission{
		RoleID:       validation.NormalizeName(roleID),
		PermissionID: validation.NormalizeName(permissionID),
	}
	if rp.RoleID == "" || rp.PermissionID == "" {
		return RolePermission{}, internal.ErrRelationFieldsRequired
	}
	return rp, nil
}

func (rp RolePermission) Same(other RolePermission) bool {
	return rp.RoleID == other.RoleID && rp.PermissionID == other.PermissionID
}

func PermissionIDs(relations []RolePermission) []string {
	out := make([]string, 0, len(relations))
	for _, rel := range relations {
		out = append(out, rel.PermissionID)
	}
	return out
}

func ToDataModel(rp RolePermission) *identityDatamodel.RolePermission {
	return &identityDatamodel.RolePermission{RoleID: rp.RoleID, PermissionID: rp.PermissionID}
}

func FromDataModel(row *identityDatamodel.RolePermission) RolePermission {
	return RolePermission{RoleID: row.RoleID, PermissionID: row.PermissionID}
}
