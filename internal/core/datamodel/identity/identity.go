package identity

import "time"

// Timestamps are owned by the domain layer, so gorm's auto time tracking is off.

type User struct {
	ID           string    `gorm:"primaryKey;type:varchar(36)"`
	Username     string    `gorm:"column:username;uniqueIndex;not null"`
	Email        string    `gorm:"column:email;uniqueIndex;not null"`
	PasswordHash string    `gorm:"column:password_hash;not null"`
	Status       string    `gorm:"column:status;not null"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime:false"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime:false"`
}

func (User) TableName() string { return "users" }

type Role struct {
	ID          string    `gorm:"primaryKey;type:varchar(36)"`
	Name        string    `gorm:"column:name;uniqueIndex;not null"`
	Description string    `gorm:"column:description"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime:false"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime:false"`
}

func (Role) TableName() string { return "roles" }

type Permission struct {
	ID          string    `gorm:"primaryKey;type:varchar(36)"`
	Name        string    `gorm:"column:name;uniqueIndex;not null"`
	Description string    `gorm:"column:description"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime:false"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime:false"`
}

func (Permission) TableName() string { return "permissions" }

// UserRole rows are ordered by ID, which doubles as insertion order.
type UserRole struct {
	ID     int64  `gorm:"primaryKey;autoIncrement"`
	UserID string `gorm:"column:user_id;not null;uniqueIndex:idx_user_roles_pair"`
	RoleID string `gorm:"column:role_id;not null;uniqueIndex:idx_user_roles_pair;index"`
}

func (UserRole) TableName() string { return "user_roles" }

type RolePermission struct {
	ID           int64  `gorm:"primaryKey;autoIncrement"`
	RoleID       string `gorm:"column:role_id;not null;uniqueIndex:idx_role_permissions_pair"`
	PermissionID string `gorm:"column:permission_id;not null;uniqueIndex:idx_role_permissions_pair;index"`
}

func (RolePermission) TableName() string { return "role_permissions" }

// All lists every model, in dependency order, for AutoMigrate.
func All() []any {
	return []any{&User{}, &Role{}, &Permission{}, &UserRole{}, &RolePermission{}}
}
