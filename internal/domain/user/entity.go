// internal/domain/user/entity.go
package user

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Role represents a back-office role
type Role string

const (
	RoleUser       Role = "user"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "superadmin"
)

// Valid reports whether the role is one of the enumerated values
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin || r == RoleSuperAdmin
}

// CanManage reports whether the role grants back-office access
func (r Role) CanManage() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

// User represents a back-office account. Storefront customers have no
// accounts; orders carry their contact info directly.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:100" json:"name"`
	Email     string    `gorm:"uniqueIndex;not null;size:255" json:"email"`
	Password  string    `gorm:"not null;size:255" json:"-"` // Don't return in JSON
	Role      Role      `gorm:"not null;size:20;default:'user'" json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides the table name for User
func (User) TableName() string {
	return "users"
}

// BeforeCreate hook to handle business logic before user creation
func (u *User) BeforeCreate(tx *gorm.DB) error {
	// Email should be lowercase
	u.Email = strings.ToLower(u.Email)
	return nil
}
