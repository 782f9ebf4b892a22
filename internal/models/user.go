package models

import "strings"

// User roles.
const (
	RoleUser       = "user"
	RoleAdmin      = "admin"
	RoleSuperAdmin = "superadmin"
)

// User represents an authenticated account. Email is the unique key for
// everything a user owns (profile, preferences), stored lowercased and
// trimmed.
type User struct {
	BaseModel
	Email        string `gorm:"uniqueIndex" json:"email"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	PasswordHash string `json:"-"`
	Role         string `gorm:"default:user" json:"role"`
	IsVerified   bool   `json:"is_verified"`
}

// NormalizeEmail canonicalizes an email for use as an ownership key.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
