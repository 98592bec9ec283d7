package model

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// ValidRole reports whether role belongs to the enumerated role set.
func ValidRole(role string) bool {
	return role == RoleUser || role == RoleAdmin
}

// User represents a user account in the system
type User struct {
	ID                   int        `json:"id"`
	Name                 string     `json:"name"`
	Email                string     `json:"email"`
	PasswordHash         string     `json:"-"` // Do not expose password hash in JSON responses
	Role                 string     `json:"role"`
	PasswordChangedAt    *time.Time `json:"-"`
	PasswordResetToken   *string    `json:"-"` // SHA-256 hex of the plaintext reset token
	PasswordResetExpires *time.Time `json:"-"`
	CreatedAt            time.Time  `json:"created_at"`
}

// ChangedPasswordAfter reports whether the password was changed after the
// given token issue time. Tokens issued before a password change are stale.
func (u *User) ChangedPasswordAfter(issuedAt time.Time) bool {
	if u.PasswordChangedAt == nil {
		return false
	}
	return u.PasswordChangedAt.After(issuedAt)
}
