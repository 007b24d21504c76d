package model

import "time"

// Roles assignable to a user account. Admins get access to the
// /api/admin back office; everyone else is a plain user.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// IsRole reports whether r is an assignable role.
func IsRole(r string) bool {
	return r == RoleUser || r == RoleAdmin
}

// User represents a row in the `users` table. PasswordHash is the bcrypt
// digest of the password; it is never serialized to clients (handlers
// build their own response types).
type User struct {
	ID           uint64     `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Role         string     `json:"role"`
	DateOfBirth  *time.Time `json:"date_of_birth,omitempty"`
	ImagePath    *string    `json:"image,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// PasswordReset models an entry in the `password_resets` table. The raw
// reset token is mailed to the user; only its SHA-256 hash is stored.
// UsedAt marks redemption: a non-null value means the token is spent and
// can never be redeemed again.
type PasswordReset struct {
	ID        uint64
	UserID    uint64
	TokenHash string
	ExpiresAt time.Time
	UsedAt    *time.Time
	CreatedAt time.Time
}
