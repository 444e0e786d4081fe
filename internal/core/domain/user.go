package domain

import "time"

// Role enumerates the platform roles a user can hold.
type Role string

const (
	RoleMentee Role = "MENTEE"
	RoleMentor Role = "MENTOR"
	RoleAdmin  Role = "ADMIN"
)

// ParseRole maps a stored role string to a Role, defaulting to MENTEE.
func ParseRole(s string) Role {
	switch Role(s) {
	case RoleMentor:
		return RoleMentor
	case RoleAdmin:
		return RoleAdmin
	default:
		return RoleMentee
	}
}

// User is a platform account. Email is stored lowercased and unique.
type User struct {
	ID                   string
	FirstName            string
	LastName             string
	Email                string
	PhoneNumber          *string
	PhotoURL             *string
	Description          *string
	Technologies         []string
	PasswordHash         string
	Role                 Role
	IsEmailVerified      bool
	FailedSignInAttempts int
	LockoutEnd           *time.Time
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// FullName joins first and last name for display purposes.
func (u User) FullName() string {
	if u.FirstName == "" {
		return u.LastName
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// ConfirmEmail marks the account's email address as verified.
func (u *User) ConfirmEmail() {
	u.IsEmailVerified = true
}

// SetPasswordHash replaces the stored credential digest.
func (u *User) SetPasswordHash(hash string) {
	u.PasswordHash = hash
}

// HasAnyRole reports whether the user holds at least one of the given roles.
func (u User) HasAnyRole(roles ...Role) bool {
	for _, role := range roles {
		if u.Role == role {
			return true
		}
	}
	return false
}
