package models

// Role is the server-assigned authorization role of a user.
type Role string

const (
	RoleUser  Role = "ROLE_USER"
	RoleAdmin Role = "ROLE_ADMIN"
)

// User is the server's user record as seen by the presentation layer.
type User struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      Role   `json:"role"`
	Enabled   bool   `json:"enabled"`
	IsBlocked bool   `json:"isBlocked"`
}

// IsAdmin reports whether the user carries the admin role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// DisplayName returns the author name shown on cards, "Unknown" when missing.
func (u *User) DisplayName() string {
	if u == nil || u.Name == "" {
		return "Unknown"
	}
	return u.Name
}
