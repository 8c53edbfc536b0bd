package models

import "time"

// UserRole represents the available roles for the RBAC system.
type UserRole string

const (
	RoleUser      UserRole = "USER"
	RoleScanlator UserRole = "SCANLATOR"
	RoleModerator UserRole = "MODERATOR"
	RoleAdmin     UserRole = "ADMIN"
)

// User represents an application user stored in the users table.
type User struct {
	ID                 string     `db:"id" json:"id"`
	Email              string     `db:"email" json:"email"`
	PasswordHash       string     `db:"password_hash" json:"-"`
	Username           string     `db:"username" json:"username"`
	Role               UserRole   `db:"role" json:"role"`
	ContributionPoints int        `db:"contribution_points" json:"contribution_points"`
	Active             bool       `db:"active" json:"active"`
	LastLogin          *time.Time `db:"last_login" json:"last_login,omitempty"`
	CreatedAt          time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time  `db:"updated_at" json:"updated_at"`
}

// UserInfo is the public projection embedded in auth responses and
// moderation detail views.
type UserInfo struct {
	ID       string   `db:"id" json:"id"`
	Email    string   `db:"email" json:"email"`
	Username string   `db:"username" json:"username"`
	Role     UserRole `db:"role" json:"role"`
}

// Info converts a full user row into its public projection.
func (u *User) Info() UserInfo {
	return UserInfo{ID: u.ID, Email: u.Email, Username: u.Username, Role: u.Role}
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
