package models

import "time"

// AuthProvider identifies how a user authenticates.
type AuthProvider string

const (
	AuthProviderLocal    AuthProvider = "LOCAL"
	AuthProviderGoogle   AuthProvider = "GOOGLE"
	AuthProviderFacebook AuthProvider = "FACEBOOK"
)

// ParseAuthProvider maps a raw string to a known provider.
func ParseAuthProvider(raw string) (AuthProvider, bool) {
	switch AuthProvider(raw) {
	case AuthProviderLocal, AuthProviderGoogle, AuthProviderFacebook:
		return AuthProvider(raw), true
	default:
		return "", false
	}
}

// User roles.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// User represents an application user stored in the users table.
// Deleting a user cascades to owned events and attendee links.
type User struct {
	ID           string       `db:"id" json:"id"`
	Email        string       `db:"email" json:"email"`
	Name         string       `db:"name" json:"name"`
	PictureURL   string       `db:"picture_url" json:"picture_url,omitempty"`
	Provider     AuthProvider `db:"auth_provider" json:"provider"`
	ProviderID   *string      `db:"provider_id" json:"-"`
	Role         string       `db:"role" json:"role"`
	PasswordHash *string      `db:"password_hash" json:"-"`
	CreatedAt    time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time    `db:"updated_at" json:"updated_at"`
}

// UserSummary is the projection nested inside event views.
type UserSummary struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	PictureURL string `json:"picture_url,omitempty"`
}

// Summary returns the nested projection for this user.
func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:         u.ID,
		Email:      u.Email,
		Name:       u.Name,
		PictureURL: u.PictureURL,
	}
}
