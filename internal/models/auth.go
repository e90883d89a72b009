package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// JWTClaims are the access-token claims. The registered subject is the
// user's email address.
type JWTClaims struct {
	UserID   string       `json:"user_id"`
	Email    string       `json:"email"`
	Name     string       `json:"name"`
	Provider AuthProvider `json:"provider"`
	jwt.RegisteredClaims
}

// LoginRequest carries an opaque provider token, or email/password for
// the LOCAL provider.
type LoginRequest struct {
	Provider string `json:"provider" validate:"required"`
	Token    string `json:"token"`
	Email    string `json:"email" validate:"omitempty,email"`
	Password string `json:"password"`
}

// LoginResponse returns the issued token and the user projection.
type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresIn   int64     `json:"expires_in"`
	IssuedAt    time.Time `json:"issued_at"`
	User        User      `json:"user"`
}

// ProviderProfile is the identity extracted from a verified provider token.
type ProviderProfile struct {
	Email      string
	Name       string
	PictureURL string
	ProviderID string
}
