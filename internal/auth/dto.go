package auth

import "github.com/modastore/storefront-backend/internal/users"

// RegisterRequest is the validated registration payload.
type RegisterRequest struct {
	Email    string
	Username string
	Password string
}

// LoginRequest is the validated login payload.
type LoginRequest struct {
	Email     string
	Password  string
	IPAddress *string
}

// LoginResponse carries the minted access token and the authenticated
// profile.
type LoginResponse struct {
	AccessToken string         `json:"access_token"`
	User        *users.UserDTO `json:"user"`
}
