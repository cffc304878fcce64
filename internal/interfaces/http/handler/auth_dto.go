package handler

import "github.com/ledgerly/backend/internal/infrastructure/auth"

// LoginRequest is the login request body.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RegisterRequest is the registration request body.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
}

// RefreshRequest is the token refresh request body.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// AuthUserResponse is the user shape returned by auth endpoints.
type AuthUserResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// TokenResponse is the issued token pair.
type TokenResponse struct {
	Token *auth.TokenPair  `json:"token"`
	User  AuthUserResponse `json:"user"`
}

// RefreshResponse carries the fresh token pair.
type RefreshResponse struct {
	Token *auth.TokenPair `json:"token"`
}
