package model

import "github.com/golang-jwt/jwt/v5"

// UserClaims are JWT claims carried by API bearer tokens.
type UserClaims struct {
	UserID   string `json:"userId"`
	StreamID string `json:"streamId"`
	jwt.RegisteredClaims
}

// RegisterRequest is the request body for account registration.
type RegisterRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	ProfileImage string `json:"profileImage,omitempty"`
}

// LoginRequest is the request body for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is returned after successful login or registration.
type LoginResponse struct {
	Token string       `json:"token"`
	User  *UserSummary `json:"user"`
}

// StreamTokenResponse carries a provider-side user token so the client can
// open the chat channel and video call directly.
type StreamTokenResponse struct {
	Token    string `json:"token"`
	StreamID string `json:"streamId"`
}
