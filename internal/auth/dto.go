package auth

import (
	"github.com/angelmondragon/darkstore-backend/internal/users"
)

// RegisterRequest is the self sign-up payload.
type RegisterRequest struct {
	Name     string  `json:"name" validate:"required,max=120"`
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required"`
	Mobile   *string `json:"mobile,omitempty" validate:"omitempty,max=32"`
}

// LoginRequest captures the user credentials sent to the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest carries the (possibly expired) access token and its refresh token.
// Either may be omitted in the body when the matching cookie is present.
type RefreshRequest struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// LoginResponse contains the tokens and user produced by a successful login or refresh.
type LoginResponse struct {
	AccessToken  string         `json:"access_token"`
	RefreshToken string         `json:"refresh_token"`
	User         *users.UserDTO `json:"user"`
}
