package auth

import (
	"github.com/angelmondragon/leaddesk-backend/internal/users"
	"github.com/angelmondragon/leaddesk-backend/pkg/enums"
	"github.com/google/uuid"
)

// LoginRequest captures the user credentials sent to the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// SessionUser is the account summary returned with a token.
type SessionUser struct {
	ID    uuid.UUID  `json:"id"`
	Name  string     `json:"name"`
	Email string     `json:"email"`
	Role  enums.Role `json:"role"`
}

// LoginResponse contains the signed token and the account it belongs to.
type LoginResponse struct {
	Token string      `json:"token"`
	User  SessionUser `json:"user"`
}

// MeResponse wraps the caller's account.
type MeResponse struct {
	User *users.UserDTO `json:"user"`
}
