package dto

import (
	"time"

	"github.com/careops/as-service/internal/domain"
)

// LoginRequest carries credentials.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterUserRequest creates a back-office account.
type RegisterUserRequest struct {
	Name            string          `json:"name"`
	Email           string          `json:"email"`
	Password        string          `json:"password"`
	Role            domain.UserRole `json:"role"`
	AssignedPartner *string         `json:"assignedPartner"`
}

// UserResponse is the API shape of a back-office user.
type UserResponse struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Email           string          `json:"email"`
	Role            domain.UserRole `json:"role"`
	AssignedPartner *string         `json:"assignedPartner,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// LoginResponse returns the issued token.
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      UserResponse `json:"user"`
}

// FromUser maps a domain user to its response shape.
func FromUser(u *domain.User) UserResponse {
	return UserResponse{
		ID:              u.ID,
		Name:            u.Name,
		Email:           u.Email,
		Role:            u.Role,
		AssignedPartner: u.AssignedPartner,
		CreatedAt:       u.CreatedAt,
	}
}
