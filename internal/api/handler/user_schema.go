package handler

import (
	"time"

	"github.com/platformid/identity-system/internal/core/domain"
)

// --- Request types ---

type signUpRequest struct {
	Name     string `json:"name"     validate:"required,min=2,max=255"`
	Email    string `json:"email"    validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,max=128"`
	// Role is accepted for wire compatibility but never honoured: new
	// accounts always start as "user".
	Role string `json:"role" validate:"omitempty,oneof=user admin"`
}

type signInRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type updateUserRequest struct {
	Name     *string `json:"name"     validate:"omitempty,min=2,max=255"`
	Email    *string `json:"email"    validate:"omitempty,email,max=255"`
	Password *string `json:"password" validate:"omitempty,min=6,max=128"`
	Role     *string `json:"role"     validate:"omitempty,oneof=user admin"`
}

// --- Response types ---

// userResponse is the public view of a user record. The password hash never
// appears here.
type userResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type authResponse struct {
	Message string       `json:"message"`
	User    userResponse `json:"user"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type userEnvelope struct {
	Message string       `json:"message"`
	User    userResponse `json:"user"`
}

type listUsersResponse struct {
	Message string         `json:"message"`
	Users   []userResponse `json:"users"`
	Count   int            `json:"count"`
}

type deleteUserResponse struct {
	Message     string       `json:"message"`
	DeletedUser userResponse `json:"deletedUser"`
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
