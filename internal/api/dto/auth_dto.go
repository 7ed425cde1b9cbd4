package dto

import "github.com/resumekit/cv-service/internal/domain"

// RegisterRequest payload for new accounts. Passwords are capped at bcrypt's
// 72 byte input limit, counted in bytes rather than characters.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,bcryptlen"`
	Name     string `json:"name" validate:"required,max=120"`
}

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AccountResponse is the public view of an account.
type AccountResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// LoginResponse is returned alongside the session cookie.
type LoginResponse struct {
	User AccountResponse `json:"user"`
}

// NewAccountResponse hides everything but the public fields.
func NewAccountResponse(a *domain.Account) AccountResponse {
	return AccountResponse{ID: a.ID, Email: a.Email, Name: a.Name}
}
