package ports

import (
	"context"

	"github.com/Aaya-Elsharief/Agri-pal/internal/core/domain"
)

// RegisterInput carries a registration request. All fields are required.
type RegisterInput struct {
	Username string `json:"username"  validate:"required"`
	Password string `json:"password"  validate:"required"`
	Role     string `json:"role"      validate:"required"`
	FullName string `json:"full_name" validate:"required"`
	Phone    string `json:"phone"     validate:"required"`
	Location string `json:"location"  validate:"required"`
}

// LoginInput carries login credentials.
type LoginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthResult is a sanitized user plus a freshly issued identity token.
type AuthResult struct {
	Token string
	User  *domain.User
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, in LoginInput) (*AuthResult, error)
	Profile(ctx context.Context, p domain.Principal) (*domain.User, error)
}
