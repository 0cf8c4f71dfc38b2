package ports

import (
	"context"

	"github.com/platformid/identity-system/internal/core/domain"
)

type SignUpInput struct {
	Name     string
	Email    string
	Password string
}

// AuthService implements the credential lifecycle: account creation and
// credential verification, both returning a freshly issued session token.
type AuthService interface {
	SignUp(ctx context.Context, input SignUpInput) (*domain.User, string, error)
	SignIn(ctx context.Context, email, password string) (*domain.User, string, error)
}
