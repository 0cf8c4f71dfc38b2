package ports

import (
	"context"

	"github.com/platformid/identity-system/internal/core/domain"
)

// UpdateUserInput is a partial patch; nil fields are left untouched.
type UpdateUserInput struct {
	Name     *string
	Email    *string
	Password *string
	Role     *string
}

// Empty reports whether the patch carries no changes at all.
func (in UpdateUserInput) Empty() bool {
	return in.Name == nil && in.Email == nil && in.Password == nil && in.Role == nil
}

type UserService interface {
	List(ctx context.Context) ([]domain.User, error)
	Get(ctx context.Context, id int64) (*domain.User, error)
	Update(ctx context.Context, id int64, input UpdateUserInput) (*domain.User, error)
	Delete(ctx context.Context, id int64) (*domain.User, error)
}
