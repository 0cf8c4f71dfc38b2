package ports

import (
	"context"

	"github.com/platformid/identity-system/internal/core/domain"
)

// UserRepository defines the interface for user persistence.
// Lookups return domain.ErrUserNotFound when no row matches; Create and
// Update return domain.ErrEmailExists on a unique-email violation.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) (*domain.User, error)
	Delete(ctx context.Context, id int64) (*domain.User, error)
}
