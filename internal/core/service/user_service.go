package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/platformid/identity-system/internal/core/domain"
	"github.com/platformid/identity-system/internal/core/ports"
)

// UserService implements CRUD over user records. Authorization (who may
// touch which record) is decided at the API layer before these run.
type UserService struct {
	repo     ports.UserRepository
	hashCost int
	logger   zerolog.Logger
}

func NewUserService(repo ports.UserRepository, hashCost int, logger zerolog.Logger) *UserService {
	if hashCost < bcrypt.MinCost || hashCost > bcrypt.MaxCost {
		hashCost = bcrypt.DefaultCost
	}
	return &UserService{repo: repo, hashCost: hashCost, logger: logger}
}

func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	return s.repo.List(ctx)
}

func (s *UserService) Get(ctx context.Context, id int64) (*domain.User, error) {
	return s.repo.FindByID(ctx, id)
}

// Update applies a partial patch to an existing user. A password change is
// rehashed; a role change must already have passed the admin check upstream.
func (s *UserService) Update(ctx context.Context, id int64, input ports.UpdateUserInput) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Email != nil {
		user.Email = *input.Email
	}
	if input.Role != nil {
		if !domain.ValidRole(*input.Role) {
			return nil, domain.ErrForbidden
		}
		user.Role = *input.Role
	}
	if input.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*input.Password), s.hashCost)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrHashing, err)
		}
		user.PasswordHash = string(hash)
	}
	user.UpdatedAt = time.Now().UTC()

	updated, err := s.repo.Update(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("user_id", updated.ID).Str("email", updated.Email).Msg("user updated")
	return updated, nil
}

func (s *UserService) Delete(ctx context.Context, id int64) (*domain.User, error) {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("user_id", deleted.ID).Str("email", deleted.Email).Msg("user deleted")
	return deleted, nil
}
