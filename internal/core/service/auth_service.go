package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/platformid/identity-system/internal/core/domain"
	"github.com/platformid/identity-system/internal/core/ports"
)

// AuthService implements signup and signin.
type AuthService struct {
	repo     ports.UserRepository
	tokens   ports.TokenService
	hashCost int
	logger   zerolog.Logger
}

func NewAuthService(repo ports.UserRepository, tokens ports.TokenService, hashCost int, logger zerolog.Logger) *AuthService {
	if hashCost < bcrypt.MinCost || hashCost > bcrypt.MaxCost {
		hashCost = bcrypt.DefaultCost
	}
	return &AuthService{repo: repo, tokens: tokens, hashCost: hashCost, logger: logger}
}

// SignUp creates a new account and returns it with a freshly issued session
// token. New accounts always get the "user" role; promotion to admin happens
// only through an admin-driven update.
func (s *AuthService) SignUp(ctx context.Context, input ports.SignUpInput) (*domain.User, string, error) {
	existing, err := s.repo.FindByEmail(ctx, input.Email)
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return nil, "", err
	}
	if existing != nil {
		return nil, "", domain.ErrEmailExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.hashCost)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", domain.ErrHashing, err)
	}

	now := time.Now().UTC()
	created, err := s.repo.Create(ctx, &domain.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: string(hash),
		Role:         domain.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, "", err
	}

	token, err := s.tokens.Issue(ports.Claims{UserID: created.ID, Email: created.Email, Role: created.Role})
	if err != nil {
		return nil, "", err
	}

	s.logger.Info().Str("email", created.Email).Int64("user_id", created.ID).Msg("user registered")
	return created, token, nil
}

// SignIn verifies the credentials and returns the user with a new session
// token. An unknown email and a wrong password are indistinguishable: both
// fail with domain.ErrInvalidCredentials.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (*domain.User, string, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, "", domain.ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, "", domain.ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("%w: %v", domain.ErrHashing, err)
	}

	token, err := s.tokens.Issue(ports.Claims{UserID: user.ID, Email: user.Email, Role: user.Role})
	if err != nil {
		return nil, "", err
	}

	s.logger.Info().Str("email", user.Email).Int64("user_id", user.ID).Msg("user signed in")
	return user, token, nil
}
