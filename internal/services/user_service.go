package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"

	"github.com/yukikurage/task-tracker/internal/models"
	"github.com/yukikurage/task-tracker/internal/repository"
)

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrUsernameRequired = errors.New("username is required")
	ErrEmailRequired    = errors.New("email is required")
	ErrUsernameTaken    = errors.New("username already exists")
	ErrEmailTaken       = errors.New("email already exists")
)

// UserService handles user business logic.
type UserService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// CreateUserInput represents the information needed to create a user.
type CreateUserInput struct {
	Username string
	Email    string
}

// UpdateUserInput represents a partial user update.
type UpdateUserInput struct {
	Username *string
	Email    *string
}

func (s *UserService) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (s *UserService) GetUser(ctx context.Context, userID uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, translateUserError(err)
	}
	return user, nil
}

func (s *UserService) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, translateUserError(err)
	}
	return user, nil
}

// CreateUser registers a user with a unique username and email.
func (s *UserService) CreateUser(ctx context.Context, input CreateUserInput) (user *models.User, err error) {
	ctx, span := startSpan(ctx, "UserService.CreateUser")
	defer func() { endSpan(span, err) }()

	username := strings.TrimSpace(input.Username)
	email := strings.TrimSpace(input.Email)
	if username == "" {
		return nil, ErrUsernameRequired
	}
	if email == "" {
		return nil, ErrEmailRequired
	}

	if err := s.ensureAvailable(ctx, 0, username, email); err != nil {
		return nil, err
	}

	user = &models.User{
		Username: username,
		Email:    email,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	span.SetAttributes(attribute.Int64("user.id", int64(user.ID)))

	return user, nil
}

// UpdateUser changes a user's username and/or email.
func (s *UserService) UpdateUser(ctx context.Context, userID uint64, input UpdateUserInput) (user *models.User, err error) {
	ctx, span := startSpan(ctx, "UserService.UpdateUser", attribute.Int64("user.id", int64(userID)))
	defer func() { endSpan(span, err) }()

	user, err = s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	var username, email string
	if input.Username != nil {
		username = strings.TrimSpace(*input.Username)
		if username == "" {
			return nil, ErrUsernameRequired
		}
	}
	if input.Email != nil {
		email = strings.TrimSpace(*input.Email)
		if email == "" {
			return nil, ErrEmailRequired
		}
	}

	if err := s.ensureAvailable(ctx, userID, username, email); err != nil {
		return nil, err
	}

	if username != "" {
		user.Username = username
	}
	if email != "" {
		user.Email = email
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return user, nil
}

// DeleteUser removes a user. Tasks and activity entries referencing the
// user keep existing with the reference cleared.
func (s *UserService) DeleteUser(ctx context.Context, userID uint64) (err error) {
	ctx, span := startSpan(ctx, "UserService.DeleteUser", attribute.Int64("user.id", int64(userID)))
	defer func() { endSpan(span, err) }()

	if err := s.userRepo.Delete(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

// ensureAvailable checks that username and email are unused by anyone other
// than selfID. Empty values are not checked.
func (s *UserService) ensureAvailable(ctx context.Context, selfID uint64, username, email string) error {
	if username != "" {
		existing, err := s.userRepo.FindByUsername(ctx, username)
		if err == nil && existing.ID != selfID {
			return ErrUsernameTaken
		} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to check username: %w", err)
		}
	}
	if email != "" {
		existing, err := s.userRepo.FindByEmail(ctx, email)
		if err == nil && existing.ID != selfID {
			return ErrEmailTaken
		} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to check email: %w", err)
		}
	}
	return nil
}

func translateUserError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrUserNotFound
	}
	return fmt.Errorf("failed to find user: %w", err)
}
