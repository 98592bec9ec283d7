package service

import (
	"context"
	"errors"
	"fmt"

	"auth_service/internal/model"
	"auth_service/internal/repository"

	"github.com/jackc/pgx/v5"
)

var ErrNoSuchUser = errors.New("user not found")

// UserService defines operations on user accounts beyond authentication
type UserService interface {
	GetUser(ctx context.Context, id int) (*model.User, error)

	// Admin methods
	GetAllUsers(ctx context.Context) ([]model.User, error)
	DeleteUser(ctx context.Context, id int) error
}

type userService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new UserService
func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) GetUser(ctx context.Context, id int) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find user by ID: %w", err)
	}
	if user == nil {
		return nil, ErrNoSuchUser
	}
	return user, nil
}

func (s *userService) GetAllUsers(ctx context.Context) ([]model.User, error) {
	users, err := s.userRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get users from repo: %w", err)
	}
	return users, nil
}

func (s *userService) DeleteUser(ctx context.Context, id int) error {
	if err := s.userRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNoSuchUser
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}
