package service

import (
	"context"
	"errors"

	"github.com/wellness2k25/wellness-go/internal/model"
	"github.com/wellness2k25/wellness-go/internal/repository"
)

var ErrUserNotFound = errors.New("user not found")

// UserService handles user administration.
type UserService struct {
	users UserStore
}

// NewUserService creates a new UserService.
func NewUserService(users UserStore) *UserService {
	return &UserService{users: users}
}

// List returns every user.
func (s *UserService) List(ctx context.Context) ([]model.UserResponse, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]model.UserResponse, len(users))
	for i := range users {
		result[i] = model.NewUserResponse(&users[i])
	}
	return result, nil
}

// Get returns one user.
func (s *UserService) Get(ctx context.Context, id int64) (model.UserResponse, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return model.UserResponse{}, ErrUserNotFound
		}
		return model.UserResponse{}, err
	}
	return model.NewUserResponse(user), nil
}

// SetRole changes the role of user id and returns the updated user.
func (s *UserService) SetRole(ctx context.Context, id int64, role string) (model.UserResponse, error) {
	r, err := model.ParseRole(role)
	if err != nil {
		return model.UserResponse{}, err
	}
	if err := s.users.UpdateRole(ctx, id, r); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return model.UserResponse{}, ErrUserNotFound
		}
		return model.UserResponse{}, err
	}
	return s.Get(ctx, id)
}

// CurrentRole returns the stored role of user id.
func (s *UserService) CurrentRole(ctx context.Context, id int64) (model.Role, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return "", ErrUserNotFound
		}
		return "", err
	}
	return user.Role, nil
}
