package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"campusevents/internal/domain"
)

type userService struct {
	userRepo       domain.UserRepository
	contextTimeout time.Duration
}

// NewUserService creates a UserService backed by the given repository.
func NewUserService(userRepo domain.UserRepository, timeout time.Duration) domain.UserService {
	return &userService{userRepo: userRepo, contextTimeout: timeout}
}

func (s *userService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.userRepo.GetByID(ctx, id)
}

// UpdateProfile changes the caller's name and/or email. The role cannot be changed here.
func (s *userService) UpdateProfile(ctx context.Context, userID string, name, email *string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if name == nil && email == nil {
		return nil, domain.InvalidInputf("at least one of name or email is required")
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if name != nil {
		trimmed := strings.TrimSpace(*name)
		if trimmed == "" {
			return nil, domain.InvalidInputf("name must not be empty")
		}
		user.Name = trimmed
	}
	if email != nil {
		normalized, err := normalizeEmail(*email)
		if err != nil {
			return nil, err
		}
		if normalized != user.Email {
			other, err := s.userRepo.GetByEmail(ctx, normalized)
			if err == nil && other.ID != user.ID {
				return nil, domain.ErrDuplicateEmail
			}
			if err != nil && !errors.Is(err, domain.ErrNotFound) {
				return nil, err
			}
		}
		user.Email = normalized
	}
	user.UpdatedAt = time.Now()
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
