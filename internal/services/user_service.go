package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/ahmetcoskunkizilkaya/taskboard-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/taskboard-backend/internal/store"
)

type UserService struct {
	store *store.Store
}

func NewUserService(st *store.Store) *UserService {
	return &UserService{store: st}
}

func (s *UserService) GetUser(ctx context.Context, userID string) (*models.User, error) {
	return s.store.GetUser(ctx, userID)
}

func (s *UserService) ObserveUser(ctx context.Context, userID string) <-chan store.Snapshot[models.User] {
	return s.store.ObserveUser(ctx, userID)
}

func (s *UserService) UpdateName(ctx context.Context, userID, name string) (*models.User, error) {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > 100 {
		return nil, fmt.Errorf("%w: name must be 1-100 characters", ErrValidation)
	}
	if err := s.store.UpdateUserName(ctx, userID, name); err != nil {
		return nil, err
	}
	return s.store.GetUser(ctx, userID)
}

// UpdatePushToken stores the device token push notifications are sent to.
func (s *UserService) UpdatePushToken(ctx context.Context, userID, token string) error {
	token = strings.TrimSpace(token)
	if token == "" || len(token) > 512 {
		return fmt.Errorf("%w: push token must be 1-512 characters", ErrValidation)
	}
	return s.store.UpdatePushToken(ctx, userID, token)
}
