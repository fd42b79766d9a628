package store

import (
	"context"
	"errors"

	"github.com/ahmetcoskunkizilkaya/taskboard-backend/internal/models"
	"gorm.io/datatypes"
)

func (s *Store) GetUser(ctx context.Context, userID string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		return nil, lookupErr(err)
	}
	return &user, nil
}

// GetUsers returns the users with the given ids. Unknown ids are skipped.
func (s *Store) GetUsers(ctx context.Context, ids []string) ([]models.User, error) {
	if len(ids) == 0 {
		return []models.User{}, nil
	}
	q := s.db.WithContext(ctx).Model(&models.User{}).Where("id IN ?", ids).Order("name ASC")
	return scanAll[models.User](s.db, q)
}

func (s *Store) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "email = ?", email).Error; err != nil {
		return nil, lookupErr(err)
	}
	return &user, nil
}

func (s *Store) FindUserByProviderSubject(ctx context.Context, provider, subject string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).
		Where("auth_provider = ? AND provider_subject = ?", provider, subject).
		First(&user).Error
	if err != nil {
		return nil, lookupErr(err)
	}
	return &user, nil
}

func (s *Store) FindUserByInvitationCode(ctx context.Context, code string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "invitation_code = ?", code).Error; err != nil {
		return nil, lookupErr(err)
	}
	return &user, nil
}

// CreateUser stores a new user under a new id with a freshly generated
// invitation code and an empty invitation list.
func (s *Store) CreateUser(ctx context.Context, user *models.User) (string, error) {
	code, err := s.uniqueInvitationCode(ctx)
	if err != nil {
		return "", err
	}
	user.ID = newID()
	user.InvitationCode = code
	user.Invitations = datatypes.JSONSlice[string]{}
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		return "", unavailable(err)
	}
	s.feed.Publish(UserPath(user.ID))
	return user.ID, nil
}

// EnsureUser returns the user registered under user.Email, creating it from
// user when no such record exists. The bool reports whether it was created.
func (s *Store) EnsureUser(ctx context.Context, user *models.User) (*models.User, bool, error) {
	existing, err := s.FindUserByEmail(ctx, user.Email)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, false, err
	}
	if _, err := s.CreateUser(ctx, user); err != nil {
		return nil, false, err
	}
	return user, true, nil
}

// ObserveUser streams the user record; each snapshot holds exactly one user.
func (s *Store) ObserveUser(ctx context.Context, userID string) <-chan Snapshot[models.User] {
	return observe(ctx, s.feed, UserPath(userID), func(ctx context.Context) ([]models.User, error) {
		user, err := s.GetUser(ctx, userID)
		if err != nil {
			return nil, err
		}
		return []models.User{*user}, nil
	})
}

// ObserveInvitedBoards streams the boards userID has pending invitations
// to, in invitation order.
func (s *Store) ObserveInvitedBoards(ctx context.Context, userID string) <-chan Snapshot[models.Board] {
	return observe(ctx, s.feed, UserPath(userID), func(ctx context.Context) ([]models.Board, error) {
		user, err := s.GetUser(ctx, userID)
		if err != nil {
			return nil, err
		}
		return s.GetBoards(ctx, user.Invitations)
	})
}

func (s *Store) UpdateUserName(ctx context.Context, userID, name string) error {
	return s.updateUserField(ctx, userID, "name", name)
}

// UpdatePushToken records the device token used for push delivery.
func (s *Store) UpdatePushToken(ctx context.Context, userID, token string) error {
	return s.updateUserField(ctx, userID, "fcm_token", token)
}

func (s *Store) updateUserField(ctx context.Context, userID, column string, value interface{}) error {
	res := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Update(column, value)
	if res.Error != nil {
		return unavailable(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	s.feed.Publish(UserPath(userID))
	return nil
}
