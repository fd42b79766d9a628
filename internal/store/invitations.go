package store

import (
	"context"
	"errors"

	"github.com/ahmetcoskunkizilkaya/taskboard-backend/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Invite records a pending invitation to boardID on the user holding code
// and returns that user.
func (s *Store) Invite(ctx context.Context, boardID, code string) (*models.User, error) {
	board, err := s.GetBoard(ctx, boardID)
	if err != nil {
		return nil, err
	}
	invitee, err := s.FindUserByInvitationCode(ctx, code)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrInvalidCode
	}
	if err != nil {
		return nil, err
	}
	if board.HasMember(invitee.ID) {
		return nil, ErrAlreadyMember
	}

	err = s.runTx(ctx, func(tx *gorm.DB) error {
		var user models.User
		if err := lockUser(tx, invitee.ID, &user); err != nil {
			return err
		}
		if contains(user.Invitations, boardID) {
			return ErrDuplicateInvitation
		}
		invitations := append(append([]string{}, user.Invitations...), boardID)
		if err := setInvitations(tx, &user, invitations); err != nil {
			return err
		}
		*invitee = user
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.feed.Publish(UserPath(invitee.ID))
	return invitee, nil
}

// Accept moves boardID from the user's pending invitations to the board's
// member list. The two updates run in separate transactions: if the second
// fails the invitation is already consumed.
func (s *Store) Accept(ctx context.Context, boardID, userID string) error {
	if err := s.removeInvitation(ctx, boardID, userID); err != nil {
		return err
	}
	return s.AddMember(ctx, boardID, userID)
}

// Reject drops boardID from the user's pending invitations.
func (s *Store) Reject(ctx context.Context, boardID, userID string) error {
	return s.removeInvitation(ctx, boardID, userID)
}

func (s *Store) removeInvitation(ctx context.Context, boardID, userID string) error {
	err := s.runTx(ctx, func(tx *gorm.DB) error {
		var user models.User
		if err := lockUser(tx, userID, &user); err != nil {
			return err
		}
		if !contains(user.Invitations, boardID) {
			return ErrNoInvitation
		}
		return setInvitations(tx, &user, without(user.Invitations, boardID))
	})
	if err != nil {
		return err
	}
	s.feed.Publish(UserPath(userID))
	return nil
}

func lockUser(tx *gorm.DB, userID string, user *models.User) error {
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(user, "id = ?", userID).Error; err != nil {
		return lookupErr(err)
	}
	return nil
}

func setInvitations(tx *gorm.DB, user *models.User, invitations []string) error {
	list := datatypes.JSONSlice[string](invitations)
	if err := tx.Model(user).Update("invitations", list).Error; err != nil {
		return unavailable(err)
	}
	user.Invitations = list
	return nil
}
