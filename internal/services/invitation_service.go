package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ahmetcoskunkizilkaya/taskboard-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/taskboard-backend/internal/store"
)

type InvitationService struct {
	store *store.Store
}

func NewInvitationService(st *store.Store) *InvitationService {
	return &InvitationService{store: st}
}

// Invite adds a pending invitation to boardID for the user owning code.
func (s *InvitationService) Invite(ctx context.Context, boardID, inviterID, code string) (*models.User, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != store.InvitationCodeLength {
		return nil, fmt.Errorf("%w: invitation code must be %d characters", ErrValidation, store.InvitationCodeLength)
	}
	invitee, err := s.store.Invite(ctx, boardID, code)
	if err != nil {
		return nil, err
	}
	slog.Info("user invited", "board_id", boardID, "user_id", inviterID, "invitee_id", invitee.ID, "action", "invite")
	return invitee, nil
}

func (s *InvitationService) Accept(ctx context.Context, boardID, userID string) error {
	if err := s.store.Accept(ctx, boardID, userID); err != nil {
		slog.Error("accept invitation failed", "board_id", boardID, "user_id", userID, "action", "accept_invitation", "error", err)
		return err
	}
	return nil
}

// Reject drops the invitation. The failure, if any, is logged and returned
// as the result.
func (s *InvitationService) Reject(ctx context.Context, boardID, userID string) error {
	err := s.store.Reject(ctx, boardID, userID)
	if err != nil {
		slog.Warn("reject invitation failed", "board_id", boardID, "user_id", userID, "action", "reject_invitation", "error", err)
	}
	return err
}

// Pending returns the boards userID is invited to.
func (s *InvitationService) Pending(ctx context.Context, userID string) ([]models.Board, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.store.GetBoards(ctx, user.Invitations)
}

func (s *InvitationService) ObservePending(ctx context.Context, userID string) <-chan store.Snapshot[models.Board] {
	return s.store.ObserveInvitedBoards(ctx, userID)
}
