package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ahmetcoskunkizilkaya/taskboard-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/taskboard-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/taskboard-backend/internal/store"
)

// DefaultStatuses are the columns every new board starts with.
var DefaultStatuses = []string{"To Do", "In Progress", "Done"}

type BoardService struct {
	store *store.Store
}

func NewBoardService(st *store.Store) *BoardService {
	return &BoardService{store: st}
}

func (s *BoardService) ListBoards(ctx context.Context, userID string) ([]models.Board, error) {
	return s.store.ListBoards(ctx, userID)
}

func (s *BoardService) ObserveBoards(ctx context.Context, userID string) <-chan store.Snapshot[models.Board] {
	return s.store.ObserveBoards(ctx, userID)
}

func (s *BoardService) GetBoard(ctx context.Context, boardID string) (*models.Board, error) {
	return s.store.GetBoard(ctx, boardID)
}

// CreateBoard creates a board owned by userID with the default columns.
func (s *BoardService) CreateBoard(ctx context.Context, userID string, req *dto.BoardRequest) (*models.Board, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" || len(name) > 100 {
		return nil, fmt.Errorf("%w: board name must be 1-100 characters", ErrValidation)
	}

	board := models.Board{
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		CreatedBy:   userID,
		Members:     []string{userID},
	}
	if _, err := s.store.CreateBoard(ctx, &board); err != nil {
		return nil, err
	}

	statuses := make([]models.Status, len(DefaultStatuses))
	for i, name := range DefaultStatuses {
		statuses[i] = models.Status{BoardID: board.ID, Name: name, Order: i}
	}
	if err := s.store.CreateStatuses(ctx, statuses); err != nil {
		slog.Error("failed to seed board statuses", "board_id", board.ID, "error", err)
	}

	slog.Info("board created", "board_id", board.ID, "user_id", userID, "action", "create_board")
	return &board, nil
}

func (s *BoardService) UpdateBoard(ctx context.Context, boardID string, req *dto.BoardRequest) (*models.Board, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" || len(name) > 100 {
		return nil, fmt.Errorf("%w: board name must be 1-100 characters", ErrValidation)
	}

	board, err := s.store.GetBoard(ctx, boardID)
	if err != nil {
		return nil, err
	}
	board.Name = name
	board.Description = strings.TrimSpace(req.Description)
	if err := s.store.UpdateBoard(ctx, board); err != nil {
		return nil, err
	}
	return board, nil
}

// DeleteBoard removes a board. Only its creator may do so.
func (s *BoardService) DeleteBoard(ctx context.Context, boardID, userID string) error {
	board, err := s.store.GetBoard(ctx, boardID)
	if err != nil {
		return err
	}
	if board.CreatedBy != userID {
		return fmt.Errorf("%w: only the board creator can delete it", ErrForbidden)
	}
	if err := s.store.DeleteBoard(ctx, boardID); err != nil {
		return err
	}
	slog.Info("board deleted", "board_id", boardID, "user_id", userID, "action", "delete_board")
	return nil
}

func (s *BoardService) Members(ctx context.Context, boardID string) ([]models.User, error) {
	return s.store.Members(ctx, boardID)
}

// RemoveMember takes userID off the board. Members may remove themselves;
// the creator may remove anyone else.
func (s *BoardService) RemoveMember(ctx context.Context, boardID, actorID, userID string) error {
	board, err := s.store.GetBoard(ctx, boardID)
	if err != nil {
		return err
	}
	if userID == board.CreatedBy {
		return fmt.Errorf("%w: the board creator cannot be removed", ErrForbidden)
	}
	if actorID != userID && actorID != board.CreatedBy {
		return fmt.Errorf("%w: only the board creator can remove other members", ErrForbidden)
	}
	return s.store.RemoveMember(ctx, boardID, userID)
}

func (s *BoardService) ListStatuses(ctx context.Context, boardID string) ([]models.Status, error) {
	return s.store.ListStatuses(ctx, boardID)
}

func (s *BoardService) ObserveStatuses(ctx context.Context, boardID, viewerID string) <-chan store.Snapshot[models.Status] {
	return store.WhileMember(ctx, s.store, boardID, viewerID, func(ctx context.Context) <-chan store.Snapshot[models.Status] {
		return s.store.ObserveStatuses(ctx, boardID)
	})
}

func (s *BoardService) CreateStatus(ctx context.Context, boardID string, req *dto.StatusRequest) (*models.Status, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" || len(name) > 50 {
		return nil, fmt.Errorf("%w: status name must be 1-50 characters", ErrValidation)
	}
	status := models.Status{BoardID: boardID, Name: name, Order: req.Order}
	if _, err := s.store.CreateStatus(ctx, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

func (s *BoardService) UpdateStatus(ctx context.Context, boardID, statusID string, req *dto.StatusRequest) (*models.Status, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" || len(name) > 50 {
		return nil, fmt.Errorf("%w: status name must be 1-50 characters", ErrValidation)
	}
	status := models.Status{ID: statusID, BoardID: boardID, Name: name, Order: req.Order}
	if err := s.store.UpdateStatus(ctx, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

func (s *BoardService) DeleteStatus(ctx context.Context, boardID, statusID string) error {
	return s.store.DeleteStatus(ctx, boardID, statusID)
}
