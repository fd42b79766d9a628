package store

import (
	"context"
	"encoding/json"

	"github.com/ahmetcoskunkizilkaya/taskboard-backend/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// memberOf limits a board query to boards whose member list holds userID.
func memberOf(userID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if db.Dialector.Name() == "postgres" {
			needle, _ := json.Marshal([]string{userID})
			return db.Where("boards.members @> ?::jsonb", string(needle))
		}
		return db.Where("EXISTS (SELECT 1 FROM json_each(CAST(boards.members AS TEXT)) WHERE json_each.value = ?)", userID)
	}
}

// ListBoards returns the boards userID is a member of, oldest first.
func (s *Store) ListBoards(ctx context.Context, userID string) ([]models.Board, error) {
	q := s.db.WithContext(ctx).Model(&models.Board{}).Scopes(memberOf(userID)).Order("created_at ASC")
	return scanAll[models.Board](s.db, q)
}

// ObserveBoards streams the boards userID is a member of.
func (s *Store) ObserveBoards(ctx context.Context, userID string) <-chan Snapshot[models.Board] {
	return observe(ctx, s.feed, BoardsPath(), func(ctx context.Context) ([]models.Board, error) {
		return s.ListBoards(ctx, userID)
	})
}

func (s *Store) GetBoard(ctx context.Context, boardID string) (*models.Board, error) {
	var board models.Board
	if err := s.db.WithContext(ctx).First(&board, "id = ?", boardID).Error; err != nil {
		return nil, lookupErr(err)
	}
	return &board, nil
}

// GetBoards returns the boards with the given ids in the order of ids.
// Unknown ids are skipped.
func (s *Store) GetBoards(ctx context.Context, ids []string) ([]models.Board, error) {
	if len(ids) == 0 {
		return []models.Board{}, nil
	}
	q := s.db.WithContext(ctx).Model(&models.Board{}).Where("id IN ?", ids)
	found, err := scanAll[models.Board](s.db, q)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]models.Board, len(found))
	for _, b := range found {
		byID[b.ID] = b
	}
	boards := make([]models.Board, 0, len(ids))
	for _, id := range ids {
		if b, ok := byID[id]; ok {
			boards = append(boards, b)
		}
	}
	return boards, nil
}

// CreateBoard stores board under a new id and returns that id.
func (s *Store) CreateBoard(ctx context.Context, board *models.Board) (string, error) {
	board.ID = newID()
	if board.Members == nil {
		board.Members = datatypes.JSONSlice[string]{}
	}
	if err := s.db.WithContext(ctx).Create(board).Error; err != nil {
		return "", unavailable(err)
	}
	s.feed.Publish(BoardsPath())
	return board.ID, nil
}

// UpdateBoard overwrites every field of the stored board.
func (s *Store) UpdateBoard(ctx context.Context, board *models.Board) error {
	if board.Members == nil {
		board.Members = datatypes.JSONSlice[string]{}
	}
	res := s.db.WithContext(ctx).Model(board).Select("*").Updates(board)
	if res.Error != nil {
		return unavailable(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	s.feed.Publish(BoardsPath())
	return nil
}

// DeleteBoard removes the board record only. Its statuses, tickets and
// comments are left in place.
func (s *Store) DeleteBoard(ctx context.Context, boardID string) error {
	res := s.db.WithContext(ctx).Delete(&models.Board{}, "id = ?", boardID)
	if res.Error != nil {
		return unavailable(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	s.feed.Publish(BoardsPath())
	return nil
}

// AddMember appends userID to the board's members unless already present.
func (s *Store) AddMember(ctx context.Context, boardID, userID string) error {
	err := s.runTx(ctx, func(tx *gorm.DB) error {
		var board models.Board
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&board, "id = ?", boardID).Error; err != nil {
			return lookupErr(err)
		}
		if board.HasMember(userID) {
			return nil
		}
		members := append(append([]string{}, board.Members...), userID)
		return unavailable(tx.Model(&board).Update("members", datatypes.JSONSlice[string](members)).Error)
	})
	if err != nil {
		return err
	}
	s.feed.Publish(BoardsPath())
	return nil
}

// RemoveMember drops userID from the board's members.
func (s *Store) RemoveMember(ctx context.Context, boardID, userID string) error {
	err := s.runTx(ctx, func(tx *gorm.DB) error {
		var board models.Board
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&board, "id = ?", boardID).Error; err != nil {
			return lookupErr(err)
		}
		if !board.HasMember(userID) {
			return ErrNotFound
		}
		return unavailable(tx.Model(&board).Update("members", datatypes.JSONSlice[string](without(board.Members, userID))).Error)
	})
	if err != nil {
		return err
	}
	s.feed.Publish(BoardsPath())
	return nil
}

// Members returns the user records of the board's members.
func (s *Store) Members(ctx context.Context, boardID string) ([]models.User, error) {
	board, err := s.GetBoard(ctx, boardID)
	if err != nil {
		return nil, err
	}
	return s.GetUsers(ctx, board.Members)
}
