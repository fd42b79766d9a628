package store

import (
	"context"

	"github.com/ahmetcoskunkizilkaya/taskboard-backend/internal/models"
)

func (s *Store) ListStatuses(ctx context.Context, boardID string) ([]models.Status, error) {
	q := s.db.WithContext(ctx).Model(&models.Status{}).Scopes(forBoard(boardID)).Order("sort_order ASC")
	return scanAll[models.Status](s.db, q)
}

// ObserveStatuses streams a board's columns in display order.
func (s *Store) ObserveStatuses(ctx context.Context, boardID string) <-chan Snapshot[models.Status] {
	return observe(ctx, s.feed, StatusesPath(boardID), func(ctx context.Context) ([]models.Status, error) {
		return s.ListStatuses(ctx, boardID)
	})
}

func (s *Store) CreateStatus(ctx context.Context, status *models.Status) (string, error) {
	status.ID = newID()
	if err := s.db.WithContext(ctx).Create(status).Error; err != nil {
		return "", unavailable(err)
	}
	s.feed.Publish(StatusesPath(status.BoardID))
	return status.ID, nil
}

// CreateStatuses stores several columns in one insert.
func (s *Store) CreateStatuses(ctx context.Context, statuses []models.Status) error {
	if len(statuses) == 0 {
		return nil
	}
	for i := range statuses {
		statuses[i].ID = newID()
	}
	if err := s.db.WithContext(ctx).Create(&statuses).Error; err != nil {
		return unavailable(err)
	}
	s.feed.Publish(StatusesPath(statuses[0].BoardID))
	return nil
}

func (s *Store) UpdateStatus(ctx context.Context, status *models.Status) error {
	res := s.db.WithContext(ctx).Model(status).Scopes(forBoard(status.BoardID)).Select("*").Updates(status)
	if res.Error != nil {
		return unavailable(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	s.feed.Publish(StatusesPath(status.BoardID))
	return nil
}

func (s *Store) DeleteStatus(ctx context.Context, boardID, statusID string) error {
	res := s.db.WithContext(ctx).Scopes(forBoard(boardID)).Delete(&models.Status{}, "id = ?", statusID)
	if res.Error != nil {
		return unavailable(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	s.feed.Publish(StatusesPath(boardID))
	return nil
}
