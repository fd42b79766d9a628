package store

import (
	"context"

	"github.com/ahmetcoskunkizilkaya/taskboard-backend/internal/models"
)

func (s *Store) ListComments(ctx context.Context, boardID, ticketID string) ([]models.Comment, error) {
	q := s.db.WithContext(ctx).Model(&models.Comment{}).Scopes(forBoard(boardID)).
		Where("ticket_id = ?", ticketID).Order("created_at ASC")
	return scanAll[models.Comment](s.db, q)
}

func (s *Store) ObserveComments(ctx context.Context, boardID, ticketID string) <-chan Snapshot[models.Comment] {
	return observe(ctx, s.feed, CommentsPath(boardID, ticketID), func(ctx context.Context) ([]models.Comment, error) {
		return s.ListComments(ctx, boardID, ticketID)
	})
}

func (s *Store) GetComment(ctx context.Context, boardID, ticketID, commentID string) (*models.Comment, error) {
	var comment models.Comment
	err := s.db.WithContext(ctx).Scopes(forBoard(boardID)).
		Where("ticket_id = ?", ticketID).First(&comment, "id = ?", commentID).Error
	if err != nil {
		return nil, lookupErr(err)
	}
	return &comment, nil
}

func (s *Store) CreateComment(ctx context.Context, comment *models.Comment) (string, error) {
	comment.ID = newID()
	if err := s.db.WithContext(ctx).Create(comment).Error; err != nil {
		return "", unavailable(err)
	}
	s.feed.Publish(CommentsPath(comment.BoardID, comment.TicketID))
	return comment.ID, nil
}

func (s *Store) UpdateComment(ctx context.Context, comment *models.Comment) error {
	res := s.db.WithContext(ctx).Model(comment).Scopes(forBoard(comment.BoardID)).
		Where("ticket_id = ?", comment.TicketID).Select("*").Updates(comment)
	if res.Error != nil {
		return unavailable(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	s.feed.Publish(CommentsPath(comment.BoardID, comment.TicketID))
	return nil
}

func (s *Store) DeleteComment(ctx context.Context, boardID, ticketID, commentID string) error {
	res := s.db.WithContext(ctx).Scopes(forBoard(boardID)).
		Where("ticket_id = ?", ticketID).Delete(&models.Comment{}, "id = ?", commentID)
	if res.Error != nil {
		return unavailable(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	s.feed.Publish(CommentsPath(boardID, ticketID))
	return nil
}
