package store

import (
	"context"

	"github.com/ahmetcoskunkizilkaya/taskboard-backend/internal/models"
)

// ticketPath is the collection a ticket is listed in: the board's tickets,
// or its parent's sub-tickets.
func ticketPath(t *models.Ticket) Path {
	if t.Parent != nil {
		return SubTicketsPath(t.BoardID, *t.Parent)
	}
	return TicketsPath(t.BoardID)
}

// ListTickets returns the board's top-level tickets, oldest first.
func (s *Store) ListTickets(ctx context.Context, boardID string) ([]models.Ticket, error) {
	q := s.db.WithContext(ctx).Model(&models.Ticket{}).Scopes(forBoard(boardID)).
		Where("parent IS NULL").Order("created_at ASC")
	return scanAll[models.Ticket](s.db, q)
}

func (s *Store) ListSubTickets(ctx context.Context, boardID, parentID string) ([]models.Ticket, error) {
	q := s.db.WithContext(ctx).Model(&models.Ticket{}).Scopes(forBoard(boardID)).
		Where("parent = ?", parentID).Order("created_at ASC")
	return scanAll[models.Ticket](s.db, q)
}

func (s *Store) ObserveTickets(ctx context.Context, boardID string) <-chan Snapshot[models.Ticket] {
	return observe(ctx, s.feed, TicketsPath(boardID), func(ctx context.Context) ([]models.Ticket, error) {
		return s.ListTickets(ctx, boardID)
	})
}

func (s *Store) ObserveSubTickets(ctx context.Context, boardID, parentID string) <-chan Snapshot[models.Ticket] {
	return observe(ctx, s.feed, SubTicketsPath(boardID, parentID), func(ctx context.Context) ([]models.Ticket, error) {
		return s.ListSubTickets(ctx, boardID, parentID)
	})
}

func (s *Store) GetTicket(ctx context.Context, boardID, ticketID string) (*models.Ticket, error) {
	var ticket models.Ticket
	if err := s.db.WithContext(ctx).Scopes(forBoard(boardID)).First(&ticket, "id = ?", ticketID).Error; err != nil {
		return nil, lookupErr(err)
	}
	return &ticket, nil
}

// CreateTicket stores ticket under a new id. A ticket with a Parent must
// reference an existing ticket on the same board.
func (s *Store) CreateTicket(ctx context.Context, ticket *models.Ticket) (string, error) {
	if ticket.Parent != nil {
		if _, err := s.GetTicket(ctx, ticket.BoardID, *ticket.Parent); err != nil {
			return "", err
		}
	}
	ticket.ID = newID()
	if err := s.db.WithContext(ctx).Create(ticket).Error; err != nil {
		return "", unavailable(err)
	}
	s.feed.Publish(ticketPath(ticket))
	return ticket.ID, nil
}

// UpdateTicket overwrites every field of the stored ticket.
func (s *Store) UpdateTicket(ctx context.Context, ticket *models.Ticket) error {
	res := s.db.WithContext(ctx).Model(ticket).Scopes(forBoard(ticket.BoardID)).Select("*").Updates(ticket)
	if res.Error != nil {
		return unavailable(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	s.feed.Publish(ticketPath(ticket))
	return nil
}

// DeleteTicket removes one ticket. Sub-tickets and comments that point at
// it are not deleted.
func (s *Store) DeleteTicket(ctx context.Context, boardID, ticketID string) error {
	ticket, err := s.GetTicket(ctx, boardID, ticketID)
	if err != nil {
		return err
	}
	res := s.db.WithContext(ctx).Scopes(forBoard(boardID)).Delete(&models.Ticket{}, "id = ?", ticketID)
	if res.Error != nil {
		return unavailable(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	s.feed.Publish(ticketPath(ticket))
	return nil
}
