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

type TicketService struct {
	store *store.Store
}

func NewTicketService(st *store.Store) *TicketService {
	return &TicketService{store: st}
}

func validateTicket(req *dto.TicketRequest) (string, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" || len(title) > 200 {
		return "", fmt.Errorf("%w: ticket title must be 1-200 characters", ErrValidation)
	}
	return title, nil
}

func (s *TicketService) ListTickets(ctx context.Context, boardID string) ([]models.Ticket, error) {
	return s.store.ListTickets(ctx, boardID)
}

// ObserveTickets streams the board's top-level tickets to viewerID until
// the viewer leaves the board.
func (s *TicketService) ObserveTickets(ctx context.Context, boardID, viewerID string) <-chan store.Snapshot[models.Ticket] {
	return store.WhileMember(ctx, s.store, boardID, viewerID, func(ctx context.Context) <-chan store.Snapshot[models.Ticket] {
		return s.store.ObserveTickets(ctx, boardID)
	})
}

func (s *TicketService) ListSubTickets(ctx context.Context, boardID, parentID string) ([]models.Ticket, error) {
	return s.store.ListSubTickets(ctx, boardID, parentID)
}

func (s *TicketService) ObserveSubTickets(ctx context.Context, boardID, parentID, viewerID string) <-chan store.Snapshot[models.Ticket] {
	return store.WhileMember(ctx, s.store, boardID, viewerID, func(ctx context.Context) <-chan store.Snapshot[models.Ticket] {
		return s.store.ObserveSubTickets(ctx, boardID, parentID)
	})
}

func (s *TicketService) GetTicket(ctx context.Context, boardID, ticketID string) (*models.Ticket, error) {
	return s.store.GetTicket(ctx, boardID, ticketID)
}

// CreateTicket creates a ticket on the board, or a sub-ticket when parentID
// is non-empty.
func (s *TicketService) CreateTicket(ctx context.Context, boardID, userID, parentID string, req *dto.TicketRequest) (*models.Ticket, error) {
	title, err := validateTicket(req)
	if err != nil {
		return nil, err
	}

	ticket := models.Ticket{
		BoardID:     boardID,
		Title:       title,
		Description: req.Description,
		Urgency:     req.Urgency,
		Status:      req.Status,
		CreatedBy:   userID,
		AssignedTo:  req.AssignedTo,
	}
	if parentID != "" {
		ticket.Parent = &parentID
	}
	if _, err := s.store.CreateTicket(ctx, &ticket); err != nil {
		return nil, err
	}
	slog.Info("ticket created", "board_id", boardID, "user_id", userID, "ticket_id", ticket.ID, "action", "create_ticket")
	return &ticket, nil
}

// UpdateTicket replaces the editable fields and marks the ticket edited.
func (s *TicketService) UpdateTicket(ctx context.Context, boardID, ticketID string, req *dto.TicketRequest) (*models.Ticket, error) {
	title, err := validateTicket(req)
	if err != nil {
		return nil, err
	}

	ticket, err := s.store.GetTicket(ctx, boardID, ticketID)
	if err != nil {
		return nil, err
	}
	ticket.Title = title
	ticket.Description = req.Description
	ticket.Urgency = req.Urgency
	ticket.Status = req.Status
	ticket.AssignedTo = req.AssignedTo
	ticket.Edited = true
	if err := s.store.UpdateTicket(ctx, ticket); err != nil {
		return nil, err
	}
	return ticket, nil
}

func (s *TicketService) DeleteTicket(ctx context.Context, boardID, ticketID string) error {
	return s.store.DeleteTicket(ctx, boardID, ticketID)
}

func (s *TicketService) ListComments(ctx context.Context, boardID, ticketID string) ([]models.Comment, error) {
	return s.store.ListComments(ctx, boardID, ticketID)
}

func (s *TicketService) ObserveComments(ctx context.Context, boardID, ticketID, viewerID string) <-chan store.Snapshot[models.Comment] {
	return store.WhileMember(ctx, s.store, boardID, viewerID, func(ctx context.Context) <-chan store.Snapshot[models.Comment] {
		return s.store.ObserveComments(ctx, boardID, ticketID)
	})
}

func (s *TicketService) CreateComment(ctx context.Context, boardID, ticketID, userID string, req *dto.CommentRequest) (*models.Comment, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" && req.ImageURL == nil {
		return nil, fmt.Errorf("%w: comment needs content or an image", ErrValidation)
	}
	if _, err := s.store.GetTicket(ctx, boardID, ticketID); err != nil {
		return nil, err
	}

	comment := models.Comment{
		BoardID:   boardID,
		TicketID:  ticketID,
		CreatedBy: userID,
		Content:   content,
		ImageURL:  req.ImageURL,
	}
	if _, err := s.store.CreateComment(ctx, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

// UpdateComment edits a comment's content. Only its author may edit it.
func (s *TicketService) UpdateComment(ctx context.Context, boardID, ticketID, commentID, userID string, req *dto.CommentRequest) (*models.Comment, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" && req.ImageURL == nil {
		return nil, fmt.Errorf("%w: comment needs content or an image", ErrValidation)
	}

	comment, err := s.store.GetComment(ctx, boardID, ticketID, commentID)
	if err != nil {
		return nil, err
	}
	if comment.CreatedBy != userID {
		return nil, fmt.Errorf("%w: only the author can edit a comment", ErrForbidden)
	}
	comment.Content = content
	comment.ImageURL = req.ImageURL
	comment.Edited = true
	if err := s.store.UpdateComment(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *TicketService) DeleteComment(ctx context.Context, boardID, ticketID, commentID, userID string) error {
	comment, err := s.store.GetComment(ctx, boardID, ticketID, commentID)
	if err != nil {
		return err
	}
	if comment.CreatedBy != userID {
		return fmt.Errorf("%w: only the author can delete a comment", ErrForbidden)
	}
	return s.store.DeleteComment(ctx, boardID, ticketID, commentID)
}
