package handlers

import (
	"context"

	"github.com/ahmetcoskunkizilkaya/taskboard-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/taskboard-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/taskboard-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/taskboard-backend/internal/session"
	"github.com/ahmetcoskunkizilkaya/taskboard-backend/internal/store"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
)

// TicketHandler serves tickets, sub-tickets and comments of the board
// resolved by middleware.BoardMember.
type TicketHandler struct {
	ticketService *services.TicketService
}

func NewTicketHandler(ticketService *services.TicketService) *TicketHandler {
	return &TicketHandler{ticketService: ticketService}
}

func (h *TicketHandler) List(c *fiber.Ctx) error {
	tickets, err := h.ticketService.ListTickets(c.UserContext(), session.Board(c).ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(tickets)
}

func (h *TicketHandler) Stream(c *fiber.Ctx) error {
	userID, err := session.UserID(c)
	if err != nil {
		return unauthorized(c)
	}
	boardID := session.Board(c).ID
	return stream(c, func(ctx context.Context) <-chan store.Snapshot[models.Ticket] {
		return h.ticketService.ObserveTickets(ctx, boardID, userID)
	})
}

func (h *TicketHandler) Get(c *fiber.Ctx) error {
	ticket, err := h.ticketService.GetTicket(c.UserContext(), session.Board(c).ID, c.Params("ticketId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(ticket)
}

func (h *TicketHandler) Create(c *fiber.Ctx) error {
	return h.create(c, "")
}

func (h *TicketHandler) CreateSubTicket(c *fiber.Ctx) error {
	return h.create(c, utils.CopyString(c.Params("ticketId")))
}

func (h *TicketHandler) create(c *fiber.Ctx, parentID string) error {
	userID, err := session.UserID(c)
	if err != nil {
		return unauthorized(c)
	}
	var req dto.TicketRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	ticket, err := h.ticketService.CreateTicket(c.UserContext(), session.Board(c).ID, userID, parentID, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(ticket)
}

func (h *TicketHandler) Update(c *fiber.Ctx) error {
	var req dto.TicketRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	ticket, err := h.ticketService.UpdateTicket(c.UserContext(), session.Board(c).ID, utils.CopyString(c.Params("ticketId")), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(ticket)
}

func (h *TicketHandler) Delete(c *fiber.Ctx) error {
	if err := h.ticketService.DeleteTicket(c.UserContext(), session.Board(c).ID, c.Params("ticketId")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *TicketHandler) ListSubTickets(c *fiber.Ctx) error {
	tickets, err := h.ticketService.ListSubTickets(c.UserContext(), session.Board(c).ID, c.Params("ticketId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(tickets)
}

func (h *TicketHandler) StreamSubTickets(c *fiber.Ctx) error {
	userID, err := session.UserID(c)
	if err != nil {
		return unauthorized(c)
	}
	boardID := session.Board(c).ID
	ticketID := utils.CopyString(c.Params("ticketId"))
	return stream(c, func(ctx context.Context) <-chan store.Snapshot[models.Ticket] {
		return h.ticketService.ObserveSubTickets(ctx, boardID, ticketID, userID)
	})
}

func (h *TicketHandler) ListComments(c *fiber.Ctx) error {
	comments, err := h.ticketService.ListComments(c.UserContext(), session.Board(c).ID, c.Params("ticketId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(comments)
}

func (h *TicketHandler) StreamComments(c *fiber.Ctx) error {
	userID, err := session.UserID(c)
	if err != nil {
		return unauthorized(c)
	}
	boardID := session.Board(c).ID
	ticketID := utils.CopyString(c.Params("ticketId"))
	return stream(c, func(ctx context.Context) <-chan store.Snapshot[models.Comment] {
		return h.ticketService.ObserveComments(ctx, boardID, ticketID, userID)
	})
}

func (h *TicketHandler) CreateComment(c *fiber.Ctx) error {
	userID, err := session.UserID(c)
	if err != nil {
		return unauthorized(c)
	}
	var req dto.CommentRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	comment, err := h.ticketService.CreateComment(c.UserContext(), session.Board(c).ID, utils.CopyString(c.Params("ticketId")), userID, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

func (h *TicketHandler) UpdateComment(c *fiber.Ctx) error {
	userID, err := session.UserID(c)
	if err != nil {
		return unauthorized(c)
	}
	var req dto.CommentRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	comment, err := h.ticketService.UpdateComment(c.UserContext(), session.Board(c).ID,
		utils.CopyString(c.Params("ticketId")), utils.CopyString(c.Params("commentId")), userID, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(comment)
}

func (h *TicketHandler) DeleteComment(c *fiber.Ctx) error {
	userID, err := session.UserID(c)
	if err != nil {
		return unauthorized(c)
	}
	if err := h.ticketService.DeleteComment(c.UserContext(), session.Board(c).ID, c.Params("ticketId"), c.Params("commentId"), userID); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
