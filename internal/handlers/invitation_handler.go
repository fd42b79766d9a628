package handlers

import (
	"context"

	"github.com/ahmetcoskunkizilkaya/taskboard-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/taskboard-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/taskboard-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/taskboard-backend/internal/session"
	"github.com/ahmetcoskunkizilkaya/taskboard-backend/internal/store"
	"github.com/gofiber/fiber/v2"
)

type InvitationHandler struct {
	invitationService *services.InvitationService
}

func NewInvitationHandler(invitationService *services.InvitationService) *InvitationHandler {
	return &InvitationHandler{invitationService: invitationService}
}

// Invite sends an invitation to the board resolved by BoardMember.
func (h *InvitationHandler) Invite(c *fiber.Ctx) error {
	userID, err := session.UserID(c)
	if err != nil {
		return unauthorized(c)
	}
	var req dto.InviteRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	invitee, err := h.invitationService.Invite(c.UserContext(), session.Board(c).ID, userID, req.InvitationCode)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.MemberResponse{ID: invitee.ID, Name: invitee.Name, Email: invitee.Email})
}

func (h *InvitationHandler) Pending(c *fiber.Ctx) error {
	userID, err := session.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	boards, err := h.invitationService.Pending(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(boards)
}

func (h *InvitationHandler) Stream(c *fiber.Ctx) error {
	userID, err := session.UserID(c)
	if err != nil {
		return unauthorized(c)
	}
	return stream(c, func(ctx context.Context) <-chan store.Snapshot[models.Board] {
		return h.invitationService.ObservePending(ctx, userID)
	})
}

func (h *InvitationHandler) Accept(c *fiber.Ctx) error {
	userID, err := session.UserID(c)
	if err != nil {
		return unauthorized(c)
	}
	if err := h.invitationService.Accept(c.UserContext(), c.Params("boardId"), userID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Invitation accepted"})
}

func (h *InvitationHandler) Reject(c *fiber.Ctx) error {
	userID, err := session.UserID(c)
	if err != nil {
		return unauthorized(c)
	}
	if err := h.invitationService.Reject(c.UserContext(), c.Params("boardId"), userID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Invitation rejected"})
}
