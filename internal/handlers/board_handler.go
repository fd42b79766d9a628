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

// BoardHandler serves boards, their members and their status columns.
// Routes under /boards/:boardId run behind middleware.BoardMember.
type BoardHandler struct {
	boardService *services.BoardService
}

func NewBoardHandler(boardService *services.BoardService) *BoardHandler {
	return &BoardHandler{boardService: boardService}
}

func (h *BoardHandler) List(c *fiber.Ctx) error {
	userID, err := session.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	boards, err := h.boardService.ListBoards(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(boards)
}

func (h *BoardHandler) Stream(c *fiber.Ctx) error {
	userID, err := session.UserID(c)
	if err != nil {
		return unauthorized(c)
	}
	return stream(c, func(ctx context.Context) <-chan store.Snapshot[models.Board] {
		return h.boardService.ObserveBoards(ctx, userID)
	})
}

func (h *BoardHandler) Create(c *fiber.Ctx) error {
	userID, err := session.UserID(c)
	if err != nil {
		return unauthorized(c)
	}
	var req dto.BoardRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	board, err := h.boardService.CreateBoard(c.UserContext(), userID, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(board)
}

func (h *BoardHandler) Get(c *fiber.Ctx) error {
	return c.JSON(session.Board(c))
}

func (h *BoardHandler) Update(c *fiber.Ctx) error {
	var req dto.BoardRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	board, err := h.boardService.UpdateBoard(c.UserContext(), session.Board(c).ID, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(board)
}

func (h *BoardHandler) Delete(c *fiber.Ctx) error {
	userID, err := session.UserID(c)
	if err != nil {
		return unauthorized(c)
	}
	if err := h.boardService.DeleteBoard(c.UserContext(), session.Board(c).ID, userID); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *BoardHandler) Members(c *fiber.Ctx) error {
	users, err := h.boardService.Members(c.UserContext(), session.Board(c).ID)
	if err != nil {
		return respondError(c, err)
	}
	members := make([]dto.MemberResponse, len(users))
	for i, u := range users {
		members[i] = dto.MemberResponse{ID: u.ID, Name: u.Name, Email: u.Email}
	}
	return c.JSON(members)
}

func (h *BoardHandler) RemoveMember(c *fiber.Ctx) error {
	actorID, err := session.UserID(c)
	if err != nil {
		return unauthorized(c)
	}
	if err := h.boardService.RemoveMember(c.UserContext(), session.Board(c).ID, actorID, c.Params("userId")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *BoardHandler) ListStatuses(c *fiber.Ctx) error {
	statuses, err := h.boardService.ListStatuses(c.UserContext(), session.Board(c).ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(statuses)
}

func (h *BoardHandler) StreamStatuses(c *fiber.Ctx) error {
	userID, err := session.UserID(c)
	if err != nil {
		return unauthorized(c)
	}
	boardID := session.Board(c).ID
	return stream(c, func(ctx context.Context) <-chan store.Snapshot[models.Status] {
		return h.boardService.ObserveStatuses(ctx, boardID, userID)
	})
}

func (h *BoardHandler) CreateStatus(c *fiber.Ctx) error {
	var req dto.StatusRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	status, err := h.boardService.CreateStatus(c.UserContext(), session.Board(c).ID, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(status)
}

func (h *BoardHandler) UpdateStatus(c *fiber.Ctx) error {
	var req dto.StatusRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	status, err := h.boardService.UpdateStatus(c.UserContext(), session.Board(c).ID, utils.CopyString(c.Params("statusId")), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(status)
}

func (h *BoardHandler) DeleteStatus(c *fiber.Ctx) error {
	if err := h.boardService.DeleteStatus(c.UserContext(), session.Board(c).ID, c.Params("statusId")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
