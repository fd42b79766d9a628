package middleware

import (
	"context"
	"errors"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/taskboard-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/taskboard-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/taskboard-backend/internal/session"
	"github.com/ahmetcoskunkizilkaya/taskboard-backend/internal/store"
	"github.com/gofiber/fiber/v2"
)

// BoardLoader is the lookup BoardMember needs.
type BoardLoader interface {
	GetBoard(ctx context.Context, boardID string) (*models.Board, error)
}

// BoardMember resolves :boardId and lets the request through only when the
// authenticated user is on the board's member list.
func BoardMember(boards BoardLoader) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := session.UserID(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}

		board, err := boards.GetBoard(c.UserContext(), c.Params("boardId"))
		switch {
		case errors.Is(err, store.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "Board not found",
			})
		case err != nil:
			slog.Error("board lookup failed", "board_id", c.Params("boardId"), "user_id", userID, "error", err)
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
				Error: true, Message: "Board store unavailable",
			})
		}

		if !board.HasMember(userID) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: "Not a member of this board",
			})
		}

		session.SetBoard(c, board)
		return c.Next()
	}
}
