package session

import (
	"errors"

	"github.com/ahmetcoskunkizilkaya/taskboard-backend/internal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const boardKey = "board"

// UserID extracts the user id from the JWT claims in context.
func UserID(c *fiber.Ctx) (string, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return "", errors.New("invalid token in context")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("invalid claims")
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", errors.New("missing sub claim")
	}
	return sub, nil
}

// SetBoard stores the board resolved for the current request.
func SetBoard(c *fiber.Ctx, board *models.Board) {
	c.Locals(boardKey, board)
}

// Board returns the board stored by SetBoard, or nil.
func Board(c *fiber.Ctx) *models.Board {
	if b, ok := c.Locals(boardKey).(*models.Board); ok {
		return b
	}
	return nil
}
