package handlers

import (
	"errors"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/taskboard-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/taskboard-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/taskboard-backend/internal/store"
	"github.com/gofiber/fiber/v2"
)

// statusFor maps service and store errors to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrValidation):
		return fiber.StatusBadRequest
	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrInvalidToken),
		errors.Is(err, services.ErrFederatedSignIn):
		return fiber.StatusUnauthorized
	case errors.Is(err, services.ErrForbidden), errors.Is(err, store.ErrNotMember):
		return fiber.StatusForbidden
	case errors.Is(err, store.ErrNotFound), errors.Is(err, services.ErrUserNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, store.ErrDuplicateInvitation),
		errors.Is(err, store.ErrAlreadyMember),
		errors.Is(err, store.ErrTransactionConflict),
		errors.Is(err, services.ErrEmailTaken):
		return fiber.StatusConflict
	case errors.Is(err, store.ErrRemoteUnavailable):
		return fiber.StatusServiceUnavailable
	}
	return fiber.StatusInternalServerError
}

func respondError(c *fiber.Ctx, err error) error {
	code := statusFor(err)
	message := err.Error()
	if code >= fiber.StatusInternalServerError {
		slog.Error("request failed", "method", c.Method(), "path", c.Path(), "request_id", c.Locals("requestid"), "error", err)
		if code == fiber.StatusInternalServerError {
			message = "Internal server error"
		} else {
			message = "Service temporarily unavailable"
		}
	}
	return c.Status(code).JSON(dto.ErrorResponse{Error: true, Message: message})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: true, Message: message})
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: true, Message: "Unauthorized"})
}
