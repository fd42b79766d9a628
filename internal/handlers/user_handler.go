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

type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (h *UserHandler) Profile(c *fiber.Ctx) error {
	userID, err := session.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	user, err := h.userService.GetUser(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(services.UserResponse(user))
}

func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	userID, err := session.UserID(c)
	if err != nil {
		return unauthorized(c)
	}
	var req dto.ProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	user, err := h.userService.UpdateName(c.UserContext(), userID, req.Name)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(services.UserResponse(user))
}

func (h *UserHandler) UpdatePushToken(c *fiber.Ctx) error {
	userID, err := session.UserID(c)
	if err != nil {
		return unauthorized(c)
	}
	var req dto.PushTokenRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if err := h.userService.UpdatePushToken(c.UserContext(), userID, req.Token); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Stream sends the user's profile, one item per snapshot.
func (h *UserHandler) Stream(c *fiber.Ctx) error {
	userID, err := session.UserID(c)
	if err != nil {
		return unauthorized(c)
	}
	return stream(c, func(ctx context.Context) <-chan store.Snapshot[dto.UserResponse] {
		return profiles(ctx, h.userService.ObserveUser(ctx, userID))
	})
}

func profiles(ctx context.Context, in <-chan store.Snapshot[models.User]) <-chan store.Snapshot[dto.UserResponse] {
	out := make(chan store.Snapshot[dto.UserResponse])
	go func() {
		defer close(out)
		for snap := range in {
			mapped := store.Snapshot[dto.UserResponse]{Err: snap.Err}
			for i := range snap.Items {
				mapped.Items = append(mapped.Items, services.UserResponse(&snap.Items[i]))
			}
			select {
			case out <- mapped:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}
