package routes

import (
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/taskboard-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/taskboard-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/taskboard-backend/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

type Handlers struct {
	Auth        *handlers.AuthHandler
	Health      *handlers.HealthHandler
	Boards      *handlers.BoardHandler
	Tickets     *handlers.TicketHandler
	Invitations *handlers.InvitationHandler
	Users       *handlers.UserHandler
}

func Setup(app *fiber.App, cfg *config.Config, boards middleware.BoardLoader, h Handlers) {
	api := app.Group("/api")

	// General API rate limiter: 120 req/min per IP. Streams hold one
	// request open, so they are not counted.
	api.Use(limiter.New(limiter.Config{
		Max:               120,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
		Next:              func(c *fiber.Ctx) bool { return isStream(c.Path()) },
	}))

	api.Get("/health", h.Health.Check)

	// Auth-specific rate limit: 10 req/min per IP (stricter)
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/register", h.Auth.Register)
	auth.Post("/login", h.Auth.Login)
	auth.Post("/refresh", h.Auth.Refresh)
	auth.Post("/federated", h.Auth.FederatedSignIn)

	// Protected routes get the JWT middleware per route so public routes
	// stay untouched.
	jwt := middleware.JWTProtected(cfg)
	member := middleware.BoardMember(boards)

	api.Post("/auth/logout", jwt, h.Auth.Logout)
	api.Get("/auth/me", jwt, h.Auth.Me)

	api.Get("/users/me", jwt, h.Users.Profile)
	api.Put("/users/me", jwt, h.Users.UpdateProfile)
	api.Put("/users/me/push-token", jwt, h.Users.UpdatePushToken)
	api.Get("/users/me/stream", jwt, h.Users.Stream)

	api.Get("/invitations", jwt, h.Invitations.Pending)
	api.Get("/invitations/stream", jwt, h.Invitations.Stream)
	api.Post("/invitations/:boardId/accept", jwt, h.Invitations.Accept)
	api.Post("/invitations/:boardId/reject", jwt, h.Invitations.Reject)

	api.Get("/boards", jwt, h.Boards.List)
	api.Post("/boards", jwt, h.Boards.Create)
	api.Get("/boards/stream", jwt, h.Boards.Stream)

	// Board-scoped routes: the caller must be a member of :boardId.
	api.Get("/boards/:boardId", jwt, member, h.Boards.Get)
	api.Put("/boards/:boardId", jwt, member, h.Boards.Update)
	api.Delete("/boards/:boardId", jwt, member, h.Boards.Delete)
	api.Get("/boards/:boardId/members", jwt, member, h.Boards.Members)
	api.Delete("/boards/:boardId/members/:userId", jwt, member, h.Boards.RemoveMember)
	api.Post("/boards/:boardId/invitations", jwt, member, h.Invitations.Invite)

	api.Get("/boards/:boardId/statuses", jwt, member, h.Boards.ListStatuses)
	api.Get("/boards/:boardId/statuses/stream", jwt, member, h.Boards.StreamStatuses)
	api.Post("/boards/:boardId/statuses", jwt, member, h.Boards.CreateStatus)
	api.Put("/boards/:boardId/statuses/:statusId", jwt, member, h.Boards.UpdateStatus)
	api.Delete("/boards/:boardId/statuses/:statusId", jwt, member, h.Boards.DeleteStatus)

	api.Get("/boards/:boardId/tickets", jwt, member, h.Tickets.List)
	api.Get("/boards/:boardId/tickets/stream", jwt, member, h.Tickets.Stream)
	api.Post("/boards/:boardId/tickets", jwt, member, h.Tickets.Create)
	api.Get("/boards/:boardId/tickets/:ticketId", jwt, member, h.Tickets.Get)
	api.Put("/boards/:boardId/tickets/:ticketId", jwt, member, h.Tickets.Update)
	api.Delete("/boards/:boardId/tickets/:ticketId", jwt, member, h.Tickets.Delete)

	api.Get("/boards/:boardId/tickets/:ticketId/subtickets", jwt, member, h.Tickets.ListSubTickets)
	api.Get("/boards/:boardId/tickets/:ticketId/subtickets/stream", jwt, member, h.Tickets.StreamSubTickets)
	api.Post("/boards/:boardId/tickets/:ticketId/subtickets", jwt, member, h.Tickets.CreateSubTicket)

	api.Get("/boards/:boardId/tickets/:ticketId/comments", jwt, member, h.Tickets.ListComments)
	api.Get("/boards/:boardId/tickets/:ticketId/comments/stream", jwt, member, h.Tickets.StreamComments)
	api.Post("/boards/:boardId/tickets/:ticketId/comments", jwt, member, h.Tickets.CreateComment)
	api.Put("/boards/:boardId/tickets/:ticketId/comments/:commentId", jwt, member, h.Tickets.UpdateComment)
	api.Delete("/boards/:boardId/tickets/:ticketId/comments/:commentId", jwt, member, h.Tickets.DeleteComment)
}

func isStream(path string) bool {
	return strings.HasSuffix(path, "/stream")
}
