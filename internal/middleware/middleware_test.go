package middleware

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/taskboard-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/taskboard-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/taskboard-backend/internal/session"
	"github.com/ahmetcoskunkizilkaya/taskboard-backend/internal/store"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

type fakeBoards map[string]*models.Board

func (f fakeBoards) GetBoard(_ context.Context, boardID string) (*models.Board, error) {
	if boardID == "broken" {
		return nil, store.ErrRemoteUnavailable
	}
	if b, ok := f[boardID]; ok {
		return b, nil
	}
	return nil, store.ErrNotFound
}

func signed(t *testing.T, secret, sub string, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": sub, "exp": exp.Unix()})
	s, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestJWTProtected(t *testing.T) {
	cfg := &config.Config{JWTSecret: "secret"}
	app := fiber.New()
	app.Get("/me", JWTProtected(cfg), func(c *fiber.Ctx) error {
		id, err := session.UserID(c)
		if err != nil {
			return err
		}
		return c.SendString(id)
	})

	tests := []struct {
		name  string
		setup func(r *httptestRequest)
		want  int
	}{
		{"no token", func(r *httptestRequest) {}, fiber.StatusUnauthorized},
		{"valid header", func(r *httptestRequest) {
			r.header = "Bearer " + signed(t, "secret", "u1", time.Now().Add(time.Minute))
		}, fiber.StatusOK},
		{"valid query", func(r *httptestRequest) {
			r.query = "?access_token=" + signed(t, "secret", "u1", time.Now().Add(time.Minute))
		}, fiber.StatusOK},
		{"wrong secret", func(r *httptestRequest) {
			r.header = "Bearer " + signed(t, "other", "u1", time.Now().Add(time.Minute))
		}, fiber.StatusUnauthorized},
		{"expired", func(r *httptestRequest) {
			r.header = "Bearer " + signed(t, "secret", "u1", time.Now().Add(-time.Minute))
		}, fiber.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var r httptestRequest
			tt.setup(&r)
			req := httptest.NewRequest("GET", "/me"+r.query, nil)
			if r.header != "" {
				req.Header.Set("Authorization", r.header)
			}
			resp, err := app.Test(req)
			if err != nil {
				t.Fatal(err)
			}
			if resp.StatusCode != tt.want {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.want)
			}
		})
	}
}

type httptestRequest struct {
	header string
	query  string
}

func TestBoardMember(t *testing.T) {
	boards := fakeBoards{"b1": {ID: "b1", Members: []string{"member"}}}
	app := fiber.New()
	withUser := func(c *fiber.Ctx) error {
		if sub := c.Get("X-Test-User"); sub != "" {
			c.Locals("user", &jwt.Token{Claims: jwt.MapClaims{"sub": sub}})
		}
		return c.Next()
	}
	app.Get("/boards/:boardId", withUser, BoardMember(boards), func(c *fiber.Ctx) error {
		if session.Board(c) == nil {
			return errors.New("board not stored")
		}
		return c.SendString(session.Board(c).ID)
	})

	tests := []struct {
		name  string
		user  string
		board string
		want  int
	}{
		{"member", "member", "b1", fiber.StatusOK},
		{"not a member", "stranger", "b1", fiber.StatusForbidden},
		{"missing board", "member", "nope", fiber.StatusNotFound},
		{"store down", "member", "broken", fiber.StatusServiceUnavailable},
		{"anonymous", "", "b1", fiber.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/boards/"+tt.board, nil)
			if tt.user != "" {
				req.Header.Set("X-Test-User", tt.user)
			}
			resp, err := app.Test(req)
			if err != nil {
				t.Fatal(err)
			}
			if resp.StatusCode != tt.want {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.want)
			}
		})
	}
}
