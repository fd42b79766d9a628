package session

import (
	"net/http/httptest"
	"testing"

	"github.com/ahmetcoskunkizilkaya/taskboard-backend/internal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

func TestUserID(t *testing.T) {
	tests := []struct {
		name    string
		locals  interface{}
		want    string
		wantErr bool
	}{
		{"no token", nil, "", true},
		{"missing sub", &jwt.Token{Claims: jwt.MapClaims{}}, "", true},
		{"registered claims", &jwt.Token{Claims: &jwt.RegisteredClaims{Subject: "u1"}}, "", true},
		{"ok", &jwt.Token{Claims: jwt.MapClaims{"sub": "u1"}}, "u1", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			var got string
			var gotErr error
			app.Get("/", func(c *fiber.Ctx) error {
				if tt.locals != nil {
					c.Locals("user", tt.locals)
				}
				got, gotErr = UserID(c)
				return nil
			})
			if _, err := app.Test(httptest.NewRequest("GET", "/", nil)); err != nil {
				t.Fatal(err)
			}
			if (gotErr != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", gotErr, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("UserID = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBoard(t *testing.T) {
	app := fiber.New()
	var before, after *models.Board
	app.Get("/", func(c *fiber.Ctx) error {
		before = Board(c)
		SetBoard(c, &models.Board{ID: "b1"})
		after = Board(c)
		return nil
	})
	if _, err := app.Test(httptest.NewRequest("GET", "/", nil)); err != nil {
		t.Fatal(err)
	}
	if before != nil {
		t.Errorf("Board before SetBoard = %+v, want nil", before)
	}
	if after == nil || after.ID != "b1" {
		t.Errorf("Board after SetBoard = %+v", after)
	}
}
