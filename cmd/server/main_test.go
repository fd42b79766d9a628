package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func TestVersionCmd(t *testing.T) {
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"version"})

	if code := execute(root); code != 0 {
		t.Fatalf("execute = %d, want 0", code)
	}
	if !strings.HasPrefix(out.String(), "taskboard dev") {
		t.Errorf("output = %q", out.String())
	}
}

func TestRootCmd_Subcommands(t *testing.T) {
	root := newRootCmd()
	for _, name := range []string{"serve", "migrate", "version"} {
		if cmd, _, err := root.Find([]string{name}); err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestCustomErrorHandler(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: customErrorHandler})
	app.Get("/teapot", func(c *fiber.Ctx) error { return fiber.NewError(fiber.StatusTeapot, "short and stout") })
	app.Get("/boom", func(c *fiber.Ctx) error { return errors.New("db password is hunter2") })

	tests := []struct {
		path    string
		code    int
		message string
	}{
		{"/teapot", fiber.StatusTeapot, "short and stout"},
		{"/boom", fiber.StatusInternalServerError, "Internal server error"},
		{"/missing", fiber.StatusNotFound, "Cannot GET /missing"},
	}
	for _, tt := range tests {
		resp, err := app.Test(httptest.NewRequest("GET", tt.path, nil))
		if err != nil {
			t.Fatal(err)
		}
		var body struct {
			Error   bool   `json:"error"`
			Message string `json:"message"`
		}
		json.NewDecoder(resp.Body).Decode(&body)
		if resp.StatusCode != tt.code || body.Message != tt.message || !body.Error {
			t.Errorf("GET %s = %d %+v, want %d %q", tt.path, resp.StatusCode, body, tt.code, tt.message)
		}
	}
}
