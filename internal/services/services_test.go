package services

import (
	"context"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/taskboard-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/taskboard-backend/internal/database"
	"github.com/ahmetcoskunkizilkaya/taskboard-backend/internal/store"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open("sqlite", ":memory:", logger.Discard)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	t.Cleanup(func() { database.Close(db) })
	return db
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:        "test-secret",
		JWTAccessExpiry:  15 * time.Minute,
		JWTRefreshExpiry: time.Hour,
	}
}

type fixture struct {
	db      *gorm.DB
	store   *store.Store
	auth    *AuthService
	boards  *BoardService
	tickets *TicketService
	invites *InvitationService
	users   *UserService
}

func newFixture(t *testing.T, verifier IdentityVerifier) *fixture {
	t.Helper()
	db := testDB(t)
	st := store.New(db, store.NewFeed())
	return &fixture{
		db:      db,
		store:   st,
		auth:    NewAuthService(db, st, testConfig(), verifier),
		boards:  NewBoardService(st),
		tickets: NewTicketService(st),
		invites: NewInvitationService(st),
		users:   NewUserService(st),
	}
}

var bg = context.Background()
