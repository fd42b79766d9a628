package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/taskboard-backend/internal/database"
	"github.com/ahmetcoskunkizilkaya/taskboard-backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open("sqlite", ":memory:", logger.Discard)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() { database.Close(db) })
	return db
}

func TestDBHandler_PersistsWarnAndAbove(t *testing.T) {
	db := testDB(t)
	h := NewDBHandler(db, time.Hour)
	log := slog.New(h).With("request_id", "req-1")

	log.Info("ignored")
	log.Warn("dropping undecodable record", "board_id", "b1", "type", "models.Status")
	log.Error("accept invitation failed", "user_id", "u1", "action", "accept_invitation", "error", errors.New("boom"))
	h.Stop()

	var logs []models.SystemLog
	if err := db.Order("level DESC").Find(&logs).Error; err != nil {
		t.Fatal(err)
	}
	if len(logs) != 2 {
		t.Fatalf("stored %d logs, want 2", len(logs))
	}

	warn := logs[0]
	if warn.Level != "WARN" || warn.BoardID != "b1" || warn.RequestID != "req-1" {
		t.Errorf("warn entry = %+v", warn)
	}
	var extra map[string]interface{}
	if err := json.Unmarshal(warn.Extra, &extra); err != nil || extra["type"] != "models.Status" {
		t.Errorf("extra = %s (%v)", warn.Extra, err)
	}

	errEntry := logs[1]
	if errEntry.UserID == nil || *errEntry.UserID != "u1" || errEntry.Action != "accept_invitation" || errEntry.Error != "boom" {
		t.Errorf("error entry = %+v", errEntry)
	}
}

type failingHandler struct{ slog.Handler }

func (failingHandler) Handle(context.Context, slog.Record) error { return errors.New("sink down") }

func TestMultiHandler_FansOut(t *testing.T) {
	var a, b bytes.Buffer
	m := NewMultiHandler(
		failingHandler{NewJSONHandler(&bytes.Buffer{})},
		NewJSONHandler(&a),
		slog.NewJSONHandler(&b, &slog.HandlerOptions{Level: slog.LevelError}),
	)

	slog.New(m).With("board_id", "b1").Info("hello")

	if !bytes.Contains(a.Bytes(), []byte(`"board_id":"b1"`)) {
		t.Errorf("info handler output = %s", a.String())
	}
	if b.Len() != 0 {
		t.Errorf("error-level handler received info record: %s", b.String())
	}

	r := slog.NewRecord(time.Now(), slog.LevelInfo, "x", 0)
	if err := m.Handle(context.Background(), r); err == nil {
		t.Error("expected error from failing handler")
	}
	if !bytes.Contains(a.Bytes(), []byte(`"msg":"x"`)) {
		t.Error("healthy handler skipped after failure")
	}
}

func TestPurgeSystemLogs(t *testing.T) {
	db := testDB(t)
	now := time.Now()
	db.Create(&[]models.SystemLog{
		{ID: "old", Timestamp: now.AddDate(0, 0, -40), Level: "ERROR"},
		{ID: "recent", Timestamp: now.AddDate(0, 0, -5), Level: "ERROR"},
	})

	deleted, err := PurgeSystemLogs(db, 30, now)
	if err != nil {
		t.Fatalf("PurgeSystemLogs: %v", err)
	}
	if deleted != 1 {
		t.Errorf("deleted = %d, want 1", deleted)
	}
	var remaining []models.SystemLog
	db.Find(&remaining)
	if len(remaining) != 1 || remaining[0].ID != "recent" {
		t.Errorf("remaining = %+v", remaining)
	}
}

func TestStartCleanup(t *testing.T) {
	c, err := StartCleanup(testDB(t), 30)
	if err != nil {
		t.Fatalf("StartCleanup: %v", err)
	}
	if len(c.Entries()) != 1 {
		t.Errorf("entries = %d, want 1", len(c.Entries()))
	}
	<-c.Stop().Done()
}
