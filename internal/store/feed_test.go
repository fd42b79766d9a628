package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestFeed_PublishCoalesces(t *testing.T) {
	f := NewFeed()
	ch, cancel := f.Subscribe(BoardsPath())
	defer cancel()

	f.Publish(BoardsPath())
	f.Publish(BoardsPath())

	select {
	case <-ch:
	default:
		t.Fatal("expected a pending signal")
	}
	select {
	case <-ch:
		t.Fatal("signals should coalesce")
	default:
	}
}

func TestFeed_PathsAreIndependent(t *testing.T) {
	f := NewFeed()
	tickets, cancel := f.Subscribe(TicketsPath("b1"))
	defer cancel()

	f.Publish(CommentsPath("b1", "t1"), TicketsPath("b2"))

	select {
	case <-tickets:
		t.Fatal("unrelated path delivered a signal")
	default:
	}
}

func TestFeed_CancelIsIdempotent(t *testing.T) {
	f := NewFeed()
	_, cancel := f.Subscribe(UserPath("u1"))
	_, cancel2 := f.Subscribe(UserPath("u1"))
	if n := f.Subscribers(UserPath("u1")); n != 2 {
		t.Fatalf("subscribers = %d, want 2", n)
	}
	cancel()
	cancel()
	if n := f.Subscribers(UserPath("u1")); n != 1 {
		t.Errorf("subscribers = %d, want 1", n)
	}
	cancel2()
	if n := f.Subscribers(UserPath("u1")); n != 0 {
		t.Errorf("subscribers = %d, want 0", n)
	}
}

func TestPaths(t *testing.T) {
	tests := []struct {
		got  Path
		want string
	}{
		{BoardsPath(), "boards"},
		{StatusesPath("b"), "boards/b/statuses"},
		{TicketsPath("b"), "boards/b/tickets"},
		{SubTicketsPath("b", "t"), "boards/b/tickets/t/subtickets"},
		{CommentsPath("b", "t"), "boards/b/tickets/t/comments"},
		{UserPath("u"), "users/u"},
	}
	for _, tt := range tests {
		if string(tt.got) != tt.want {
			t.Errorf("path = %q, want %q", tt.got, tt.want)
		}
	}
}

func TestIsConflict(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"serialization failure", &pgconn.PgError{Code: "40001"}, true},
		{"deadlock", fmt.Errorf("wrapped: %w", &pgconn.PgError{Code: "40P01"}), true},
		{"unique violation", &pgconn.PgError{Code: "23505"}, false},
		{"sqlite busy", errors.New("database is locked"), true},
		{"other", errors.New("connection refused"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isConflict(tt.err); got != tt.want {
				t.Errorf("isConflict(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestUnavailable_KeepsCause(t *testing.T) {
	cause := errors.New("boom")
	err := unavailable(cause)
	if !errors.Is(err, ErrRemoteUnavailable) || !errors.Is(err, cause) {
		t.Errorf("unavailable(%v) = %v, should match both", cause, err)
	}
	if unavailable(nil) != nil {
		t.Error("unavailable(nil) should be nil")
	}
}
