package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/taskboard-backend/internal/models"
)

// drain reads ch until it closes and returns every snapshot received.
func drain[T any](t *testing.T, ch <-chan Snapshot[T]) []Snapshot[T] {
	t.Helper()
	var got []Snapshot[T]
	timeout := time.After(2 * time.Second)
	for {
		select {
		case snap, ok := <-ch:
			if !ok {
				return got
			}
			got = append(got, snap)
		case <-timeout:
			t.Fatal("timed out waiting for stream to close")
			return got
		}
	}
}

func observeTicketsAs(ctx context.Context, s *Store, boardID, userID string) <-chan Snapshot[models.Ticket] {
	return WhileMember(ctx, s, boardID, userID, func(ctx context.Context) <-chan Snapshot[models.Ticket] {
		return s.ObserveTickets(ctx, boardID)
	})
}

func TestWhileMember_EndsWhenMemberRemoved(t *testing.T) {
	s, _ := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	boardID := mustCreateBoard(t, s, "b", "u1", "u2")

	stream := observeTicketsAs(ctx, s, boardID, "u2")
	if snap := next(t, stream); snap.Err != nil {
		t.Fatalf("first snapshot error: %v", snap.Err)
	}

	if err := s.RemoveMember(ctx, boardID, "u2"); err != nil {
		t.Fatalf("RemoveMember: %v", err)
	}
	if _, err := s.CreateTicket(ctx, &models.Ticket{BoardID: boardID, Title: "secret"}); err != nil {
		t.Fatalf("CreateTicket: %v", err)
	}

	got := drain(t, stream)
	if len(got) == 0 {
		t.Fatal("stream closed without an error snapshot")
	}
	for _, snap := range got {
		for _, ticket := range snap.Items {
			if ticket.Title == "secret" {
				t.Error("removed member received a ticket created after removal")
			}
		}
	}
	if last := got[len(got)-1]; !errors.Is(last.Err, ErrNotMember) {
		t.Errorf("last snapshot error = %v, want ErrNotMember", last.Err)
	}
	deadline := time.Now().Add(2 * time.Second)
	for s.feed.Subscribers(TicketsPath(boardID)) != 0 {
		if time.Now().After(deadline) {
			t.Fatal("ticket subscription still open after revocation")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestWhileMember_EndsWhenBoardDeleted(t *testing.T) {
	s, _ := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	boardID := mustCreateBoard(t, s, "b", "u1")

	stream := observeTicketsAs(ctx, s, boardID, "u1")
	next(t, stream)

	if err := s.DeleteBoard(ctx, boardID); err != nil {
		t.Fatalf("DeleteBoard: %v", err)
	}
	got := drain(t, stream)
	if len(got) == 0 || !errors.Is(got[len(got)-1].Err, ErrNotFound) {
		t.Errorf("snapshots after delete = %+v, want a final ErrNotFound", got)
	}
}

func TestWhileMember_KeepsDeliveringToMembers(t *testing.T) {
	s, _ := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	boardID := mustCreateBoard(t, s, "b", "u1", "u2")

	stream := observeTicketsAs(ctx, s, boardID, "u1")
	next(t, stream)

	if err := s.RemoveMember(ctx, boardID, "u2"); err != nil {
		t.Fatalf("RemoveMember: %v", err)
	}
	if _, err := s.CreateTicket(ctx, &models.Ticket{BoardID: boardID, Title: "visible"}); err != nil {
		t.Fatalf("CreateTicket: %v", err)
	}

	deadline := time.After(2 * time.Second)
	for {
		select {
		case snap, ok := <-stream:
			if !ok {
				t.Fatal("stream closed for a remaining member")
			}
			if snap.Err != nil {
				t.Fatalf("snapshot error: %v", snap.Err)
			}
			if len(snap.Items) == 1 && snap.Items[0].Title == "visible" {
				return
			}
		case <-deadline:
			t.Fatal("remaining member never saw the new ticket")
		}
	}
}

func TestWhileMember_NotMemberAtStart(t *testing.T) {
	s, _ := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	boardID := mustCreateBoard(t, s, "b", "u1")

	got := drain(t, observeTicketsAs(ctx, s, boardID, "stranger"))
	if len(got) != 1 || !errors.Is(got[0].Err, ErrNotMember) {
		t.Errorf("snapshots = %+v, want a single ErrNotMember", got)
	}
}
