package services

import (
	"errors"
	"strings"
	"testing"

	"github.com/ahmetcoskunkizilkaya/taskboard-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/taskboard-backend/internal/store"
)

func TestInvitationFlow(t *testing.T) {
	f := newFixture(t, nil)
	owner := registerUser(t, f, "owner")
	guest := registerUser(t, f, "guest")
	board, _ := f.boards.CreateBoard(bg, owner.ID, &dto.BoardRequest{Name: "b"})

	if _, err := f.invites.Invite(bg, board.ID, owner.ID, guest.InvitationCode); err != nil {
		t.Fatalf("Invite: %v", err)
	}
	if _, err := f.invites.Invite(bg, board.ID, owner.ID, guest.InvitationCode); !errors.Is(err, store.ErrDuplicateInvitation) {
		t.Errorf("duplicate invite error = %v, want ErrDuplicateInvitation", err)
	}

	pending, err := f.invites.Pending(bg, guest.ID)
	if err != nil {
		t.Fatalf("Pending: %v", err)
	}
	if len(pending) != 1 || pending[0].ID != board.ID {
		t.Errorf("pending = %+v, want [%s]", pending, board.ID)
	}

	if err := f.invites.Accept(bg, board.ID, guest.ID); err != nil {
		t.Fatalf("Accept: %v", err)
	}
	boards, _ := f.boards.ListBoards(bg, guest.ID)
	if len(boards) != 1 || boards[0].ID != board.ID {
		t.Errorf("guest boards = %+v, want [%s]", boards, board.ID)
	}

	if err := f.invites.Reject(bg, board.ID, guest.ID); !errors.Is(err, store.ErrNoInvitation) {
		t.Errorf("reject without invitation error = %v, want ErrNoInvitation", err)
	}
}

func TestInvite_CodeIsNormalisedAndValidated(t *testing.T) {
	f := newFixture(t, nil)
	owner := registerUser(t, f, "owner")
	guest := registerUser(t, f, "guest")
	board, _ := f.boards.CreateBoard(bg, owner.ID, &dto.BoardRequest{Name: "b"})

	if _, err := f.invites.Invite(bg, board.ID, owner.ID, "abc"); !errors.Is(err, ErrValidation) {
		t.Errorf("short code error = %v, want ErrValidation", err)
	}
	lower := " " + strings.ToLower(guest.InvitationCode) + " "
	if _, err := f.invites.Invite(bg, board.ID, owner.ID, lower); err != nil {
		t.Errorf("lower-case code: %v", err)
	}
}

func TestUserService(t *testing.T) {
	f := newFixture(t, nil)
	u := registerUser(t, f, "u")

	updated, err := f.users.UpdateName(bg, u.ID, "New Name")
	if err != nil {
		t.Fatalf("UpdateName: %v", err)
	}
	if updated.Name != "New Name" {
		t.Errorf("name = %q", updated.Name)
	}
	if err := f.users.UpdatePushToken(bg, u.ID, "tok"); err != nil {
		t.Fatalf("UpdatePushToken: %v", err)
	}
	if err := f.users.UpdatePushToken(bg, u.ID, ""); !errors.Is(err, ErrValidation) {
		t.Errorf("empty token error = %v, want ErrValidation", err)
	}
	got, _ := f.users.GetUser(bg, u.ID)
	if got.FCMToken != "tok" {
		t.Errorf("fcm token = %q, want tok", got.FCMToken)
	}
}
