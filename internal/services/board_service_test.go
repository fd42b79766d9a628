package services

import (
	"errors"
	"testing"

	"github.com/ahmetcoskunkizilkaya/taskboard-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/taskboard-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/taskboard-backend/internal/store"
)

func registerUser(t *testing.T, f *fixture, name string) *models.User {
	t.Helper()
	resp, err := f.auth.Register(bg, &dto.RegisterRequest{Name: name, Email: name + "@example.com", Password: "password123"})
	if err != nil {
		t.Fatalf("register %s: %v", name, err)
	}
	user, err := f.store.GetUser(bg, resp.User.ID)
	if err != nil {
		t.Fatalf("get %s: %v", name, err)
	}
	return user
}

func TestCreateBoard_OwnerIsMemberWithDefaultStatuses(t *testing.T) {
	f := newFixture(t, nil)
	owner := registerUser(t, f, "owner")

	board, err := f.boards.CreateBoard(bg, owner.ID, &dto.BoardRequest{Name: " Sprint1 ", Description: "first"})
	if err != nil {
		t.Fatalf("CreateBoard: %v", err)
	}
	if board.Name != "Sprint1" || board.CreatedBy != owner.ID || !board.HasMember(owner.ID) {
		t.Errorf("board = %+v", board)
	}

	statuses, err := f.boards.ListStatuses(bg, board.ID)
	if err != nil {
		t.Fatalf("ListStatuses: %v", err)
	}
	if len(statuses) != len(DefaultStatuses) {
		t.Fatalf("statuses = %d, want %d", len(statuses), len(DefaultStatuses))
	}
	for i, s := range statuses {
		if s.Name != DefaultStatuses[i] || s.Order != i {
			t.Errorf("statuses[%d] = %+v, want %s at %d", i, s, DefaultStatuses[i], i)
		}
	}

	if _, err := f.boards.CreateBoard(bg, owner.ID, &dto.BoardRequest{Name: "  "}); !errors.Is(err, ErrValidation) {
		t.Errorf("blank name error = %v, want ErrValidation", err)
	}
}

func TestDeleteBoard_CreatorOnly(t *testing.T) {
	f := newFixture(t, nil)
	owner := registerUser(t, f, "owner")
	board, _ := f.boards.CreateBoard(bg, owner.ID, &dto.BoardRequest{Name: "b"})

	if err := f.boards.DeleteBoard(bg, board.ID, "someone-else"); !errors.Is(err, ErrForbidden) {
		t.Errorf("non-creator delete error = %v, want ErrForbidden", err)
	}
	if err := f.boards.DeleteBoard(bg, board.ID, owner.ID); err != nil {
		t.Fatalf("DeleteBoard: %v", err)
	}
	if _, err := f.boards.GetBoard(bg, board.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("GetBoard after delete error = %v, want ErrNotFound", err)
	}
}

func TestRemoveMember_Rules(t *testing.T) {
	f := newFixture(t, nil)
	owner := registerUser(t, f, "owner")
	alice := registerUser(t, f, "alice")
	bob := registerUser(t, f, "bob")
	board, _ := f.boards.CreateBoard(bg, owner.ID, &dto.BoardRequest{Name: "b"})
	f.store.AddMember(bg, board.ID, alice.ID)
	f.store.AddMember(bg, board.ID, bob.ID)

	if err := f.boards.RemoveMember(bg, board.ID, alice.ID, bob.ID); !errors.Is(err, ErrForbidden) {
		t.Errorf("member removing other error = %v, want ErrForbidden", err)
	}
	if err := f.boards.RemoveMember(bg, board.ID, alice.ID, owner.ID); !errors.Is(err, ErrForbidden) {
		t.Errorf("removing creator error = %v, want ErrForbidden", err)
	}
	if err := f.boards.RemoveMember(bg, board.ID, alice.ID, alice.ID); err != nil {
		t.Errorf("leaving board: %v", err)
	}
	if err := f.boards.RemoveMember(bg, board.ID, owner.ID, bob.ID); err != nil {
		t.Errorf("creator removing member: %v", err)
	}

	members, _ := f.boards.Members(bg, board.ID)
	if len(members) != 1 || members[0].ID != owner.ID {
		t.Errorf("members = %+v, want only owner", members)
	}
}
