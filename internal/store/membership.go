package store

import (
	"context"
	"errors"
)

var ErrNotMember = errors.New("user is not a member of this board")

// WhileMember forwards the snapshots of a board-scoped stream for as long as
// userID belongs to boardID. Membership is re-read before every forwarded
// snapshot and after every board change. Once it is gone the stream ends
// with ErrNotMember, or ErrNotFound when the board itself was deleted.
func WhileMember[T any](ctx context.Context, s *Store, boardID, userID string, subscribe func(context.Context) <-chan Snapshot[T]) <-chan Snapshot[T] {
	out := make(chan Snapshot[T])
	boardChanges, unsubscribe := s.feed.Subscribe(BoardsPath())
	inner, cancel := context.WithCancel(ctx)
	in := subscribe(inner)

	go func() {
		defer close(out)
		defer unsubscribe()
		defer cancel()

		send := func(snap Snapshot[T]) bool {
			select {
			case out <- snap:
				return snap.Err == nil
			case <-ctx.Done():
				return false
			}
		}
		revoked := func() bool {
			err := s.checkMember(ctx, boardID, userID)
			if ctx.Err() != nil {
				return true
			}
			if err == nil {
				return false
			}
			send(Snapshot[T]{Err: err})
			return true
		}

		for {
			select {
			case snap, ok := <-in:
				if !ok {
					return
				}
				if snap.Err == nil && revoked() {
					return
				}
				if !send(snap) {
					return
				}
			case <-boardChanges:
				if revoked() {
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	return out
}

func (s *Store) checkMember(ctx context.Context, boardID, userID string) error {
	board, err := s.GetBoard(ctx, boardID)
	if err != nil {
		return err
	}
	if !board.HasMember(userID) {
		return ErrNotMember
	}
	return nil
}
