// Package store maps board, ticket, comment and user records onto the
// database and turns collection changes into live snapshot streams.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrNotFound            = errors.New("not found")
	ErrInvalidCode         = fmt.Errorf("invalid invitation code: %w", ErrNotFound)
	ErrNoInvitation        = fmt.Errorf("no pending invitation for this board: %w", ErrNotFound)
	ErrDuplicateInvitation = errors.New("user already has a pending invitation to this board")
	ErrAlreadyMember       = errors.New("user is already a member of this board")
	ErrTransactionConflict = errors.New("transaction conflict")
	ErrRemoteUnavailable   = errors.New("store unavailable")
)

const maxTxAttempts = 5

// Store is the data-access layer over a GORM handle. Every successful write
// publishes the affected collection paths on the Feed.
type Store struct {
	db      *gorm.DB
	feed    *Feed
	codeGen func() (string, error)
}

type Option func(*Store)

// WithCodeGenerator replaces the invitation code generator.
func WithCodeGenerator(gen func() (string, error)) Option {
	return func(s *Store) { s.codeGen = gen }
}

func New(db *gorm.DB, feed *Feed, opts ...Option) *Store {
	if feed == nil {
		feed = NewFeed()
	}
	s := &Store{
		db:      db,
		feed:    feed,
		codeGen: GenerateInvitationCode,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func newID() string {
	return uuid.NewString()
}

// unavailable wraps a database failure so callers can match
// ErrRemoteUnavailable while keeping the driver error in the chain.
func unavailable(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrRemoteUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrRemoteUnavailable, err)
}

// lookupErr maps a single-record read failure.
func lookupErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return unavailable(err)
}

// runTx runs fn in a transaction, retrying when the database reports a
// serialization failure, deadlock or lock timeout.
func (s *Store) runTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	var err error
	for attempt := 1; attempt <= maxTxAttempts; attempt++ {
		err = s.db.WithContext(ctx).Transaction(fn)
		if err == nil || !isConflict(err) {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt) * 20 * time.Millisecond):
		}
	}
	return fmt.Errorf("%w after %d attempts: %w", ErrTransactionConflict, maxTxAttempts, err)
}

func isConflict(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// serialization_failure, deadlock_detected
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	msg := err.Error()
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "SQLITE_BUSY")
}

// forBoard limits a query to records that belong to boardID.
func forBoard(boardID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("board_id = ?", boardID)
	}
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

func without(list []string, v string) []string {
	out := make([]string, 0, len(list))
	for _, item := range list {
		if item != v {
			out = append(out, item)
		}
	}
	return out
}
