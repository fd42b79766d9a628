package store

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"

	"github.com/ahmetcoskunkizilkaya/taskboard-backend/internal/models"
)

const (
	InvitationCodeLength   = 8
	invitationCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	maxCodeAttempts        = 16
)

var ErrCodeSpaceExhausted = errors.New("could not allocate a unique invitation code")

// GenerateInvitationCode draws InvitationCodeLength symbols uniformly from
// A-Z0-9.
func GenerateInvitationCode() (string, error) {
	max := big.NewInt(int64(len(invitationCodeAlphabet)))
	code := make([]byte, InvitationCodeLength)
	for i := range code {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate invitation code: %w", err)
		}
		code[i] = invitationCodeAlphabet[n.Int64()]
	}
	return string(code), nil
}

// uniqueInvitationCode draws codes until one is not held by any user.
// The check is not atomic with the caller's insert.
func (s *Store) uniqueInvitationCode(ctx context.Context) (string, error) {
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, err := s.codeGen()
		if err != nil {
			return "", err
		}
		var count int64
		if err := s.db.WithContext(ctx).Model(&models.User{}).Where("invitation_code = ?", code).Count(&count).Error; err != nil {
			return "", unavailable(err)
		}
		if count == 0 {
			return code, nil
		}
	}
	return "", ErrCodeSpaceExhausted
}
