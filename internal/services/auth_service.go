package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/taskboard-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/taskboard-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/taskboard-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/taskboard-backend/internal/store"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired refresh token")
	ErrUserNotFound       = errors.New("user not found")
	ErrFederatedSignIn    = errors.New("federated sign-in failed")
)

const (
	providerEmail     = "email"
	providerFederated = "federated"
)

type AuthService struct {
	db       *gorm.DB
	store    *store.Store
	cfg      *config.Config
	verifier IdentityVerifier
}

func NewAuthService(db *gorm.DB, st *store.Store, cfg *config.Config, verifier IdentityVerifier) *AuthService {
	return &AuthService{
		db:       db,
		store:    st,
		cfg:      cfg,
		verifier: verifier,
	}
}

func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	email := normalizeEmail(req.Email)
	if email == "" || len(req.Password) < 8 {
		return nil, fmt.Errorf("%w: email required and password must be at least 8 characters", ErrValidation)
	}

	if _, err := s.store.FindUserByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = strings.Split(email, "@")[0]
	}

	user := models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		AuthProvider: providerEmail,
	}
	if _, err := s.store.CreateUser(ctx, &user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	slog.Info("user registered", "user_id", user.ID, "action", "register")

	return s.generateTokenPair(ctx, &user)
}

func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.store.FindUserByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if user.PasswordHash == "" {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.generateTokenPair(ctx, user)
}

func (s *AuthService) Refresh(ctx context.Context, req *dto.RefreshRequest) (*dto.AuthResponse, error) {
	tokenHash := hashToken(req.RefreshToken)

	var stored models.RefreshToken
	if err := s.db.WithContext(ctx).Where("token_hash = ? AND revoked = ?", tokenHash, false).First(&stored).Error; err != nil {
		return nil, ErrInvalidToken
	}

	// Only one of two concurrent refreshes can flip the row.
	res := s.db.WithContext(ctx).Model(&models.RefreshToken{}).
		Where("id = ? AND revoked = ?", stored.ID, false).
		Update("revoked", true)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to revoke refresh token: %w", res.Error)
	}
	if res.RowsAffected != 1 {
		return nil, ErrInvalidToken
	}

	if time.Now().After(stored.ExpiresAt) {
		return nil, ErrInvalidToken
	}

	user, err := s.store.GetUser(ctx, stored.UserID)
	if err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}

	return s.generateTokenPair(ctx, user)
}

// Logout revokes the refresh token, ending the session.
func (s *AuthService) Logout(ctx context.Context, req *dto.LogoutRequest) error {
	tokenHash := hashToken(req.RefreshToken)
	return s.db.WithContext(ctx).Model(&models.RefreshToken{}).
		Where("token_hash = ?", tokenHash).
		Update("revoked", true).Error
}

// Me returns the user behind the current session.
func (s *AuthService) Me(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.store.GetUser(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	return user, err
}

// FederatedSignIn exchanges an identity-provider ID token for a session,
// creating the user on first sign-in. An existing email account is linked
// only when the provider vouches for the address and the account has no
// other identity attached.
func (s *AuthService) FederatedSignIn(ctx context.Context, req *dto.FederatedSignInRequest) (*dto.AuthResponse, error) {
	if req.IDToken == "" {
		return nil, fmt.Errorf("%w: id token is required", ErrValidation)
	}
	if s.verifier == nil {
		return nil, fmt.Errorf("%w: not configured", ErrFederatedSignIn)
	}

	claims, err := s.verifier.Verify(ctx, req.IDToken)
	if err != nil {
		slog.Error("identity token verification failed", "error", err, "action", "federated_sign_in")
		return nil, fmt.Errorf("%w: %w", ErrFederatedSignIn, err)
	}

	user, err := s.store.FindUserByProviderSubject(ctx, providerFederated, claims.Subject)
	if err == nil {
		return s.generateTokenPair(ctx, user)
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	email := normalizeEmail(claims.Email)
	if email != "" && !claims.EmailVerified {
		// An unverified address never links to, or reserves, an account.
		if _, err := s.store.FindUserByEmail(ctx, email); err == nil {
			return nil, fmt.Errorf("%w: identity provider has not verified %s", ErrEmailTaken, email)
		} else if !errors.Is(err, store.ErrNotFound) {
			return nil, err
		}
		email = ""
	}
	if email == "" {
		email = claims.Subject + "@federated.invalid"
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = claims.Name
	}
	if name == "" {
		name = strings.Split(email, "@")[0]
	}

	subject := claims.Subject
	user, created, err := s.store.EnsureUser(ctx, &models.User{
		Name:            name,
		Email:           email,
		AuthProvider:    providerFederated,
		ProviderSubject: &subject,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create federated user: %w", err)
	}
	if !created {
		if user.ProviderSubject != nil {
			// Same subject was handled above, so this account belongs to another identity.
			return nil, fmt.Errorf("%w: linked to another identity", ErrEmailTaken)
		}
		res := s.db.WithContext(ctx).Model(&models.User{}).
			Where("id = ? AND provider_subject IS NULL", user.ID).
			Updates(map[string]interface{}{
				"auth_provider":    providerFederated,
				"provider_subject": subject,
			})
		if res.Error != nil {
			return nil, fmt.Errorf("failed to link federated identity: %w", res.Error)
		}
		if res.RowsAffected != 1 {
			return nil, fmt.Errorf("%w: linked to another identity", ErrEmailTaken)
		}
		user.AuthProvider = providerFederated
		user.ProviderSubject = &subject
	}
	slog.Info("federated sign-in", "user_id", user.ID, "created", created, "action", "federated_sign_in")

	return s.generateTokenPair(ctx, user)
}

func (s *AuthService) generateTokenPair(ctx context.Context, user *models.User) (*dto.AuthResponse, error) {
	accessToken, err := s.generateAccessToken(user)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.generateRefreshToken(ctx, user)
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         UserResponse(user),
	}, nil
}

func (s *AuthService) generateAccessToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":   user.ID,
		"email": user.Email,
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(s.cfg.JWTAccessExpiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func (s *AuthService) generateRefreshToken(ctx context.Context, user *models.User) (string, error) {
	rawBytes := make([]byte, 32)
	if _, err := rand.Read(rawBytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	rawToken := base64.URLEncoding.EncodeToString(rawBytes)

	record := models.RefreshToken{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		TokenHash: hashToken(rawToken),
		ExpiresAt: time.Now().Add(s.cfg.JWTRefreshExpiry),
	}

	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		return "", fmt.Errorf("failed to store refresh token: %w", err)
	}

	return rawToken, nil
}

// UserResponse converts a user record to its API shape.
func UserResponse(user *models.User) dto.UserResponse {
	invitations := []string(user.Invitations)
	if invitations == nil {
		invitations = []string{}
	}
	return dto.UserResponse{
		ID:             user.ID,
		Name:           user.Name,
		Email:          user.Email,
		InvitationCode: user.InvitationCode,
		Invitations:    invitations,
		IsFederated:    user.AuthProvider == providerFederated,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func hashToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return fmt.Sprintf("%x", h)
}
