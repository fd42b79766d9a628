package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
)

// IdentityClaims is what the application needs from a verified
// identity-provider token.
type IdentityClaims struct {
	Subject       string
	Email         string
	EmailVerified bool
	Name          string
}

// IdentityVerifier checks an ID token issued by an external identity
// provider.
type IdentityVerifier interface {
	Verify(ctx context.Context, idToken string) (*IdentityClaims, error)
}

type federatedClaims struct {
	Email         string       `json:"email"`
	EmailVerified verifiedFlag `json:"email_verified"`
	Name          string       `json:"name"`
	jwt.RegisteredClaims
}

// verifiedFlag accepts email_verified as a JSON bool or as the string
// "true"/"false", which some providers send.
type verifiedFlag bool

func (f *verifiedFlag) UnmarshalJSON(data []byte) error {
	switch strings.Trim(string(data), `"`) {
	case "true":
		*f = true
	case "false", "null", "":
		*f = false
	default:
		return fmt.Errorf("invalid email_verified value %s", data)
	}
	return nil
}

// JWKSVerifier validates RS256 ID tokens against the provider's published
// key set. Keys are fetched on first use and refreshed in the background.
type JWKSVerifier struct {
	jwksURL  string
	issuer   string
	audience string

	mu   sync.Mutex
	jwks *keyfunc.JWKS
}

func NewJWKSVerifier(jwksURL, issuer, audience string) *JWKSVerifier {
	return &JWKSVerifier{jwksURL: jwksURL, issuer: issuer, audience: audience}
}

// NewStaticJWKSVerifier builds a verifier over a fixed key set.
func NewStaticJWKSVerifier(keySet json.RawMessage, issuer, audience string) (*JWKSVerifier, error) {
	jwks, err := keyfunc.NewJSON(keySet)
	if err != nil {
		return nil, fmt.Errorf("failed to parse JWKS: %w", err)
	}
	return &JWKSVerifier{issuer: issuer, audience: audience, jwks: jwks}, nil
}

func (v *JWKSVerifier) keys() (*keyfunc.JWKS, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.jwks != nil {
		return v.jwks, nil
	}
	if v.jwksURL == "" {
		return nil, errors.New("federated sign-in is not configured")
	}

	jwks, err := keyfunc.Get(v.jwksURL, keyfunc.Options{
		RefreshInterval:   12 * time.Hour,
		RefreshRateLimit:  5 * time.Minute,
		RefreshTimeout:    10 * time.Second,
		RefreshUnknownKID: true,
		RefreshErrorHandler: func(err error) {
			slog.Error("jwks refresh failed", "url", v.jwksURL, "error", err)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch JWKS: %w", err)
	}
	v.jwks = jwks
	return jwks, nil
}

func (v *JWKSVerifier) Verify(_ context.Context, idToken string) (*IdentityClaims, error) {
	if v.issuer == "" || v.audience == "" {
		return nil, errors.New("federated sign-in requires an issuer and an audience")
	}
	jwks, err := v.keys()
	if err != nil {
		return nil, err
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{"RS256"}),
		jwt.WithIssuer(v.issuer),
		jwt.WithAudience(v.audience),
		jwt.WithExpirationRequired(),
	}

	var claims federatedClaims
	if _, err := jwt.ParseWithClaims(idToken, &claims, jwks.Keyfunc, opts...); err != nil {
		return nil, fmt.Errorf("invalid identity token: %w", err)
	}
	if claims.Subject == "" {
		return nil, errors.New("identity token has no subject")
	}

	return &IdentityClaims{
		Subject:       claims.Subject,
		Email:         claims.Email,
		EmailVerified: bool(claims.EmailVerified),
		Name:          claims.Name,
	}, nil
}

// Close stops the background key refresh.
func (v *JWKSVerifier) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.jwks != nil {
		v.jwks.EndBackground()
	}
}
