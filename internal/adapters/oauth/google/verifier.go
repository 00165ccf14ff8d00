package google

import (
	"context"
	"errors"
	"fmt"

	"github.com/vncsmyrnk/election/internal/core/ports"
	"google.golang.org/api/idtoken"
)

var (
	ErrMissingEmail    = errors.New("email not found in claims")
	ErrEmailUnverified = errors.New("google account email is not verified")
)

type Verifier struct{}

func NewVerifier() ports.TokenVerifier {
	return &Verifier{}
}

// Verify validates a Google ID token against clientID and returns the
// identity it carries. Accounts without a verified email are rejected.
func (v *Verifier) Verify(ctx context.Context, token string, clientID string) (*ports.TokenPayload, error) {
	payload, err := idtoken.Validate(ctx, token, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to validate id token: %w", err)
	}
	return identityFromClaims(payload.Claims)
}

func identityFromClaims(claims map[string]any) (*ports.TokenPayload, error) {
	email, _ := claims["email"].(string)
	if email == "" {
		return nil, ErrMissingEmail
	}
	if verified, ok := claims["email_verified"].(bool); ok && !verified {
		return nil, ErrEmailUnverified
	}

	name, _ := claims["name"].(string)
	if name == "" {
		name = email
	}
	return &ports.TokenPayload{Email: email, Name: name}, nil
}
