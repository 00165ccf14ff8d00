package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/election/internal/core/domain"
)

type TokenPayload struct {
	Email string
	Name  string
}

type TokenVerifier interface {
	Verify(ctx context.Context, token string, clientID string) (*TokenPayload, error)
}

type Identity struct {
	UserID uuid.UUID
	Role   domain.Role
}

type AuthService interface {
	LoginWithGoogle(ctx context.Context, googleToken string) (string, error) // returns access_token
	ParseAccessToken(token string) (*Identity, error)
}
