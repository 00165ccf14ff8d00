package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/vncsmyrnk/election/internal/core/domain"
	"github.com/vncsmyrnk/election/internal/core/ports"
)

var (
	ErrInvalidToken     = errors.New("invalid access token")
	ErrMissingJWTSecret = errors.New("jwt secret must not be empty")
)

type AuthConfig struct {
	JWTSecret      string
	GoogleClientID string
	AdminEmails    []string
	AccessTokenTTL time.Duration
}

type AuthService struct {
	userRepo            ports.UserRepository
	googleTokenVerifier ports.TokenVerifier
	jwtSecret           []byte
	googleClientID      string
	adminEmails         map[string]bool
	accessTokenTTL      time.Duration
	now                 Clock
}

// NewAuthService refuses an empty signing key: HS256 with no key would
// accept tokens minted by anyone.
func NewAuthService(userRepo ports.UserRepository, googleTokenVerifier ports.TokenVerifier, cfg AuthConfig, now Clock) (*AuthService, error) {
	if cfg.JWTSecret == "" {
		return nil, ErrMissingJWTSecret
	}

	admins := make(map[string]bool, len(cfg.AdminEmails))
	for _, email := range cfg.AdminEmails {
		admins[strings.ToLower(strings.TrimSpace(email))] = true
	}

	return &AuthService{
		userRepo:            userRepo,
		googleTokenVerifier: googleTokenVerifier,
		jwtSecret:           []byte(cfg.JWTSecret),
		googleClientID:      cfg.GoogleClientID,
		adminEmails:         admins,
		accessTokenTTL:      cfg.AccessTokenTTL,
		now:                 now,
	}, nil
}

func (s *AuthService) LoginWithGoogle(ctx context.Context, googleToken string) (string, error) {
	payload, err := s.googleTokenVerifier.Verify(ctx, googleToken, s.googleClientID)
	if err != nil {
		return "", fmt.Errorf("invalid google token: %w", err)
	}

	user, err := s.userRepo.GetByEmail(ctx, payload.Email)
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return "", fmt.Errorf("failed to get user: %w", err)
	}

	if user == nil {
		user = &domain.User{
			ID:        uuid.New(),
			Email:     payload.Email,
			Name:      payload.Name,
			Role:      s.roleFor(payload.Email),
			CreatedAt: s.now(),
		}
		err := s.userRepo.Create(ctx, user)
		if errors.Is(err, domain.ErrEmailTaken) {
			// a concurrent first login created it
			user, err = s.userRepo.GetByEmail(ctx, payload.Email)
		}
		if err != nil {
			return "", fmt.Errorf("failed to create user: %w", err)
		}
	}

	accessToken, err := s.IssueAccessToken(user)
	if err != nil {
		return "", fmt.Errorf("failed to generate access token: %w", err)
	}
	return accessToken, nil
}

func (s *AuthService) IssueAccessToken(user *domain.User) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub":   user.ID.String(),
		"email": user.Email,
		"role":  string(user.Role),
		"exp":   now.Add(s.accessTokenTTL).Unix(),
		"iat":   now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

func (s *AuthService) ParseAccessToken(tokenString string) (*ports.Identity, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if len(s.jwtSecret) == 0 {
			return nil, ErrMissingJWTSecret
		}
		return s.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	sub, err := claims.GetSubject()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	userID, err := uuid.Parse(sub)
	if err != nil {
		return nil, fmt.Errorf("%w: bad subject", ErrInvalidToken)
	}

	role, _ := claims["role"].(string)
	if role == "" {
		role = string(domain.RoleVoter)
	}

	return &ports.Identity{UserID: userID, Role: domain.Role(role)}, nil
}

func (s *AuthService) roleFor(email string) domain.Role {
	if s.adminEmails[strings.ToLower(email)] {
		return domain.RoleAdmin
	}
	return domain.RoleVoter
}
