package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/todolist/internal/config"
	"github.com/phrazzld/todolist/internal/platform/logger"
)

const sessionTokenType = "session"

// SessionService issues and validates the signed tokens stored in the
// session cookie.
type SessionService interface {
	// Issue creates a session token for userID and returns it with its expiry.
	Issue(ctx context.Context, userID uuid.UUID) (string, time.Time, error)

	// Validate verifies a session token and extracts its claims.
	Validate(ctx context.Context, token string) (*Claims, error)
}

// Claims represents the session information carried by a token.
type Claims struct {
	UserID    uuid.UUID
	TokenType string
	IssuedAt  time.Time
	ExpiresAt time.Time
	ID        string
}

// sessionClaims defines the structure of JWT claims we use
type sessionClaims struct {
	UserID    uuid.UUID `json:"uid"`
	TokenType string    `json:"type"`
	jwt.RegisteredClaims
}

// hmacSessionService is an implementation of SessionService using HMAC-SHA signing.
type hmacSessionService struct {
	signingKey []byte
	lifetime   time.Duration
	timeFunc   func() time.Time // Injectable for testing
	clockSkew  time.Duration    // Allowed time difference for validation to handle clock drift
}

var _ SessionService = (*hmacSessionService)(nil)

// NewSessionService creates a session service from the auth configuration.
func NewSessionService(cfg config.AuthConfig) (SessionService, error) {
	return newSessionService(cfg.SecretKey, cfg.SessionLifetime(), time.Now)
}

func newSessionService(
	secret string,
	lifetime time.Duration,
	timeFunc func() time.Time,
) (*hmacSessionService, error) {
	if len(secret) < 32 {
		return nil, ErrSecretTooShort
	}
	if lifetime <= 0 {
		return nil, fmt.Errorf("session lifetime must be positive, got %s", lifetime)
	}
	return &hmacSessionService{
		signingKey: []byte(secret),
		lifetime:   lifetime,
		timeFunc:   timeFunc,
		clockSkew:  2 * time.Minute,
	}, nil
}

// Issue creates a signed session token with user claims.
func (s *hmacSessionService) Issue(ctx context.Context, userID uuid.UUID) (string, time.Time, error) {
	log := logger.FromContext(ctx)
	now := s.timeFunc()
	expiresAt := now.Add(s.lifetime)

	claims := sessionClaims{
		UserID:    userID,
		TokenType: sessionTokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.New().String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.signingKey)
	if err != nil {
		log.Error("failed to sign session token",
			"error", err,
			"user_id", userID,
			"signing_method", jwt.SigningMethodHS256.Name)
		return "", time.Time{}, fmt.Errorf("failed to sign session token: %w", err)
	}

	return signed, expiresAt, nil
}

// Validate validates a session token and returns the claims if valid.
func (s *hmacSessionService) Validate(ctx context.Context, tokenString string) (*Claims, error) {
	log := logger.FromContext(ctx)
	now := s.timeFunc()

	token, err := jwt.ParseWithClaims(
		tokenString,
		&sessionClaims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return s.signingKey, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithLeeway(s.clockSkew),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			log.Debug("session token expired", "error", err)
			return nil, ErrExpiredToken
		case errors.Is(err, jwt.ErrTokenNotValidYet), errors.Is(err, jwt.ErrTokenUsedBeforeIssued):
			log.Debug("session token not yet valid", "error", err)
			return nil, ErrTokenNotYetValid
		default:
			log.Debug("session token rejected",
				"error", err,
				"error_type", fmt.Sprintf("%T", err))
			return nil, ErrInvalidToken
		}
	}

	claims, ok := token.Claims.(*sessionClaims)
	if !ok || !token.Valid {
		log.Debug("session token validation failed: invalid claims")
		return nil, ErrInvalidToken
	}
	if claims.TokenType != sessionTokenType {
		log.Debug("session token validation failed: wrong token type",
			"expected", sessionTokenType,
			"actual", claims.TokenType)
		return nil, ErrWrongTokenType
	}
	if claims.UserID == uuid.Nil {
		return nil, ErrInvalidToken
	}

	return &Claims{
		UserID:    claims.UserID,
		TokenType: claims.TokenType,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
		ID:        claims.ID,
	}, nil
}
