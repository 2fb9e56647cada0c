package mocks

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/todolist/internal/service/auth"
)

// MockSessionService implements auth.SessionService for testing. The
// default tokens are "session:<user id>".
type MockSessionService struct {
	IssueFn    func(ctx context.Context, userID uuid.UUID) (string, time.Time, error)
	ValidateFn func(ctx context.Context, token string) (*auth.Claims, error)

	// Lifetime applied to default tokens; one hour when zero.
	Lifetime time.Duration
}

var _ auth.SessionService = (*MockSessionService)(nil)

const mockTokenPrefix = "session:"

// Issue implements the auth.SessionService interface
func (m *MockSessionService) Issue(ctx context.Context, userID uuid.UUID) (string, time.Time, error) {
	if m.IssueFn != nil {
		return m.IssueFn(ctx, userID)
	}
	lifetime := m.Lifetime
	if lifetime == 0 {
		lifetime = time.Hour
	}
	return mockTokenPrefix + userID.String(), time.Now().Add(lifetime), nil
}

// Validate implements the auth.SessionService interface
func (m *MockSessionService) Validate(ctx context.Context, token string) (*auth.Claims, error) {
	if m.ValidateFn != nil {
		return m.ValidateFn(ctx, token)
	}
	raw, ok := strings.CutPrefix(token, mockTokenPrefix)
	if !ok {
		return nil, auth.ErrInvalidToken
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		return nil, auth.ErrInvalidToken
	}
	return &auth.Claims{UserID: userID, TokenType: "session"}, nil
}

// TokenFor returns the token the default Issue would produce for userID.
func (m *MockSessionService) TokenFor(userID uuid.UUID) string {
	return mockTokenPrefix + userID.String()
}
