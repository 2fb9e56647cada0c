package shared

import (
	"context"
	"encoding/hex"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestSetAndGetTraceID(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	assert.Empty(t, GetTraceID(ctx), "Expected empty trace ID in original context")

	ctxWithTrace := SetTraceID(ctx)
	traceID := GetTraceID(ctxWithTrace)
	assert.Len(t, traceID, 32, "Expected trace ID length to be 32 hex characters (16 bytes)")

	assert.Empty(t, GetTraceID(ctx), "Expected original context to remain unchanged")
}

func TestGetTraceIDWithInvalidContext(t *testing.T) {
	t.Parallel()

	ctx := context.WithValue(context.Background(), TraceIDKey, 123)
	assert.Empty(t, GetTraceID(ctx), "Expected empty trace ID when context has invalid type")
}

func TestGenerateTraceID_Unique(t *testing.T) {
	t.Parallel()

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := generateTraceID()
		assert.Len(t, id, 32)
		assert.False(t, seen[id], "Expected all trace IDs to be unique")
		seen[id] = true
	}
}

func TestGenerateFallbackTraceID(t *testing.T) {
	t.Parallel()

	id := generateFallbackTraceID()
	assert.Len(t, id, 32, "Expected trace ID length to be 32 hex characters")
	_, err := hex.DecodeString(id)
	assert.NoError(t, err, "Expected valid hex string")
	assert.NotEqual(t, id, generateFallbackTraceID())
}

func TestUserIDContext(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	_, ok := UserIDFromContext(ctx)
	assert.False(t, ok)

	_, ok = UserIDFromContext(WithUserID(ctx, uuid.Nil))
	assert.False(t, ok, "nil user ID counts as anonymous")

	_, ok = UserIDFromContext(context.WithValue(ctx, UserIDContextKey, "not-a-uuid"))
	assert.False(t, ok)

	id := uuid.New()
	got, ok := UserIDFromContext(WithUserID(ctx, id))
	assert.True(t, ok)
	assert.Equal(t, id, got)
}
