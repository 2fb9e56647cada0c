package shared

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/phrazzld/todolist/internal/platform/logger"
	"github.com/stretchr/testify/assert"
)

func TestRespondWithText(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	RespondWithText(w, http.StatusOK, "OK")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())
	assert.Equal(t, "text/plain; charset=utf-8", w.Header().Get("Content-Type"))
}

func TestRespondWithError(t *testing.T) {
	t.Parallel()

	ctx := context.WithValue(context.Background(), TraceIDKey, "test-trace-id")
	req := httptest.NewRequest(http.MethodGet, "/test", nil).WithContext(ctx)
	w := httptest.NewRecorder()

	RespondWithError(w, req, http.StatusNotFound, "Task not found")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Task not found\ntrace id: test-trace-id\n", w.Body.String())
}

func TestRespondWithErrorNoTraceID(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	w := httptest.NewRecorder()

	RespondWithError(w, req, http.StatusUnauthorized, "Unauthorized")

	assert.Equal(t, "Unauthorized\n", w.Body.String())
}

func TestRespondWithErrorAndLog(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name             string
		statusCode       int
		message          string
		err              error
		expectedLogLevel string
		elevateLogLevel  bool
	}{
		{
			name:             "server error",
			statusCode:       http.StatusInternalServerError,
			message:          "Internal server error",
			err:              errors.New("connect to postgres://admin:hunter2@db/todo failed"),
			expectedLogLevel: "ERROR",
		},
		{
			name:             "client error (4xx) with default log level",
			statusCode:       http.StatusBadRequest,
			message:          "Bad request",
			err:              errors.New("invalid input"),
			expectedLogLevel: "DEBUG",
		},
		{
			name:             "client error (4xx) with elevated log level",
			statusCode:       http.StatusForbidden,
			message:          "Forbidden",
			err:              errors.New("not owner"),
			expectedLogLevel: "WARN",
			elevateLogLevel:  true,
		},
		{
			name:             "rate limiting error",
			statusCode:       http.StatusTooManyRequests,
			message:          "Too many requests",
			err:              errors.New("rate limit exceeded"),
			expectedLogLevel: "WARN",
		},
		{
			name:             "redirect",
			statusCode:       http.StatusMovedPermanently,
			message:          "Moved permanently",
			expectedLogLevel: "DEBUG",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var logBuf strings.Builder
			log := slog.New(slog.NewTextHandler(&logBuf, &slog.HandlerOptions{Level: slog.LevelDebug}))
			ctx := context.WithValue(context.Background(), TraceIDKey, "test-trace-id")
			ctx = logger.WithLogger(ctx, log)
			req := httptest.NewRequest(http.MethodGet, "/test", nil).WithContext(ctx)
			w := httptest.NewRecorder()

			var opts []ResponseOption
			if tc.elevateLogLevel {
				opts = append(opts, WithElevatedLogLevel())
			}
			RespondWithErrorAndLog(w, req, tc.statusCode, tc.message, tc.err, opts...)

			assert.Equal(t, tc.statusCode, w.Code)
			assert.Contains(t, w.Body.String(), tc.message)
			if tc.err != nil {
				assert.NotContains(t, w.Body.String(), tc.err.Error(), "raw error never reaches the client")
			}

			logOutput := logBuf.String()
			assert.Contains(t, logOutput, "level="+tc.expectedLogLevel)
			assert.Contains(t, logOutput, "trace_id=test-trace-id")
			assert.NotContains(t, logOutput, "hunter2", "credentials are redacted in logs")
		})
	}
}

func TestWithElevatedLogLevel(t *testing.T) {
	t.Parallel()

	opts := responseOptions{}
	WithElevatedLogLevel()(&opts)
	assert.True(t, opts.elevateLogLevel)
}
