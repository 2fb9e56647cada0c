package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/todolist/internal/api/shared"
	"github.com/phrazzld/todolist/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRendererError(t *testing.T) {
	t.Parallel()

	rd, err := NewRenderer(nil)
	require.NoError(t, err)

	ctx := shared.SetTraceID(context.Background())
	r := httptest.NewRequest(http.MethodGet, "/task", nil).WithContext(ctx)
	rec := httptest.NewRecorder()

	rd.Error(rec, r, http.StatusNotFound, "Task not found")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	body := rec.Body.String()
	assert.Contains(t, body, "404 Not Found")
	assert.Contains(t, body, "Task not found")
	assert.Contains(t, body, shared.GetTraceID(ctx))
	assert.Contains(t, body, `href="/register"`, "anonymous navigation")
}

func TestRendererShowsPendingFlashesFirst(t *testing.T) {
	t.Parallel()

	rd, err := NewRenderer(nil)
	require.NoError(t, err)

	queued := httptest.NewRecorder()
	shared.AddFlash(queued, httptest.NewRequest(http.MethodGet, "/", nil),
		shared.Flash{Category: shared.FlashConfirmation, Message: "queued earlier"})

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range queued.Result().Cookies() {
		r.AddCookie(c)
	}
	r = r.WithContext(shared.WithUserID(r.Context(), uuid.New()))
	rec := httptest.NewRecorder()

	rd.Render(rec, r, http.StatusOK, pageRegister, &registerView{
		page: page{Title: "Register", Flashes: []shared.Flash{{Category: shared.FlashError, Message: "shown now"}}},
	})

	body := rec.Body.String()
	require.Contains(t, body, "queued earlier")
	require.Contains(t, body, "shown now")
	assert.Less(t, strings.Index(body, "queued earlier"), strings.Index(body, "shown now"))
	assert.Contains(t, body, `href="/logout"`)

	flash := cookieNamed(rec, shared.FlashCookieName)
	require.NotNil(t, flash, "consumed flashes are expired")
	assert.Negative(t, flash.MaxAge)
}

func TestRendererEscapesUserContent(t *testing.T) {
	t.Parallel()

	rd, err := NewRenderer(nil)
	require.NoError(t, err)

	userID := uuid.New()
	task, err := domain.NewTask(userID, "<script>alert(1)</script>", nil)
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodGet, "/task", nil)
	r = r.WithContext(shared.WithUserID(r.Context(), userID))
	rec := httptest.NewRecorder()

	rd.Render(rec, r, http.StatusOK, pageTask, &taskView{page: page{Title: task.Name}, Task: task})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "<script>alert(1)</script>")
	assert.Contains(t, rec.Body.String(), "&lt;script&gt;")
}

func TestRendererTaskDueDate(t *testing.T) {
	t.Parallel()

	rd, err := NewRenderer(nil)
	require.NoError(t, err)

	userID := uuid.New()
	due := time.Date(2026, 12, 24, 18, 5, 0, 0, time.UTC)
	dated, err := domain.NewTask(userID, "Wrap gifts", &due)
	require.NoError(t, err)
	undated, err := domain.NewTask(userID, "Call mum", nil)
	require.NoError(t, err)

	render := func(task *domain.Task) string {
		r := httptest.NewRequest(http.MethodGet, "/task", nil)
		r = r.WithContext(shared.WithUserID(r.Context(), userID))
		rec := httptest.NewRecorder()
		rd.Render(rec, r, http.StatusOK, pageTask, &taskView{page: page{Title: task.Name}, Task: task})
		return rec.Body.String()
	}

	assert.Contains(t, render(dated), `<time datetime="2026-12-24T18:05">2026-12-24 18:05</time>`)
	assert.Contains(t, render(undated), "No due date")
	assert.NotContains(t, render(undated), "<time")
}

func TestRendererUnknownPage(t *testing.T) {
	t.Parallel()

	rd, err := NewRenderer(nil)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	rd.Render(rec, httptest.NewRequest(http.MethodGet, "/", nil), http.StatusOK, "missing.html", &errorView{})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestTaskURL(t *testing.T) {
	t.Parallel()

	task := &domain.Task{ID: uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8"), Name: "Buy milk & eggs"}
	assert.Equal(t, "/task?name=Buy+milk+%26+eggs&task_id=6ba7b810-9dad-11d1-80b4-00c04fd430c8", taskURL(task))
}

func TestFormatTimes(t *testing.T) {
	t.Parallel()

	at := time.Date(2026, 12, 24, 19, 5, 0, 0, time.FixedZone("CET", 3600))
	assert.Equal(t, "2026-12-24T18:05", formatInputTime(&at))
	assert.Equal(t, "2026-12-24 18:05", formatDisplayTime(&at))
	assert.Empty(t, formatInputTime(nil))
	assert.Empty(t, formatDisplayTime(nil))
}
