package api

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/phrazzld/todolist/internal/api/shared"
	"github.com/phrazzld/todolist/internal/domain"
	"github.com/phrazzld/todolist/internal/platform/logger"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	pageIndex    = "index.html"
	pageRegister = "register.html"
	pageTask     = "task.html"
	pageEdit     = "edit.html"
	pageError    = "error.html"

	// Due dates travel through datetime-local inputs and are stored as UTC.
	inputTimeLayout   = "2006-01-02T15:04"
	displayTimeLayout = "2006-01-02 15:04"
)

// page holds the fields every template reads.
type page struct {
	Title    string
	LoggedIn bool
	Flashes  []shared.Flash
}

func (p *page) base() *page { return p }

// view is implemented by every page model through its embedded page.
type view interface {
	base() *page
}

type errorView struct {
	page
	Status  int
	Message string
	TraceID string
}

// Renderer executes the embedded HTML templates.
type Renderer struct {
	pages  map[string]*template.Template
	logger *slog.Logger
}

// NewRenderer parses every page template together with the shared layout.
func NewRenderer(logger *slog.Logger) (*Renderer, error) {
	if logger == nil {
		logger = slog.Default()
	}

	funcs := template.FuncMap{
		"taskURL":     taskURL,
		"inputTime":   formatInputTime,
		"displayTime": formatDisplayTime,
		"statusText":  http.StatusText,
	}

	pages := make(map[string]*template.Template)
	for _, name := range []string{pageIndex, pageRegister, pageTask, pageEdit, pageError} {
		tmpl, err := template.New(name).Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		pages[name] = tmpl
	}

	return &Renderer{
		pages:  pages,
		logger: logger.With(slog.String("component", "renderer")),
	}, nil
}

// Render writes the named page with the given status. Pending flash
// messages are consumed and shown ahead of any the view already carries.
func (rd *Renderer) Render(w http.ResponseWriter, r *http.Request, status int, name string, v view) {
	log := logger.FromContextOrDefault(r.Context(), rd.logger)

	tmpl, ok := rd.pages[name]
	if !ok {
		log.Error("unknown template", slog.String("template", name))
		shared.RespondWithError(w, r, http.StatusInternalServerError, "An unexpected error occurred")
		return
	}

	p := v.base()
	_, p.LoggedIn = shared.UserIDFromContext(r.Context())
	p.Flashes = append(shared.ConsumeFlashes(w, r), p.Flashes...)

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", v); err != nil {
		log.Error("failed to render template",
			slog.String("template", name),
			slog.String("error", err.Error()))
		shared.RespondWithError(w, r, http.StatusInternalServerError, "An unexpected error occurred")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		log.Debug("failed to write response", slog.String("error", err.Error()))
	}
}

// Error renders the error page.
func (rd *Renderer) Error(w http.ResponseWriter, r *http.Request, status int, message string) {
	rd.Render(w, r, status, pageError, &errorView{
		page:    page{Title: http.StatusText(status)},
		Status:  status,
		Message: message,
		TraceID: shared.GetTraceID(r.Context()),
	})
}

// taskURL links to a task's detail page. The name parameter is kept for
// links bookmarked from older versions of the app.
func taskURL(task *domain.Task) string {
	q := url.Values{}
	q.Set("task_id", task.ID.String())
	q.Set("name", task.Name)
	return "/task?" + q.Encode()
}

func formatInputTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(inputTimeLayout)
}

func formatDisplayTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(displayTimeLayout)
}
