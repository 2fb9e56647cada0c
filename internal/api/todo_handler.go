package api

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/phrazzld/todolist/internal/api/shared"
	"github.com/phrazzld/todolist/internal/domain"
	"github.com/phrazzld/todolist/internal/platform/logger"
	"github.com/phrazzld/todolist/internal/service"
)

// Query parameter values understood by /edit and /delete.
const (
	editTypeTask    = "task"
	editTypeSubtask = "subtask"
	tableTask       = "Task"
	tableDetail     = "Detail"
)

// TodoHandler handles the task and detail pages.
type TodoHandler struct {
	todos    service.TodoService
	renderer *Renderer
	logger   *slog.Logger
}

// NewTodoHandler creates a new TodoHandler with the given dependencies.
func NewTodoHandler(todos service.TodoService, renderer *Renderer, logger *slog.Logger) *TodoHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TodoHandler{
		todos:    todos,
		renderer: renderer,
		logger:   logger.With(slog.String("component", "todo_handler")),
	}
}

// Home handles GET /. Anonymous users get the login form; logged-in users
// get their task list.
func (h *TodoHandler) Home(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		h.renderer.Render(w, r, http.StatusOK, pageIndex, &indexView{page: page{Title: "Log In"}})
		return
	}

	list, err := h.todos.ListTasks(r.Context(), userID)
	if err != nil {
		respondWithServiceError(w, r, h.renderer, err)
		return
	}
	h.renderer.Render(w, r, http.StatusOK, pageIndex, &indexView{
		page: page{Title: "My Tasks"},
		List: list,
	})
}

// CreateTask handles POST / for logged-in users.
func (h *TodoHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	var form TaskForm
	if err := shared.DecodeForm(r, &form); err != nil {
		h.renderer.Error(w, r, http.StatusBadRequest, "Invalid form submission")
		return
	}
	if err := shared.ValidateRequest(&form); err != nil {
		flashValidation(w, r, err)
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	task, err := h.todos.CreateTask(r.Context(), userID, form.Name, form.Due())
	if err != nil {
		if domain.IsValidationError(err) {
			flashValidation(w, r, err)
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		respondWithServiceError(w, r, h.renderer, err)
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Debug("task created",
		slog.String("task_id", task.ID.String()))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// ShowTask handles GET /task?task_id=: the task's details and the form to
// add one.
func (h *TodoHandler) ShowTask(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := handleUserIDAndQueryUUID(w, r, "task_id", h.renderer)
	if !ok {
		return
	}

	task, err := h.todos.GetTask(r.Context(), userID, taskID)
	if err != nil {
		respondWithServiceError(w, r, h.renderer, err)
		return
	}
	details, err := h.todos.ListDetails(r.Context(), userID, taskID)
	if err != nil {
		respondWithServiceError(w, r, h.renderer, err)
		return
	}

	h.renderer.Render(w, r, http.StatusOK, pageTask, &taskView{
		page:    page{Title: task.Name},
		Task:    task,
		Details: details,
	})
}

// AddDetail handles POST /task?task_id= and returns to the task page.
func (h *TodoHandler) AddDetail(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := handleUserIDAndQueryUUID(w, r, "task_id", h.renderer)
	if !ok {
		return
	}

	var form DetailForm
	if err := shared.DecodeForm(r, &form); err != nil {
		h.renderer.Error(w, r, http.StatusBadRequest, "Invalid form submission")
		return
	}
	fallback := r.URL.RequestURI()
	if err := shared.ValidateRequest(&form); err != nil {
		flashValidation(w, r, err)
		redirectBack(w, r, fallback)
		return
	}

	if _, err := h.todos.AddDetail(r.Context(), userID, taskID, form.Subtask, form.Notes); err != nil {
		if domain.IsValidationError(err) {
			flashValidation(w, r, err)
			redirectBack(w, r, fallback)
			return
		}
		respondWithServiceError(w, r, h.renderer, err)
		return
	}
	redirectBack(w, r, fallback)
}

// ToggleCompleted handles GET /completed?task_id= or ?subtask_id= and
// returns to the referring page.
func (h *TodoHandler) ToggleCompleted(w http.ResponseWriter, r *http.Request) {
	param := "task_id"
	if r.URL.Query().Has("subtask_id") {
		param = "subtask_id"
	}
	userID, id, ok := handleUserIDAndQueryUUID(w, r, param, h.renderer)
	if !ok {
		return
	}

	var err error
	if param == "subtask_id" {
		_, err = h.todos.ToggleDetail(r.Context(), userID, id)
	} else {
		_, err = h.todos.ToggleTask(r.Context(), userID, id)
	}
	if err != nil {
		respondWithServiceError(w, r, h.renderer, err)
		return
	}
	redirectBack(w, r, "/")
}

// ShowEdit handles GET /edit?type=task|subtask&id=.
func (h *TodoHandler) ShowEdit(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := handleUserIDAndQueryUUID(w, r, "id", h.renderer)
	if !ok {
		return
	}

	switch r.URL.Query().Get("type") {
	case editTypeTask:
		task, err := h.todos.GetTask(r.Context(), userID, id)
		if err != nil {
			respondWithServiceError(w, r, h.renderer, err)
			return
		}
		h.renderEditTask(w, r, http.StatusOK, task, taskFormFrom(task))
	case editTypeSubtask:
		detail, task, err := h.detailWithTask(r, userID, id)
		if err != nil {
			respondWithServiceError(w, r, h.renderer, err)
			return
		}
		h.renderEditDetail(w, r, http.StatusOK, task, detail,
			DetailForm{Subtask: detail.Subtask, Notes: detail.Notes})
	default:
		respondWithServiceError(w, r, h.renderer, errUnknownEditType)
	}
}

// Edit handles POST /edit?type=task|subtask&id=. A task edit returns to the
// home page, a subtask edit to its task's page. An empty due date keeps the
// stored one.
func (h *TodoHandler) Edit(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := handleUserIDAndQueryUUID(w, r, "id", h.renderer)
	if !ok {
		return
	}

	switch r.URL.Query().Get("type") {
	case editTypeTask:
		h.editTask(w, r, userID, id)
	case editTypeSubtask:
		h.editDetail(w, r, userID, id)
	default:
		respondWithServiceError(w, r, h.renderer, errUnknownEditType)
	}
}

func (h *TodoHandler) editTask(w http.ResponseWriter, r *http.Request, userID, taskID uuid.UUID) {
	var form TaskForm
	if err := shared.DecodeForm(r, &form); err != nil {
		h.renderer.Error(w, r, http.StatusBadRequest, "Invalid form submission")
		return
	}

	verr := shared.ValidateRequest(&form)
	if verr == nil {
		_, err := h.todos.UpdateTask(r.Context(), userID, taskID, form.Name, form.Due())
		if err == nil {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		if !domain.IsValidationError(err) {
			respondWithServiceError(w, r, h.renderer, err)
			return
		}
		verr = err
	}

	task, err := h.todos.GetTask(r.Context(), userID, taskID)
	if err != nil {
		respondWithServiceError(w, r, h.renderer, err)
		return
	}
	h.renderEditTask(w, r, http.StatusUnprocessableEntity, task, form, validationFlashes(verr)...)
}

func (h *TodoHandler) editDetail(w http.ResponseWriter, r *http.Request, userID, detailID uuid.UUID) {
	var form DetailForm
	if err := shared.DecodeForm(r, &form); err != nil {
		h.renderer.Error(w, r, http.StatusBadRequest, "Invalid form submission")
		return
	}

	verr := shared.ValidateRequest(&form)
	if verr == nil {
		_, err := h.todos.UpdateDetail(r.Context(), userID, detailID, form.Subtask, form.Notes)
		if err != nil && !domain.IsValidationError(err) {
			respondWithServiceError(w, r, h.renderer, err)
			return
		}
		verr = err
	}

	detail, task, err := h.detailWithTask(r, userID, detailID)
	if err != nil {
		respondWithServiceError(w, r, h.renderer, err)
		return
	}
	if verr == nil {
		http.Redirect(w, r, taskURL(task), http.StatusSeeOther)
		return
	}
	h.renderEditDetail(w, r, http.StatusUnprocessableEntity, task, detail, form, validationFlashes(verr)...)
}

// Delete handles GET /delete?table=Detail|Task&id=. Deleting a detail
// returns to the referring page while the task still has details, and to
// the home page otherwise.
func (h *TodoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := handleUserIDAndQueryUUID(w, r, "id", h.renderer)
	if !ok {
		return
	}

	switch r.URL.Query().Get("table") {
	case tableDetail:
		taskID, remaining, err := h.todos.DeleteDetail(r.Context(), userID, id)
		if err != nil {
			respondWithServiceError(w, r, h.renderer, err)
			return
		}
		logger.FromContextOrDefault(r.Context(), h.logger).Debug("detail deleted",
			slog.String("detail_id", id.String()),
			slog.String("task_id", taskID.String()),
			slog.Int("remaining", remaining))
		if remaining > 0 {
			redirectBack(w, r, "/")
			return
		}
	case tableTask:
		if err := h.todos.DeleteTask(r.Context(), userID, id); err != nil {
			respondWithServiceError(w, r, h.renderer, err)
			return
		}
	default:
		respondWithServiceError(w, r, h.renderer, errUnknownTable)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Health handles GET /health.
func Health(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithText(w, http.StatusOK, "OK")
}

// NotFound renders the error page for unknown paths.
func (h *TodoHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.renderer.Error(w, r, http.StatusNotFound, "Page not found")
}

// ByLoginState dispatches to anonymous or loggedIn depending on whether the
// request carries a session. POST / is both the login form and the new-task
// form.
func ByLoginState(anonymous, loggedIn http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := getUserIDFromContext(r); ok {
			loggedIn(w, r)
			return
		}
		anonymous(w, r)
	}
}

var (
	errUnknownEditType = domain.NewValidationError("type", "must be task or subtask", domain.ErrValidation)
	errUnknownTable    = domain.NewValidationError("table", "must be Task or Detail", domain.ErrValidation)
)

func (h *TodoHandler) detailWithTask(
	r *http.Request,
	userID, detailID uuid.UUID,
) (*domain.Detail, *domain.Task, error) {
	detail, err := h.todos.GetDetail(r.Context(), userID, detailID)
	if err != nil {
		return nil, nil, err
	}
	task, err := h.todos.GetTask(r.Context(), userID, detail.TaskID)
	if err != nil {
		return nil, nil, err
	}
	return detail, task, nil
}

func (h *TodoHandler) renderEditTask(
	w http.ResponseWriter,
	r *http.Request,
	status int,
	task *domain.Task,
	form TaskForm,
	flashes ...shared.Flash,
) {
	h.renderer.Render(w, r, status, pageEdit, &editView{
		page:     page{Title: "Edit " + task.Name, Flashes: flashes},
		TaskName: task.Name,
		Task:     task,
		TaskForm: form,
	})
}

func (h *TodoHandler) renderEditDetail(
	w http.ResponseWriter,
	r *http.Request,
	status int,
	task *domain.Task,
	detail *domain.Detail,
	form DetailForm,
	flashes ...shared.Flash,
) {
	h.renderer.Render(w, r, status, pageEdit, &editView{
		page:       page{Title: "Edit " + detail.Subtask, Flashes: flashes},
		TaskName:   task.Name,
		Task:       task,
		Detail:     detail,
		DetailForm: form,
	})
}
