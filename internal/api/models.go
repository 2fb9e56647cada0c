package api

import (
	"time"

	"github.com/phrazzld/todolist/internal/domain"
	"github.com/phrazzld/todolist/internal/service"
)

// Form structures. Fields bind by their `form` tag through shared.DecodeForm
// and are checked with validator tags.

// LoginForm is posted to / by anonymous users.
type LoginForm struct {
	Email    string `form:"email"        validate:"required,email"`
	Password string `form:"password,raw" validate:"required"`
}

// RegisterForm is posted to /register.
type RegisterForm struct {
	Name            string `form:"name"                 validate:"required,max=255"`
	Email           string `form:"email"                validate:"required,email,max=255"`
	Password        string `form:"password,raw"         validate:"required,min=8,max=72"`
	ConfirmPassword string `form:"confirm_password,raw" validate:"required,eqfield=Password"`
}

// TaskForm creates or edits a task. DueDate is the value of a
// datetime-local input and may be empty.
type TaskForm struct {
	Name    string `form:"task_name" validate:"required,max=255"`
	DueDate string `form:"due_date"  validate:"omitempty,datetime=2006-01-02T15:04"`
}

// Due parses DueDate as UTC. An empty or unparsable value yields nil.
func (f TaskForm) Due() *time.Time {
	if f.DueDate == "" {
		return nil
	}
	t, err := time.ParseInLocation(inputTimeLayout, f.DueDate, time.UTC)
	if err != nil {
		return nil
	}
	return &t
}

// taskFormFrom prefills the form from an existing task.
func taskFormFrom(task *domain.Task) TaskForm {
	return TaskForm{Name: task.Name, DueDate: formatInputTime(task.DueDate)}
}

// DetailForm creates or edits a detail.
type DetailForm struct {
	Subtask string `form:"subtask"         validate:"required,max=500"`
	Notes   string `form:"subtask_details" validate:"max=5000"`
}

// Page models.

type indexView struct {
	page
	LoginForm LoginForm
	TaskForm  TaskForm
	List      *service.TaskList
}

type registerView struct {
	page
	Form RegisterForm
}

type taskView struct {
	page
	Task    *domain.Task
	Details []*domain.Detail
	Form    DetailForm
}

type editView struct {
	page
	TaskName   string
	Task       *domain.Task
	Detail     *domain.Detail
	TaskForm   TaskForm
	DetailForm DetailForm
}
