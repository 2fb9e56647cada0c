package reminder

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/todolist/internal/platform/mail"
)

// Subject is the subject line of every reminder email.
const Subject = "Tasks Reminder"

const (
	bodyHeader = "TASKS TO DO\n\n"
	dueLayout  = "2006-01-02 15:04"
)

// DueTask is one line of a reminder.
type DueTask struct {
	Name    string
	DueDate time.Time
}

// Recipient is an account and the tasks it should be reminded of.
type Recipient struct {
	UserID uuid.UUID
	Name   string
	Email  string
	Tasks  []DueTask
}

// Compose builds one message per recipient. A recipient with no due tasks
// still gets the header; recipients without an address are skipped.
func Compose(recipients []Recipient) []mail.Message {
	msgs := make([]mail.Message, 0, len(recipients))
	for _, r := range recipients {
		if r.Email == "" {
			continue
		}
		msgs = append(msgs, mail.Message{
			To:      r.Email,
			Subject: Subject,
			Body:    composeBody(r.Tasks),
		})
	}
	return msgs
}

// composeBody numbers tasks from 1 in due-date order.
func composeBody(tasks []DueTask) string {
	sorted := append([]DueTask(nil), tasks...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].DueDate.Before(sorted[j].DueDate)
	})

	var b strings.Builder
	b.WriteString(bodyHeader)
	for i, t := range sorted {
		fmt.Fprintf(&b, "%d. %s: %s\n", i+1, t.DueDate.UTC().Format(dueLayout), t.Name)
	}
	return b.String()
}
