package store

import (
	"time"
)

// TaskStatus is the workflow status of a task.
type TaskStatus string

const (
	Pending    TaskStatus = "Pending"
	InProgress TaskStatus = "In Progress"
	Completed  TaskStatus = "Completed"
	Blocked    TaskStatus = "Blocked"
	NoStatus   TaskStatus = "No Status"
)

// Uncategorized is the category applied to tasks without an explicit one.
const Uncategorized = "Uncategorized"

// Task represents a single work item in the record store.
// ID is empty for tasks that have not been persisted yet.
type Task struct {
	ID           string
	Description  string
	Status       TaskStatus
	Employee     string
	Category     string
	Date         *time.Time
	ReminderSent bool
}

// DateString returns the task date normalized to YYYY-MM-DD, or "" when the
// task has no date. Used wherever calendar-day equality matters.
func (t *Task) DateString() string {
	if t.Date == nil {
		return ""
	}
	return t.Date.Format("2006-01-02")
}

// NormalizedCategory returns the category with the empty-value default applied.
func (t *Task) NormalizedCategory() string {
	if t.Category == "" {
		return Uncategorized
	}
	return t.Category
}

// DaysOld returns the age of the task in whole days relative to now.
// Tasks without a date are treated as zero days old.
func (t *Task) DaysOld(now time.Time) int {
	if t.Date == nil {
		return 0
	}
	return int(now.Sub(*t.Date).Hours() / 24)
}

// UpdateTask holds the fields applied when updating an existing task.
// Only status is always written; other fields are applied when non-nil.
type UpdateTask struct {
	ID           string
	Status       TaskStatus
	ReminderSent *bool
}

// Feedback is a peer feedback entry associated with a person.
type Feedback struct {
	Person  string
	Content string
	Date    *time.Time
}
