package store

import (
	"context"
	"time"
)

// Driver is an interface for record store drivers.
// It contains all methods a task database backend should implement.
type Driver interface {
	// Ping verifies connectivity to the backend.
	Ping(ctx context.Context) error

	// ListTasks returns every task in the store. Backends with paginated
	// APIs must follow all pages and return the concatenated result.
	ListTasks(ctx context.Context) ([]*Task, error)

	// CreateTask inserts a new task and returns it with its assigned ID.
	CreateTask(ctx context.Context, create *Task) (*Task, error)

	// UpdateTask applies the given update to an existing task.
	UpdateTask(ctx context.Context, update *UpdateTask) error

	// ListFeedback returns peer feedback for a person on or after since.
	ListFeedback(ctx context.Context, person string, since time.Time) ([]*Feedback, error)

	Close() error
}
