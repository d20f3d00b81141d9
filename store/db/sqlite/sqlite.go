// Package sqlite implements a local record store driver, used in dev mode
// and tests where the hosted Notion database is unavailable.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/calkins/teampulse/internal/profile"
	"github.com/calkins/teampulse/store"
)

// DB is a sqlite-backed implementation of store.Driver.
type DB struct {
	db      *sql.DB
	profile *profile.Profile
}

// NewDB opens the sqlite database at the profile's DSN and ensures the schema.
func NewDB(profile *profile.Profile) (*DB, error) {
	if profile.DSN == "" {
		return nil, fmt.Errorf("dsn required")
	}

	db, err := sql.Open("sqlite", profile.DSN)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db %s: %w", profile.DSN, err)
	}

	d := &DB{db: db, profile: profile}
	if err := d.migrate(context.Background()); err != nil {
		return nil, fmt.Errorf("migrate sqlite schema: %w", err)
	}
	return d, nil
}

func (d *DB) GetDB() *sql.DB {
	return d.db
}

func (d *DB) Close() error {
	return d.db.Close()
}

func (d *DB) Ping(ctx context.Context) error {
	return d.db.PingContext(ctx)
}

func (d *DB) migrate(ctx context.Context) error {
	_, err := d.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS task (
			id TEXT PRIMARY KEY,
			description TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'Pending',
			employee TEXT NOT NULL DEFAULT '',
			category TEXT NOT NULL DEFAULT '',
			date TEXT,
			reminder_sent INTEGER NOT NULL DEFAULT 0
		);
		CREATE TABLE IF NOT EXISTS feedback (
			id TEXT PRIMARY KEY,
			person TEXT NOT NULL,
			content TEXT NOT NULL DEFAULT '',
			date TEXT
		);
	`)
	return err
}

func (d *DB) ListTasks(ctx context.Context) ([]*store.Task, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT id, description, status, employee, category, date, reminder_sent
		FROM task
		ORDER BY date ASC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*store.Task
	for rows.Next() {
		var task store.Task
		var status string
		var date sql.NullString
		if err := rows.Scan(&task.ID, &task.Description, &status, &task.Employee, &task.Category, &date, &task.ReminderSent); err != nil {
			return nil, err
		}
		task.Status = store.TaskStatus(status)
		if date.Valid && date.String != "" {
			if t, err := time.Parse("2006-01-02", date.String); err == nil {
				task.Date = &t
			}
		}
		tasks = append(tasks, &task)
	}
	return tasks, rows.Err()
}

func (d *DB) CreateTask(ctx context.Context, create *store.Task) (*store.Task, error) {
	id := uuid.New().String()
	var date any
	if create.Date != nil {
		date = create.DateString()
	}

	_, err := d.db.ExecContext(ctx, `
		INSERT INTO task (id, description, status, employee, category, date, reminder_sent)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, id, create.Description, string(create.Status), create.Employee, create.NormalizedCategory(), date, create.ReminderSent)
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	created := *create
	created.ID = id
	return &created, nil
}

func (d *DB) UpdateTask(ctx context.Context, update *store.UpdateTask) error {
	set, args := []string{"status = ?"}, []any{string(update.Status)}
	if update.ReminderSent != nil {
		set = append(set, "reminder_sent = ?")
		args = append(args, *update.ReminderSent)
	}
	args = append(args, update.ID)

	stmt := "UPDATE task SET " + strings.Join(set, ", ") + " WHERE id = ?"
	result, err := d.db.ExecContext(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("task not found: %s", update.ID)
	}
	return nil
}

func (d *DB) ListFeedback(ctx context.Context, person string, since time.Time) ([]*store.Feedback, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT person, content, date
		FROM feedback
		WHERE person = ? COLLATE NOCASE AND date >= ?
		ORDER BY date ASC
	`, person, since.Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("failed to list feedback: %w", err)
	}
	defer rows.Close()

	var entries []*store.Feedback
	for rows.Next() {
		var entry store.Feedback
		var date sql.NullString
		if err := rows.Scan(&entry.Person, &entry.Content, &date); err != nil {
			return nil, err
		}
		if date.Valid && date.String != "" {
			if t, err := time.Parse("2006-01-02", date.String); err == nil {
				entry.Date = &t
			}
		}
		entries = append(entries, &entry)
	}
	return entries, rows.Err()
}

// CreateFeedback inserts a feedback entry. Only the sqlite driver exposes
// this; the hosted feedback database is written by other tools.
func (d *DB) CreateFeedback(ctx context.Context, create *store.Feedback) error {
	var date any
	if create.Date != nil {
		date = create.Date.Format("2006-01-02")
	}
	_, err := d.db.ExecContext(ctx, `
		INSERT INTO feedback (id, person, content, date) VALUES (?, ?, ?, ?)
	`, uuid.New().String(), create.Person, create.Content, date)
	if err != nil {
		return fmt.Errorf("failed to create feedback: %w", err)
	}
	return nil
}

var _ store.Driver = (*DB)(nil)
