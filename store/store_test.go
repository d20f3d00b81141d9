package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/calkins/teampulse/internal/profile"
)

type fakeDriver struct {
	tasks     []*Task
	listCalls int
}

func (d *fakeDriver) Ping(context.Context) error { return nil }

func (d *fakeDriver) ListTasks(context.Context) ([]*Task, error) {
	d.listCalls++
	out := make([]*Task, len(d.tasks))
	copy(out, d.tasks)
	return out, nil
}

func (d *fakeDriver) CreateTask(_ context.Context, create *Task) (*Task, error) {
	created := *create
	created.ID = fmt.Sprintf("id-%d", len(d.tasks)+1)
	d.tasks = append(d.tasks, &created)
	return &created, nil
}

func (d *fakeDriver) UpdateTask(_ context.Context, update *UpdateTask) error {
	for _, task := range d.tasks {
		if task.ID == update.ID {
			task.Status = update.Status
			if update.ReminderSent != nil {
				task.ReminderSent = *update.ReminderSent
			}
			return nil
		}
	}
	return fmt.Errorf("task not found: %s", update.ID)
}

func (d *fakeDriver) ListFeedback(context.Context, string, time.Time) ([]*Feedback, error) {
	return nil, nil
}

func (d *fakeDriver) Close() error { return nil }

func newTestStore(driver Driver) *Store {
	return New(driver, &profile.Profile{Mode: "dev"})
}

func TestListTasksUsesCache(t *testing.T) {
	driver := &fakeDriver{tasks: []*Task{{ID: "1", Description: "a"}}}
	s := newTestStore(driver)
	ctx := context.Background()

	if _, err := s.ListTasks(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := s.ListTasks(ctx); err != nil {
		t.Fatal(err)
	}
	if driver.listCalls != 1 {
		t.Errorf("driver queried %d times, want 1", driver.listCalls)
	}
}

func TestCreateTaskInvalidatesCache(t *testing.T) {
	driver := &fakeDriver{}
	s := newTestStore(driver)
	ctx := context.Background()

	if _, err := s.ListTasks(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := s.CreateTask(ctx, &Task{Description: "new task", Status: Pending}); err != nil {
		t.Fatal(err)
	}
	tasks, err := s.ListTasks(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(tasks) != 1 {
		t.Fatalf("got %d tasks after create, want 1", len(tasks))
	}
	if driver.listCalls != 2 {
		t.Errorf("driver queried %d times, want 2", driver.listCalls)
	}
}

func TestListCategories(t *testing.T) {
	driver := &fakeDriver{tasks: []*Task{
		{ID: "1", Category: "Ops"},
		{ID: "2", Category: ""},
		{ID: "3", Category: "Ops"},
		{ID: "4", Category: "Billing"},
	}}
	s := newTestStore(driver)

	categories, err := s.ListCategories(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"Billing", "Ops", Uncategorized}
	if len(categories) != len(want) {
		t.Fatalf("got %v, want %v", categories, want)
	}
	for i := range want {
		if categories[i] != want[i] {
			t.Fatalf("got %v, want %v", categories, want)
		}
	}
}

func TestListCategoriesEmpty(t *testing.T) {
	s := newTestStore(&fakeDriver{})
	categories, err := s.ListCategories(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(categories) != 1 || categories[0] != Uncategorized {
		t.Errorf("got %v, want [%s]", categories, Uncategorized)
	}
}

func TestListStaleTasks(t *testing.T) {
	now := time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC)
	old := now.AddDate(0, 0, -5)
	fresh := now.AddDate(0, 0, -1)
	driver := &fakeDriver{tasks: []*Task{
		{ID: "1", Description: "old pending", Status: Pending, Date: &old},
		{ID: "2", Description: "old completed", Status: Completed, Date: &old},
		{ID: "3", Description: "old reminded", Status: Pending, Date: &old, ReminderSent: true},
		{ID: "4", Description: "fresh pending", Status: Pending, Date: &fresh},
		{ID: "5", Description: "no date", Status: Pending},
	}}
	s := newTestStore(driver)

	stale, err := s.ListStaleTasks(context.Background(), 2, now)
	if err != nil {
		t.Fatal(err)
	}
	if len(stale) != 1 || stale[0].ID != "1" {
		t.Errorf("stale = %v, want only task 1", stale)
	}
}

func TestMarkTaskReminded(t *testing.T) {
	driver := &fakeDriver{tasks: []*Task{{ID: "1", Status: InProgress}}}
	s := newTestStore(driver)

	if err := s.MarkTaskReminded(context.Background(), "1", InProgress); err != nil {
		t.Fatal(err)
	}
	if !driver.tasks[0].ReminderSent {
		t.Error("ReminderSent not set")
	}
	if driver.tasks[0].Status != InProgress {
		t.Errorf("status changed to %q", driver.tasks[0].Status)
	}
}
