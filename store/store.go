package store

import (
	"context"
	"sort"
	"time"

	"github.com/calkins/teampulse/internal/profile"
	"github.com/calkins/teampulse/store/cache"
)

const taskListCacheKey = "tasks"

// Store provides access to the task record store.
type Store struct {
	profile *profile.Profile
	driver  Driver

	// taskCache keeps the most recent full task list for a short TTL so
	// that dashboard reads do not refetch the hosted database every time.
	taskCache *cache.Cache[[]*Task]
}

// New creates a new instance of Store.
func New(driver Driver, profile *profile.Profile) *Store {
	return &Store{
		driver:    driver,
		profile:   profile,
		taskCache: cache.New[[]*Task](time.Minute),
	}
}

func (s *Store) GetDriver() Driver {
	return s.driver
}

func (s *Store) Close() error {
	return s.driver.Close()
}

// Ping verifies connectivity to the record store backend.
func (s *Store) Ping(ctx context.Context) error {
	return s.driver.Ping(ctx)
}

// ListTasks returns every task, serving from the short-lived cache when fresh.
func (s *Store) ListTasks(ctx context.Context) ([]*Task, error) {
	if tasks, ok := s.taskCache.Get(taskListCacheKey); ok {
		return tasks, nil
	}
	tasks, err := s.driver.ListTasks(ctx)
	if err != nil {
		return nil, err
	}
	s.taskCache.Set(taskListCacheKey, tasks)
	return tasks, nil
}

// CreateTask inserts a new task and invalidates the task list cache.
func (s *Store) CreateTask(ctx context.Context, create *Task) (*Task, error) {
	task, err := s.driver.CreateTask(ctx, create)
	if err != nil {
		return nil, err
	}
	s.taskCache.Delete(taskListCacheKey)
	return task, nil
}

// UpdateTask applies an update and invalidates the task list cache.
func (s *Store) UpdateTask(ctx context.Context, update *UpdateTask) error {
	if err := s.driver.UpdateTask(ctx, update); err != nil {
		return err
	}
	s.taskCache.Delete(taskListCacheKey)
	return nil
}

// ListFeedback returns peer feedback for a person on or after since.
func (s *Store) ListFeedback(ctx context.Context, person string, since time.Time) ([]*Feedback, error) {
	return s.driver.ListFeedback(ctx, person, since)
}

// ListCategories returns the distinct categories across all tasks, sorted.
// An empty store yields the Uncategorized fallback.
func (s *Store) ListCategories(ctx context.Context) ([]string, error) {
	tasks, err := s.ListTasks(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var categories []string
	for _, task := range tasks {
		category := task.NormalizedCategory()
		if !seen[category] {
			seen[category] = true
			categories = append(categories, category)
		}
	}
	if len(categories) == 0 {
		return []string{Uncategorized}, nil
	}
	sort.Strings(categories)
	return categories, nil
}

// ListStaleTasks returns tasks that are not completed, older than the given
// number of days, and have not had a reminder sent yet.
func (s *Store) ListStaleTasks(ctx context.Context, days int, now time.Time) ([]*Task, error) {
	tasks, err := s.ListTasks(ctx)
	if err != nil {
		return nil, err
	}

	var stale []*Task
	for _, task := range tasks {
		if task.Status == Completed || task.ReminderSent {
			continue
		}
		if task.DaysOld(now) > days {
			stale = append(stale, task)
		}
	}
	return stale, nil
}

// MarkTaskReminded sets the reminder flag for a task.
func (s *Store) MarkTaskReminded(ctx context.Context, id string, status TaskStatus) error {
	reminded := true
	return s.UpdateTask(ctx, &UpdateTask{
		ID:           id,
		Status:       status,
		ReminderSent: &reminded,
	})
}
