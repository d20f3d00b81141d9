package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calkins/teampulse/internal/profile"
	"github.com/calkins/teampulse/store"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	p := &profile.Profile{DSN: filepath.Join(t.TempDir(), "test.db")}
	db, err := NewDB(p)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestTaskRoundTrip(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	date := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	created, err := db.CreateTask(ctx, &store.Task{
		Description: "Write report",
		Status:      store.Pending,
		Employee:    "Alice",
		Category:    "Ops",
		Date:        &date,
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	tasks, err := db.ListTasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Write report", tasks[0].Description)
	assert.Equal(t, "2024-01-10", tasks[0].DateString())
	assert.False(t, tasks[0].ReminderSent)
}

func TestCreateTaskDefaultsCategory(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	_, err := db.CreateTask(ctx, &store.Task{Description: "Untagged work", Status: store.Pending})
	require.NoError(t, err)

	tasks, err := db.ListTasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, store.Uncategorized, tasks[0].Category)
}

func TestUpdateTask(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	created, err := db.CreateTask(ctx, &store.Task{Description: "Write report", Status: store.Pending})
	require.NoError(t, err)

	reminded := true
	err = db.UpdateTask(ctx, &store.UpdateTask{ID: created.ID, Status: store.Completed, ReminderSent: &reminded})
	require.NoError(t, err)

	tasks, err := db.ListTasks(ctx)
	require.NoError(t, err)
	assert.Equal(t, store.Completed, tasks[0].Status)
	assert.True(t, tasks[0].ReminderSent)
}

func TestUpdateMissingTask(t *testing.T) {
	db := newTestDB(t)
	err := db.UpdateTask(context.Background(), &store.UpdateTask{ID: "nope", Status: store.Completed})
	require.Error(t, err)
}

func TestFeedbackWindow(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	old := time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC)
	recent := time.Date(2024, 1, 9, 0, 0, 0, 0, time.UTC)
	require.NoError(t, db.CreateFeedback(ctx, &store.Feedback{Person: "Alice", Content: "too old", Date: &old}))
	require.NoError(t, db.CreateFeedback(ctx, &store.Feedback{Person: "alice", Content: "recent", Date: &recent}))
	require.NoError(t, db.CreateFeedback(ctx, &store.Feedback{Person: "Bob", Content: "other", Date: &recent}))

	entries, err := db.ListFeedback(ctx, "Alice", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "recent", entries[0].Content)
}
