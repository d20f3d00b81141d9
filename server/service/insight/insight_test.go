package insight

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/calkins/teampulse/plugin/ai"
	"github.com/calkins/teampulse/store"
)

func TestCoachingReport(t *testing.T) {
	llm := &ai.MockLLMService{Response: "You're doing **well** this week."}
	generator := NewGenerator(llm)
	now := time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC)

	tasks := []*store.Task{
		{Description: "Ship exporter", Status: store.Completed, Employee: "Alice", Category: "Ops", Date: taskDate("2024-01-18")},
		{Description: "Review PRs", Status: store.Pending, Employee: "Alice", Category: "Ops"},
	}
	feedback := []*store.Feedback{
		{Person: "Alice", Content: "Great help on the launch", Date: taskDate("2024-01-15")},
	}
	report := generator.CoachingReport(context.Background(), "Alice", tasks, feedback, now)

	require.Equal(t, "Alice", report.Person)
	require.Equal(t, 2, report.TaskCount)
	require.Contains(t, report.Insights, "<strong>well</strong>")

	require.Len(t, llm.Prompts, 1)
	prompt := llm.Prompts[0]
	require.Contains(t, prompt, "CoachAI")
	require.Contains(t, prompt, "Alice")
	require.Contains(t, prompt, "Ship exporter (Status: Completed)")
	require.Contains(t, prompt, "Completion Rate: 50.0%")
	require.Contains(t, prompt, "Great help on the launch")
}

func TestProjectReport(t *testing.T) {
	llm := &ai.MockLLMService{Response: "1. HEALTH STATUS: fine"}
	generator := NewGenerator(llm)

	tasks := []*store.Task{
		{Description: "Migrate billing DB", Status: store.Blocked, Employee: "Bob"},
	}
	report := generator.ProjectReport(context.Background(), "Billing", tasks, time.Now())

	require.Equal(t, "Billing", report.Project)
	require.Len(t, llm.Prompts, 1)
	require.Contains(t, llm.Prompts[0], "ProjectAnalyst")
	require.Contains(t, llm.Prompts[0], "ANALYZE PROJECT 'Billing' TASKS")
	require.Contains(t, llm.Prompts[0], "(Employee: Bob)")
}

func TestReportDegradesOnLLMFailure(t *testing.T) {
	llm := &ai.MockLLMService{Err: errors.New("model overloaded")}
	generator := NewGenerator(llm)

	report := generator.CoachingReport(context.Background(), "Alice", nil, nil, time.Now())
	require.True(t, strings.Contains(report.Insights, UnableMessage),
		"insights = %q", report.Insights)
	require.NotNil(t, report.Stats)
}
