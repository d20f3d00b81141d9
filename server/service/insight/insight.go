package insight

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/calkins/teampulse/plugin/ai"
	"github.com/calkins/teampulse/plugin/markdown"
	"github.com/calkins/teampulse/store"
)

// UnableMessage is returned in place of prose when the language model fails.
const UnableMessage = "Unable to generate insights at this time."

// Report is a generated prose insight plus the statistics behind it.
type Report struct {
	Person      string     `json:"person,omitempty"`
	Project     string     `json:"project,omitempty"`
	Insights    string     `json:"insights"`
	InsightsRaw string     `json:"-"`
	Stats       *TaskStats `json:"stats"`
	TaskCount   int        `json:"taskCount"`
	GeneratedAt time.Time  `json:"generatedAt"`
}

// Generator produces coaching and project reports via the language model.
type Generator struct {
	llm ai.LLMService
}

// NewGenerator creates a report generator.
func NewGenerator(llm ai.LLMService) *Generator {
	return &Generator{llm: llm}
}

// CoachingReport generates a conversational coaching insight for one person's
// tasks and recent peer feedback. LLM failure degrades to a fixed message,
// never an error.
func (g *Generator) CoachingReport(ctx context.Context, person string, tasks []*store.Task, feedback []*store.Feedback, now time.Time) *Report {
	report := &Report{
		Person:      person,
		Stats:       ComputeStats(tasks, now),
		TaskCount:   len(tasks),
		GeneratedAt: now,
	}
	report.InsightsRaw = g.complete(ctx, coachingPrompt(person, tasks, feedback, report.Stats))
	report.Insights = renderInsights(report.InsightsRaw)
	return report
}

// ProjectReport generates a three-part project health insight.
func (g *Generator) ProjectReport(ctx context.Context, project string, tasks []*store.Task, now time.Time) *Report {
	report := &Report{
		Project:     project,
		Stats:       ComputeStats(tasks, now),
		TaskCount:   len(tasks),
		GeneratedAt: now,
	}
	report.InsightsRaw = g.complete(ctx, projectPrompt(project, tasks, report.Stats))
	report.Insights = renderInsights(report.InsightsRaw)
	return report
}

func (g *Generator) complete(ctx context.Context, prompt string) string {
	text, err := g.llm.Complete(ctx, prompt)
	if err != nil {
		slog.Warn("insight generation failed", "error", err)
		return UnableMessage
	}
	return text
}

func renderInsights(raw string) string {
	html, err := markdown.ToHTML(raw)
	if err != nil {
		slog.Warn("failed to render insight markdown", "error", err)
		return raw
	}
	return html
}

func coachingPrompt(person string, tasks []*store.Task, feedback []*store.Feedback, stats *TaskStats) string {
	var b strings.Builder
	b.WriteString("You are CoachAI, a friendly and helpful workplace assistant who offers coaching insights in a conversational, supportive tone.\n\n")
	fmt.Fprintf(&b, "ANALYZE THE FOLLOWING TASKS FOR %s:\n\n", person)
	writeTaskLines(&b, tasks, false)
	b.WriteString("\nBASIC STATISTICS:\n")
	fmt.Fprintf(&b, "- Total Tasks: %d\n", stats.Count)
	fmt.Fprintf(&b, "- Completion Rate: %.1f%%\n", stats.CompletionRate*100)
	fmt.Fprintf(&b, "- Status Distribution: %v\n", stats.StatusDistribution)
	if len(feedback) > 0 {
		b.WriteString("\nRECENT PEER FEEDBACK:\n")
		for _, entry := range feedback {
			fmt.Fprintf(&b, "- %s", entry.Content)
			if entry.Date != nil {
				fmt.Fprintf(&b, " (%s)", entry.Date.Format("2006-01-02"))
			}
			b.WriteString("\n")
		}
	}
	b.WriteString(`
FIRST, ANALYZE THIS DATA TO IDENTIFY PATTERNS:
- Task completion rates and patterns
- Work distribution across different projects
- Recent productivity trends

THEN, PROVIDE INSIGHTS IN A CONVERSATIONAL TONE, INCLUDING:
1. A specific strength or accomplishment to recognize
2. Specific instances that require immediate attention
3. A friendly, practical suggestion that could help them improve

IMPORTANT STYLE GUIDANCE:
- Write as a helpful colleague, not a formal report
- Use personal language ("I notice...", "You're doing well at...")
- Keep it brief and conversational (3-4 sentences per insight)
- Sound encouraging and supportive throughout
`)
	return b.String()
}

func projectPrompt(project string, tasks []*store.Task, stats *TaskStats) string {
	var b strings.Builder
	b.WriteString("You are ProjectAnalyst, a strategic advisor on project management and team productivity.\n\n")
	fmt.Fprintf(&b, "ANALYZE PROJECT '%s' TASKS:\n", project)
	writeTaskLines(&b, tasks, true)
	b.WriteString("\nPROJECT METADATA:\n")
	fmt.Fprintf(&b, "- Total Tasks: %d\n", stats.Count)
	fmt.Fprintf(&b, "- Status Distribution: %v\n", stats.StatusDistribution)
	fmt.Fprintf(&b, "- Team Distribution: %v\n", stats.EmployeeDistribution)
	b.WriteString(`
FIRST, PERFORM A METADATA ANALYSIS ON THE PROJECT:
- Calculate key project metrics: completion rate, velocity, team distribution
- Identify how many tasks have been open for more than 7 days
- Determine if certain team members have disproportionate workloads
- Identify any bottlenecks or common blockers

THEN, PROVIDE A THREE-PART INSIGHT:
1. HEALTH STATUS: One sentence on overall project health
2. KEY RISK: The most critical item requiring attention
3. STRATEGIC RECOMMENDATION: One specific action to improve project health

Keep your response focused, data-driven, and immediately actionable.
`)
	return b.String()
}

func writeTaskLines(b *strings.Builder, tasks []*store.Task, includeEmployee bool) {
	for _, task := range tasks {
		fmt.Fprintf(b, "- %s (Status: %s)", task.Description, task.Status)
		if includeEmployee && task.Employee != "" {
			fmt.Fprintf(b, " (Employee: %s)", task.Employee)
		}
		if task.Date != nil {
			fmt.Fprintf(b, " (Date: %s)", task.DateString())
		}
		if !includeEmployee {
			fmt.Fprintf(b, " (Category: %s)", task.NormalizedCategory())
		}
		b.WriteString("\n")
	}
}
