// Package insight computes task statistics and turns them into prose
// coaching and project-health reports via the language model.
package insight

import (
	"time"

	"github.com/calkins/teampulse/store"
)

// agingCutoffDays is the age beyond which an open task counts as long-running.
const agingCutoffDays = 7

// TaskStats summarizes a set of tasks for reports and prompts.
type TaskStats struct {
	Count                int            `json:"count"`
	StatusDistribution   map[string]int `json:"statusDistribution"`
	CategoryDistribution map[string]int `json:"categoryDistribution"`
	EmployeeDistribution map[string]int `json:"employeeDistribution"`
	CompletionRate       float64        `json:"completionRate"`
	AverageAgeDays       float64        `json:"averageAgeDays"`
	MaxAgeDays           int            `json:"maxAgeDays"`
	TasksOlderThanWeek   int            `json:"tasksOlderThanWeek"`
}

// ComputeStats derives distribution and age statistics from a task set.
func ComputeStats(tasks []*store.Task, now time.Time) *TaskStats {
	stats := &TaskStats{
		Count:                len(tasks),
		StatusDistribution:   make(map[string]int),
		CategoryDistribution: make(map[string]int),
		EmployeeDistribution: make(map[string]int),
	}
	if len(tasks) == 0 {
		return stats
	}

	var completed, dated, ageSum int
	for _, task := range tasks {
		stats.StatusDistribution[string(task.Status)]++
		stats.CategoryDistribution[task.NormalizedCategory()]++
		if task.Employee != "" {
			stats.EmployeeDistribution[task.Employee]++
		}
		if task.Status == store.Completed {
			completed++
		}
		if task.Date != nil {
			age := task.DaysOld(now)
			dated++
			ageSum += age
			if age > stats.MaxAgeDays {
				stats.MaxAgeDays = age
			}
			if age > agingCutoffDays {
				stats.TasksOlderThanWeek++
			}
		}
	}

	stats.CompletionRate = float64(completed) / float64(len(tasks))
	if dated > 0 {
		stats.AverageAgeDays = float64(ageSum) / float64(dated)
	}
	return stats
}

// ProjectHealth is the rule-based health assessment for one project.
type ProjectHealth struct {
	Project   string     `json:"project"`
	Score     float64    `json:"score"`
	Status    string     `json:"status"`
	TaskCount int        `json:"taskCount"`
	Stats     *TaskStats `json:"stats"`
}

// ComputeProjectHealth scores a project from its completion and blocked
// rates. Completed tasks raise the score, blocked ones cut it.
func ComputeProjectHealth(project string, tasks []*store.Task, now time.Time) *ProjectHealth {
	health := &ProjectHealth{Project: project, TaskCount: len(tasks)}
	health.Stats = ComputeStats(tasks, now)
	if len(tasks) == 0 {
		health.Status = "Unknown"
		return health
	}

	completed := health.Stats.StatusDistribution[string(store.Completed)]
	blocked := health.Stats.StatusDistribution[string(store.Blocked)]
	total := float64(len(tasks))

	score := float64(completed)/total*100 - float64(blocked)/total*50
	health.Score = clamp(score, 0, 100)
	switch {
	case health.Score >= 75:
		health.Status = "Healthy"
	case health.Score >= 50:
		health.Status = "Needs Attention"
	default:
		health.Status = "At Risk"
	}
	return health
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
