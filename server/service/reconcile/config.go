// Package reconcile decides, for each newly reported task, whether it is a
// new record or an update to an existing one. Recurring-like tasks are
// matched exactly first; everything else goes through embedding similarity
// with metadata-adjusted scoring.
package reconcile

// Config holds the tunable matching parameters. The defaults were tuned
// empirically, not derived, so they stay configurable.
type Config struct {
	// SimilarityThreshold is the minimum adjusted score for a non-recurring
	// task to count as an update to an existing record.
	SimilarityThreshold float64
	// RecurringThreshold is the stricter minimum for recurring-like tasks
	// falling through to similarity matching.
	RecurringThreshold float64
	// EmployeeBonus is added when the candidate's employee matches.
	EmployeeBonus float64
	// CategoryBonus is added when the candidate's category matches.
	CategoryBonus float64
	// RecurringDatePenalty is subtracted when a recurring-like task's date
	// differs from the candidate's.
	RecurringDatePenalty float64
	// MinTaskLength is the minimum description length for a task to be
	// processed at all.
	MinTaskLength int
}

// DefaultConfig returns the standard matching parameters.
func DefaultConfig() Config {
	return Config{
		SimilarityThreshold:  0.85,
		RecurringThreshold:   0.90,
		EmployeeBonus:        0.05,
		CategoryBonus:        0.05,
		RecurringDatePenalty: 0.10,
		MinTaskLength:        5,
	}
}

// threshold returns the match threshold appropriate for the task type.
func (c Config) threshold(tag TaskType) float64 {
	if tag.IsRecurringLike() {
		return c.RecurringThreshold
	}
	return c.SimilarityThreshold
}
