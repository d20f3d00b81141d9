package reconcile

import (
	"math"

	"github.com/calkins/teampulse/store"
)

// Match is the result of scoring a new task against existing candidates.
type Match struct {
	Candidate *store.Task
	Score     float64
}

// CosineSimilarity computes the cosine of the angle between two vectors.
// Mismatched or empty vectors score zero.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}

// FindExactMatch returns the first candidate whose description, employee,
// and normalized calendar date all equal the new task's. Dates are compared
// as YYYY-MM-DD strings so different representations of the same day match.
func FindExactMatch(task *store.Task, candidates []*store.Task) *store.Task {
	for _, candidate := range candidates {
		if candidate.Description == task.Description &&
			candidate.Employee == task.Employee &&
			candidate.DateString() == task.DateString() {
			return candidate
		}
	}
	return nil
}

// AdjustedScore applies metadata bonuses and penalties on top of the base
// cosine similarity. The result is unbounded by design.
func (c Config) AdjustedScore(base float64, task, candidate *store.Task, tag TaskType) float64 {
	score := base
	if candidate.Employee == task.Employee {
		score += c.EmployeeBonus
	}
	if candidate.Category == task.Category {
		score += c.CategoryBonus
	}
	if tag.IsRecurringLike() && candidate.DateString() != task.DateString() {
		score -= c.RecurringDatePenalty
	}
	return score
}

// FindBestMatch scores the task against every candidate with a resolvable
// embedding and returns the highest-scoring one. Candidates without an
// embedding are skipped. Equal scores keep the first candidate seen.
func (c Config) FindBestMatch(task *store.Task, taskVector []float32, candidates []*store.Task, embeddings map[string][]float32, tag TaskType) *Match {
	var best *Match
	for _, candidate := range candidates {
		vector, ok := embeddings[candidate.Description]
		if !ok || len(vector) == 0 {
			continue
		}
		score := c.AdjustedScore(CosineSimilarity(taskVector, vector), task, candidate, tag)
		if best == nil || score > best.Score {
			best = &Match{Candidate: candidate, Score: score}
		}
	}
	return best
}
