package reconcile

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/calkins/teampulse/plugin/ai"
	"github.com/calkins/teampulse/store"
)

// State is the terminal outcome of reconciling one task.
type State string

const (
	StateInserted State = "Inserted"
	StateUpdated  State = "Updated"
	StateSkipped  State = "Skipped"
	StateFailed   State = "Failed"
)

// Outcome records what happened to one incoming task.
type Outcome struct {
	Task      *store.Task `json:"task"`
	State     State       `json:"state"`
	MatchedID string      `json:"matchedId,omitempty"`
	Message   string      `json:"message,omitempty"`
}

// Result is the per-pass report: one outcome per incoming task plus an
// ordered human-readable progress log.
type Result struct {
	Outcomes []*Outcome `json:"outcomes"`
	Log      []string   `json:"log"`
}

func (r *Result) logf(format string, args ...any) {
	r.Log = append(r.Log, fmt.Sprintf(format, args...))
}

// Engine reconciles extracted tasks against the record store.
type Engine struct {
	store    *store.Store
	embedder *ai.Embedder
	config   Config
}

// NewEngine creates a reconciliation engine.
func NewEngine(s *store.Store, embedder *ai.Embedder, config Config) *Engine {
	return &Engine{store: s, embedder: embedder, config: config}
}

// Process reconciles a batch of extracted tasks sequentially. A failure on
// one task never aborts the rest; only failing to load the existing record
// set is fatal to the pass.
func (e *Engine) Process(ctx context.Context, tasks []*store.Task) (*Result, error) {
	result := &Result{}

	existing, err := e.store.ListTasks(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list existing tasks: %w", err)
	}
	result.logf("Loaded %d existing tasks", len(existing))

	// Candidate embeddings are resolved once per pass; the embedder's cache
	// makes repeat passes cheap.
	var candidateVectors map[string][]float32

	for _, task := range tasks {
		outcome := &Outcome{Task: task}
		result.Outcomes = append(result.Outcomes, outcome)

		if utf8.RuneCountInString(strings.TrimSpace(task.Description)) < e.config.MinTaskLength {
			outcome.State = StateSkipped
			outcome.Message = "description too short"
			result.logf("Skipped %q: description too short", task.Description)
			continue
		}

		tag := Classify(task)
		result.logf("Classified %q as %s", task.Description, tag)

		if tag.IsRecurringLike() {
			if match := FindExactMatch(task, existing); match != nil {
				e.applyUpdate(ctx, result, outcome, task, match, "exact match")
				continue
			}
		}

		vector := e.embedder.EmbedOne(ctx, task.Description)
		if len(vector) == 0 {
			e.applyInsert(ctx, result, outcome, task, "no embedding available")
			continue
		}

		if candidateVectors == nil {
			candidateVectors = e.embedder.EmbedMany(ctx, descriptions(existing))
		}

		best := e.config.FindBestMatch(task, vector, existing, candidateVectors, tag)
		if best != nil && best.Score > e.config.threshold(tag) {
			e.applyUpdate(ctx, result, outcome, task, best.Candidate,
				fmt.Sprintf("similarity %.3f", best.Score))
			continue
		}
		e.applyInsert(ctx, result, outcome, task, "no match above threshold")
	}

	return result, nil
}

func (e *Engine) applyUpdate(ctx context.Context, result *Result, outcome *Outcome, task, match *store.Task, reason string) {
	err := e.store.UpdateTask(ctx, &store.UpdateTask{ID: match.ID, Status: task.Status})
	if err != nil {
		outcome.State = StateFailed
		outcome.Message = err.Error()
		result.logf("Failed to update %q: %v", task.Description, err)
		slog.Warn("task update failed", "description", task.Description, "error", err)
		return
	}
	outcome.State = StateUpdated
	outcome.MatchedID = match.ID
	outcome.Message = reason
	result.logf("Updated %q (%s)", task.Description, reason)
}

func (e *Engine) applyInsert(ctx context.Context, result *Result, outcome *Outcome, task *store.Task, reason string) {
	created, err := e.store.CreateTask(ctx, task)
	if err != nil {
		outcome.State = StateFailed
		outcome.Message = err.Error()
		result.logf("Failed to insert %q: %v", task.Description, err)
		slog.Warn("task insert failed", "description", task.Description, "error", err)
		return
	}
	outcome.State = StateInserted
	if created != nil {
		outcome.MatchedID = created.ID
	}
	outcome.Message = reason
	result.logf("Inserted %q (%s)", task.Description, reason)
}

func descriptions(tasks []*store.Task) []string {
	texts := make([]string, 0, len(tasks))
	for _, task := range tasks {
		texts = append(texts, task.Description)
	}
	return texts
}
