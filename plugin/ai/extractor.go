package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/calkins/teampulse/store"
)

// Extractor turns free-text work updates into task record drafts via the LLM.
type Extractor struct {
	llm LLMService
}

// NewExtractor creates a new extractor.
func NewExtractor(llm LLMService) *Extractor {
	return &Extractor{llm: llm}
}

const extractionPromptTemplate = `You are a precise task extraction assistant.

Extract every discrete work task from the update below. Reply with ONLY a JSON
array, no prose, where each element has these string fields:
- "task": short task description
- "status": one of "Pending", "In Progress", "Completed", "Blocked"
- "employee": name of the person who reported or owns the task
- "category": project or grouping label, "" if not stated
- "date": date of the task as YYYY-MM-DD, "" if not stated (today is %s)

UPDATE:
%s`

// extractedTask is the wire shape the LLM is asked to produce.
type extractedTask struct {
	Task     string `json:"task"`
	Status   string `json:"status"`
	Employee string `json:"employee"`
	Category string `json:"category"`
	Date     string `json:"date"`
}

// Extract produces task drafts (no IDs) from raw update text. Returns an
// empty slice when the model yields nothing usable.
func (e *Extractor) Extract(ctx context.Context, updateText string, now time.Time) ([]*store.Task, error) {
	if strings.TrimSpace(updateText) == "" {
		return nil, nil
	}

	prompt := fmt.Sprintf(extractionPromptTemplate, now.Format("2006-01-02"), updateText)
	response, err := e.llm.Complete(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("task extraction failed: %w", err)
	}

	drafts := parseExtractedTasks(response)
	if len(drafts) == 0 {
		slog.Debug("no tasks parsed from extraction response", "response_length", len(response))
	}
	return drafts, nil
}

// parseExtractedTasks pulls the JSON array out of the model response, which
// may be wrapped in prose or a markdown code fence.
func parseExtractedTasks(response string) []*store.Task {
	startIdx := strings.Index(response, "[")
	endIdx := strings.LastIndex(response, "]")
	if startIdx == -1 || endIdx <= startIdx {
		return nil
	}

	var raw []extractedTask
	if err := json.Unmarshal([]byte(response[startIdx:endIdx+1]), &raw); err != nil {
		slog.Debug("failed to parse extraction JSON", "error", err)
		return nil
	}

	var tasks []*store.Task
	for _, item := range raw {
		description := strings.TrimSpace(item.Task)
		if description == "" {
			continue
		}
		task := &store.Task{
			Description: description,
			Status:      normalizeStatus(item.Status),
			Employee:    strings.TrimSpace(item.Employee),
			Category:    strings.TrimSpace(item.Category),
		}
		if item.Date != "" {
			if t, err := time.Parse("2006-01-02", item.Date); err == nil {
				task.Date = &t
			}
		}
		tasks = append(tasks, task)
	}
	return tasks
}

func normalizeStatus(status string) store.TaskStatus {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "pending":
		return store.Pending
	case "in progress", "in-progress":
		return store.InProgress
	case "completed", "done":
		return store.Completed
	case "blocked":
		return store.Blocked
	default:
		return store.Pending
	}
}
