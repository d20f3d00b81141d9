package ai

import (
	"context"
	"testing"
	"time"

	"github.com/calkins/teampulse/store"
)

func TestExtractParsesFencedJSON(t *testing.T) {
	llm := &MockLLMService{
		Response: "Here are the tasks:\n```json\n[" +
			`{"task":"Ship invoice export","status":"In Progress","employee":"Dana","category":"Billing","date":"2026-08-20"},` +
			`{"task":"Weekly sync notes","status":"Done","employee":"Dana","category":"","date":""}` +
			"]\n```",
	}
	extractor := NewExtractor(llm)

	tasks, err := extractor.Extract(context.Background(), "Dana's update...", time.Now())
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("got %d tasks, want 2", len(tasks))
	}
	first := tasks[0]
	if first.Description != "Ship invoice export" || first.Status != store.InProgress ||
		first.Employee != "Dana" || first.Category != "Billing" {
		t.Errorf("unexpected first task: %+v", first)
	}
	if first.DateString() != "2026-08-20" {
		t.Errorf("first date = %q, want 2026-08-20", first.DateString())
	}
	second := tasks[1]
	if second.Status != store.Completed {
		t.Errorf("second status = %q, want %q", second.Status, store.Completed)
	}
	if second.Date != nil {
		t.Errorf("second date = %v, want nil", second.Date)
	}
}

func TestExtractSkipsEmptyDescriptions(t *testing.T) {
	llm := &MockLLMService{
		Response: `[{"task":"  ","status":"Pending"},{"task":"Real task","status":"Blocked","employee":"Lee"}]`,
	}
	tasks, err := NewExtractor(llm).Extract(context.Background(), "update", time.Now())
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("got %d tasks, want 1", len(tasks))
	}
	if tasks[0].Status != store.Blocked {
		t.Errorf("status = %q, want %q", tasks[0].Status, store.Blocked)
	}
}

func TestExtractMalformedResponse(t *testing.T) {
	for _, response := range []string{"no json here", "[not valid", `{"task":"object not array"}`} {
		llm := &MockLLMService{Response: response}
		tasks, err := NewExtractor(llm).Extract(context.Background(), "update", time.Now())
		if err != nil {
			t.Fatalf("Extract(%q) error = %v", response, err)
		}
		if len(tasks) != 0 {
			t.Errorf("Extract(%q) = %d tasks, want 0", response, len(tasks))
		}
	}
}

func TestExtractEmptyInput(t *testing.T) {
	llm := &MockLLMService{Response: "[]"}
	tasks, err := NewExtractor(llm).Extract(context.Background(), "   ", time.Now())
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if tasks != nil {
		t.Errorf("got %v, want nil", tasks)
	}
	if len(llm.Prompts) != 0 {
		t.Errorf("LLM called %d times for empty input, want 0", len(llm.Prompts))
	}
}

func TestNormalizeStatus(t *testing.T) {
	tests := []struct {
		in   string
		want store.TaskStatus
	}{
		{"Pending", store.Pending},
		{"in progress", store.InProgress},
		{"in-progress", store.InProgress},
		{"DONE", store.Completed},
		{"Completed", store.Completed},
		{"blocked", store.Blocked},
		{"unknown", store.Pending},
		{"", store.Pending},
	}
	for _, tc := range tests {
		if got := normalizeStatus(tc.in); got != tc.want {
			t.Errorf("normalizeStatus(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
