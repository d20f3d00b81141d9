// Package notion implements the record store driver backed by the hosted
// Notion API. Tasks live in one database, peer feedback in another.
package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/calkins/teampulse/internal/profile"
	"github.com/calkins/teampulse/store"
)

const (
	defaultBaseURL = "https://api.notion.com"
	notionVersion  = "2022-06-28"

	// maxPageSize is the maximum page size the Notion API allows.
	maxPageSize = 100
)

// Driver is a Notion-backed implementation of store.Driver.
type Driver struct {
	client  *http.Client
	baseURL string

	token        string
	databaseID   string
	feedbackDBID string
}

// New creates a new Notion driver from the profile.
func New(profile *profile.Profile) *Driver {
	return &Driver{
		client:       &http.Client{Timeout: 30 * time.Second},
		baseURL:      defaultBaseURL,
		token:        profile.NotionToken,
		databaseID:   profile.NotionDatabaseID,
		feedbackDBID: profile.NotionFeedbackDBID,
	}
}

// NewWithBaseURL creates a driver pointing at a custom API endpoint.
// Used by tests to target a local server.
func NewWithBaseURL(profile *profile.Profile, baseURL string) *Driver {
	d := New(profile)
	d.baseURL = strings.TrimRight(baseURL, "/")
	return d
}

func (d *Driver) Close() error {
	return nil
}

// Ping issues a single-row query against the task database.
func (d *Driver) Ping(ctx context.Context) error {
	body := map[string]any{"page_size": 1}
	var resp queryResponse
	if err := d.do(ctx, http.MethodPost, fmt.Sprintf("/v1/databases/%s/query", d.databaseID), body, &resp); err != nil {
		return fmt.Errorf("notion connection check failed: %w", err)
	}
	return nil
}

// ListTasks fetches all tasks, following pagination until exhausted.
func (d *Driver) ListTasks(ctx context.Context) ([]*store.Task, error) {
	pages, err := d.queryAll(ctx, d.databaseID)
	if err != nil {
		return nil, fmt.Errorf("query task database: %w", err)
	}

	tasks := make([]*store.Task, 0, len(pages))
	for _, page := range pages {
		task, err := taskFromPage(page)
		if err != nil {
			slog.Warn("skipping unparseable task page", "page_id", page.ID, "error", err)
			continue
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

// CreateTask inserts a new page into the task database.
func (d *Driver) CreateTask(ctx context.Context, create *store.Task) (*store.Task, error) {
	props := map[string]any{
		"Task": map[string]any{
			"title": []any{map[string]any{"text": map[string]any{"content": create.Description}}},
		},
		"Status": map[string]any{
			"select": map[string]any{"name": string(create.Status)},
		},
		"Employee": map[string]any{
			"rich_text": []any{map[string]any{"text": map[string]any{"content": create.Employee}}},
		},
		"Category": map[string]any{
			"rich_text": []any{map[string]any{"text": map[string]any{"content": create.NormalizedCategory()}}},
		},
		"Reminder Sent": map[string]any{
			"checkbox": false,
		},
	}
	if create.Date != nil {
		props["Date"] = map[string]any{
			"date": map[string]any{"start": create.DateString()},
		}
	}

	body := map[string]any{
		"parent":     map[string]any{"database_id": d.databaseID},
		"properties": props,
	}

	var resp page
	if err := d.do(ctx, http.MethodPost, "/v1/pages", body, &resp); err != nil {
		return nil, fmt.Errorf("create task page: %w", err)
	}

	created := *create
	created.ID = resp.ID
	return &created, nil
}

// UpdateTask patches the status (and reminder flag when set) of a page.
// Other fields are deliberately left untouched.
func (d *Driver) UpdateTask(ctx context.Context, update *store.UpdateTask) error {
	props := map[string]any{
		"Status": map[string]any{
			"select": map[string]any{"name": string(update.Status)},
		},
	}
	if update.ReminderSent != nil {
		props["Reminder Sent"] = map[string]any{"checkbox": *update.ReminderSent}
	}

	body := map[string]any{"properties": props}
	if err := d.do(ctx, http.MethodPatch, fmt.Sprintf("/v1/pages/%s", update.ID), body, nil); err != nil {
		return fmt.Errorf("update task page %s: %w", update.ID, err)
	}
	return nil
}

// ListFeedback fetches feedback entries for a person on or after since.
// Without a configured feedback database this returns nothing.
func (d *Driver) ListFeedback(ctx context.Context, person string, since time.Time) ([]*store.Feedback, error) {
	if d.feedbackDBID == "" || person == "" {
		return nil, nil
	}

	pages, err := d.queryAll(ctx, d.feedbackDBID)
	if err != nil {
		return nil, fmt.Errorf("query feedback database: %w", err)
	}

	var entries []*store.Feedback
	for _, p := range pages {
		name := titleContent(p.Properties, "Name")
		if !strings.EqualFold(name, person) {
			continue
		}
		date := dateValue(p.Properties, "Date")
		if date == nil || date.Before(since) {
			continue
		}
		entries = append(entries, &store.Feedback{
			Person:  name,
			Content: richTextContent(p.Properties, "Feedback"),
			Date:    date,
		})
	}
	return entries, nil
}

// queryAll follows has_more/next_cursor until every page is fetched.
func (d *Driver) queryAll(ctx context.Context, databaseID string) ([]page, error) {
	var all []page
	var cursor string

	for {
		body := map[string]any{"page_size": maxPageSize}
		if cursor != "" {
			body["start_cursor"] = cursor
		}

		var resp queryResponse
		if err := d.do(ctx, http.MethodPost, fmt.Sprintf("/v1/databases/%s/query", databaseID), body, &resp); err != nil {
			return nil, err
		}

		all = append(all, resp.Results...)
		if !resp.HasMore {
			return all, nil
		}
		cursor = resp.NextCursor
	}
}

func (d *Driver) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, d.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+d.token)
	req.Header.Set("Notion-Version", notionVersion)
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("notion API %s %s: status %d: %s", method, path, resp.StatusCode, string(data))
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// Wire types for the subset of the Notion API this driver touches.

type queryResponse struct {
	Results    []page `json:"results"`
	HasMore    bool   `json:"has_more"`
	NextCursor string `json:"next_cursor"`
}

type page struct {
	ID         string              `json:"id"`
	Properties map[string]property `json:"properties"`
}

type property struct {
	Title    []richText `json:"title"`
	RichText []richText `json:"rich_text"`
	Select   *selectVal `json:"select"`
	Date     *dateVal   `json:"date"`
	Checkbox *bool      `json:"checkbox"`
}

type richText struct {
	Text struct {
		Content string `json:"content"`
	} `json:"text"`
}

type selectVal struct {
	Name string `json:"name"`
}

type dateVal struct {
	Start string `json:"start"`
}

// taskFromPage maps Notion page properties onto a store.Task.
func taskFromPage(p page) (*store.Task, error) {
	description := titleContent(p.Properties, "Task")
	if description == "" {
		return nil, fmt.Errorf("page has no task title")
	}

	task := &store.Task{
		ID:           p.ID,
		Description:  description,
		Status:       store.TaskStatus(selectValue(p.Properties, "Status", string(store.NoStatus))),
		Employee:     richTextContent(p.Properties, "Employee"),
		Category:     richTextContent(p.Properties, "Category"),
		Date:         dateValue(p.Properties, "Date"),
		ReminderSent: checkboxValue(p.Properties, "Reminder Sent"),
	}
	return task, nil
}

func titleContent(props map[string]property, key string) string {
	if p, ok := props[key]; ok && len(p.Title) > 0 {
		return p.Title[0].Text.Content
	}
	return ""
}

func richTextContent(props map[string]property, key string) string {
	if p, ok := props[key]; ok && len(p.RichText) > 0 {
		return p.RichText[0].Text.Content
	}
	return ""
}

func selectValue(props map[string]property, key, fallback string) string {
	if p, ok := props[key]; ok && p.Select != nil && p.Select.Name != "" {
		return p.Select.Name
	}
	return fallback
}

func dateValue(props map[string]property, key string) *time.Time {
	p, ok := props[key]
	if !ok || p.Date == nil || p.Date.Start == "" {
		return nil
	}
	// Notion date starts are either date-only or RFC 3339.
	if t, err := time.Parse("2006-01-02", p.Date.Start); err == nil {
		return &t
	}
	if t, err := time.Parse(time.RFC3339, p.Date.Start); err == nil {
		return &t
	}
	return nil
}

func checkboxValue(props map[string]property, key string) bool {
	if p, ok := props[key]; ok && p.Checkbox != nil {
		return *p.Checkbox
	}
	return false
}

var _ store.Driver = (*Driver)(nil)
