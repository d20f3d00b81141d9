package v1

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/calkins/teampulse/server/internal/observability"
	"github.com/calkins/teampulse/server/service/insight"
	"github.com/calkins/teampulse/server/service/reconcile"
	"github.com/calkins/teampulse/store"
)

// ProcessUpdateRequest is the body for POST /api/v1/updates.
type ProcessUpdateRequest struct {
	// Text is the raw free-form work update.
	Text string `json:"text"`
	// Employee, when set, overrides the employee on every extracted task.
	Employee string `json:"employee,omitempty"`
}

// ProcessUpdateResponse reports extraction plus reconciliation results and,
// when the update maps to a single person, a coaching insight for them.
type ProcessUpdateResponse struct {
	ExtractedCount int               `json:"extractedCount"`
	Result         *reconcile.Result `json:"result"`
	Insight        *insight.Report   `json:"insight,omitempty"`
}

// ProcessUpdate extracts tasks from a raw text update and reconciles them
// against the record store.
func (s *APIV1Service) ProcessUpdate(c echo.Context) error {
	reqCtx := observability.NewRequestContext(slog.Default(), "process_update")
	metrics := observability.GlobalMetrics()
	metrics.RecordRequest(reqCtx.Operation)

	var request ProcessUpdateRequest
	if err := c.Bind(&request); err != nil {
		metrics.RecordFailure(reqCtx.Operation)
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body").SetInternal(err)
	}
	if request.Text == "" {
		metrics.RecordFailure(reqCtx.Operation)
		return echo.NewHTTPError(http.StatusBadRequest, "text is required")
	}

	ctx := c.Request().Context()
	tasks, err := s.Extractor.Extract(ctx, request.Text, time.Now())
	if err != nil {
		metrics.RecordFailure(reqCtx.Operation)
		reqCtx.Error("task extraction failed", err)
		return echo.NewHTTPError(http.StatusBadGateway, "failed to extract tasks from update").SetInternal(err)
	}
	if request.Employee != "" {
		for _, task := range tasks {
			task.Employee = request.Employee
		}
	}

	result, err := s.Engine.Process(ctx, tasks)
	if err != nil {
		metrics.RecordFailure(reqCtx.Operation)
		reqCtx.Error("reconciliation failed", err)
		return echo.NewHTTPError(http.StatusBadGateway, "failed to reconcile tasks").SetInternal(err)
	}

	response := &ProcessUpdateResponse{
		ExtractedCount: len(tasks),
		Result:         result,
	}
	if person := singleEmployee(tasks); person != "" {
		response.Insight = s.coachingInsight(ctx, reqCtx, person)
	}

	metrics.RecordDuration(reqCtx.Operation, time.Since(reqCtx.StartTime))
	reqCtx.Info("processed update",
		slog.Int(observability.LogFieldTaskCount, len(tasks)),
		slog.Int64(observability.LogFieldDuration, reqCtx.DurationMs()))
	return c.JSON(http.StatusOK, response)
}

// singleEmployee returns the employee if every task names the same one.
func singleEmployee(tasks []*store.Task) string {
	person := ""
	for _, task := range tasks {
		if task.Employee == "" {
			continue
		}
		if person == "" {
			person = task.Employee
		} else if person != task.Employee {
			return ""
		}
	}
	return person
}

// coachingInsight builds the post-update coaching report for one person.
// Failures here never fail the update request.
func (s *APIV1Service) coachingInsight(ctx context.Context, reqCtx *observability.RequestContext, person string) *insight.Report {
	all, err := s.Store.ListTasks(ctx)
	if err != nil {
		reqCtx.Warn("failed to list tasks for coaching insight", slog.String("error", err.Error()))
		return nil
	}
	var tasks []*store.Task
	for _, task := range all {
		if task.Employee == person {
			tasks = append(tasks, task)
		}
	}

	now := time.Now()
	feedback, err := s.Store.ListFeedback(ctx, person, now.AddDate(0, 0, -feedbackWindowDays))
	if err != nil {
		feedback = nil
	}
	return s.Insights.CoachingReport(ctx, person, tasks, feedback, now)
}

// ReconcileTasksRequest is the body for POST /api/v1/tasks/reconcile, for
// callers that extract tasks themselves.
type ReconcileTasksRequest struct {
	Tasks []*TaskPayload `json:"tasks"`
}

// TaskPayload is the wire form of a task draft.
type TaskPayload struct {
	Description string `json:"description"`
	Status      string `json:"status,omitempty"`
	Employee    string `json:"employee,omitempty"`
	Category    string `json:"category,omitempty"`
	Date        string `json:"date,omitempty"`
}

func (p *TaskPayload) toTask() *store.Task {
	task := &store.Task{
		Description: p.Description,
		Status:      store.TaskStatus(p.Status),
		Employee:    p.Employee,
		Category:    p.Category,
	}
	if task.Status == "" {
		task.Status = store.Pending
	}
	if p.Date != "" {
		if t, err := time.Parse("2006-01-02", p.Date); err == nil {
			task.Date = &t
		}
	}
	return task
}

// ReconcileTasks reconciles a batch of already-extracted task drafts.
func (s *APIV1Service) ReconcileTasks(c echo.Context) error {
	reqCtx := observability.NewRequestContext(slog.Default(), "reconcile_tasks")
	metrics := observability.GlobalMetrics()
	metrics.RecordRequest(reqCtx.Operation)

	var request ReconcileTasksRequest
	if err := c.Bind(&request); err != nil {
		metrics.RecordFailure(reqCtx.Operation)
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body").SetInternal(err)
	}
	if len(request.Tasks) == 0 {
		metrics.RecordFailure(reqCtx.Operation)
		return echo.NewHTTPError(http.StatusBadRequest, "tasks are required")
	}

	tasks := make([]*store.Task, 0, len(request.Tasks))
	for _, payload := range request.Tasks {
		tasks = append(tasks, payload.toTask())
	}

	result, err := s.Engine.Process(c.Request().Context(), tasks)
	if err != nil {
		metrics.RecordFailure(reqCtx.Operation)
		reqCtx.Error("reconciliation failed", err)
		return echo.NewHTTPError(http.StatusBadGateway, "failed to reconcile tasks").SetInternal(err)
	}

	metrics.RecordDuration(reqCtx.Operation, time.Since(reqCtx.StartTime))
	return c.JSON(http.StatusOK, result)
}
