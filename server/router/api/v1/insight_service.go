package v1

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/calkins/teampulse/server/internal/observability"
	"github.com/calkins/teampulse/server/service/insight"
	"github.com/calkins/teampulse/store"
)

// feedbackWindowDays is how far back peer feedback is pulled for coaching.
const feedbackWindowDays = 14

// PersonInsights generates a coaching report for one person's tasks.
func (s *APIV1Service) PersonInsights(c echo.Context) error {
	person := c.Param("person")
	reqCtx := observability.NewRequestContext(slog.Default(), "person_insights")
	metrics := observability.GlobalMetrics()
	metrics.RecordRequest(reqCtx.Operation)

	ctx := c.Request().Context()
	if err := s.insightSemaphore.Acquire(ctx, 1); err != nil {
		metrics.RecordFailure(reqCtx.Operation)
		return echo.NewHTTPError(http.StatusServiceUnavailable, "insight generation busy").SetInternal(err)
	}
	defer s.insightSemaphore.Release(1)

	all, err := s.Store.ListTasks(ctx)
	if err != nil {
		metrics.RecordFailure(reqCtx.Operation)
		return echo.NewHTTPError(http.StatusBadGateway, "failed to list tasks").SetInternal(err)
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
		reqCtx.Warn("failed to load peer feedback", slog.String("error", err.Error()))
		feedback = nil
	}

	report := s.Insights.CoachingReport(ctx, person, tasks, feedback, now)
	metrics.RecordDuration(reqCtx.Operation, time.Since(reqCtx.StartTime))
	reqCtx.Info("generated coaching report",
		slog.Int(observability.LogFieldTaskCount, len(tasks)),
		slog.Int64(observability.LogFieldDuration, reqCtx.DurationMs()))
	return c.JSON(http.StatusOK, report)
}

// ProjectInsights generates a project-health report for one category.
func (s *APIV1Service) ProjectInsights(c echo.Context) error {
	category := c.Param("category")
	reqCtx := observability.NewRequestContext(slog.Default(), "project_insights")
	metrics := observability.GlobalMetrics()
	metrics.RecordRequest(reqCtx.Operation)

	ctx := c.Request().Context()
	if err := s.insightSemaphore.Acquire(ctx, 1); err != nil {
		metrics.RecordFailure(reqCtx.Operation)
		return echo.NewHTTPError(http.StatusServiceUnavailable, "insight generation busy").SetInternal(err)
	}
	defer s.insightSemaphore.Release(1)

	tasks, herr := s.projectTasks(c, category)
	if herr != nil {
		metrics.RecordFailure(reqCtx.Operation)
		return herr
	}

	report := s.Insights.ProjectReport(ctx, category, tasks, time.Now())
	metrics.RecordDuration(reqCtx.Operation, time.Since(reqCtx.StartTime))
	return c.JSON(http.StatusOK, report)
}

// ProjectHealth returns the rule-based health score for one category without
// touching the language model.
func (s *APIV1Service) ProjectHealth(c echo.Context) error {
	category := c.Param("category")
	tasks, herr := s.projectTasks(c, category)
	if herr != nil {
		return herr
	}
	health := insight.ComputeProjectHealth(category, tasks, time.Now())
	return c.JSON(http.StatusOK, health)
}
