package v1

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/calkins/teampulse/server/service/insight"
	"github.com/calkins/teampulse/store"
)

// ListTasksResponse wraps the full task list.
type ListTasksResponse struct {
	Tasks []*store.Task `json:"tasks"`
}

// ListTasks returns every task in the record store.
func (s *APIV1Service) ListTasks(c echo.Context) error {
	tasks, err := s.Store.ListTasks(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, "failed to list tasks").SetInternal(err)
	}
	return c.JSON(http.StatusOK, &ListTasksResponse{Tasks: tasks})
}

// StaleTasksResponse lists stale tasks both flat and grouped by employee.
type StaleTasksResponse struct {
	Tasks      []*store.Task            `json:"tasks"`
	ByEmployee map[string][]*store.Task `json:"byEmployee"`
}

// ListStaleTasks returns open tasks older than the stale threshold that have
// not had a reminder yet. The `days` query parameter overrides the default.
func (s *APIV1Service) ListStaleTasks(c echo.Context) error {
	days := s.Profile.StaleDays
	if raw := c.QueryParam("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "days must be a non-negative integer")
		}
		days = parsed
	}

	tasks, err := s.Store.ListStaleTasks(c.Request().Context(), days, time.Now())
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, "failed to list stale tasks").SetInternal(err)
	}

	byEmployee := make(map[string][]*store.Task)
	for _, task := range tasks {
		employee := task.Employee
		if employee == "" {
			employee = "Unassigned"
		}
		byEmployee[employee] = append(byEmployee[employee], task)
	}
	return c.JSON(http.StatusOK, &StaleTasksResponse{Tasks: tasks, ByEmployee: byEmployee})
}

// MarkTaskReminded flags a stale task as reminded so it is not reported again.
func (s *APIV1Service) MarkTaskReminded(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "task id is required")
	}

	ctx := c.Request().Context()
	tasks, err := s.Store.ListTasks(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, "failed to load task").SetInternal(err)
	}
	var target *store.Task
	for _, task := range tasks {
		if task.ID == id {
			target = task
			break
		}
	}
	if target == nil {
		return echo.NewHTTPError(http.StatusNotFound, "task not found")
	}

	if err := s.Store.MarkTaskReminded(ctx, id, target.Status); err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, "failed to mark task reminded").SetInternal(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ListCategoriesResponse wraps the distinct category list.
type ListCategoriesResponse struct {
	Categories []string `json:"categories"`
}

// ListCategories returns the distinct project categories.
func (s *APIV1Service) ListCategories(c echo.Context) error {
	categories, err := s.Store.ListCategories(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, "failed to list categories").SetInternal(err)
	}
	return c.JSON(http.StatusOK, &ListCategoriesResponse{Categories: categories})
}

// ProjectTasksResponse lists a project's tasks with a status summary.
type ProjectTasksResponse struct {
	Tasks []*store.Task      `json:"tasks"`
	Stats *insight.TaskStats `json:"stats"`
}

// ListProjectTasks returns the tasks belonging to one category plus their
// status summary.
func (s *APIV1Service) ListProjectTasks(c echo.Context) error {
	category := c.Param("category")
	tasks, err := s.projectTasks(c, category)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, &ProjectTasksResponse{
		Tasks: tasks,
		Stats: insight.ComputeStats(tasks, time.Now()),
	})
}

func (s *APIV1Service) projectTasks(c echo.Context, category string) ([]*store.Task, error) {
	all, err := s.Store.ListTasks(c.Request().Context())
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadGateway, "failed to list tasks").SetInternal(err)
	}
	var tasks []*store.Task
	for _, task := range all {
		if task.NormalizedCategory() == category {
			tasks = append(tasks, task)
		}
	}
	return tasks, nil
}
