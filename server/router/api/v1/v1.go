// Package v1 exposes the JSON API: update ingestion, task queries, and
// insight generation.
package v1

import (
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"golang.org/x/sync/semaphore"

	"github.com/calkins/teampulse/internal/profile"
	"github.com/calkins/teampulse/plugin/ai"
	"github.com/calkins/teampulse/server/middleware"
	"github.com/calkins/teampulse/server/service/insight"
	"github.com/calkins/teampulse/server/service/reconcile"
	"github.com/calkins/teampulse/store"
)

// APIV1Service wires the reconciliation and insight services to echo routes.
type APIV1Service struct {
	Profile   *profile.Profile
	Store     *store.Store
	Engine    *reconcile.Engine
	Extractor *ai.Extractor
	Insights  *insight.Generator

	// insightSemaphore bounds concurrent language-model insight requests.
	insightSemaphore *semaphore.Weighted
}

// NewAPIV1Service creates the API service with its AI collaborators.
func NewAPIV1Service(p *profile.Profile, s *store.Store, engine *reconcile.Engine, extractor *ai.Extractor, insights *insight.Generator) *APIV1Service {
	return &APIV1Service{
		Profile:          p,
		Store:            s,
		Engine:           engine,
		Extractor:        extractor,
		Insights:         insights,
		insightSemaphore: semaphore.NewWeighted(3),
	}
}

// Register mounts all routes on the echo instance.
func (s *APIV1Service) Register(e *echo.Echo) {
	limiter := middleware.NewRateLimiter(time.Second/10, 20)

	group := e.Group("/api/v1")
	group.Use(echomw.CORS())
	group.Use(limiter.Middleware())

	group.GET("/ping", s.Ping)
	group.GET("/metrics", s.Metrics)

	group.POST("/updates", s.ProcessUpdate)
	group.POST("/tasks/reconcile", s.ReconcileTasks)
	group.GET("/tasks", s.ListTasks)
	group.GET("/tasks/stale", s.ListStaleTasks)
	group.POST("/tasks/:id/remind", s.MarkTaskReminded)
	group.GET("/categories", s.ListCategories)
	group.GET("/projects/:category/tasks", s.ListProjectTasks)
	group.GET("/projects/:category/health", s.ProjectHealth)
	group.GET("/projects/:category/insights", s.ProjectInsights)
	group.GET("/people/:person/insights", s.PersonInsights)
}
