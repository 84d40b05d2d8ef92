// Package server provides the REST API surface for Artist Plan. Every
// response uses the uniform {status, data, message, results} envelope and
// every route except signup/login is guarded by the session middleware.
package server

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"artistplan/internal/auth"
	"artistplan/internal/middleware"
	"artistplan/internal/service"
	"artistplan/internal/storage"
)

// Server provides the HTTP handlers for the Artist Plan backend.
type Server struct {
	engine    *gin.Engine
	store     storage.Store
	authn     auth.Authenticator
	jwt       *auth.JWTManager
	calendar  *service.CalendarService
	financial *service.FinancialService
	logger    *slog.Logger
}

// New constructs the HTTP server with routes and middleware configured.
func New(store storage.Store, authn auth.Authenticator, jwtManager *auth.JWTManager, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger())
	engine.Use(middleware.Metrics())

	srv := &Server{
		engine:    engine,
		store:     store,
		authn:     authn,
		jwt:       jwtManager,
		calendar:  service.NewCalendarService(store, logger),
		financial: service.NewFinancialService(store, logger),
		logger:    logger,
	}

	srv.registerRoutes()
	return srv
}

// Engine exposes the underlying Gin engine.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// registerRoutes wires all API handlers together.
func (s *Server) registerRoutes() {
	s.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := s.engine.Group("/api")
	api.GET("/healthz", s.handleHealth)

	api.POST("/auth/signup", s.handleSignup)
	api.POST("/auth/login", s.handleLogin)

	protected := api.Group("", middleware.RequireAuth(s.jwt, s.store))
	{
		protected.GET("/auth/me", s.handleCurrentUser)

		tasks := protected.Group("/tasks")
		{
			tasks.GET("", s.handleListTasks)
			tasks.POST("", s.handleCreateTask)
			tasks.GET("/:id", s.handleGetTask)
			tasks.PUT("/:id", s.handleUpdateTask)
			tasks.DELETE("/:id", s.handleDeleteTask)
			tasks.POST("/:id/subtasks", s.handleAddSubtask)
			tasks.PUT("/:id/subtasks/:subtaskId", s.handleUpdateSubtask)
			tasks.DELETE("/:id/subtasks/:subtaskId", s.handleDeleteSubtask)
		}

		projects := protected.Group("/projects")
		{
			projects.GET("", s.handleListProjects)
			projects.POST("", s.handleCreateProject)
			projects.GET("/:id", s.handleGetProject)
			projects.PUT("/:id", s.handleUpdateProject)
			projects.DELETE("/:id", s.handleDeleteProject)
			projects.GET("/:id/tasks", s.handleListProjectTasks)
			projects.POST("/:id/milestones", s.handleAddMilestone)
			projects.PUT("/:id/milestones/:milestoneId", s.handleUpdateMilestone)
			projects.DELETE("/:id/milestones/:milestoneId", s.handleDeleteMilestone)
		}

		campaigns := protected.Group("/campaigns")
		{
			campaigns.GET("", s.handleListCampaigns)
			campaigns.POST("", s.handleCreateCampaign)
			campaigns.GET("/:id", s.handleGetCampaign)
			campaigns.PUT("/:id", s.handleUpdateCampaign)
			campaigns.DELETE("/:id", s.handleDeleteCampaign)
		}

		content := protected.Group("/content")
		{
			content.GET("/items", s.handleListContentItems)
			content.POST("/items", s.handleCreateContentItem)
			content.GET("/items/:id", s.handleGetContentItem)
			content.PUT("/items/:id", s.handleUpdateContentItem)
			content.DELETE("/items/:id", s.handleDeleteContentItem)

			content.GET("/lyrics", s.handleListLyricsItems)
			content.POST("/lyrics", s.handleCreateLyricsItem)
			content.GET("/lyrics/:id", s.handleGetLyricsItem)
			content.PUT("/lyrics/:id", s.handleUpdateLyricsItem)
			content.DELETE("/lyrics/:id", s.handleDeleteLyricsItem)
		}

		financials := protected.Group("/financials")
		{
			financials.GET("/records", s.handleListRecords)
			financials.POST("/records", s.handleCreateRecord)
			financials.GET("/records/:id", s.handleGetRecord)
			financials.PUT("/records/:id", s.handleUpdateRecord)
			financials.DELETE("/records/:id", s.handleDeleteRecord)

			financials.GET("/budgets", s.handleListBudgets)
			financials.POST("/budgets", s.handleCreateBudget)
			financials.GET("/budgets/:id", s.handleGetBudget)
			financials.PUT("/budgets/:id", s.handleUpdateBudget)
			financials.DELETE("/budgets/:id", s.handleDeleteBudget)

			financials.GET("/goals", s.handleListGoals)
			financials.POST("/goals", s.handleCreateGoal)
			financials.GET("/goals/:id", s.handleGetGoal)
			financials.PUT("/goals/:id", s.handleUpdateGoal)
			financials.DELETE("/goals/:id", s.handleDeleteGoal)

			financials.GET("/summary", s.handleFinancialSummary)
		}

		tours := protected.Group("/tours")
		{
			tours.GET("", s.handleListTours)
			tours.POST("", s.handleCreateTour)
			tours.GET("/:id", s.handleGetTour)
			tours.PUT("/:id", s.handleUpdateTour)
			tours.DELETE("/:id", s.handleDeleteTour)
			tours.GET("/:id/shows", s.handleListTourShows)
		}

		shows := protected.Group("/shows")
		{
			shows.GET("", s.handleListShows)
			shows.POST("", s.handleCreateShow)
			shows.GET("/:id", s.handleGetShow)
			shows.PUT("/:id", s.handleUpdateShow)
			shows.DELETE("/:id", s.handleDeleteShow)
		}

		calendar := protected.Group("/calendar")
		{
			calendar.GET("/custom-events", s.handleListCustomEvents)
			calendar.POST("/custom-events", s.handleCreateCustomEvent)
			calendar.GET("/custom-events/:id", s.handleGetCustomEvent)
			calendar.PUT("/custom-events/:id", s.handleUpdateCustomEvent)
			calendar.DELETE("/custom-events/:id", s.handleDeleteCustomEvent)
			calendar.GET("/all-events", s.handleAllCalendarEvents)
		}
	}
}

// handleHealth provides a basic readiness endpoint.
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
