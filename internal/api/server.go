package api

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"smartserve/internal/auth"
	"smartserve/internal/forecast"
	"smartserve/internal/fridge"
	"smartserve/internal/history"
	"smartserve/internal/inventory"
	"smartserve/internal/metrics"
	"smartserve/internal/monitoring"
	"smartserve/internal/planner"
)

// Deps are the services the API is built on
type Deps struct {
	Auth      *auth.Issuer
	Fridge    *fridge.Store
	Planners  *planner.Store
	History   *history.Store
	Inventory *inventory.Store
	Metrics   *metrics.Collector
	Monitor   *monitoring.Monitor

	// Forecaster serves the public forecast endpoint
	Forecaster forecast.Forecaster

	CORSOrigins []string
}

// Server is the SmartServe HTTP API
type Server struct {
	router *gin.Engine
	hub    *Hub
	Deps
}

// NewServer creates the API and registers every route
func NewServer(deps Deps) *Server {
	if deps.Monitor == nil {
		deps.Monitor = monitoring.NewMonitor()
	}
	if deps.Metrics == nil {
		deps.Metrics = metrics.NewCollector()
	}

	s := &Server{
		router: gin.Default(),
		hub:    NewHub(),
		Deps:   deps,
	}
	s.Monitor.Watch("fridge_sessions", func() interface{} { return s.Fridge.Len() })
	s.Monitor.Watch("websocket_clients", func() interface{} { return s.hub.Len() })

	s.router.Use(s.Metrics.Middleware())
	s.router.Use(cors.New(corsConfig(deps.CORSOrigins)))
	s.setupRoutes()
	return s
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		cfg.AllowCredentials = false
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

// setupRoutes configures the API routes
func (s *Server) setupRoutes() {
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "SmartServe API is running"})
	})
	s.router.GET("/ws/fridge/:id", s.handleFridgeSocket)

	requireLogin := auth.Middleware(s.Auth)
	kitchenStaff := auth.RequireRole(auth.RoleChef, auth.RoleManager, auth.RoleAdmin)
	management := auth.RequireRole(auth.RoleManager, auth.RoleAdmin)

	api := s.router.Group("/api")
	{
		api.GET("/stats", s.handleStats)
		api.POST("/forecast", s.handleForecast)
		api.GET("/forecast/options", s.handleForecastOptions)

		authGroup := api.Group("/auth")
		authGroup.POST("/login", s.handleLogin)
		authGroup.POST("/logout", s.handleLogout)
		authGroup.GET("/me", requireLogin, s.handleMe)

		fridgeGroup := api.Group("/fridge")
		fridgeGroup.GET("/catalog", s.handleCatalog)
		fridgeGroup.POST("/sessions", s.handleCreateSession)
		fridgeGroup.GET("/sessions/:id", s.handleGetSession)
		fridgeGroup.DELETE("/sessions/:id", s.handleDeleteSession)
		fridgeGroup.POST("/sessions/:id/select", s.handleSelect)
		fridgeGroup.POST("/sessions/:id/place", s.handlePlace)
		fridgeGroup.POST("/sessions/:id/reset", s.handleReset)

		plannerGroup := api.Group("/planner", requireLogin, kitchenStaff)
		plannerGroup.GET("", s.handlePlannerState)
		plannerGroup.POST("/forecast", s.handlePlannerForecast)
		plannerGroup.POST("/recipes", s.handleRecipes)
		plannerGroup.POST("/substitutions", s.handleSubstitutions)
		plannerGroup.POST("/leftovers", s.handleLeftovers)

		api.GET("/history", requireLogin, s.handleHistory)
		api.POST("/feedback", requireLogin, s.handleFeedback)

		inventoryGroup := api.Group("/inventory", requireLogin, management)
		inventoryGroup.GET("", s.handleListInventory)
		inventoryGroup.GET("/low-stock", s.handleLowStock)
		inventoryGroup.GET("/search", s.handleSearchInventory)
		inventoryGroup.POST("", s.handleAddItem)
		inventoryGroup.PUT("/:id", s.handleUpdateItem)
		inventoryGroup.DELETE("/:id", s.handleDeleteItem)

		reports := api.Group("/reports", requireLogin, management)
		reports.GET("", s.handleReport)
		reports.GET("/feedback", s.handleListFeedback)
		reports.GET("/forecasts", s.handleListForecasts)
	}
}

// Router returns the Gin router
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Hub returns the websocket hub pushing fridge updates
func (s *Server) Hub() *Hub {
	return s.hub
}

func (s *Server) handleStats(c *gin.Context) {
	c.JSON(http.StatusOK, s.Monitor.GetMetrics())
}
