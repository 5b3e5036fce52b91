// Package api exposes stored runs over HTTP.
package api

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"pantry-planner/internal/metrics"
	"pantry-planner/internal/planner"
	"pantry-planner/internal/shopping"
)

// APIHandler handles all API requests
type APIHandler struct {
	planRepo     *planner.PlanRepository
	shoppingRepo *shopping.Repository
	metricsStore *metrics.Store
	dataDir      string
}

// NewAPIHandler creates a new API handler. dataDir is measured for /health.
func NewAPIHandler(planRepo *planner.PlanRepository, shoppingRepo *shopping.Repository, metricsStore *metrics.Store, dataDir string) *APIHandler {
	return &APIHandler{
		planRepo:     planRepo,
		shoppingRepo: shoppingRepo,
		metricsStore: metricsStore,
		dataDir:      dataDir,
	}
}

// SetupRoutes configures all API routes
func (h *APIHandler) SetupRoutes(router *gin.Engine) {
	router.GET("/health", h.Health)

	api := router.Group("/api")
	{
		api.GET("/runs/latest", h.GetLatestRun)
		api.GET("/runs/:runId/weeks/:week/plan", h.GetPlan)
		api.GET("/runs/:runId/weeks/:week/shopping", h.GetShoppingList)
		api.GET("/runs/:runId/metrics", h.GetRunMetrics)
	}
}

// NewRouter builds a gin engine with CORS headers and the API routes.
func NewRouter(h *APIHandler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})
	h.SetupRoutes(router)
	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "API endpoint not found"})
	})
	return router
}

// Health reports process and data directory health.
func (h *APIHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"system": metrics.GetSysHealth(h.dataDir),
	})
}

// GetLatestRun returns the most recently written run ID.
func (h *APIHandler) GetLatestRun(c *gin.Context) {
	runID, err := h.planRepo.LatestRunID(c.Request.Context())
	if err != nil {
		log.Printf("Error getting latest run: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get latest run"})
		return
	}
	if runID == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "No runs stored"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"run_id": runID})
}

// GetPlan returns one week's meal plan.
func (h *APIHandler) GetPlan(c *gin.Context) {
	weekNum, ok := weekParam(c)
	if !ok {
		return
	}
	runID := c.Param("runId")

	plan, err := h.planRepo.GetByWeek(c.Request.Context(), runID, weekNum)
	if err != nil {
		log.Printf("Error getting plan %s/%d: %v", runID, weekNum, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get plan"})
		return
	}
	if plan == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Plan not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"run_id":       runID,
		"plan":         plan.Document(),
		"meals_served": plan.MealsServed(),
	})
}

// GetShoppingList returns one week's shopping list.
func (h *APIHandler) GetShoppingList(c *gin.Context) {
	weekNum, ok := weekParam(c)
	if !ok {
		return
	}
	runID := c.Param("runId")

	list, err := h.shoppingRepo.GetByWeek(c.Request.Context(), runID, weekNum)
	if err != nil {
		log.Printf("Error getting shopping list %s/%d: %v", runID, weekNum, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get shopping list"})
		return
	}
	if list == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Shopping list not found"})
		return
	}
	c.JSON(http.StatusOK, list)
}

// GetRunMetrics returns per-week metrics and the run summary.
func (h *APIHandler) GetRunMetrics(c *gin.Context) {
	runID := c.Param("runId")
	ctx := c.Request.Context()

	summary, err := h.metricsStore.GetRunSummary(ctx, runID)
	if err != nil {
		log.Printf("Error getting run summary %s: %v", runID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get metrics"})
		return
	}
	if summary == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Run not found"})
		return
	}
	weeks, err := h.metricsStore.ListByRun(ctx, runID)
	if err != nil {
		log.Printf("Error listing metrics %s: %v", runID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get metrics"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"summary": summary,
		"weeks":   weeks,
	})
}

func weekParam(c *gin.Context) (int, bool) {
	weekNum, err := strconv.Atoi(c.Param("week"))
	if err != nil || weekNum < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid week"})
		return 0, false
	}
	return weekNum, true
}
