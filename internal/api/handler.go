package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"cashflow-insight/internal/analysis"
	"cashflow-insight/internal/dataset"
	"cashflow-insight/internal/insight"
	"cashflow-insight/internal/models"
	"cashflow-insight/internal/store"
	"cashflow-insight/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Handler contains HTTP handlers
type Handler struct {
	analysisService *analysis.Service
	insights        *insight.Generator
	auditStore      *store.Store
	allowedOrigins  []string
}

// NewHandler creates a new HTTP handler. auditStore may be nil when no
// database is configured.
func NewHandler(analysisService *analysis.Service, insights *insight.Generator, auditStore *store.Store, allowedOrigins []string) *Handler {
	return &Handler{
		analysisService: analysisService,
		insights:        insights,
		auditStore:      auditStore,
		allowedOrigins:  allowedOrigins,
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(h.corsMiddleware())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.POST("/datasets", h.uploadDataset)
		v1.GET("/datasets/status", h.datasetStatus)
		v1.DELETE("/datasets", h.resetDataset)

		v1.GET("/analyses/snapshot", h.getSnapshot)
		v1.GET("/analyses/cash-eaters", h.getCashEaters)
		v1.GET("/analyses/reorder-plan", h.getReorderPlan)
		v1.GET("/analyses/clearance", h.getClearance)

		v1.POST("/insights/:kind", h.generateInsight)

		v1.GET("/runs", h.listRuns)
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":       "healthy",
		"ai_available": h.insights.Available(),
		"time":         time.Now().Unix(),
	})
}

// readinessCheck handles readiness check requests
func (h *Handler) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

// uploadDataset handles multipart CSV uploads; any subset of the four
// table kinds may be present in one request.
func (h *Handler) uploadDataset(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid multipart request",
			"details": err.Error(),
		})
		return
	}

	tables := make(map[dataset.Kind]*dataset.Table)
	for _, kind := range dataset.Kinds {
		files := form.File[string(kind)]
		if len(files) == 0 {
			continue
		}
		f, err := files[0].Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Failed to open uploaded file",
				"details": err.Error(),
			})
			return
		}
		t, err := dataset.ReadTable(f)
		f.Close()
		if err != nil {
			util.DatasetUploadsFailedTotal.WithLabelValues("parse_error").Inc()
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Failed to parse " + string(kind) + " CSV",
				"details": err.Error(),
			})
			return
		}
		tables[kind] = t
	}

	if len(tables) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "No files uploaded: provide at least one of transactions, refunds, payouts, products",
		})
		return
	}

	status, err := h.analysisService.UploadTables(c.Request.Context(), tables)
	if err != nil {
		util.DatasetUploadsFailedTotal.WithLabelValues("validation").Inc()
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"status": status})
}

// datasetStatus reports which tables are loaded
func (h *Handler) datasetStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.analysisService.Status())
}

// resetDataset clears the current dataset and persisted files
func (h *Handler) resetDataset(c *gin.Context) {
	if err := h.analysisService.Reset(c.Request.Context()); err != nil {
		h.respondError(c, err)
		return
	}
	if err := h.insights.FlushCache(c.Request.Context()); err != nil {
		util.GetLogger().Warn("Failed to flush narrative cache", zap.Error(err))
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "All data cleared. Please upload fresh CSV files.",
	})
}

// getSnapshot handles the executive snapshot analysis
func (h *Handler) getSnapshot(c *gin.Context) {
	snap, err := h.analysisService.Snapshot(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// getCashEaters handles the cash-eaters analysis
func (h *Handler) getCashEaters(c *gin.Context) {
	result, err := h.analysisService.CashEaters(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// getReorderPlan handles the reorder planner, with an optional budget query param
func (h *Handler) getReorderPlan(c *gin.Context) {
	budget := h.analysisService.DefaultBudget()
	if raw := c.Query("budget"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid budget value"})
			return
		}
		budget = parsed
	}

	plan, err := h.analysisService.ReorderPlan(c.Request.Context(), budget)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

// getClearance handles the slow-mover clearance estimate
func (h *Handler) getClearance(c *gin.Context) {
	est, err := h.analysisService.Clearance(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, est)
}

type insightRequest struct {
	Language string  `json:"language"`
	Budget   float64 `json:"budget"`
}

// generateInsight recomputes the named analysis and turns it into narrative HTML
func (h *Handler) generateInsight(c *gin.Context) {
	kind := c.Param("kind")

	// Body is optional; an empty or malformed body falls back to defaults.
	var req insightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		req = insightRequest{}
	}
	if req.Language == "" {
		req.Language = "English"
	}

	ctx := c.Request.Context()
	var payload interface{}
	var err error
	switch kind {
	case models.AnalysisKindCashEaters:
		payload, err = h.analysisService.CashEaters(ctx)
	case models.AnalysisKindReorder:
		budget := req.Budget
		if budget == 0 {
			budget = h.analysisService.DefaultBudget()
		}
		payload, err = h.analysisService.ReorderPlan(ctx, budget)
	case models.AnalysisKindClearance:
		payload, err = h.analysisService.Clearance(ctx)
	case models.AnalysisKindSnapshot:
		payload, err = h.analysisService.Snapshot(ctx)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown insight kind: " + kind})
		return
	}
	if err != nil {
		h.respondError(c, err)
		return
	}

	html, err := h.insights.Generate(ctx, kind, payload, req.Language)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"insights": html})
}

// listRuns returns recent analysis audit rows
func (h *Handler) listRuns(c *gin.Context) {
	if h.auditStore == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Audit store not configured"})
		return
	}

	limit := 20
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	runs, err := h.auditStore.ListRecentRuns(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to list runs",
			"details": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"runs": runs})
}

// respondError maps domain errors onto HTTP responses
func (h *Handler) respondError(c *gin.Context, err error) {
	var ve *dataset.ValidationError
	if errors.As(err, &ve) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "CSV validation failed",
			"kind":      string(ve.Kind),
			"missing":   ve.Missing,
			"available": ve.Available,
		})
		return
	}

	var de *dataset.DuplicateIDError
	if errors.As(err, &de) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":      "Duplicate product ids in product master",
			"kind":       string(de.Kind),
			"duplicates": de.IDs,
		})
		return
	}

	var nf *dataset.NotFoundError
	if errors.As(err, &nf) {
		c.JSON(http.StatusNotFound, gin.H{"error": nf.Error()})
		return
	}

	switch {
	case errors.Is(err, dataset.ErrNoData):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, analysis.ErrInvalidBudget):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, insight.ErrUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Internal error",
			"details": err.Error(),
		})
	}
}

// corsMiddleware allows the configured frontend origins
func (h *Handler) corsMiddleware() gin.HandlerFunc {
	allowed := make(map[string]bool, len(h.allowedOrigins))
	for _, o := range h.allowedOrigins {
		allowed[o] = true
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if allowed[origin] {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
