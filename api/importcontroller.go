package api

import (
	"net/http"

	"airquiz/checkpoint"
	"airquiz/importer"

	"github.com/gin-gonic/gin"
)

// ImportController exposes the import pipeline over HTTP. The orchestrator
// and its clients are constructed once at startup and injected here.
type ImportController struct {
	Orchestrator      *importer.Orchestrator
	Checkpoints       *checkpoint.Store // nil when redis is not configured
	DefaultCollection string
	// LiveRunsEnabled is false when destination credentials are missing;
	// dry-runs still work, live runs get an immediate configuration error.
	LiveRunsEnabled bool
}

// RegisterRoutes registers import endpoints.
func (ic *ImportController) RegisterRoutes(r *gin.Engine) {
	g := r.Group("/api/import")
	g.POST("/run", ic.handleRun)
	g.GET("/checkpoint", ic.handleGetCheckpoint)
}

// RunRequest is the invocation surface of one import run.
type RunRequest struct {
	DryRun       bool   `json:"dryRun"`
	Limit        int    `json:"limit"`
	StartCursor  string `json:"start_cursor,omitempty"`
	CollectionID string `json:"collection_id,omitempty"`
}

// handleRun executes one import run and returns its report.
// POST /api/import/run
func (ic *ImportController) handleRun(c *gin.Context) {
	var req RunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Zero means "use the default"; the orchestrator applies it.
	if req.Limit < 0 || req.Limit > importer.MaxRunLimit {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be at most 200 (0 uses the default)"})
		return
	}

	if !req.DryRun && !ic.LiveRunsEnabled {
		c.JSON(http.StatusBadRequest, gin.H{"error": "destination not configured; only dry runs are available"})
		return
	}

	collection := req.CollectionID
	if collection == "" {
		collection = ic.DefaultCollection
	}

	report, err := ic.Orchestrator.Run(c.Request.Context(), importer.RunOptions{
		CollectionID: collection,
		DryRun:       req.DryRun,
		Limit:        req.Limit,
		StartCursor:  req.StartCursor,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "import run failed: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, report)
}

// handleGetCheckpoint returns the saved resume cursor for a collection.
// GET /api/import/checkpoint?collection_id=...
func (ic *ImportController) handleGetCheckpoint(c *gin.Context) {
	if ic.Checkpoints == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "checkpoint store not configured"})
		return
	}

	collection := c.Query("collection_id")
	if collection == "" {
		collection = ic.DefaultCollection
	}

	cursor, err := ic.Checkpoints.Load(c.Request.Context(), collection)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load checkpoint: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"collection_id": collection,
		"cursor":        cursor,
	})
}
