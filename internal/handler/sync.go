package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/MarcoDeltaways/Perpl-Helix/internal/models"
	"github.com/MarcoDeltaways/Perpl-Helix/internal/repository"
	"github.com/MarcoDeltaways/Perpl-Helix/internal/syncer"
)

type SyncHandler interface {
	SyncAll(c *gin.Context)
	SyncDataSource(c *gin.Context)
	GetSyncStats(c *gin.Context)
}

type syncHandler struct {
	orchestrator *syncer.Orchestrator
	sourceRepo   repository.DataSourceRepository
	updateRepo   repository.RegulatoryUpdateRepository
	logger       *zap.Logger
}

func NewSyncHandler(orchestrator *syncer.Orchestrator, sourceRepo repository.DataSourceRepository, updateRepo repository.RegulatoryUpdateRepository, logger *zap.Logger) SyncHandler {
	return &syncHandler{
		orchestrator: orchestrator,
		sourceRepo:   sourceRepo,
		updateRepo:   updateRepo,
		logger:       logger,
	}
}

type syncRequest struct {
	Mode string `json:"mode"`
}

// SyncAll handles POST /api/sync/all. The optional body selects the run
// mode; the default is incremental.
func (h *syncHandler) SyncAll(c *gin.Context) {
	var req syncRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid sync request", "error": err.Error()})
			return
		}
	}

	mode, err := syncer.ParseMode(req.Mode)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	summary, err := h.orchestrator.SyncAll(c.Request.Context(), mode)
	if err != nil {
		h.logger.Error("Bulk sync failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to run synchronization"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       summary.Success,
		"success_count": summary.SuccessCount,
		"total_sources": summary.TotalSources,
		"results":       summary.Results,
		"run_id":        summary.RunID,
	})
}

// SyncDataSource handles POST /api/data-sources/:id/sync
func (h *syncHandler) SyncDataSource(c *gin.Context) {
	id := c.Param("id")

	var req syncRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid sync request", "error": err.Error()})
			return
		}
	}

	mode, err := syncer.ParseMode(req.Mode)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	summary, err := h.orchestrator.SyncSource(c.Request.Context(), id, mode)
	if err != nil {
		if syncer.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Data source not found"})
			return
		}
		h.logger.Error("Source sync failed", zap.String("source_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to sync data source"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": summary.Success,
		"results": summary.Results,
		"run_id":  summary.RunID,
	})
}

// GetSyncStats handles GET /api/sync/stats
func (h *syncHandler) GetSyncStats(c *gin.Context) {
	ctx := c.Request.Context()

	sources, err := h.sourceRepo.GetActive(ctx)
	if err != nil {
		h.logger.Error("Failed to get active sources for sync stats", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch sync stats"})
		return
	}

	newUpdates, err := h.updateRepo.CountCreatedSince(ctx, time.Now().Add(-24*time.Hour))
	if err != nil {
		h.logger.Error("Failed to count new updates for sync stats", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch sync stats"})
		return
	}

	stats := models.SyncStats{
		ActiveSources: len(sources),
		NewUpdates:    newUpdates,
		RunningSyncs:  h.orchestrator.Running(),
	}
	for _, source := range sources {
		if source.LastSyncAt == nil {
			continue
		}
		if stats.LastSync == nil || source.LastSyncAt.After(*stats.LastSync) {
			stats.LastSync = source.LastSyncAt
		}
	}

	c.JSON(http.StatusOK, stats)
}
