package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/MarcoDeltaways/Perpl-Helix/internal/models"
	"github.com/MarcoDeltaways/Perpl-Helix/internal/repository"
)

type DashboardHandler interface {
	GetDashboardStats(c *gin.Context)
	GetHealth(c *gin.Context)
}

type dashboardHandler struct {
	legalCaseRepo repository.LegalCaseRepository
	updateRepo    repository.RegulatoryUpdateRepository
	sourceRepo    repository.DataSourceRepository
	logger        *zap.Logger
}

func NewDashboardHandler(legalCaseRepo repository.LegalCaseRepository, updateRepo repository.RegulatoryUpdateRepository, sourceRepo repository.DataSourceRepository, logger *zap.Logger) DashboardHandler {
	return &dashboardHandler{
		legalCaseRepo: legalCaseRepo,
		updateRepo:    updateRepo,
		sourceRepo:    sourceRepo,
		logger:        logger,
	}
}

// GetDashboardStats handles GET /api/dashboard/stats
func (h *dashboardHandler) GetDashboardStats(c *gin.Context) {
	ctx := c.Request.Context()

	totalCases, err := h.legalCaseRepo.Count(ctx)
	if err != nil {
		h.logger.Error("Failed to count legal cases", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch dashboard stats"})
		return
	}

	totalUpdates, err := h.updateRepo.Count(ctx)
	if err != nil {
		h.logger.Error("Failed to count regulatory updates", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch dashboard stats"})
		return
	}

	recentUpdates, err := h.updateRepo.CountPublishedSince(ctx, time.Now().AddDate(0, 0, -30))
	if err != nil {
		h.logger.Error("Failed to count recent updates", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch dashboard stats"})
		return
	}

	sources, err := h.sourceRepo.GetAll(ctx)
	if err != nil {
		h.logger.Error("Failed to get data sources", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch dashboard stats"})
		return
	}

	active := 0
	for _, source := range sources {
		if source.IsActive {
			active++
		}
	}

	c.JSON(http.StatusOK, models.DashboardStats{
		TotalUpdates:      totalUpdates,
		TotalLegalCases:   totalCases,
		TotalDataSources:  len(sources),
		ActiveDataSources: active,
		RecentUpdates:     recentUpdates,
	})
}

// GetHealth handles GET /api/admin/health
func (h *dashboardHandler) GetHealth(c *gin.Context) {
	ctx := c.Request.Context()

	totalCases, err := h.legalCaseRepo.Count(ctx)
	if err != nil {
		h.logger.Error("Health check failed counting legal cases", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Health check failed"})
		return
	}

	totalUpdates, err := h.updateRepo.Count(ctx)
	if err != nil {
		h.logger.Error("Health check failed counting regulatory updates", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Health check failed"})
		return
	}

	sources, err := h.sourceRepo.GetActive(ctx)
	if err != nil {
		h.logger.Error("Health check failed listing active sources", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Health check failed"})
		return
	}

	report := models.HealthReport{
		LegalCases:        totalCases,
		RegulatoryUpdates: totalUpdates,
		ActiveDataSources: len(sources),
		Status:            "healthy",
		Timestamp:         time.Now().UTC(),
	}
	switch {
	case totalCases == 0:
		report.Status = "degraded"
	case totalCases >= 2000 && totalUpdates >= 5000:
		report.Status = "optimal"
	}

	c.JSON(http.StatusOK, report)
}
