package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/MarcoDeltaways/Perpl-Helix/internal/models"
	"github.com/MarcoDeltaways/Perpl-Helix/internal/repository"
)

type DataSourceHandler interface {
	GetAllDataSources(c *gin.Context)
	GetActiveDataSources(c *gin.Context)
	CreateDataSource(c *gin.Context)
	UpdateDataSource(c *gin.Context)
}

type dataSourceHandler struct {
	sourceRepo repository.DataSourceRepository
	logger     *zap.Logger
}

func NewDataSourceHandler(sourceRepo repository.DataSourceRepository, logger *zap.Logger) DataSourceHandler {
	return &dataSourceHandler{sourceRepo: sourceRepo, logger: logger}
}

// GetAllDataSources handles GET /api/data-sources
func (h *dataSourceHandler) GetAllDataSources(c *gin.Context) {
	sources, err := h.sourceRepo.GetAll(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to get data sources", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch data sources"})
		return
	}
	c.JSON(http.StatusOK, sources)
}

// GetActiveDataSources handles GET /api/data-sources/active
func (h *dataSourceHandler) GetActiveDataSources(c *gin.Context) {
	sources, err := h.sourceRepo.GetActive(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to get active data sources", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch active data sources"})
		return
	}
	c.JSON(http.StatusOK, sources)
}

type createDataSourceRequest struct {
	ID           string `json:"id" binding:"required"`
	Name         string `json:"name" binding:"required"`
	Jurisdiction string `json:"jurisdiction" binding:"required"`
	IsActive     *bool  `json:"is_active"`
}

// CreateDataSource handles POST /api/data-sources
func (h *dataSourceHandler) CreateDataSource(c *gin.Context) {
	var req createDataSourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid data source payload", "error": err.Error()})
		return
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	source := models.DataSource{
		ID:           req.ID,
		Name:         req.Name,
		Jurisdiction: req.Jurisdiction,
		IsActive:     active,
	}

	if err := h.sourceRepo.Create(c.Request.Context(), &source); err != nil {
		if errors.Is(err, repository.ErrDuplicateID) {
			c.JSON(http.StatusConflict, gin.H{"message": "Data source id already exists"})
			return
		}
		h.logger.Error("Failed to create data source", zap.String("id", req.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create data source"})
		return
	}
	c.JSON(http.StatusCreated, source)
}

// UpdateDataSource handles PATCH /api/data-sources/:id
func (h *dataSourceHandler) UpdateDataSource(c *gin.Context) {
	id := c.Param("id")

	var patch models.DataSourcePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid data source patch", "error": err.Error()})
		return
	}

	source, err := h.sourceRepo.Update(c.Request.Context(), id, patch)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Data source not found"})
			return
		}
		h.logger.Error("Failed to update data source", zap.String("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update data source"})
		return
	}
	c.JSON(http.StatusOK, source)
}
