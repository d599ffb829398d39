package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/MarcoDeltaways/Perpl-Helix/internal/models"
	"github.com/MarcoDeltaways/Perpl-Helix/internal/repository"
)

type RegulatoryUpdateHandler interface {
	GetAllRegulatoryUpdates(c *gin.Context)
	GetRecentRegulatoryUpdates(c *gin.Context)
	GetRegulatoryUpdateByID(c *gin.Context)
	CreateRegulatoryUpdate(c *gin.Context)
}

type regulatoryUpdateHandler struct {
	updateRepo repository.RegulatoryUpdateRepository
	logger     *zap.Logger
}

func NewRegulatoryUpdateHandler(updateRepo repository.RegulatoryUpdateRepository, logger *zap.Logger) RegulatoryUpdateHandler {
	return &regulatoryUpdateHandler{updateRepo: updateRepo, logger: logger}
}

// GetAllRegulatoryUpdates handles GET /api/regulatory-updates
func (h *regulatoryUpdateHandler) GetAllRegulatoryUpdates(c *gin.Context) {
	updates, err := h.updateRepo.GetAll(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to get regulatory updates", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch regulatory updates"})
		return
	}
	c.JSON(http.StatusOK, updates)
}

// GetRecentRegulatoryUpdates handles GET /api/regulatory-updates/recent?limit=N
func (h *regulatoryUpdateHandler) GetRecentRegulatoryUpdates(c *gin.Context) {
	limit := 10
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"message": "limit must be a positive integer"})
			return
		}
		limit = parsed
	}

	updates, err := h.updateRepo.GetRecent(c.Request.Context(), limit)
	if err != nil {
		h.logger.Error("Failed to get recent regulatory updates", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch recent regulatory updates"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": updates})
}

// GetRegulatoryUpdateByID handles GET /api/regulatory-updates/:id
func (h *regulatoryUpdateHandler) GetRegulatoryUpdateByID(c *gin.Context) {
	id := c.Param("id")

	update, err := h.updateRepo.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Regulatory update not found"})
			return
		}
		h.logger.Error("Failed to get regulatory update", zap.String("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch regulatory update"})
		return
	}
	c.JSON(http.StatusOK, update)
}

type createRegulatoryUpdateRequest struct {
	ID            string    `json:"id" binding:"required"`
	Title         string    `json:"title" binding:"required"`
	Description   string    `json:"description" binding:"required"`
	SourceID      string    `json:"source_id" binding:"required"`
	Region        string    `json:"region" binding:"required"`
	UpdateType    string    `json:"update_type" binding:"required"`
	Priority      string    `json:"priority"`
	DeviceClasses []string  `json:"device_classes"`
	Content       string    `json:"content"`
	PublishedAt   time.Time `json:"published_at" binding:"required"`
}

// CreateRegulatoryUpdate handles POST /api/regulatory-updates
func (h *regulatoryUpdateHandler) CreateRegulatoryUpdate(c *gin.Context) {
	var req createRegulatoryUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid regulatory update payload", "error": err.Error()})
		return
	}

	update := models.RegulatoryUpdate{
		ID:            req.ID,
		Title:         req.Title,
		Description:   req.Description,
		SourceID:      req.SourceID,
		Region:        req.Region,
		UpdateType:    req.UpdateType,
		Priority:      models.ParsePriority(req.Priority),
		DeviceClasses: req.DeviceClasses,
		Content:       req.Content,
		PublishedAt:   req.PublishedAt,
	}

	if err := h.updateRepo.Create(c.Request.Context(), &update); err != nil {
		if errors.Is(err, repository.ErrDuplicateID) {
			c.JSON(http.StatusConflict, gin.H{"message": "Regulatory update id already exists"})
			return
		}
		h.logger.Error("Failed to create regulatory update", zap.String("id", req.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create regulatory update"})
		return
	}
	c.JSON(http.StatusCreated, update)
}
