package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/MarcoDeltaways/Perpl-Helix/internal/models"
	"github.com/MarcoDeltaways/Perpl-Helix/internal/repository"
)

type LegalCaseHandler interface {
	GetAllLegalCases(c *gin.Context)
	GetLegalCaseByID(c *gin.Context)
	GetLegalCasesByJurisdiction(c *gin.Context)
	CreateLegalCase(c *gin.Context)
}

type legalCaseHandler struct {
	legalCaseRepo repository.LegalCaseRepository
	logger        *zap.Logger
}

func NewLegalCaseHandler(legalCaseRepo repository.LegalCaseRepository, logger *zap.Logger) LegalCaseHandler {
	return &legalCaseHandler{legalCaseRepo: legalCaseRepo, logger: logger}
}

// GetAllLegalCases handles GET /api/legal-cases
func (h *legalCaseHandler) GetAllLegalCases(c *gin.Context) {
	cases, err := h.legalCaseRepo.GetAll(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to get legal cases", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch legal cases"})
		return
	}
	c.JSON(http.StatusOK, cases)
}

// GetLegalCaseByID handles GET /api/legal-cases/:id
func (h *legalCaseHandler) GetLegalCaseByID(c *gin.Context) {
	id := c.Param("id")

	legalCase, err := h.legalCaseRepo.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Legal case not found"})
			return
		}
		h.logger.Error("Failed to get legal case", zap.String("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch legal case"})
		return
	}
	c.JSON(http.StatusOK, legalCase)
}

// GetLegalCasesByJurisdiction handles GET /api/legal-cases/jurisdiction/:jurisdiction
func (h *legalCaseHandler) GetLegalCasesByJurisdiction(c *gin.Context) {
	jurisdiction := c.Param("jurisdiction")

	cases, err := h.legalCaseRepo.GetByJurisdiction(c.Request.Context(), jurisdiction)
	if err != nil {
		h.logger.Error("Failed to get legal cases by jurisdiction",
			zap.String("jurisdiction", jurisdiction), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch legal cases"})
		return
	}
	c.JSON(http.StatusOK, cases)
}

type createLegalCaseRequest struct {
	ID           string    `json:"id" binding:"required"`
	CaseNumber   string    `json:"case_number" binding:"required"`
	Title        string    `json:"title" binding:"required"`
	Court        string    `json:"court" binding:"required"`
	Jurisdiction string    `json:"jurisdiction" binding:"required"`
	DecisionDate time.Time `json:"decision_date" binding:"required"`
	Summary      string    `json:"summary"`
	Content      string    `json:"content"`
	DocumentURL  *string   `json:"document_url"`
	ImpactLevel  string    `json:"impact_level"`
	Keywords     []string  `json:"keywords"`
}

// CreateLegalCase handles POST /api/legal-cases
func (h *legalCaseHandler) CreateLegalCase(c *gin.Context) {
	var req createLegalCaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid legal case payload", "error": err.Error()})
		return
	}

	legalCase := models.LegalCase{
		ID:           req.ID,
		CaseNumber:   req.CaseNumber,
		Title:        req.Title,
		Court:        req.Court,
		Jurisdiction: req.Jurisdiction,
		DecisionDate: req.DecisionDate,
		Summary:      req.Summary,
		Content:      req.Content,
		DocumentURL:  req.DocumentURL,
		ImpactLevel:  models.ParseImpactLevel(req.ImpactLevel),
		Keywords:     req.Keywords,
	}

	if err := h.legalCaseRepo.Create(c.Request.Context(), &legalCase); err != nil {
		if errors.Is(err, repository.ErrDuplicateID) {
			c.JSON(http.StatusConflict, gin.H{"message": "Legal case id already exists"})
			return
		}
		h.logger.Error("Failed to create legal case", zap.String("id", req.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create legal case"})
		return
	}
	c.JSON(http.StatusCreated, legalCase)
}
