package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/MarcoDeltaways/Perpl-Helix/internal/handler"
	"github.com/MarcoDeltaways/Perpl-Helix/internal/models"
	"github.com/MarcoDeltaways/Perpl-Helix/internal/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newLegalCaseRouter(cases *testutil.MemLegalCases) *gin.Engine {
	h := handler.NewLegalCaseHandler(cases, zap.NewNop())
	router := gin.New()
	router.GET("/api/legal-cases", h.GetAllLegalCases)
	router.POST("/api/legal-cases", h.CreateLegalCase)
	router.GET("/api/legal-cases/jurisdiction/:jurisdiction", h.GetLegalCasesByJurisdiction)
	router.GET("/api/legal-cases/:id", h.GetLegalCaseByID)
	return router
}

func seedCase(t *testing.T, cases *testutil.MemLegalCases, id, jurisdiction string) {
	t.Helper()
	err := cases.Create(context.Background(), &models.LegalCase{
		ID:           id,
		CaseNumber:   id + "-number",
		Title:        "Case " + id,
		Court:        "Test Court",
		Jurisdiction: jurisdiction,
		DecisionDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		ImpactLevel:  models.ImpactMedium,
		Keywords:     []string{"medical device"},
	})
	require.NoError(t, err)
}

func TestGetAllLegalCases(t *testing.T) {
	cases := testutil.NewMemLegalCases()
	seedCase(t, cases, "us-case-001", "US")
	seedCase(t, cases, "eu-case-001", "EU")
	router := newLegalCaseRouter(cases)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/legal-cases", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	var got []models.LegalCase
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Len(t, got, 2)
}

func TestGetLegalCaseByIDNotFound(t *testing.T) {
	router := newLegalCaseRouter(testutil.NewMemLegalCases())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/legal-cases/missing", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "message")
}

func TestGetLegalCasesByJurisdiction(t *testing.T) {
	cases := testutil.NewMemLegalCases()
	seedCase(t, cases, "us-case-001", "US")
	seedCase(t, cases, "eu-case-001", "EU")
	router := newLegalCaseRouter(cases)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/legal-cases/jurisdiction/US", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	var got []models.LegalCase
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "us-case-001", got[0].ID)
}

func TestCreateLegalCase(t *testing.T) {
	cases := testutil.NewMemLegalCases()
	router := newLegalCaseRouter(cases)

	payload := map[string]interface{}{
		"id":            "us-case-001",
		"case_number":   "US-2024-0001",
		"title":         "United States Medical Device Case 1",
		"court":         "U.S. District Court",
		"jurisdiction":  "US",
		"decision_date": "2024-03-01T00:00:00Z",
		"impact_level":  "high",
	}
	body, _ := json.Marshal(payload)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/legal-cases", bytes.NewReader(body)))

	assert.Equal(t, http.StatusCreated, rec.Code)
	var created models.LegalCase
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, models.ImpactHigh, created.ImpactLevel)

	// duplicate id → conflict
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/legal-cases", bytes.NewReader(body)))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestCreateLegalCaseValidation(t *testing.T) {
	router := newLegalCaseRouter(testutil.NewMemLegalCases())

	body, _ := json.Marshal(map[string]interface{}{"title": "incomplete"})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/legal-cases", bytes.NewReader(body)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateLegalCaseUnknownImpact(t *testing.T) {
	cases := testutil.NewMemLegalCases()
	router := newLegalCaseRouter(cases)

	body, _ := json.Marshal(map[string]interface{}{
		"id":            "us-case-001",
		"case_number":   "US-2024-0001",
		"title":         "Case",
		"court":         "Court",
		"jurisdiction":  "US",
		"decision_date": "2024-03-01T00:00:00Z",
		"impact_level":  "catastrophic",
	})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/legal-cases", bytes.NewReader(body)))

	assert.Equal(t, http.StatusCreated, rec.Code)
	var created models.LegalCase
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, models.ImpactUnspecified, created.ImpactLevel, "unknown impact is bucketed, not coerced")
}
