package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"goalwise/api/insights"
	"goalwise/api/models"
)

type stubProfiles map[string]*models.Profile

func (s stubProfiles) GetProfile(_ context.Context, userID string) (*models.Profile, error) {
	return s[userID], nil
}

type stubRecords struct {
	records map[string]*models.InsightRecord
}

func (s *stubRecords) GetInsightRecord(_ context.Context, userID string) (*models.InsightRecord, error) {
	return s.records[userID], nil
}

func (s *stubRecords) UpsertInsightRecord(_ context.Context, rec *models.InsightRecord) error {
	s.records[rec.UserID] = rec
	return nil
}

type stubChat string

func (s stubChat) Complete(_ context.Context, _ string) (string, error) {
	return string(s), nil
}

func insightsRouter(plan models.SubscriptionPlan, response string) *gin.Engine {
	gin.SetMode(gin.TestMode)

	InsightService = insights.NewService(
		stubProfiles{"u1": {ID: "u1", Name: "Ana", SubscriptionPlan: plan}},
		&stubRecords{records: map[string]*models.InsightRecord{}},
		stubChat(response),
	)

	router := gin.New()
	router.POST("/api/insights", HandleGenerateInsights)
	return router
}

func postInsights(t *testing.T, router *gin.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/insights", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandleGenerateInsightsGrowth(t *testing.T) {
	router := insightsRouter(models.PlanGrowth, `Sure! [{"tip": "Save more"}]`)

	w := postInsights(t, router, `{"userId": "u1", "budgetItems": [], "goals": [], "transactions": []}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp struct {
		Insights struct {
			Tips []string `json:"tips"`
		} `json:"insights"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Insights.Tips) != 1 || resp.Insights.Tips[0] != "Save more" {
		t.Fatalf("unexpected tips %v", resp.Insights.Tips)
	}
}

func TestHandleGenerateInsightsFreeTier(t *testing.T) {
	router := insightsRouter(models.PlanFree, `should never be called`)

	w := postInsights(t, router, `{"userId": "u1"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if v, ok := resp["insights"]; !ok || v != nil {
		t.Fatalf("expected insights to be null, got %v", resp)
	}
}

func TestHandleGenerateInsightsMissingUserID(t *testing.T) {
	router := insightsRouter(models.PlanGrowth, `[]`)

	w := postInsights(t, router, `{"budgetItems": []}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestHandleGenerateInsightsUnknownUser(t *testing.T) {
	router := insightsRouter(models.PlanGrowth, `[]`)

	w := postInsights(t, router, `{"userId": "nope"}`)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestHandleGenerateInsightsUnparseableModelOutput(t *testing.T) {
	router := insightsRouter(models.PlanGrowth, `I cannot help with that.`)

	w := postInsights(t, router, `{"userId": "u1"}`)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}

	var resp struct {
		Error       string `json:"error"`
		RawResponse string `json:"rawResponse"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.RawResponse != "I cannot help with that." {
		t.Fatalf("rawResponse = %q, should carry the model text", resp.RawResponse)
	}
}
