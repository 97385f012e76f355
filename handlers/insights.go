package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"goalwise/api/db"
	"goalwise/api/insights"
	"goalwise/api/llm"
	"goalwise/api/logger"
	"goalwise/api/models"
	"goalwise/api/mongodb"
)

type GenerateInsightsRequest struct {
	BudgetItems  []models.BudgetItem  `json:"budgetItems"`
	Goals        []models.Goal        `json:"goals"`
	Transactions []models.Transaction `json:"transactions"`
	UserID       string               `json:"userId"`
}

type profileStore struct{}

func (profileStore) GetProfile(ctx context.Context, userID string) (*models.Profile, error) {
	return db.GetProfile(ctx, userID)
}

type insightStore struct{}

func (insightStore) GetInsightRecord(ctx context.Context, userID string) (*models.InsightRecord, error) {
	return mongodb.GetInsightRecord(ctx, userID)
}

func (insightStore) UpsertInsightRecord(ctx context.Context, rec *models.InsightRecord) error {
	return mongodb.UpsertInsightRecord(ctx, rec)
}

var InsightService *insights.Service

// InitInsightService wires the insight workflow to Postgres, MongoDB and
// the Groq client.
func InitInsightService() {
	InsightService = insights.NewService(profileStore{}, insightStore{}, llm.NewGroqClient())
}

func HandleGenerateInsights(c *gin.Context) {
	var req GenerateInsightsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.UserID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing userId"})
		return
	}

	snapshot := models.FinancialSnapshot{
		BudgetItems:  req.BudgetItems,
		Goals:        req.Goals,
		Transactions: req.Transactions,
	}

	payload, err := InsightService.Generate(c.Request.Context(), req.UserID, snapshot)
	if err != nil {
		var modelErr *insights.ModelError
		var recoverErr *insights.RecoverError

		switch {
		case errors.Is(err, insights.ErrProfileNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
		case errors.As(err, &modelErr):
			logger.Get().Error("insight generation failed",
				zap.String("user_id", req.UserID),
				zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":       "Failed to generate insights",
				"rawResponse": modelErr.Raw,
				"details":     modelErr.Err.Error(),
			})
		case errors.As(err, &recoverErr):
			logger.Get().Error("failed to parse model response",
				zap.String("user_id", req.UserID),
				zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":       "Failed to parse insights",
				"rawResponse": recoverErr.Raw,
				"details":     recoverErr.Err.Error(),
			})
		default:
			logger.Get().Error("insight workflow failed",
				zap.String("user_id", req.UserID),
				zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate insights"})
		}
		return
	}

	// A nil payload is a valid outcome: free tier, or model output that
	// did not survive sanitization. Nothing was cached either way.
	if payload == nil {
		c.JSON(http.StatusOK, gin.H{"insights": nil})
		return
	}

	c.JSON(http.StatusOK, gin.H{"insights": payload})
}
