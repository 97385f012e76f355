package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/plaid/plaid-go/v20/plaid"
	"go.uber.org/zap"

	"goalwise/api/db"
	"goalwise/api/kafka"
	"goalwise/api/logger"
	"goalwise/api/models"
)

var PlaidClient *plaid.APIClient

type ExchangeTokenRequest struct {
	PublicToken string `json:"public_token" binding:"required"`
}

type PlaidWebhookRequest struct {
	WebhookType string `json:"webhook_type"`
	WebhookCode string `json:"webhook_code"`
	ItemID      string `json:"item_id"`
}

func CreateLinkToken(c *gin.Context) {
	claims, ok := currentClaims(c)
	if !ok {
		return
	}

	linkTokenRequest := plaid.NewLinkTokenCreateRequest(
		"Goalwise",
		"en",
		[]plaid.CountryCode{plaid.COUNTRYCODE_US},
		plaid.LinkTokenCreateRequestUser{
			ClientUserId: claims.Sub,
		},
	)
	linkTokenRequest.SetProducts([]plaid.Products{plaid.PRODUCTS_TRANSACTIONS})

	linkToken, _, err := PlaidClient.PlaidApi.LinkTokenCreate(c.Request.Context()).LinkTokenCreateRequest(*linkTokenRequest).Execute()
	if err != nil {
		if plaidErr, ok := err.(*plaid.GenericOpenAPIError); ok {
			logger.Get().Error("Plaid link token error",
				zap.String("body", string(plaidErr.Body())))
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": plaidErr.Error(),
				"body":  string(plaidErr.Body()),
			})
		} else {
			logger.Get().Error("error creating link token", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"link_token": linkToken.GetLinkToken()})
}

func ExchangePublicToken(c *gin.Context) {
	claims, ok := currentClaims(c)
	if !ok {
		return
	}

	var req ExchangeTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	exchangeRequest := plaid.NewItemPublicTokenExchangeRequest(req.PublicToken)
	exchangeResponse, _, err := PlaidClient.PlaidApi.ItemPublicTokenExchange(c.Request.Context()).ItemPublicTokenExchangeRequest(*exchangeRequest).Execute()
	if err != nil {
		if plaidErr, ok := err.(*plaid.GenericOpenAPIError); ok {
			logger.Get().Error("Plaid token exchange error",
				zap.String("body", string(plaidErr.Body())))
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": plaidErr.Error(),
				"body":  string(plaidErr.Body()),
			})
		} else {
			logger.Get().Error("error exchanging public token", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	existingItem, err := db.GetPlaidItemByItemID(exchangeResponse.GetItemId())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if existingItem != nil {
		err = db.UpdatePlaidItemStatus(existingItem.ItemID, "active")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update existing item"})
			return
		}
	} else {
		_, err = db.CreatePlaidItem(
			claims.Sub,
			exchangeResponse.GetAccessToken(),
			exchangeResponse.GetItemId(),
		)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"item_id": exchangeResponse.GetItemId()})
}

func GetItems(c *gin.Context) {
	claims, ok := currentClaims(c)
	if !ok {
		return
	}

	items, err := db.GetPlaidItemsByUserID(claims.Sub)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// HandleSyncTransactions queues a transactions sync for every active
// item the premium user has linked.
func HandleSyncTransactions(c *gin.Context) {
	claims, ok := currentClaims(c)
	if !ok {
		return
	}

	profile, err := db.GetProfile(c.Request.Context(), claims.Sub)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if profile == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
		return
	}
	if profile.SubscriptionPlan != models.PlanPremium {
		c.JSON(http.StatusForbidden, gin.H{"error": "Transaction sync requires a premium plan"})
		return
	}

	items, err := db.ListActiveItemsByUserID(claims.Sub)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	queued, err := enqueueSyncJobs(items)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to queue sync"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"queued": queued})
}

// HandlePlaidWebhook reacts to Plaid transaction webhooks by queueing a
// sync for the affected item. The payload was already authenticated by
// the Plaid-Verification middleware.
func HandlePlaidWebhook(c *gin.Context) {
	var req PlaidWebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.WebhookType != "TRANSACTIONS" {
		logger.Get().Debug("ignoring webhook",
			zap.String("webhook_type", req.WebhookType),
			zap.String("webhook_code", req.WebhookCode))
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	switch req.WebhookCode {
	case "SYNC_UPDATES_AVAILABLE", "INITIAL_UPDATE", "HISTORICAL_UPDATE", "DEFAULT_UPDATE":
		item, err := db.GetPlaidItemByItemID(req.ItemID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if item == nil {
			logger.Get().Warn("webhook for unknown Plaid item", zap.String("item_id", req.ItemID))
			c.JSON(http.StatusOK, gin.H{"received": true})
			return
		}

		if _, err := enqueueSyncJobs([]*models.PlaidItem{item}); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to queue sync"})
			return
		}
	default:
		logger.Get().Debug("ignoring transactions webhook code",
			zap.String("webhook_code", req.WebhookCode))
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}

// HandleInternalSyncRun queues sync jobs for every premium user. Hit by
// the scheduled sync cron through the internal API key middleware.
func HandleInternalSyncRun(c *gin.Context) {
	userIDs, err := db.ListPremiumUserIDs()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	queued := 0
	for _, userID := range userIDs {
		items, err := db.ListActiveItemsByUserID(userID)
		if err != nil {
			logger.Get().Error("failed to list items for sync",
				zap.String("user_id", userID),
				zap.Error(err))
			continue
		}

		n, err := enqueueSyncJobs(items)
		if err != nil {
			logger.Get().Error("failed to queue sync jobs",
				zap.String("user_id", userID),
				zap.Error(err))
			continue
		}
		queued += n
	}

	logger.Get().Info("scheduled sync queued",
		zap.Int("users", len(userIDs)),
		zap.Int("jobs", queued))
	c.JSON(http.StatusOK, gin.H{"users": len(userIDs), "queued": queued})
}

func enqueueSyncJobs(items []*models.PlaidItem) (int, error) {
	queued := 0
	for _, item := range items {
		job := models.TransactionsJob{
			JobID:       uuid.NewString(),
			UserID:      item.UserID,
			AccessToken: item.AccessToken,
			ItemID:      item.ItemID,
			Cursor:      item.Cursor,
		}

		jobBytes, err := json.Marshal(job)
		if err != nil {
			return queued, err
		}

		if err := kafka.ProduceMessage(kafka.SyncJobsTopic, jobBytes); err != nil {
			return queued, err
		}

		if err := db.UpdatePlaidItemSyncState(item.ItemID, nil, models.TransactionsJobPending); err != nil {
			logger.Get().Warn("failed to mark item pending",
				zap.String("item_id", item.ItemID),
				zap.Error(err))
		}
		queued++
	}
	return queued, nil
}
