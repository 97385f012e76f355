package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"goalwise/api/db"
	"goalwise/api/logger"
)

func HandleGetTransactions(c *gin.Context) {
	claims, ok := currentClaims(c)
	if !ok {
		return
	}

	transactions, err := db.GetTransactionsByUserID(c.Request.Context(), claims.Sub)
	if err != nil {
		logger.Get().Error("error getting transactions",
			zap.String("user_id", claims.Sub),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"transactions": transactions})
}
