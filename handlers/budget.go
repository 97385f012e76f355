package handlers

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"goalwise/api/db"
	"goalwise/api/logger"
	"goalwise/api/models"
)

func HandleGetBudgetItems(c *gin.Context) {
	claims, ok := currentClaims(c)
	if !ok {
		return
	}

	items, err := db.GetBudgetItemsByUserID(c.Request.Context(), claims.Sub)
	if err != nil {
		logger.Get().Error("error getting budget items",
			zap.String("user_id", claims.Sub),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"budgetItems": items})
}

func HandleCreateBudgetItem(c *gin.Context) {
	claims, ok := currentClaims(c)
	if !ok {
		return
	}

	var item models.BudgetItem
	if err := c.ShouldBindJSON(&item); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := db.CreateBudgetItem(c.Request.Context(), claims.Sub, &item); err != nil {
		logger.Get().Error("error creating budget item",
			zap.String("user_id", claims.Sub),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"budgetItem": item})
}

func HandleUpdateBudgetItem(c *gin.Context) {
	claims, ok := currentClaims(c)
	if !ok {
		return
	}

	var item models.BudgetItem
	if err := c.ShouldBindJSON(&item); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	item.ID = c.Param("id")

	if err := db.UpdateBudgetItem(c.Request.Context(), claims.Sub, &item); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Budget item not found"})
			return
		}
		logger.Get().Error("error updating budget item",
			zap.String("user_id", claims.Sub),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"budgetItem": item})
}

func HandleDeleteBudgetItem(c *gin.Context) {
	claims, ok := currentClaims(c)
	if !ok {
		return
	}

	if err := db.DeleteBudgetItem(c.Request.Context(), claims.Sub, c.Param("id")); err != nil {
		logger.Get().Error("error deleting budget item",
			zap.String("user_id", claims.Sub),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Budget item deleted successfully"})
}
