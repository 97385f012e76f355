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

func HandleGetGoals(c *gin.Context) {
	claims, ok := currentClaims(c)
	if !ok {
		return
	}

	goals, err := db.GetGoalsByUserID(c.Request.Context(), claims.Sub)
	if err != nil {
		logger.Get().Error("error getting goals",
			zap.String("user_id", claims.Sub),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"goals": goals})
}

func HandleCreateGoal(c *gin.Context) {
	claims, ok := currentClaims(c)
	if !ok {
		return
	}

	var goal models.Goal
	if err := c.ShouldBindJSON(&goal); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := db.CreateGoal(c.Request.Context(), claims.Sub, &goal); err != nil {
		logger.Get().Error("error creating goal",
			zap.String("user_id", claims.Sub),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"goal": goal})
}

func HandleUpdateGoal(c *gin.Context) {
	claims, ok := currentClaims(c)
	if !ok {
		return
	}

	var goal models.Goal
	if err := c.ShouldBindJSON(&goal); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	goal.ID = c.Param("id")

	if err := db.UpdateGoal(c.Request.Context(), claims.Sub, &goal); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Goal not found"})
			return
		}
		logger.Get().Error("error updating goal",
			zap.String("user_id", claims.Sub),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"goal": goal})
}

func HandleDeleteGoal(c *gin.Context) {
	claims, ok := currentClaims(c)
	if !ok {
		return
	}

	if err := db.DeleteGoal(c.Request.Context(), claims.Sub, c.Param("id")); err != nil {
		logger.Get().Error("error deleting goal",
			zap.String("user_id", claims.Sub),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Goal deleted successfully"})
}
