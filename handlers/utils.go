package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"goalwise/api/logger"
	"goalwise/api/models"
)

// currentClaims pulls the authenticated Supabase claims out of the gin
// context, writing the 401 itself when they are missing or malformed.
func currentClaims(c *gin.Context) (*models.SupabaseClaims, bool) {
	user, exists := c.Get("user")
	if !exists {
		logger.Get().Error("user not authenticated")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return nil, false
	}

	claims, ok := user.(*models.SupabaseClaims)
	if !ok {
		logger.Get().Error("invalid user claims")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user claims"})
		return nil, false
	}

	return claims, true
}
