package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"clothora-backend/internal/models"
	"clothora-backend/internal/supabase"
)

// requireDB rejects the request when the server came up without a database
// connection. Design, checkout and wishlist state live in memory and keep
// working; everything durable does not.
func requireDB(c *gin.Context, db *supabase.DatabaseClient) bool {
	if db == nil {
		c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{Error: "database unavailable"})
		return false
	}
	return true
}
