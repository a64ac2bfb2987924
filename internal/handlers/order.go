package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"clothora-backend/internal/middleware"
	"clothora-backend/internal/models"
	"clothora-backend/internal/supabase"
)

type OrderHandler struct {
	db *supabase.DatabaseClient
}

func NewOrderHandler(db *supabase.DatabaseClient) *OrderHandler {
	return &OrderHandler{db: db}
}

// List godoc
// @Summary     List the caller's orders
// @Description Orders are scoped to the authenticated user, newest first.
// @Tags        orders
// @Produce     json
// @Security    Bearer
// @Success     200 {object} models.OrderListResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /orders [get]
func (h *OrderHandler) List(c *gin.Context) {
	userID, exists := c.Get(middleware.UserIDKey)
	if !exists {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "user id not found"})
		return
	}
	if !requireDB(c, h.db) {
		return
	}

	orders, err := h.db.ListOrders(userID.(string))
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to list orders",
			Message: err.Error(),
		})
		return
	}

	resp := models.OrderListResponse{Orders: make([]models.OrderResponse, 0, len(orders))}
	for i := range orders {
		resp.Orders = append(resp.Orders, models.NewOrderResponse(&orders[i]))
	}
	c.JSON(http.StatusOK, resp)
}
