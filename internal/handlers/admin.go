package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"clothora-backend/internal/models"
	"clothora-backend/internal/supabase"
)

type AdminHandler struct {
	db       *supabase.DatabaseClient
	realtime *supabase.RealtimeClient
}

func NewAdminHandler(db *supabase.DatabaseClient, realtime *supabase.RealtimeClient) *AdminHandler {
	return &AdminHandler{db: db, realtime: realtime}
}

// ListUsers godoc
// @Summary     List all users
// @Tags        admin
// @Produce     json
// @Security    Bearer
// @Success     200 {object} models.UserListResponse
// @Failure     403 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /admin/users [get]
func (h *AdminHandler) ListUsers(c *gin.Context) {
	if !requireDB(c, h.db) {
		return
	}
	users, err := h.db.ListUsers()
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to list users",
			Message: err.Error(),
		})
		return
	}

	resp := models.UserListResponse{Users: make([]models.UserResponse, 0, len(users))}
	for i := range users {
		resp.Users = append(resp.Users, models.NewUserResponse(&users[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// ListOrders godoc
// @Summary     List orders across all users
// @Tags        admin
// @Produce     json
// @Security    Bearer
// @Success     200 {object} models.OrderListResponse
// @Failure     403 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /admin/orders [get]
func (h *AdminHandler) ListOrders(c *gin.Context) {
	if !requireDB(c, h.db) {
		return
	}
	orders, err := h.db.ListAllOrders()
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

// UpdateOrderStatus godoc
// @Summary     Update an order's fulfillment status
// @Description Any transition within the status vocabulary is allowed; fulfillment is a manual back-office action.
// @Tags        admin
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       order_id path string true "Order ID"
// @Param       request body models.UpdateOrderStatusRequest true "New status"
// @Success     200 {object} models.OrderResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     403 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /admin/orders/{order_id}/status [patch]
func (h *AdminHandler) UpdateOrderStatus(c *gin.Context) {
	if !requireDB(c, h.db) {
		return
	}
	orderID, err := uuid.Parse(c.Param("order_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid order id"})
		return
	}

	var req models.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request", Message: err.Error()})
		return
	}

	if !models.ValidOrderStatus(req.Status) {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid status", Message: "status must be one of Processing, Shipped, Delivered, Cancelled"})
		return
	}

	updated, err := h.db.UpdateOrderStatus(orderID, req.Status)
	if err != nil {
		if errors.Is(err, supabase.ErrNotFound) {
			c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "order not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to update order status",
			Message: err.Error(),
		})
		return
	}

	if h.realtime != nil {
		if err := h.realtime.PublishUserEvent(updated.UserID, "order_status_changed", supabase.OrderStatusChangedPayload(updated.ID, updated.Status)); err != nil {
			log.Warn().Err(err).Str("order_id", updated.ID.String()).Msg("failed to publish status change")
		}
	}

	c.JSON(http.StatusOK, models.NewOrderResponse(updated))
}
