package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"clothora-backend/internal/checkout"
	"clothora-backend/internal/middleware"
	"clothora-backend/internal/models"
	"clothora-backend/internal/services"
	"clothora-backend/internal/session"
)

type CheckoutHandler struct {
	sessions *session.Manager
	orders   *services.OrderService
}

func NewCheckoutHandler(sessions *session.Manager, orders *services.OrderService) *CheckoutHandler {
	return &CheckoutHandler{sessions: sessions, orders: orders}
}

func (h *CheckoutHandler) userSession(c *gin.Context) (string, *session.Session, bool) {
	userID, exists := c.Get(middleware.UserIDKey)
	if !exists {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "user id not found"})
		return "", nil, false
	}
	id := userID.(string)
	return id, h.sessions.Get(id), true
}

// Get godoc
// @Summary     Get checkout state
// @Tags        checkout
// @Produce     json
// @Security    Bearer
// @Success     200 {object} models.CheckoutStateResponse
// @Router      /checkout [get]
func (h *CheckoutHandler) Get(c *gin.Context) {
	_, sess, ok := h.userSession(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, sess.Checkout.Snapshot())
}

// Start godoc
// @Summary     Enter the checkout flow
// @Description Stores a design snapshot (image stripped into temp_image_url), clears any prior address and payment, and sets progress to the address step. The design must carry its provenance tag.
// @Tags        checkout
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       request body models.StartCheckoutRequest true "Design entering checkout"
// @Success     200 {object} models.CheckoutStateResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     422 {object} models.ErrorResponse
// @Router      /checkout/start [post]
func (h *CheckoutHandler) Start(c *gin.Context) {
	_, sess, ok := h.userSession(c)
	if !ok {
		return
	}

	var req models.StartCheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request", Message: err.Error()})
		return
	}

	tempImageURL := req.TempImageURL
	if tempImageURL == "" {
		tempImageURL = req.Design.ImageURL
	}

	if err := sess.Checkout.Start(req.Design, tempImageURL); err != nil {
		c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{Error: "cannot start checkout", Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, sess.Checkout.Snapshot())
}

// SetAddress godoc
// @Summary     Set or clear the shipping address
// @Description A non-null address moves progress forward to the payment step; null clears the address without rolling progress back.
// @Tags        checkout
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       request body models.SetShippingAddressRequest true "Shipping address, or null to clear"
// @Success     200 {object} models.CheckoutStateResponse
// @Failure     400 {object} models.ErrorResponse
// @Router      /checkout/address [put]
func (h *CheckoutHandler) SetAddress(c *gin.Context) {
	_, sess, ok := h.userSession(c)
	if !ok {
		return
	}

	var req models.SetShippingAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request", Message: err.Error()})
		return
	}

	sess.Checkout.SetShippingAddress(req.Address)
	c.JSON(http.StatusOK, sess.Checkout.Snapshot())
}

// SetPayment godoc
// @Summary     Set payment details
// @Description Records payment details without advancing progress; completion is gated on order persistence.
// @Tags        checkout
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       request body models.SetPaymentDetailsRequest true "Payment details, or null to clear"
// @Success     200 {object} models.CheckoutStateResponse
// @Failure     400 {object} models.ErrorResponse
// @Router      /checkout/payment [put]
func (h *CheckoutHandler) SetPayment(c *gin.Context) {
	_, sess, ok := h.userSession(c)
	if !ok {
		return
	}

	var req models.SetPaymentDetailsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request", Message: err.Error()})
		return
	}

	sess.Checkout.SetPaymentDetails(req.Payment)
	c.JSON(http.StatusOK, sess.Checkout.Snapshot())
}

// SetProgress godoc
// @Summary     Resynchronize the progress display
// @Tags        checkout
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       request body models.SetProgressRequest true "Progress value (0, 33, 66 or 100)"
// @Success     200 {object} models.CheckoutStateResponse
// @Failure     400 {object} models.ErrorResponse
// @Router      /checkout/progress [put]
func (h *CheckoutHandler) SetProgress(c *gin.Context) {
	_, sess, ok := h.userSession(c)
	if !ok {
		return
	}

	var req models.SetProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request", Message: err.Error()})
		return
	}

	if err := sess.Checkout.SetProgress(req.Progress); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid progress", Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, sess.Checkout.Snapshot())
}

// Submit godoc
// @Summary     Submit the order
// @Description Validates the checkout, persists the order, marks completion and schedules a delayed session reset. On validation failure the response carries redirect_to naming the step to return to; on persistence failure the checkout state is left intact for retry.
// @Tags        checkout
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       request body models.SubmitOrderRequest true "Payment details"
// @Success     201 {object} models.OrderResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     409 {object} models.ErrorResponse
// @Failure     422 {object} models.ErrorResponse
// @Failure     502 {object} models.ErrorResponse
// @Router      /checkout/submit [post]
func (h *CheckoutHandler) Submit(c *gin.Context) {
	userID, sess, ok := h.userSession(c)
	if !ok {
		return
	}

	if h.orders == nil {
		c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{Error: "order submission unavailable"})
		return
	}

	var req models.SubmitOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request", Message: err.Error()})
		return
	}

	saved, err := h.orders.Submit(userID, sess, req.Payment)
	if err != nil {
		var submitErr *services.SubmitError
		switch {
		case errors.As(err, &submitErr):
			c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{
				Error:      "order submission rejected",
				Message:    submitErr.Reason,
				RedirectTo: submitErr.RedirectTo,
			})
		case errors.Is(err, checkout.ErrSubmitInFlight):
			c.JSON(http.StatusConflict, models.ErrorResponse{Error: "an order submission is already in flight"})
		default:
			c.JSON(http.StatusBadGateway, models.ErrorResponse{
				Error:   "could not place order",
				Message: err.Error(),
			})
		}
		return
	}

	c.JSON(http.StatusCreated, models.NewOrderResponse(saved))
}

// Reset godoc
// @Summary     Reset the checkout state
// @Tags        checkout
// @Produce     json
// @Security    Bearer
// @Success     200 {object} models.CheckoutStateResponse
// @Router      /checkout/reset [post]
func (h *CheckoutHandler) Reset(c *gin.Context) {
	_, sess, ok := h.userSession(c)
	if !ok {
		return
	}
	sess.Checkout.Reset()
	c.JSON(http.StatusOK, sess.Checkout.Snapshot())
}
