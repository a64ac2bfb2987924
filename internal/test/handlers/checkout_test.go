package handlers_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clothora-backend/internal/checkout"
	"clothora-backend/internal/handlers"
	"clothora-backend/internal/models"
	"clothora-backend/internal/services"
	"clothora-backend/internal/session"
)

type fakeOrderStore struct {
	orders  []*models.Order
	ensured []string
	failErr error
}

func (f *fakeOrderStore) EnsureUser(userID string) error {
	f.ensured = append(f.ensured, userID)
	return nil
}

func (f *fakeOrderStore) CreateOrder(o *models.Order) (*models.Order, error) {
	if f.failErr != nil {
		return nil, f.failErr
	}
	saved := *o
	saved.ID = uuid.New()
	f.orders = append(f.orders, &saved)
	return &saved, nil
}

func checkoutRouter(store *fakeOrderStore) (*gin.Engine, *session.Manager) {
	gin.SetMode(gin.TestMode)
	sessions := session.NewManager()
	orderService := services.NewOrderService(store, nil, time.Millisecond)
	h := handlers.NewCheckoutHandler(sessions, orderService)

	router := gin.New()
	api := router.Group("/api/v1", stubAuth("user-123"))
	api.GET("/checkout", h.Get)
	api.POST("/checkout/start", h.Start)
	api.PUT("/checkout/address", h.SetAddress)
	api.PUT("/checkout/payment", h.SetPayment)
	api.PUT("/checkout/progress", h.SetProgress)
	api.POST("/checkout/submit", h.Submit)
	api.POST("/checkout/reset", h.Reset)
	return router, sessions
}

func wishlistDesign() models.Design {
	return models.Design{
		ID:       "w1",
		Prompt:   "a silk scarf, a silk, size s.",
		ImageURL: "https://cdn.example.com/w1.png",
		Size:     "s",
		Material: "silk",
		Source:   models.SourceWishlist,
	}
}

func testAddress() models.Address {
	return models.Address{
		FullName: "Jamie Doe",
		Street:   "1 Main St",
		City:     "Springfield",
		State:    "IL",
		ZipCode:  "62701",
		Country:  "USA",
	}
}

func TestCheckout_StartStripsImage(t *testing.T) {
	router, _ := checkoutRouter(&fakeOrderStore{})

	w := doJSON(t, router, "POST", "/api/v1/checkout/start", models.StartCheckoutRequest{Design: wishlistDesign()})
	require.Equal(t, http.StatusOK, w.Code)

	var snap models.CheckoutStateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	require.NotNil(t, snap.CurrentDesign)
	assert.Empty(t, snap.CurrentDesign.ImageURL)
	assert.Equal(t, "https://cdn.example.com/w1.png", snap.TempImageURL)
	assert.Equal(t, checkout.ProgressAddress, snap.Progress)
}

func TestCheckout_StartWithoutProvenance(t *testing.T) {
	router, _ := checkoutRouter(&fakeOrderStore{})

	d := wishlistDesign()
	d.Source = ""
	w := doJSON(t, router, "POST", "/api/v1/checkout/start", models.StartCheckoutRequest{Design: d})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestCheckout_AddressAdvancesProgress(t *testing.T) {
	router, _ := checkoutRouter(&fakeOrderStore{})
	doJSON(t, router, "POST", "/api/v1/checkout/start", models.StartCheckoutRequest{Design: wishlistDesign()})

	addr := testAddress()
	w := doJSON(t, router, "PUT", "/api/v1/checkout/address", models.SetShippingAddressRequest{Address: &addr})
	require.Equal(t, http.StatusOK, w.Code)

	var snap models.CheckoutStateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	assert.Equal(t, checkout.ProgressPayment, snap.Progress)

	// Clearing keeps progress.
	w = doJSON(t, router, "PUT", "/api/v1/checkout/address", models.SetShippingAddressRequest{Address: nil})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	assert.Nil(t, snap.ShippingAddress)
	assert.Equal(t, checkout.ProgressPayment, snap.Progress)
}

func TestCheckout_InvalidProgressValue(t *testing.T) {
	router, _ := checkoutRouter(&fakeOrderStore{})

	w := doJSON(t, router, "PUT", "/api/v1/checkout/progress", models.SetProgressRequest{Progress: 50})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCheckout_SubmitPersistsOrder(t *testing.T) {
	store := &fakeOrderStore{}
	router, sessions := checkoutRouter(store)

	doJSON(t, router, "POST", "/api/v1/checkout/start", models.StartCheckoutRequest{Design: wishlistDesign()})
	addr := testAddress()
	doJSON(t, router, "PUT", "/api/v1/checkout/address", models.SetShippingAddressRequest{Address: &addr})

	w := doJSON(t, router, "POST", "/api/v1/checkout/submit", models.SubmitOrderRequest{
		Payment: models.PaymentDetails{Method: "card", CardNumber: "4242"},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var resp models.OrderResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, models.OrderStatusProcessing, resp.Status)
	assert.Equal(t, services.OrderTotalAmount, resp.TotalAmount)
	assert.Equal(t, "https://cdn.example.com/w1.png", resp.Design.ImageURL)
	require.Len(t, store.orders, 1)
	assert.Equal(t, []string{"user-123"}, store.ensured)

	// The session resets shortly after a successful submission.
	assert.Eventually(t, func() bool {
		return sessions.Get("user-123").Checkout.Progress() == checkout.ProgressNone
	}, time.Second, 2*time.Millisecond)
}

func TestCheckout_SubmitRejectionCarriesRedirect(t *testing.T) {
	router, _ := checkoutRouter(&fakeOrderStore{})

	w := doJSON(t, router, "POST", "/api/v1/checkout/submit", models.SubmitOrderRequest{
		Payment: models.PaymentDetails{Method: "card"},
	})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "/design", resp.RedirectTo)
}

func TestCheckout_SubmitPersistenceFailure(t *testing.T) {
	store := &fakeOrderStore{failErr: errors.New("connection refused")}
	router, sessions := checkoutRouter(store)

	doJSON(t, router, "POST", "/api/v1/checkout/start", models.StartCheckoutRequest{Design: wishlistDesign()})
	addr := testAddress()
	doJSON(t, router, "PUT", "/api/v1/checkout/address", models.SetShippingAddressRequest{Address: &addr})

	w := doJSON(t, router, "POST", "/api/v1/checkout/submit", models.SubmitOrderRequest{
		Payment: models.PaymentDetails{Method: "card"},
	})
	assert.Equal(t, http.StatusBadGateway, w.Code)

	// State survives for a retry.
	sess := sessions.Get("user-123")
	assert.Equal(t, checkout.ProgressPayment, sess.Checkout.Progress())
	assert.NotNil(t, sess.Checkout.Design())
	assert.NotNil(t, sess.Checkout.Address())
}

func TestCheckout_Reset(t *testing.T) {
	router, _ := checkoutRouter(&fakeOrderStore{})
	doJSON(t, router, "POST", "/api/v1/checkout/start", models.StartCheckoutRequest{Design: wishlistDesign()})

	w := doJSON(t, router, "POST", "/api/v1/checkout/reset", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var snap models.CheckoutStateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	assert.Nil(t, snap.CurrentDesign)
	assert.Equal(t, checkout.ProgressNone, snap.Progress)
}
