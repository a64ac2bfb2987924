package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clothora-backend/internal/checkout"
	"clothora-backend/internal/design"
	"clothora-backend/internal/models"
	"clothora-backend/internal/services"
	"clothora-backend/internal/session"
)

type fakeOrderStore struct {
	orders    []*models.Order
	ensured   []string
	failErr   error
	ensureErr error
}

func (f *fakeOrderStore) EnsureUser(userID string) error {
	if f.ensureErr != nil {
		return f.ensureErr
	}
	f.ensured = append(f.ensured, userID)
	return nil
}

func (f *fakeOrderStore) CreateOrder(o *models.Order) (*models.Order, error) {
	if f.failErr != nil {
		return nil, f.failErr
	}
	if len(f.ensured) == 0 {
		return nil, errors.New("order insert without an owning user row")
	}
	saved := *o
	saved.ID = uuid.New()
	saved.CreatedAt = time.Now().UTC()
	saved.UpdatedAt = saved.CreatedAt
	f.orders = append(f.orders, &saved)
	return &saved, nil
}

type fakePublisher struct {
	events []string
}

func (f *fakePublisher) PublishUserEvent(userID string, event string, payload map[string]interface{}) error {
	f.events = append(f.events, event)
	return nil
}

func readyDesignFlowSession(t *testing.T) *session.Session {
	t.Helper()
	sess := session.NewManager().Get("user-123")

	sess.Design.SetBasePrompt("a vintage band tee")
	require.NoError(t, sess.Design.SetFilters(models.ClothingFilters{Size: "m", Material: "cotton"}))

	urls := []string{
		"https://cdn.example.com/a.png",
		"https://cdn.example.com/b.png",
		"https://cdn.example.com/c.png",
	}
	_, err := sess.Design.Generate(context.Background(), design.GeneratorFunc(
		func(ctx context.Context, prompt string) ([]string, error) { return urls, nil },
	))
	require.NoError(t, err)
	require.NoError(t, sess.Design.SelectImage(urls[1]))

	d, err := sess.Design.SelectedDesign()
	require.NoError(t, err)
	d.Source = models.SourceDesignFlow
	require.NoError(t, sess.Checkout.Start(d, d.ImageURL))
	sess.Checkout.SetShippingAddress(&models.Address{
		FullName: "Jamie Doe",
		Street:   "1 Main St",
		City:     "Springfield",
		State:    "IL",
		ZipCode:  "62701",
		Country:  "USA",
	})
	return sess
}

func TestSubmit_FullFlow(t *testing.T) {
	store := &fakeOrderStore{}
	publisher := &fakePublisher{}
	svc := services.NewOrderService(store, publisher, 5*time.Millisecond)
	sess := readyDesignFlowSession(t)

	saved, err := svc.Submit("user-123", sess, models.PaymentDetails{Method: "card", CardNumber: "4242424242424242"})
	require.NoError(t, err)

	assert.Equal(t, "user-123", saved.UserID)
	assert.Equal(t, "a vintage band tee, a cotton, size m.", saved.DesignPrompt)
	assert.Equal(t, "https://cdn.example.com/b.png", saved.DesignImageURL)
	assert.Equal(t, "m", saved.DesignSize)
	assert.Equal(t, "cotton", saved.DesignMaterial)
	assert.Equal(t, models.OrderStatusProcessing, saved.Status)
	assert.Equal(t, services.OrderTotalAmount, saved.TotalAmount)
	require.True(t, saved.PaymentCardLast4.Valid)
	assert.Equal(t, "4242", saved.PaymentCardLast4.String)

	assert.Equal(t, checkout.ProgressComplete, sess.Checkout.Progress())
	assert.Equal(t, []string{"order_created"}, publisher.events)

	// Design and checkout state reset after the configured delay.
	assert.Eventually(t, func() bool {
		return sess.Checkout.Progress() == checkout.ProgressNone &&
			sess.Design.Snapshot().CurrentStep == 1
	}, time.Second, 2*time.Millisecond)
}

func TestSubmit_PersistenceFailureKeepsStateForRetry(t *testing.T) {
	store := &fakeOrderStore{failErr: errors.New("connection refused")}
	svc := services.NewOrderService(store, nil, 5*time.Millisecond)
	sess := readyDesignFlowSession(t)

	_, err := svc.Submit("user-123", sess, models.PaymentDetails{Method: "card"})
	require.Error(t, err)
	var submitErr *services.SubmitError
	assert.False(t, errors.As(err, &submitErr), "persistence failure is not a validation rejection")

	// Everything the user entered survives the failed attempt.
	assert.Equal(t, checkout.ProgressPayment, sess.Checkout.Progress())
	assert.NotNil(t, sess.Checkout.Design())
	assert.NotNil(t, sess.Checkout.Address())
	assert.Equal(t, "https://cdn.example.com/b.png", sess.Design.SelectedImageURL())

	// The retry needs no re-entry of data.
	store.failErr = nil
	saved, err := svc.Submit("user-123", sess, models.PaymentDetails{Method: "card"})
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusProcessing, saved.Status)
}

func TestSubmit_EnsuresOwnerRowBeforePersisting(t *testing.T) {
	// A user with a valid token but no profile row yet must still be able
	// to order; the owner row is guaranteed before the insert.
	store := &fakeOrderStore{}
	svc := services.NewOrderService(store, nil, time.Millisecond)
	sess := readyDesignFlowSession(t)

	_, err := svc.Submit("user-123", sess, models.PaymentDetails{Method: "card"})
	require.NoError(t, err)
	assert.Equal(t, []string{"user-123"}, store.ensured)
}

func TestSubmit_UserRegistrationFailureKeepsStateForRetry(t *testing.T) {
	store := &fakeOrderStore{ensureErr: errors.New("connection refused")}
	svc := services.NewOrderService(store, nil, time.Millisecond)
	sess := readyDesignFlowSession(t)

	_, err := svc.Submit("user-123", sess, models.PaymentDetails{Method: "card"})
	require.Error(t, err)
	assert.Empty(t, store.orders)

	assert.Equal(t, checkout.ProgressPayment, sess.Checkout.Progress())
	assert.NotNil(t, sess.Checkout.Design())
	assert.NotNil(t, sess.Checkout.Address())

	store.ensureErr = nil
	saved, err := svc.Submit("user-123", sess, models.PaymentDetails{Method: "card"})
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusProcessing, saved.Status)
}

func TestSubmit_MissingUser(t *testing.T) {
	svc := services.NewOrderService(&fakeOrderStore{}, nil, time.Millisecond)
	sess := readyDesignFlowSession(t)

	_, err := svc.Submit("", sess, models.PaymentDetails{Method: "card"})
	var submitErr *services.SubmitError
	require.ErrorAs(t, err, &submitErr)
	assert.Equal(t, "/sign-in", submitErr.RedirectTo)
}

func TestSubmit_NoDesign(t *testing.T) {
	svc := services.NewOrderService(&fakeOrderStore{}, nil, time.Millisecond)
	sess := session.NewManager().Get("user-123")

	_, err := svc.Submit("user-123", sess, models.PaymentDetails{Method: "card"})
	var submitErr *services.SubmitError
	require.ErrorAs(t, err, &submitErr)
	assert.Equal(t, "/design", submitErr.RedirectTo)
}

func TestSubmit_MissingAddress(t *testing.T) {
	svc := services.NewOrderService(&fakeOrderStore{}, nil, time.Millisecond)
	sess := readyDesignFlowSession(t)
	sess.Checkout.SetShippingAddress(nil)

	_, err := svc.Submit("user-123", sess, models.PaymentDetails{Method: "card"})
	var submitErr *services.SubmitError
	require.ErrorAs(t, err, &submitErr)
	assert.Equal(t, "/checkout-address", submitErr.RedirectTo)
}

func TestSubmit_IncompleteDesignRedirectsByProvenance(t *testing.T) {
	svc := services.NewOrderService(&fakeOrderStore{}, nil, time.Millisecond)

	// A wishlist design with no size information sends the user back to the
	// wishlist, not into the design wizard.
	sess := session.NewManager().Get("user-123")
	incomplete := models.Design{
		ID:       "w1",
		Prompt:   "a silk scarf",
		ImageURL: "https://cdn.example.com/w1.png",
		Source:   models.SourceWishlist,
	}
	require.NoError(t, sess.Checkout.Start(incomplete, incomplete.ImageURL))
	sess.Checkout.SetShippingAddress(&models.Address{FullName: "Jamie Doe", Street: "1 Main St", City: "Springfield", State: "IL", ZipCode: "62701", Country: "USA"})

	_, err := svc.Submit("user-123", sess, models.PaymentDetails{Method: "card"})
	var submitErr *services.SubmitError
	require.ErrorAs(t, err, &submitErr)
	assert.Equal(t, "/wishlist", submitErr.RedirectTo)
}

func TestSubmit_WishlistDesignUsesTempImage(t *testing.T) {
	store := &fakeOrderStore{}
	svc := services.NewOrderService(store, nil, time.Millisecond)

	sess := session.NewManager().Get("user-123")
	saved := models.Design{
		ID:       "w1",
		Prompt:   "a silk scarf, a silk, size s.",
		ImageURL: "https://cdn.example.com/w1.png",
		Size:     "s",
		Material: "silk",
		Source:   models.SourceWishlist,
	}
	require.NoError(t, sess.Checkout.Start(saved, saved.ImageURL))
	sess.Checkout.SetShippingAddress(&models.Address{FullName: "Jamie Doe", Street: "1 Main St", City: "Springfield", State: "IL", ZipCode: "62701", Country: "USA"})

	order, err := svc.Submit("user-123", sess, models.PaymentDetails{Method: "card"})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/w1.png", order.DesignImageURL)
}

func TestSubmit_RejectsConcurrentSubmission(t *testing.T) {
	svc := services.NewOrderService(&fakeOrderStore{}, nil, time.Millisecond)
	sess := readyDesignFlowSession(t)

	require.True(t, sess.Checkout.TryBeginSubmit())
	defer sess.Checkout.EndSubmit()

	_, err := svc.Submit("user-123", sess, models.PaymentDetails{Method: "card"})
	assert.ErrorIs(t, err, checkout.ErrSubmitInFlight)
}
