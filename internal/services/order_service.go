package services

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"clothora-backend/internal/checkout"
	"clothora-backend/internal/models"
	"clothora-backend/internal/session"
	"clothora-backend/internal/supabase"
)

// OrderTotalAmount is the fixed order total. Placeholder pricing policy,
// not a pricing engine.
const OrderTotalAmount = 1499.00

// OrderStore persists assembled orders. EnsureUser must be idempotent:
// order rows reference their owner, and the owner row may not exist yet
// for a user who has never touched the profile endpoint.
type OrderStore interface {
	EnsureUser(userID string) error
	CreateOrder(o *models.Order) (*models.Order, error)
}

// EventPublisher notifies a user's clients of order lifecycle events.
type EventPublisher interface {
	PublishUserEvent(userID string, event string, payload map[string]interface{}) error
}

// SubmitError is a validation failure during order submission. RedirectTo
// names the step that produced the incomplete data, distinguished by the
// design's provenance.
type SubmitError struct {
	Reason     string
	RedirectTo string
}

func (e *SubmitError) Error() string {
	return e.Reason
}

// OrderService runs the order submission protocol: validate, assemble the
// denormalized payload, persist, then complete and schedule the state
// reset. A persistence failure is terminal for the attempt and leaves the
// checkout state intact so the user can retry without re-entering data.
type OrderService struct {
	store      OrderStore
	realtime   EventPublisher
	resetDelay time.Duration
}

func NewOrderService(store OrderStore, realtime EventPublisher, resetDelay time.Duration) *OrderService {
	return &OrderService{
		store:      store,
		realtime:   realtime,
		resetDelay: resetDelay,
	}
}

// redirectFor maps a design's provenance to the step the user should be
// sent back to when that design turns out incomplete.
func redirectFor(source models.DesignSource) string {
	if source == models.SourceWishlist {
		return "/wishlist"
	}
	return "/design/generate"
}

// resolveImageURL picks the actual image reference for the order: a live
// design flow reads the wizard's selection, a wishlist design reads the
// separately-held temp image.
func resolveImageURL(sess *session.Session, source models.DesignSource) string {
	if source == models.SourceDesignFlow {
		return sess.Design.SelectedImageURL()
	}
	return sess.Checkout.TempImageURL()
}

// Submit validates and persists the order for the session's checkout
// state. On success progress reaches 100 and both the checkout and design
// states are reset after the configured settle delay.
func (s *OrderService) Submit(userID string, sess *session.Session, payment models.PaymentDetails) (*models.Order, error) {
	if userID == "" {
		return nil, &SubmitError{Reason: "user identity is missing", RedirectTo: "/sign-in"}
	}

	design := sess.Checkout.Design()
	addr := sess.Checkout.Address()
	if design == nil {
		return nil, &SubmitError{Reason: "no design in checkout", RedirectTo: "/design"}
	}
	if addr == nil {
		return nil, &SubmitError{Reason: "shipping address is missing", RedirectTo: "/checkout-address"}
	}
	if design.Size == "" || design.Material == "" {
		return nil, &SubmitError{
			Reason:     "the selected design is missing size or material information",
			RedirectTo: redirectFor(design.Source),
		}
	}
	imageURL := resolveImageURL(sess, design.Source)
	if imageURL == "" {
		return nil, &SubmitError{
			Reason:     "no image is associated with the selected design",
			RedirectTo: redirectFor(design.Source),
		}
	}

	if !sess.Checkout.TryBeginSubmit() {
		return nil, checkout.ErrSubmitInFlight
	}
	defer sess.Checkout.EndSubmit()

	sess.Checkout.SetPaymentDetails(&payment)

	order := &models.Order{
		UserID:           userID,
		DesignPrompt:     design.Prompt,
		DesignImageURL:   imageURL,
		DesignSize:       design.Size,
		DesignMaterial:   design.Material,
		ShippingFullName: addr.FullName,
		ShippingStreet:   addr.Street,
		ShippingCity:     addr.City,
		ShippingState:    addr.State,
		ShippingZipCode:  addr.ZipCode,
		ShippingCountry:  addr.Country,
		PaymentMethod:    payment.Method,
		OrderDate:        time.Now().UTC(),
		TotalAmount:      OrderTotalAmount,
		Status:           models.OrderStatusProcessing,
	}
	if design.BasePrompt != "" {
		order.DesignBasePrompt = sql.NullString{String: design.BasePrompt, Valid: true}
	}
	if digits := payment.CardNumber; digits != "" {
		if len(digits) > 4 {
			digits = digits[len(digits)-4:]
		}
		order.PaymentCardLast4 = sql.NullString{String: digits, Valid: true}
	}

	if err := s.store.EnsureUser(userID); err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("user registration failed")
		return nil, fmt.Errorf("failed to save order: %w", err)
	}

	saved, err := s.store.CreateOrder(order)
	if err != nil {
		// Terminal for this attempt. Progress stays put and the checkout
		// state keeps the design and address so the retry needs no
		// re-entry.
		log.Error().Err(err).Str("user_id", userID).Msg("order persistence failed")
		return nil, fmt.Errorf("failed to save order: %w", err)
	}

	if err := sess.Checkout.Complete(); err != nil {
		log.Warn().Err(err).Str("order_id", saved.ID.String()).Msg("checkout completion after persisted order")
	}

	if s.realtime != nil {
		if err := s.realtime.PublishUserEvent(userID, "order_created", supabase.OrderCreatedPayload(saved.ID, saved.Status)); err != nil {
			log.Warn().Err(err).Str("order_id", saved.ID.String()).Msg("failed to publish order creation")
		}
	}

	// Reset after a short delay so the client's navigation to the
	// confirmation page settles before the backing state disappears.
	time.AfterFunc(s.resetDelay, func() {
		sess.Checkout.Reset()
		sess.Design.Reset()
	})

	log.Info().Str("order_id", saved.ID.String()).Str("user_id", userID).Msg("order placed")
	return saved, nil
}
