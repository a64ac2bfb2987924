package models

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Order status vocabulary. Transitions are admin-initiated and
// unconstrained; any status is reachable from any other.
const (
	OrderStatusProcessing = "Processing"
	OrderStatusShipped    = "Shipped"
	OrderStatusDelivered  = "Delivered"
	OrderStatusCancelled  = "Cancelled"
)

// ValidOrderStatus reports whether s belongs to the status vocabulary.
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// Order is a denormalized order row: a full copy of design, shipping
// address and payment details at submission time.
type Order struct {
	ID                 uuid.UUID
	UserID             string
	DesignPrompt       string
	DesignBasePrompt   sql.NullString
	DesignImageURL     string
	DesignSize         string
	DesignMaterial     string
	ShippingFullName   string
	ShippingStreet     string
	ShippingCity       string
	ShippingState      string
	ShippingZipCode    string
	ShippingCountry    string
	PaymentMethod      string
	PaymentCardLast4   sql.NullString
	OrderDate          time.Time
	TotalAmount        float64
	Status             string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
