package models

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// AppUser mirrors the identity provider's principal in our own table.
// The ID is the external identity's stable identifier, trusted as the
// owner key for all address and order operations.
type AppUser struct {
	ID          string
	Email       sql.NullString
	FullName    sql.NullString
	PhoneNumber sql.NullString
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Address is a shipping address as entered during checkout.
type Address struct {
	FullName string `json:"full_name"`
	Street   string `json:"street"`
	City     string `json:"city"`
	State    string `json:"state"`
	ZipCode  string `json:"zip_code"`
	Country  string `json:"country"`
}

// ManagedAddress is an Address persisted against the store, independent of
// any in-memory checkout state.
type ManagedAddress struct {
	ID        uuid.UUID
	UserID    string
	Address
	CreatedAt time.Time
	UpdatedAt time.Time
}
