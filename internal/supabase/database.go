package supabase

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"clothora-backend/internal/models"
)

// ErrNotFound is returned when an owner-scoped lookup matches no row. It
// covers both "does not exist" and "belongs to someone else" so that no
// other user's data can leak through error detail.
var ErrNotFound = errors.New("not found")

type DatabaseClient struct {
	db *sql.DB
}

func NewDatabaseClient(connectionString string) (*DatabaseClient, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DatabaseClient{db: db}, nil
}

// --- users ---

func (d *DatabaseClient) GetUser(userID string) (*models.AppUser, error) {
	var user models.AppUser
	err := d.db.QueryRow(`
		SELECT id, email, full_name, phone_number, created_at, updated_at
		FROM app_users
		WHERE id = $1
	`, userID).Scan(
		&user.ID, &user.Email, &user.FullName, &user.PhoneNumber, &user.CreatedAt, &user.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

// EnsureUser guarantees an app_users row exists for an externally issued
// identity, so that address and order inserts never trip their foreign
// keys for a user who has not touched the profile endpoint. Existing rows
// are left untouched; profile fields sync later via the profile handler.
func (d *DatabaseClient) EnsureUser(userID string) error {
	_, err := d.db.Exec(`
		INSERT INTO app_users (id)
		VALUES ($1)
		ON CONFLICT (id) DO NOTHING
	`, userID)
	if err != nil {
		return fmt.Errorf("failed to ensure user: %w", err)
	}
	return nil
}

// CreateUser inserts the identity's profile row, or backfills a bare row
// that EnsureUser minted on an earlier address or order write. Fields the
// user has already set are never overwritten.
func (d *DatabaseClient) CreateUser(userID string, email, fullName, phoneNumber *string) (*models.AppUser, error) {
	var user models.AppUser
	err := d.db.QueryRow(`
		INSERT INTO app_users (id, email, full_name, phone_number)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE
		SET email = COALESCE(app_users.email, EXCLUDED.email),
			full_name = COALESCE(app_users.full_name, EXCLUDED.full_name),
			phone_number = COALESCE(app_users.phone_number, EXCLUDED.phone_number),
			updated_at = NOW()
		RETURNING id, email, full_name, phone_number, created_at, updated_at
	`, userID, email, fullName, phoneNumber).Scan(
		&user.ID, &user.Email, &user.FullName, &user.PhoneNumber, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return &user, nil
}

// UpdateUserProfile updates only the provided fields. With nothing to
// update it returns the current row.
func (d *DatabaseClient) UpdateUserProfile(userID string, fullName, email, phoneNumber *string) (*models.AppUser, error) {
	var fields []string
	var values []interface{}
	param := 1

	if fullName != nil {
		fields = append(fields, fmt.Sprintf("full_name = $%d", param))
		values = append(values, *fullName)
		param++
	}
	if email != nil {
		fields = append(fields, fmt.Sprintf("email = $%d", param))
		values = append(values, *email)
		param++
	}
	if phoneNumber != nil {
		fields = append(fields, fmt.Sprintf("phone_number = $%d", param))
		values = append(values, *phoneNumber)
		param++
	}

	if len(fields) == 0 {
		return d.GetUser(userID)
	}

	values = append(values, userID)
	query := fmt.Sprintf(`
		UPDATE app_users
		SET %s, updated_at = NOW()
		WHERE id = $%d
		RETURNING id, email, full_name, phone_number, created_at, updated_at
	`, strings.Join(fields, ", "), param)

	var user models.AppUser
	err := d.db.QueryRow(query, values...).Scan(
		&user.ID, &user.Email, &user.FullName, &user.PhoneNumber, &user.CreatedAt, &user.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return &user, nil
}

func (d *DatabaseClient) ListUsers() ([]models.AppUser, error) {
	rows, err := d.db.Query(`
		SELECT id, email, full_name, phone_number, created_at, updated_at
		FROM app_users
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []models.AppUser
	for rows.Next() {
		var user models.AppUser
		err := rows.Scan(&user.ID, &user.Email, &user.FullName, &user.PhoneNumber, &user.CreatedAt, &user.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}

	return users, nil
}

// --- addresses ---

func (d *DatabaseClient) ListAddresses(userID string) ([]models.ManagedAddress, error) {
	rows, err := d.db.Query(`
		SELECT id, user_id, full_name, street, city, state, zip_code, country, created_at, updated_at
		FROM user_addresses
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list addresses: %w", err)
	}
	defer rows.Close()

	var addresses []models.ManagedAddress
	for rows.Next() {
		var a models.ManagedAddress
		err := rows.Scan(
			&a.ID, &a.UserID, &a.FullName, &a.Street, &a.City, &a.State,
			&a.ZipCode, &a.Country, &a.CreatedAt, &a.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan address: %w", err)
		}
		addresses = append(addresses, a)
	}

	return addresses, nil
}

func (d *DatabaseClient) CreateAddress(userID string, addr models.Address) (*models.ManagedAddress, error) {
	if err := d.EnsureUser(userID); err != nil {
		return nil, err
	}

	var a models.ManagedAddress
	err := d.db.QueryRow(`
		INSERT INTO user_addresses (user_id, full_name, street, city, state, zip_code, country)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, user_id, full_name, street, city, state, zip_code, country, created_at, updated_at
	`, userID, addr.FullName, addr.Street, addr.City, addr.State, addr.ZipCode, addr.Country).Scan(
		&a.ID, &a.UserID, &a.FullName, &a.Street, &a.City, &a.State,
		&a.ZipCode, &a.Country, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create address: %w", err)
	}

	return &a, nil
}

// UpdateAddress is owner-scoped: a mismatched user yields ErrNotFound, the
// same as a missing row.
func (d *DatabaseClient) UpdateAddress(addressID uuid.UUID, userID string, addr models.Address) (*models.ManagedAddress, error) {
	var a models.ManagedAddress
	err := d.db.QueryRow(`
		UPDATE user_addresses
		SET full_name = $1, street = $2, city = $3, state = $4, zip_code = $5, country = $6, updated_at = NOW()
		WHERE id = $7 AND user_id = $8
		RETURNING id, user_id, full_name, street, city, state, zip_code, country, created_at, updated_at
	`, addr.FullName, addr.Street, addr.City, addr.State, addr.ZipCode, addr.Country, addressID, userID).Scan(
		&a.ID, &a.UserID, &a.FullName, &a.Street, &a.City, &a.State,
		&a.ZipCode, &a.Country, &a.CreatedAt, &a.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update address: %w", err)
	}

	return &a, nil
}

func (d *DatabaseClient) DeleteAddress(addressID uuid.UUID, userID string) error {
	result, err := d.db.Exec(`
		DELETE FROM user_addresses
		WHERE id = $1 AND user_id = $2
	`, addressID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete address: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// --- orders ---

const orderColumns = `id, user_id, design_prompt, design_base_prompt, design_image_url, design_size, design_material,
		shipping_address_full_name, shipping_address_street, shipping_address_city, shipping_address_state,
		shipping_address_zip_code, shipping_address_country, payment_method, payment_card_last4,
		order_date, total_amount, status, created_at, updated_at`

func scanOrder(row interface{ Scan(...interface{}) error }) (*models.Order, error) {
	var o models.Order
	err := row.Scan(
		&o.ID, &o.UserID, &o.DesignPrompt, &o.DesignBasePrompt, &o.DesignImageURL, &o.DesignSize, &o.DesignMaterial,
		&o.ShippingFullName, &o.ShippingStreet, &o.ShippingCity, &o.ShippingState,
		&o.ShippingZipCode, &o.ShippingCountry, &o.PaymentMethod, &o.PaymentCardLast4,
		&o.OrderDate, &o.TotalAmount, &o.Status, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// CreateOrder persists the fully assembled, denormalized order payload.
func (d *DatabaseClient) CreateOrder(o *models.Order) (*models.Order, error) {
	row := d.db.QueryRow(`
		INSERT INTO orders (
			user_id, design_prompt, design_base_prompt, design_image_url, design_size, design_material,
			shipping_address_full_name, shipping_address_street, shipping_address_city, shipping_address_state,
			shipping_address_zip_code, shipping_address_country, payment_method, payment_card_last4,
			order_date, total_amount, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING `+orderColumns,
		o.UserID, o.DesignPrompt, o.DesignBasePrompt, o.DesignImageURL, o.DesignSize, o.DesignMaterial,
		o.ShippingFullName, o.ShippingStreet, o.ShippingCity, o.ShippingState,
		o.ShippingZipCode, o.ShippingCountry, o.PaymentMethod, o.PaymentCardLast4,
		o.OrderDate, o.TotalAmount, o.Status,
	)
	saved, err := scanOrder(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}
	return saved, nil
}

func (d *DatabaseClient) ListOrders(userID string) ([]models.Order, error) {
	rows, err := d.db.Query(`
		SELECT `+orderColumns+`
		FROM orders
		WHERE user_id = $1
		ORDER BY order_date DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, *o)
	}

	return orders, nil
}

// ListAllOrders returns every order across users. Admin surface only.
func (d *DatabaseClient) ListAllOrders() ([]models.Order, error) {
	rows, err := d.db.Query(`
		SELECT ` + orderColumns + `
		FROM orders
		ORDER BY order_date DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, *o)
	}

	return orders, nil
}

// UpdateOrderStatus sets an order's status. Admin surface only; no
// transition constraints are enforced here.
func (d *DatabaseClient) UpdateOrderStatus(orderID uuid.UUID, status string) (*models.Order, error) {
	row := d.db.QueryRow(`
		UPDATE orders
		SET status = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING `+orderColumns,
		status, orderID,
	)
	order, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}
	return order, nil
}

func (d *DatabaseClient) Close() error {
	return d.db.Close()
}
