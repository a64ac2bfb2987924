package models

import "time"

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	// RedirectTo names the step the client should return to when a
	// submission failed because of incomplete upstream data.
	RedirectTo string `json:"redirect_to,omitempty"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

type DesignProgressResponse struct {
	BasePrompt         string          `json:"base_prompt"`
	Filters            ClothingFilters `json:"filters"`
	GeneratedImageURLs []string        `json:"generated_image_urls"`
	SelectedImageURL   string          `json:"selected_image_url,omitempty"`
	CurrentStep        int             `json:"current_step"`
}

type GenerateResponse struct {
	Images []string `json:"images"`
}

type RefinePromptResponse struct {
	RefinedPrompt string `json:"refined_prompt"`
}

type CheckoutStateResponse struct {
	CurrentDesign   *Design         `json:"current_design"`
	TempImageURL    string          `json:"temp_image_url,omitempty"`
	ShippingAddress *Address        `json:"shipping_address"`
	PaymentDetails  *PaymentDetails `json:"payment_details"`
	Progress        int             `json:"progress"`
}

type WishlistResponse struct {
	Items []Design `json:"items"`
}

type WishlistContainsResponse struct {
	Contains bool `json:"contains"`
}

type OrderResponse struct {
	ID          string         `json:"order_id"`
	UserID      string         `json:"user_id"`
	Design      Design         `json:"design"`
	Address     Address        `json:"address"`
	Payment     PaymentDetails `json:"payment"`
	OrderDate   time.Time      `json:"order_date"`
	TotalAmount float64        `json:"total_amount"`
	Status      string         `json:"status"`
}

type OrderListResponse struct {
	Orders []OrderResponse `json:"orders"`
}

type AddressResponse struct {
	ID       string `json:"address_id"`
	FullName string `json:"full_name"`
	Street   string `json:"street"`
	City     string `json:"city"`
	State    string `json:"state"`
	ZipCode  string `json:"zip_code"`
	Country  string `json:"country"`
}

type AddressListResponse struct {
	Addresses []AddressResponse `json:"addresses"`
}

type UserResponse struct {
	ID          string    `json:"user_id"`
	Email       string    `json:"email,omitempty"`
	FullName    string    `json:"full_name,omitempty"`
	PhoneNumber string    `json:"phone_number,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type UserListResponse struct {
	Users []UserResponse `json:"users"`
}

// NewOrderResponse reassembles the denormalized order row into the nested
// client shape.
func NewOrderResponse(o *Order) OrderResponse {
	resp := OrderResponse{
		ID:     o.ID.String(),
		UserID: o.UserID,
		Design: Design{
			ID:       o.DesignImageURL,
			Prompt:   o.DesignPrompt,
			ImageURL: o.DesignImageURL,
			Size:     o.DesignSize,
			Material: o.DesignMaterial,
		},
		Address: Address{
			FullName: o.ShippingFullName,
			Street:   o.ShippingStreet,
			City:     o.ShippingCity,
			State:    o.ShippingState,
			ZipCode:  o.ShippingZipCode,
			Country:  o.ShippingCountry,
		},
		Payment: PaymentDetails{
			Method: o.PaymentMethod,
		},
		OrderDate:   o.OrderDate,
		TotalAmount: o.TotalAmount,
		Status:      o.Status,
	}
	if o.DesignBasePrompt.Valid {
		resp.Design.BasePrompt = o.DesignBasePrompt.String
	}
	if o.PaymentCardLast4.Valid {
		resp.Payment.CardNumber = o.PaymentCardLast4.String
	}
	return resp
}

// NewUserResponse converts the nullable DB row into the client shape.
func NewUserResponse(u *AppUser) UserResponse {
	resp := UserResponse{
		ID:        u.ID,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
	if u.Email.Valid {
		resp.Email = u.Email.String
	}
	if u.FullName.Valid {
		resp.FullName = u.FullName.String
	}
	if u.PhoneNumber.Valid {
		resp.PhoneNumber = u.PhoneNumber.String
	}
	return resp
}

// NewAddressResponse converts a managed address row into the client shape.
func NewAddressResponse(a *ManagedAddress) AddressResponse {
	return AddressResponse{
		ID:       a.ID.String(),
		FullName: a.FullName,
		Street:   a.Street,
		City:     a.City,
		State:    a.State,
		ZipCode:  a.ZipCode,
		Country:  a.Country,
	}
}
