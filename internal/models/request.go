package models

type SetPromptRequest struct {
	Prompt string `json:"prompt"`
}

type SetFiltersRequest struct {
	Size     string `json:"size" binding:"required"`
	Material string `json:"material" binding:"required"`
}

type AdvanceStepRequest struct {
	Step int `json:"step" binding:"required"`
}

type SelectImageRequest struct {
	ImageURL string `json:"image_url" binding:"required"`
}

type RefinePromptRequest struct {
	Prompt string `json:"prompt" binding:"required"`
}

type StartCheckoutRequest struct {
	Design Design `json:"design" binding:"required"`
	// TempImageURL carries the actual image reference separately from the
	// design snapshot, which is stored with its image blanked out.
	TempImageURL string `json:"temp_image_url,omitempty"`
}

// SetShippingAddressRequest clears the address when Address is null.
type SetShippingAddressRequest struct {
	Address *Address `json:"address"`
}

type SetPaymentDetailsRequest struct {
	Payment *PaymentDetails `json:"payment"`
}

type SetProgressRequest struct {
	Progress int `json:"progress"`
}

type SubmitOrderRequest struct {
	Payment PaymentDetails `json:"payment" binding:"required"`
}

type AddWishlistItemRequest struct {
	Design Design `json:"design" binding:"required"`
}

type RemoveWishlistItemRequest struct {
	// Ref is a stable wishlist ID or an image reference; removal matches
	// either key.
	Ref string `json:"ref" binding:"required"`
}

type AddressRequest struct {
	FullName string `json:"full_name" binding:"required"`
	Street   string `json:"street" binding:"required"`
	City     string `json:"city" binding:"required"`
	State    string `json:"state" binding:"required"`
	ZipCode  string `json:"zip_code" binding:"required"`
	Country  string `json:"country" binding:"required"`
}

type UpdateProfileRequest struct {
	FullName    *string `json:"full_name,omitempty"`
	Email       *string `json:"email,omitempty"`
	PhoneNumber *string `json:"phone_number,omitempty"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}
