package models

// ClothingSizes and ClothingMaterials are the enumerated filter sets the
// design wizard accepts. Values are stored lowercase.
var (
	ClothingSizes     = []string{"xs", "s", "m", "l", "xl", "xxl"}
	ClothingMaterials = []string{"cotton", "polyester", "silk", "wool", "linen", "denim", "leather", "rayon", "spandex"}
)

type ClothingFilters struct {
	Size     string `json:"size"`
	Material string `json:"material"`
}

// IsSet reports whether both filter dimensions have been chosen.
func (f ClothingFilters) IsSet() bool {
	return f.Size != "" && f.Material != ""
}

// DesignSource tags where a design handed to checkout came from.
// The checkout state machine never infers this; callers set it.
type DesignSource string

const (
	SourceDesignFlow DesignSource = "fromDesignFlow"
	SourceWishlist   DesignSource = "fromWishlist"
)

// Design is a finalized design candidate. The ID can be the image URL for
// transient designs, or a minted stable ID for saved ones.
type Design struct {
	ID         string       `json:"id"`
	Prompt     string       `json:"prompt"`
	BasePrompt string       `json:"base_prompt,omitempty"`
	ImageURL   string       `json:"image_url"`
	Size       string       `json:"size"`
	Material   string       `json:"material"`
	Source     DesignSource `json:"source,omitempty"`
}

// PaymentDetails carries only display-safe payment data. CardNumber holds
// the last 4 digits, never the full PAN.
type PaymentDetails struct {
	Method     string `json:"method"`
	CardNumber string `json:"card_number,omitempty"`
	ExpiryDate string `json:"expiry_date,omitempty"`
}
