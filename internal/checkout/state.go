package checkout

import (
	"errors"
	"sync"

	"clothora-backend/internal/models"
)

// Progress values for the post-design flow.
const (
	ProgressNone     = 0
	ProgressAddress  = 33
	ProgressPayment  = 66
	ProgressComplete = 100
)

var (
	ErrNoProvenance       = errors.New("design must carry a provenance tag")
	ErrInvalidProgress    = errors.New("progress must be one of 0, 33, 66, 100")
	ErrIncompleteCheckout = errors.New("shipping address and payment details must both be set")
	ErrSubmitInFlight     = errors.New("an order submission is already in flight")
)

// State tracks one checkout session. The design snapshot is stored with its
// image reference blanked out; the actual image lives in tempImageURL so
// that large payloads never enter the serializable state.
type State struct {
	mu           sync.Mutex
	design       *models.Design
	tempImageURL string
	address      *models.Address
	payment      *models.PaymentDetails
	progress     int
	submitting   bool
}

func NewState() *State {
	return &State{}
}

// Start enters the checkout flow with a design snapshot. Whatever checkout
// was in progress before is discarded: address and payment are cleared and
// progress is set to the address step. The design must already carry its
// provenance tag; the state machine does not infer it.
func (s *State) Start(d models.Design, tempImageURL string) error {
	if d.Source != models.SourceDesignFlow && d.Source != models.SourceWishlist {
		return ErrNoProvenance
	}
	snapshot := d
	snapshot.ImageURL = ""
	s.mu.Lock()
	defer s.mu.Unlock()
	s.design = &snapshot
	s.tempImageURL = tempImageURL
	s.address = nil
	s.payment = nil
	s.progress = ProgressAddress
	return nil
}

// SetShippingAddress records (or clears, when nil) the shipping address.
// A non-nil address moves progress forward to the payment step but never
// backward; clearing the address deliberately leaves progress untouched so
// re-entering the address step does not re-lock later steps.
func (s *State) SetShippingAddress(addr *models.Address) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.address = addr
	if addr != nil && s.progress < ProgressPayment {
		s.progress = ProgressPayment
	}
}

// SetPaymentDetails records payment details. Progress is NOT advanced to
// complete here; completion is gated on durable order persistence.
func (s *State) SetPaymentDetails(p *models.PaymentDetails) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payment = p
}

// SetProgress is a direct override used by the UI to resynchronize the
// progress display. Callers own monotonic intent.
func (s *State) SetProgress(v int) error {
	switch v {
	case ProgressNone, ProgressAddress, ProgressPayment, ProgressComplete:
	default:
		return ErrInvalidProgress
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.progress = v
	return nil
}

// Complete marks the checkout as done. Valid only once both shipping
// address and payment details are present.
func (s *State) Complete() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.address == nil || s.payment == nil {
		return ErrIncompleteCheckout
	}
	s.progress = ProgressComplete
	return nil
}

// TryBeginSubmit claims the per-session submission guard. It returns false
// if a submission is already outstanding.
func (s *State) TryBeginSubmit() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.submitting {
		return false
	}
	s.submitting = true
	return true
}

// EndSubmit releases the submission guard.
func (s *State) EndSubmit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.submitting = false
}

// Design returns a copy of the stored design snapshot, or nil.
func (s *State) Design() *models.Design {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.design == nil {
		return nil
	}
	d := *s.design
	return &d
}

// Address returns a copy of the shipping address, or nil.
func (s *State) Address() *models.Address {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.address == nil {
		return nil
	}
	a := *s.address
	return &a
}

// Payment returns a copy of the payment details, or nil.
func (s *State) Payment() *models.PaymentDetails {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.payment == nil {
		return nil
	}
	p := *s.payment
	return &p
}

// TempImageURL returns the separately-held image reference.
func (s *State) TempImageURL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tempImageURL
}

// Progress returns the current progress scalar.
func (s *State) Progress() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.progress
}

// Snapshot returns a copy of the checkout state for display.
func (s *State) Snapshot() models.CheckoutStateResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	resp := models.CheckoutStateResponse{
		TempImageURL: s.tempImageURL,
		Progress:     s.progress,
	}
	if s.design != nil {
		d := *s.design
		resp.CurrentDesign = &d
	}
	if s.address != nil {
		a := *s.address
		resp.ShippingAddress = &a
	}
	if s.payment != nil {
		p := *s.payment
		resp.PaymentDetails = &p
	}
	return resp
}

// Reset returns the checkout to its zero state, clearing all fields.
func (s *State) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.design = nil
	s.tempImageURL = ""
	s.address = nil
	s.payment = nil
	s.progress = ProgressNone
}
