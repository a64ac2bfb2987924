package checkout_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clothora-backend/internal/checkout"
	"clothora-backend/internal/models"
)

func sampleDesign(source models.DesignSource) models.Design {
	return models.Design{
		ID:         "design-1",
		Prompt:     "a vintage band tee, a cotton, size m.",
		BasePrompt: "a vintage band tee",
		ImageURL:   "https://cdn.example.com/a.png",
		Size:       "m",
		Material:   "cotton",
		Source:     source,
	}
}

func sampleAddress() *models.Address {
	return &models.Address{
		FullName: "Jamie Doe",
		Street:   "1 Main St",
		City:     "Springfield",
		State:    "IL",
		ZipCode:  "62701",
		Country:  "USA",
	}
}

func TestState_StartStripsImageAndResetsFields(t *testing.T) {
	s := checkout.NewState()

	// Dirty the state first so Start provably clears it.
	require.NoError(t, s.Start(sampleDesign(models.SourceWishlist), "https://cdn.example.com/old.png"))
	s.SetShippingAddress(sampleAddress())
	s.SetPaymentDetails(&models.PaymentDetails{Method: "card"})

	d := sampleDesign(models.SourceDesignFlow)
	require.NoError(t, s.Start(d, d.ImageURL))

	assert.Equal(t, checkout.ProgressAddress, s.Progress())
	assert.Nil(t, s.Address())
	assert.Nil(t, s.Payment())
	assert.Equal(t, "https://cdn.example.com/a.png", s.TempImageURL())

	stored := s.Design()
	require.NotNil(t, stored)
	assert.Empty(t, stored.ImageURL, "stored design snapshot must not carry the image payload reference")
	assert.Equal(t, "a vintage band tee", stored.BasePrompt)
}

func TestState_StartRequiresProvenance(t *testing.T) {
	s := checkout.NewState()
	d := sampleDesign("")

	err := s.Start(d, d.ImageURL)
	assert.ErrorIs(t, err, checkout.ErrNoProvenance)
	assert.Equal(t, checkout.ProgressNone, s.Progress())
	assert.Nil(t, s.Design())
}

func TestState_SetShippingAddressAdvancesForwardOnly(t *testing.T) {
	s := checkout.NewState()
	d := sampleDesign(models.SourceDesignFlow)
	require.NoError(t, s.Start(d, d.ImageURL))

	s.SetShippingAddress(sampleAddress())
	assert.Equal(t, checkout.ProgressPayment, s.Progress())

	// Setting an address never rolls a later progress value back.
	require.NoError(t, s.SetProgress(checkout.ProgressComplete))
	s.SetShippingAddress(sampleAddress())
	assert.Equal(t, checkout.ProgressComplete, s.Progress())
}

func TestState_ClearingAddressKeepsProgress(t *testing.T) {
	// Clearing the address deliberately leaves progress where it was, so a
	// user editing their address does not get later steps re-locked.
	s := checkout.NewState()
	d := sampleDesign(models.SourceDesignFlow)
	require.NoError(t, s.Start(d, d.ImageURL))
	s.SetShippingAddress(sampleAddress())
	require.Equal(t, checkout.ProgressPayment, s.Progress())

	s.SetShippingAddress(nil)

	assert.Nil(t, s.Address())
	assert.Equal(t, checkout.ProgressPayment, s.Progress())
}

func TestState_SetPaymentDoesNotComplete(t *testing.T) {
	s := checkout.NewState()
	d := sampleDesign(models.SourceDesignFlow)
	require.NoError(t, s.Start(d, d.ImageURL))
	s.SetShippingAddress(sampleAddress())

	s.SetPaymentDetails(&models.PaymentDetails{Method: "card", CardNumber: "4242"})

	// Completion is gated on order persistence, not on entering payment.
	assert.Equal(t, checkout.ProgressPayment, s.Progress())
}

func TestState_SetProgressValidatesValues(t *testing.T) {
	s := checkout.NewState()

	assert.ErrorIs(t, s.SetProgress(50), checkout.ErrInvalidProgress)
	assert.NoError(t, s.SetProgress(checkout.ProgressPayment))
	assert.Equal(t, checkout.ProgressPayment, s.Progress())
}

func TestState_CompleteRequiresAddressAndPayment(t *testing.T) {
	s := checkout.NewState()
	d := sampleDesign(models.SourceDesignFlow)
	require.NoError(t, s.Start(d, d.ImageURL))

	assert.ErrorIs(t, s.Complete(), checkout.ErrIncompleteCheckout)

	s.SetShippingAddress(sampleAddress())
	assert.ErrorIs(t, s.Complete(), checkout.ErrIncompleteCheckout)

	s.SetPaymentDetails(&models.PaymentDetails{Method: "card"})
	assert.NoError(t, s.Complete())
	assert.Equal(t, checkout.ProgressComplete, s.Progress())
}

func TestState_SubmitGuard(t *testing.T) {
	s := checkout.NewState()

	assert.True(t, s.TryBeginSubmit())
	assert.False(t, s.TryBeginSubmit())
	s.EndSubmit()
	assert.True(t, s.TryBeginSubmit())
}

func TestState_AccessorsReturnCopies(t *testing.T) {
	s := checkout.NewState()
	d := sampleDesign(models.SourceDesignFlow)
	require.NoError(t, s.Start(d, d.ImageURL))
	s.SetShippingAddress(sampleAddress())

	addr := s.Address()
	addr.City = "Shelbyville"
	assert.Equal(t, "Springfield", s.Address().City)

	stored := s.Design()
	stored.Prompt = "mutated"
	assert.Equal(t, "a vintage band tee, a cotton, size m.", s.Design().Prompt)
}

func TestState_Reset(t *testing.T) {
	s := checkout.NewState()
	d := sampleDesign(models.SourceWishlist)
	require.NoError(t, s.Start(d, d.ImageURL))
	s.SetShippingAddress(sampleAddress())
	s.SetPaymentDetails(&models.PaymentDetails{Method: "card"})

	s.Reset()

	snap := s.Snapshot()
	assert.Nil(t, snap.CurrentDesign)
	assert.Empty(t, snap.TempImageURL)
	assert.Nil(t, snap.ShippingAddress)
	assert.Nil(t, snap.PaymentDetails)
	assert.Equal(t, checkout.ProgressNone, snap.Progress)
}
