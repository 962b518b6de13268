package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition_AllowedPairs(t *testing.T) {
	allowed := [][2]BookingStatus{
		{BookingPending, BookingConfirmed},
		{BookingPending, BookingRejected},
		{BookingPending, BookingCancelled},
		{BookingConfirmed, BookingCheckedIn},
		{BookingConfirmed, BookingCancelled},
		{BookingCheckedIn, BookingCheckedOut},
	}
	for _, pair := range allowed {
		assert.True(t, CanTransition(pair[0], pair[1]), "%s -> %s should be allowed", pair[0], pair[1])
	}
}

func TestCanTransition_EverythingElseRejected(t *testing.T) {
	all := []BookingStatus{
		BookingPending, BookingConfirmed, BookingRejected,
		BookingCancelled, BookingCheckedIn, BookingCheckedOut,
	}
	allowed := map[[2]BookingStatus]bool{
		{BookingPending, BookingConfirmed}:   true,
		{BookingPending, BookingRejected}:    true,
		{BookingPending, BookingCancelled}:   true,
		{BookingConfirmed, BookingCheckedIn}: true,
		{BookingConfirmed, BookingCancelled}: true,
		{BookingCheckedIn, BookingCheckedOut}: true,
	}
	for _, from := range all {
		for _, to := range all {
			if allowed[[2]BookingStatus{from, to}] {
				continue
			}
			assert.False(t, CanTransition(from, to), "%s -> %s must be rejected", from, to)
		}
	}
}

func TestBookingStatus_Terminal(t *testing.T) {
	assert.True(t, BookingRejected.IsTerminal())
	assert.True(t, BookingCancelled.IsTerminal())
	assert.True(t, BookingCheckedOut.IsTerminal())
	assert.False(t, BookingPending.IsTerminal())
	assert.False(t, BookingConfirmed.IsTerminal())
}

func TestBookingStatus_ReleasesInventory(t *testing.T) {
	assert.True(t, BookingRejected.ReleasesInventory())
	assert.True(t, BookingCancelled.ReleasesInventory())
	assert.False(t, BookingConfirmed.ReleasesInventory())
	assert.False(t, BookingCheckedOut.ReleasesInventory())
}

func TestKost_PriceFor_Fallbacks(t *testing.T) {
	k := &Kost{PriceMonthly: 1000000}

	weekly, ok := k.PriceFor(DurationWeekly)
	assert.True(t, ok)
	assert.Equal(t, 250000.0, weekly)

	yearly, ok := k.PriceFor(DurationYearly)
	assert.True(t, ok)
	assert.Equal(t, 12000000.0, yearly)

	explicit := 300000.0
	k.PriceWeekly = &explicit
	weekly, _ = k.PriceFor(DurationWeekly)
	assert.Equal(t, explicit, weekly)

	_, ok = k.PriceFor(DurationType("daily"))
	assert.False(t, ok)
}

func TestPaymentStatus_Terminal(t *testing.T) {
	assert.False(t, PaymentPending.IsTerminal())
	for _, s := range []PaymentStatus{PaymentSuccess, PaymentFailed, PaymentExpired, PaymentDenied} {
		assert.True(t, s.IsTerminal(), "%s should be terminal", s)
	}
}
