// Package policy holds the pure cancellation-fee calculation. It has no
// dependencies beyond the domain types so it can be reasoned about and
// tested in isolation.
package policy

import "rentaride-backend/internal/domain"

// CancellationFeeBasisPoints is the fee charged on cancelling a confirmed
// booking: 5% of (amount due + amount paid).
const CancellationFeeBasisPoints = 500

// CancellationResult is the outcome of applying the cancellation policy.
type CancellationResult struct {
	FeeCents        int64
	RefundableCents int64
	// MarkRefunded signals that the payment status should flip to REFUNDED
	// because nothing remains to refund.
	MarkRefunded bool
}

// ComputeCancellation applies the refund policy for a booking being
// cancelled while in statusAtCancellation. Only a CONFIRMED booking incurs
// a fee; every other status cancels free of charge.
func ComputeCancellation(statusAtCancellation domain.BookingStatus, amountDueCents, amountPaidCents int64) CancellationResult {
	var fee int64
	if statusAtCancellation == domain.BookingStatusConfirmed {
		fee = (amountDueCents + amountPaidCents) * CancellationFeeBasisPoints / 10000
	}
	refundable := amountPaidCents - fee
	return CancellationResult{
		FeeCents:        fee,
		RefundableCents: refundable,
		MarkRefunded:    refundable <= 0,
	}
}
