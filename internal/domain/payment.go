package domain

import "time"

// PaymentTransaction is the dedupe record for payment-provider callbacks.
// TxnID is the provider's transaction id and is unique; replaying a callback
// with a known TxnID is a no-op.
type PaymentTransaction struct {
	ID          int32         `json:"id"`
	TxnID       string        `json:"txn_id"`
	BookingID   int32         `json:"booking_id"`
	AmountCents int64         `json:"amount_cents"`
	Method      PaymentMethod `json:"method"`
	CreatedOn   time.Time     `json:"created_on"`
}
