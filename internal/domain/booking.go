package domain

import "time"

type BookingStatus string

const (
	BookingStatusPending          BookingStatus = "PENDING"
	BookingStatusAccepted         BookingStatus = "ACCEPTED"
	BookingStatusRevisionRequired BookingStatus = "REVISION_REQUIRED"
	BookingStatusConfirmed        BookingStatus = "CONFIRMED"
	BookingStatusActive           BookingStatus = "ACTIVE"
	BookingStatusCompleted        BookingStatus = "COMPLETED"
	BookingStatusCancelled        BookingStatus = "CANCELLED"
)

// IsTerminal reports whether no further transitions are allowed.
func (s BookingStatus) IsTerminal() bool {
	return s == BookingStatusCompleted || s == BookingStatusCancelled
}

// NonTerminalStatuses are the statuses that count as an active booking
// for the duplicate (renter, vehicle) check at creation time.
var NonTerminalStatuses = []BookingStatus{
	BookingStatusPending,
	BookingStatusAccepted,
	BookingStatusRevisionRequired,
	BookingStatusConfirmed,
	BookingStatusActive,
}

// OccupancyStatuses are the statuses that grant exclusive occupancy of the
// vehicle for the booking's date range. A rental out with a renter blocks
// the calendar the same way a paid, not-yet-started one does.
var OccupancyStatuses = []BookingStatus{
	BookingStatusConfirmed,
	BookingStatusActive,
}

type PaymentStatus string

const (
	PaymentStatusUnpaid   PaymentStatus = "UNPAID"
	PaymentStatusPartial  PaymentStatus = "PARTIAL"
	PaymentStatusFull     PaymentStatus = "FULL"
	PaymentStatusRefunded PaymentStatus = "REFUNDED"
)

type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "CASH"
	PaymentMethodOnline       PaymentMethod = "ONLINE"
	PaymentMethodBankTransfer PaymentMethod = "BANK_TRANSFER"
)

// AddOn is an optional priced extra attached to a booking, priced per rental day.
type AddOn struct {
	Name             string `json:"name"`
	PricePerDayCents int64  `json:"price_per_day_cents"`
	TotalPriceCents  int64  `json:"total_price_cents"`
	Approved         bool   `json:"approved"`
}

// RefundRequest records wallet details for out-of-band settlement by the
// owner. Requested flips false -> true at most once and is never reset.
type RefundRequest struct {
	Requested  bool   `json:"requested"`
	WalletName string `json:"wallet_name,omitempty"`
	WalletID   string `json:"wallet_id,omitempty"`
}

type Booking struct {
	ID        int32 `json:"id"`
	RenterID  int32 `json:"renter_id"`
	OwnerID   int32 `json:"owner_id"`
	VehicleID int32 `json:"vehicle_id"`

	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	TotalDays int32     `json:"total_days"`

	// Daily price snapshot captured from the vehicle at creation time.
	// Amount-due recomputation uses this snapshot, not the live price.
	DailyPriceCents int64 `json:"daily_price_cents"`

	AmountDueCents       int64         `json:"amount_due_cents"`
	AmountPaidCents      int64         `json:"amount_paid_cents"`
	CancellationFeeCents int64         `json:"cancellation_fee_cents"`
	PaymentMethod        PaymentMethod `json:"payment_method"`

	AddOns []AddOn `json:"add_ons,omitempty"`

	PickupLocation string `json:"pickup_location"`
	PickupTime     string `json:"pickup_time,omitempty"` // 24-hour HH:mm
	DropTime       string `json:"drop_time,omitempty"`   // 24-hour HH:mm

	Status        BookingStatus `json:"status"`
	PaymentStatus PaymentStatus `json:"payment_status"`

	// Idempotency guards for the hourly sweep.
	RentalStartConfirmed bool `json:"rental_start_confirmed"`
	RentalEndConfirmed   bool `json:"rental_end_confirmed"`
	StartReminderSent    bool `json:"start_reminder_sent"`
	EndReminderSent      bool `json:"end_reminder_sent"`

	RefundRequest RefundRequest `json:"refund_request"`

	CreatedOn time.Time `json:"created_on"`
	UpdatedOn time.Time `json:"updated_on"`
}

// ApprovedAddOnTotalCents sums the total price of owner-approved add-ons.
func (b *Booking) ApprovedAddOnTotalCents() int64 {
	var total int64
	for _, a := range b.AddOns {
		if a.Approved {
			total += a.TotalPriceCents
		}
	}
	return total
}
