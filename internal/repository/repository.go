package repository

import (
	"context"
	"time"

	"rentaride-backend/internal/domain"
)

type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) error
	GetByID(ctx context.Context, id int32) (*domain.Booking, error)
	Update(ctx context.Context, b *domain.Booking) error

	// UpdateIfStatus writes b only while the stored status still equals
	// expected. Returns false when the guard did not match.
	UpdateIfStatus(ctx context.Context, b *domain.Booking, expected domain.BookingStatus) (bool, error)

	// UpdateIfStatusAndAvailable additionally requires that no other
	// booking holding an occupancy status (CONFIRMED or ACTIVE) for the
	// same vehicle overlaps [b.StartDate, b.EndDate]. The status guard and
	// the overlap check commit in the same atomic update, so two concurrent
	// occupancy-granting transitions on the same vehicle cannot both
	// succeed.
	UpdateIfStatusAndAvailable(ctx context.Context, b *domain.Booking, expected domain.BookingStatus) (bool, error)

	// ApplyPayment adds amountCents to the stored amount_paid_cents and
	// recomputes the payment status against the amount due, all in one
	// statement, returning the updated row. Payments are never lost to a
	// concurrent transition or a second callback racing the read.
	ApplyPayment(ctx context.Context, id int32, amountCents int64) (*domain.Booking, error)

	// HasConflict answers the availability question for a vehicle and date
	// range: does any booking in one of the given statuses, other than
	// excludeID, overlap [start, end]?
	HasConflict(ctx context.Context, vehicleID int32, start, end time.Time, statuses []domain.BookingStatus, excludeID int32) (bool, error)

	// HasActiveForRenter reports whether the renter already holds a
	// non-terminal booking on the vehicle.
	HasActiveForRenter(ctx context.Context, renterID, vehicleID int32) (bool, error)

	// SetRefundRequest records wallet details for a cancelled booking.
	// The write is guarded so the refund request can only be set once.
	SetRefundRequest(ctx context.Context, id int32, walletName, walletID string) (bool, error)

	MarkStartReminderSent(ctx context.Context, id int32) error
	MarkEndReminderSent(ctx context.Context, id int32) error

	ListByRenter(ctx context.Context, renterID int32, status string, page, pageSize int32) ([]domain.Booking, int32, error)
	ListByOwner(ctx context.Context, ownerID int32, status string, page, pageSize int32) ([]domain.Booking, int32, error)
	ListNonTerminalByVehicle(ctx context.Context, vehicleID int32) ([]domain.Booking, error)
}

type PaymentRepository interface {
	// Record inserts the transaction unless its TxnID was seen before.
	// Returns false on a duplicate, which callers treat as a replayed
	// provider callback.
	Record(ctx context.Context, txn *domain.PaymentTransaction) (bool, error)
	ListByBooking(ctx context.Context, bookingID int32) ([]domain.PaymentTransaction, error)
}

type VehicleRepository interface {
	GetByID(ctx context.Context, id int32) (*domain.Vehicle, error)
}

type PartyRepository interface {
	Get(ctx context.Context, kind domain.PartyKind, id int32) (*domain.Party, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, note *domain.Notification) error
	List(ctx context.Context, recipient domain.Recipient, limit, offset int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, id int32, recipient domain.Recipient) error
}

type ChatRepository interface {
	FindThreadForBooking(ctx context.Context, bookingID int32) (*domain.ChatThread, error)
	CountUnseenFrom(ctx context.Context, threadID int32, sender domain.Recipient) (int32, error)
}
