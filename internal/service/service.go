package service

import (
	"context"

	"rentaride-backend/internal/domain"
)

type BookingService interface {
	CreateBooking(ctx context.Context, cmd CreateBookingCommand) (*domain.Booking, error)
	AcceptBooking(ctx context.Context, cmd AcceptBookingCommand) (*domain.Booking, error)
	AcceptRevision(ctx context.Context, cmd AcceptRevisionCommand) (*domain.Booking, error)
	ConfirmPayment(ctx context.Context, cmd ConfirmPaymentCommand) (*domain.Booking, error)
	CancelBooking(ctx context.Context, cmd CancelBookingCommand) (*domain.Booking, error)
	RequestRefund(ctx context.Context, cmd RefundRequestCommand) (*domain.Booking, error)

	ConfirmRentalStart(ctx context.Context, ownerID, bookingID int32) (*domain.Booking, error)
	ConfirmRentalEnd(ctx context.Context, ownerID, bookingID int32) (*domain.Booking, error)

	// ForceCancelBooking applies the cancel path on behalf of the system:
	// the sweep's expiry pass and the vehicle-directory reaction use it.
	ForceCancelBooking(ctx context.Context, bookingID int32, reason string) (*domain.Booking, error)
	CancelBookingsForVehicle(ctx context.Context, vehicleID int32, reason string) error

	GetBooking(ctx context.Context, actor domain.Recipient, bookingID int32) (*domain.Booking, error)
	ListBookingsForRenter(ctx context.Context, renterID int32, status string, page, pageSize int32) ([]domain.Booking, int32, error)
	ListBookingsForOwner(ctx context.Context, ownerID int32, status string, page, pageSize int32) ([]domain.Booking, int32, error)
}

type NotificationService interface {
	GetNotifications(ctx context.Context, recipient domain.Recipient, page, pageSize int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, recipient domain.Recipient, notificationID int32) error
}

// Notifier fans a notification out to its three best-effort legs: the
// persisted inbox row, the pub/sub channel, and a live session if one is
// registered. It never fails the caller's transition.
type Notifier interface {
	Notify(ctx context.Context, recipient domain.Recipient, title, message string,
		category domain.NotificationCategory, priority domain.NotificationPriority,
		attributes map[string]string)
}

type EmailService interface {
	SendBookingRequestNotification(ctx context.Context, ownerEmail, renterName, vehicleName string) error
	SendBookingAcceptedNotification(ctx context.Context, renterEmail, vehicleName string) error
	SendRevisionRequiredNotification(ctx context.Context, renterEmail, vehicleName string) error
	SendBookingConfirmedNotification(ctx context.Context, ownerEmail, renterName, vehicleName string) error
	SendBookingCancelledNotification(ctx context.Context, email, vehicleName, reason string) error
	SendRentalReminder(ctx context.Context, email, vehicleName, phase, date string) error
	SendRefundFollowUp(ctx context.Context, ownerEmail string, bookingID int32, walletName string) error
}
