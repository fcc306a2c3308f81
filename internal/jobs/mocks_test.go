package jobs

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"rentaride-backend/internal/domain"
	"rentaride-backend/internal/service"
)

// MockBookingRepo
type MockBookingRepo struct {
	mock.Mock
}

func (m *MockBookingRepo) Create(ctx context.Context, b *domain.Booking) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}
func (m *MockBookingRepo) GetByID(ctx context.Context, id int32) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}
func (m *MockBookingRepo) Update(ctx context.Context, b *domain.Booking) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}
func (m *MockBookingRepo) UpdateIfStatus(ctx context.Context, b *domain.Booking, expected domain.BookingStatus) (bool, error) {
	args := m.Called(ctx, b, expected)
	return args.Bool(0), args.Error(1)
}
func (m *MockBookingRepo) UpdateIfStatusAndAvailable(ctx context.Context, b *domain.Booking, expected domain.BookingStatus) (bool, error) {
	args := m.Called(ctx, b, expected)
	return args.Bool(0), args.Error(1)
}
func (m *MockBookingRepo) ApplyPayment(ctx context.Context, id int32, amountCents int64) (*domain.Booking, error) {
	args := m.Called(ctx, id, amountCents)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}
func (m *MockBookingRepo) HasConflict(ctx context.Context, vehicleID int32, start, end time.Time, statuses []domain.BookingStatus, excludeID int32) (bool, error) {
	args := m.Called(ctx, vehicleID, start, end, statuses, excludeID)
	return args.Bool(0), args.Error(1)
}
func (m *MockBookingRepo) HasActiveForRenter(ctx context.Context, renterID, vehicleID int32) (bool, error) {
	args := m.Called(ctx, renterID, vehicleID)
	return args.Bool(0), args.Error(1)
}
func (m *MockBookingRepo) SetRefundRequest(ctx context.Context, id int32, walletName, walletID string) (bool, error) {
	args := m.Called(ctx, id, walletName, walletID)
	return args.Bool(0), args.Error(1)
}
func (m *MockBookingRepo) MarkStartReminderSent(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockBookingRepo) MarkEndReminderSent(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockBookingRepo) ListByRenter(ctx context.Context, renterID int32, status string, page, pageSize int32) ([]domain.Booking, int32, error) {
	args := m.Called(ctx, renterID, status, page, pageSize)
	return args.Get(0).([]domain.Booking), args.Get(1).(int32), args.Error(2)
}
func (m *MockBookingRepo) ListByOwner(ctx context.Context, ownerID int32, status string, page, pageSize int32) ([]domain.Booking, int32, error) {
	args := m.Called(ctx, ownerID, status, page, pageSize)
	return args.Get(0).([]domain.Booking), args.Get(1).(int32), args.Error(2)
}
func (m *MockBookingRepo) ListNonTerminalByVehicle(ctx context.Context, vehicleID int32) ([]domain.Booking, error) {
	args := m.Called(ctx, vehicleID)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

// MockPartyRepo
type MockPartyRepo struct {
	mock.Mock
}

func (m *MockPartyRepo) Get(ctx context.Context, kind domain.PartyKind, id int32) (*domain.Party, error) {
	args := m.Called(ctx, kind, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Party), args.Error(1)
}

// MockChatRepo
type MockChatRepo struct {
	mock.Mock
}

func (m *MockChatRepo) FindThreadForBooking(ctx context.Context, bookingID int32) (*domain.ChatThread, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ChatThread), args.Error(1)
}
func (m *MockChatRepo) CountUnseenFrom(ctx context.Context, threadID int32, sender domain.Recipient) (int32, error) {
	args := m.Called(ctx, threadID, sender)
	return args.Get(0).(int32), args.Error(1)
}

// MockBookingService
type MockBookingService struct {
	mock.Mock
}

func (m *MockBookingService) CreateBooking(ctx context.Context, cmd service.CreateBookingCommand) (*domain.Booking, error) {
	args := m.Called(ctx, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}
func (m *MockBookingService) AcceptBooking(ctx context.Context, cmd service.AcceptBookingCommand) (*domain.Booking, error) {
	args := m.Called(ctx, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}
func (m *MockBookingService) AcceptRevision(ctx context.Context, cmd service.AcceptRevisionCommand) (*domain.Booking, error) {
	args := m.Called(ctx, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}
func (m *MockBookingService) ConfirmPayment(ctx context.Context, cmd service.ConfirmPaymentCommand) (*domain.Booking, error) {
	args := m.Called(ctx, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}
func (m *MockBookingService) CancelBooking(ctx context.Context, cmd service.CancelBookingCommand) (*domain.Booking, error) {
	args := m.Called(ctx, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}
func (m *MockBookingService) RequestRefund(ctx context.Context, cmd service.RefundRequestCommand) (*domain.Booking, error) {
	args := m.Called(ctx, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}
func (m *MockBookingService) ConfirmRentalStart(ctx context.Context, ownerID, bookingID int32) (*domain.Booking, error) {
	args := m.Called(ctx, ownerID, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}
func (m *MockBookingService) ConfirmRentalEnd(ctx context.Context, ownerID, bookingID int32) (*domain.Booking, error) {
	args := m.Called(ctx, ownerID, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}
func (m *MockBookingService) ForceCancelBooking(ctx context.Context, bookingID int32, reason string) (*domain.Booking, error) {
	args := m.Called(ctx, bookingID, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}
func (m *MockBookingService) CancelBookingsForVehicle(ctx context.Context, vehicleID int32, reason string) error {
	args := m.Called(ctx, vehicleID, reason)
	return args.Error(0)
}
func (m *MockBookingService) GetBooking(ctx context.Context, actor domain.Recipient, bookingID int32) (*domain.Booking, error) {
	args := m.Called(ctx, actor, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}
func (m *MockBookingService) ListBookingsForRenter(ctx context.Context, renterID int32, status string, page, pageSize int32) ([]domain.Booking, int32, error) {
	args := m.Called(ctx, renterID, status, page, pageSize)
	return args.Get(0).([]domain.Booking), args.Get(1).(int32), args.Error(2)
}
func (m *MockBookingService) ListBookingsForOwner(ctx context.Context, ownerID int32, status string, page, pageSize int32) ([]domain.Booking, int32, error) {
	args := m.Called(ctx, ownerID, status, page, pageSize)
	return args.Get(0).([]domain.Booking), args.Get(1).(int32), args.Error(2)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendBookingRequestNotification(ctx context.Context, ownerEmail, renterName, vehicleName string) error {
	args := m.Called(ctx, ownerEmail, renterName, vehicleName)
	return args.Error(0)
}
func (m *MockEmailService) SendBookingAcceptedNotification(ctx context.Context, renterEmail, vehicleName string) error {
	args := m.Called(ctx, renterEmail, vehicleName)
	return args.Error(0)
}
func (m *MockEmailService) SendRevisionRequiredNotification(ctx context.Context, renterEmail, vehicleName string) error {
	args := m.Called(ctx, renterEmail, vehicleName)
	return args.Error(0)
}
func (m *MockEmailService) SendBookingConfirmedNotification(ctx context.Context, ownerEmail, renterName, vehicleName string) error {
	args := m.Called(ctx, ownerEmail, renterName, vehicleName)
	return args.Error(0)
}
func (m *MockEmailService) SendBookingCancelledNotification(ctx context.Context, email, vehicleName, reason string) error {
	args := m.Called(ctx, email, vehicleName, reason)
	return args.Error(0)
}
func (m *MockEmailService) SendRentalReminder(ctx context.Context, email, vehicleName, phase, date string) error {
	args := m.Called(ctx, email, vehicleName, phase, date)
	return args.Error(0)
}
func (m *MockEmailService) SendRefundFollowUp(ctx context.Context, ownerEmail string, bookingID int32, walletName string) error {
	args := m.Called(ctx, ownerEmail, bookingID, walletName)
	return args.Error(0)
}

// MockNotifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, recipient domain.Recipient, title, message string,
	category domain.NotificationCategory, priority domain.NotificationPriority,
	attributes map[string]string) {
	m.Called(ctx, recipient, title, message, category, priority, attributes)
}
