package service

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"rentaride-backend/internal/domain"
	"rentaride-backend/internal/logger"
	"rentaride-backend/internal/policy"
	"rentaride-backend/internal/repository"
)

const dateLayout = "2006-01-02"

var clockTimeRe = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// AddOnRequest is a renter-requested extra, priced per rental day.
type AddOnRequest struct {
	Name             string `json:"name"`
	PricePerDayCents int64  `json:"price_per_day_cents"`
}

type CreateBookingCommand struct {
	RenterID       int32                `json:"-"`
	VehicleID      int32                `json:"vehicle_id"`
	StartDate      string               `json:"start_date"` // 2006-01-02
	EndDate        string               `json:"end_date"`
	PickupLocation string               `json:"pickup_location"`
	PickupTime     string               `json:"pickup_time,omitempty"` // 24-hour HH:mm
	DropTime       string               `json:"drop_time,omitempty"`
	PaymentMethod  domain.PaymentMethod `json:"payment_method"`
	AddOns         []AddOnRequest       `json:"add_ons,omitempty"`
}

type AcceptBookingCommand struct {
	BookingID      int32    `json:"-"`
	OwnerID        int32    `json:"-"`
	ApprovedAddOns []string `json:"approved_add_ons"`
}

type AcceptRevisionCommand struct {
	BookingID int32 `json:"-"`
	RenterID  int32 `json:"-"`
}

type ConfirmPaymentCommand struct {
	BookingID   int32                `json:"-"`
	TxnID       string               `json:"txn_id"`
	AmountCents int64                `json:"amount_cents"`
	Method      domain.PaymentMethod `json:"method"`
}

type CancelBookingCommand struct {
	BookingID int32            `json:"-"`
	Actor     domain.Recipient `json:"-"`
	Reason    string           `json:"reason,omitempty"`
}

type RefundRequestCommand struct {
	BookingID  int32  `json:"-"`
	RenterID   int32  `json:"-"`
	WalletName string `json:"wallet_name"`
	WalletID   string `json:"wallet_id"`
}

type bookingService struct {
	bookingRepo repository.BookingRepository
	paymentRepo repository.PaymentRepository
	vehicleRepo repository.VehicleRepository
	partyRepo   repository.PartyRepository
	emailSvc    EmailService
	notifier    Notifier
}

func NewBookingService(
	bookingRepo repository.BookingRepository,
	paymentRepo repository.PaymentRepository,
	vehicleRepo repository.VehicleRepository,
	partyRepo repository.PartyRepository,
	emailSvc EmailService,
	notifier Notifier,
) BookingService {
	return &bookingService{
		bookingRepo: bookingRepo,
		paymentRepo: paymentRepo,
		vehicleRepo: vehicleRepo,
		partyRepo:   partyRepo,
		emailSvc:    emailSvc,
		notifier:    notifier,
	}
}

func (s *bookingService) CreateBooking(ctx context.Context, cmd CreateBookingCommand) (*domain.Booking, error) {
	start, err := time.Parse(dateLayout, cmd.StartDate)
	if err != nil {
		return nil, &domain.ValidationError{Field: "start_date", Reason: "must be a date in YYYY-MM-DD form"}
	}
	end, err := time.Parse(dateLayout, cmd.EndDate)
	if err != nil {
		return nil, &domain.ValidationError{Field: "end_date", Reason: "must be a date in YYYY-MM-DD form"}
	}
	if !end.After(start) {
		return nil, &domain.ValidationError{Field: "end_date", Reason: "must be after start date"}
	}
	if cmd.PickupTime != "" && !clockTimeRe.MatchString(cmd.PickupTime) {
		return nil, &domain.ValidationError{Field: "pickup_time", Reason: "must be 24-hour HH:mm"}
	}
	if cmd.DropTime != "" && !clockTimeRe.MatchString(cmd.DropTime) {
		return nil, &domain.ValidationError{Field: "drop_time", Reason: "must be 24-hour HH:mm"}
	}
	switch cmd.PaymentMethod {
	case domain.PaymentMethodCash, domain.PaymentMethodOnline, domain.PaymentMethodBankTransfer:
	default:
		return nil, &domain.ValidationError{Field: "payment_method", Reason: "unknown payment method"}
	}

	renter, err := s.partyRepo.Get(ctx, domain.PartyKindRenter, cmd.RenterID)
	if err != nil {
		return nil, err
	}
	if renter.Blocked {
		return nil, &domain.AuthorizationError{Reason: "renter account is blocked"}
	}

	vehicle, err := s.vehicleRepo.GetByID(ctx, cmd.VehicleID)
	if err != nil {
		return nil, err
	}
	if !vehicle.Rentable() {
		return nil, &domain.ValidationError{Field: "vehicle_id", Reason: "vehicle is not available for rental"}
	}

	totalDays := int32(end.Sub(start).Hours() / 24)
	if vehicle.MinRentalDays > 0 && totalDays < vehicle.MinRentalDays {
		return nil, &domain.ValidationError{Field: "end_date", Reason: fmt.Sprintf("rental period is shorter than the vehicle minimum of %d days", vehicle.MinRentalDays)}
	}
	if vehicle.MaxRentalDays > 0 && totalDays > vehicle.MaxRentalDays {
		return nil, &domain.ValidationError{Field: "end_date", Reason: fmt.Sprintf("rental period exceeds the vehicle maximum of %d days", vehicle.MaxRentalDays)}
	}

	duplicate, err := s.bookingRepo.HasActiveForRenter(ctx, cmd.RenterID, cmd.VehicleID)
	if err != nil {
		return nil, err
	}
	if duplicate {
		return nil, &domain.ConflictError{Reason: "renter already has an active booking for this vehicle"}
	}

	// Every requested add-on counts toward the initial amount due; owner
	// review trims the total down to the approved subset.
	addOns := make([]domain.AddOn, 0, len(cmd.AddOns))
	var addOnTotal int64
	for _, a := range cmd.AddOns {
		if a.Name == "" || a.PricePerDayCents < 0 {
			return nil, &domain.ValidationError{Field: "add_ons", Reason: "add-on needs a name and a non-negative price"}
		}
		total := a.PricePerDayCents * int64(totalDays)
		addOnTotal += total
		addOns = append(addOns, domain.AddOn{
			Name:             a.Name,
			PricePerDayCents: a.PricePerDayCents,
			TotalPriceCents:  total,
		})
	}

	booking := &domain.Booking{
		RenterID:        cmd.RenterID,
		OwnerID:         vehicle.OwnerID,
		VehicleID:       cmd.VehicleID,
		StartDate:       start,
		EndDate:         end,
		TotalDays:       totalDays,
		DailyPriceCents: vehicle.DailyPriceCents,
		AmountDueCents:  vehicle.DailyPriceCents*int64(totalDays) + addOnTotal,
		PaymentMethod:   cmd.PaymentMethod,
		AddOns:          addOns,
		PickupLocation:  cmd.PickupLocation,
		PickupTime:      cmd.PickupTime,
		DropTime:        cmd.DropTime,
		Status:          domain.BookingStatusPending,
		PaymentStatus:   domain.PaymentStatusUnpaid,
	}

	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	owner, err := s.partyRepo.Get(ctx, domain.PartyKindOwner, vehicle.OwnerID)
	if err == nil {
		if err := s.emailSvc.SendBookingRequestNotification(ctx, owner.Email, renter.Name, vehicle.Name); err != nil {
			logger.Error("Failed to send booking request email", "booking_id", booking.ID, "error", err)
		}
	} else {
		logger.Error("Failed to resolve owner for booking request email", "booking_id", booking.ID, "error", err)
	}
	s.notifier.Notify(ctx, domain.Recipient{Kind: domain.PartyKindOwner, ID: vehicle.OwnerID},
		"New Booking Request",
		fmt.Sprintf("%s requested to rent %s from %s to %s", renter.Name, vehicle.Name, cmd.StartDate, cmd.EndDate),
		domain.NotificationCategoryBooking, domain.NotificationPriorityNormal,
		bookingAttrs(booking.ID))

	return booking, nil
}

func (s *bookingService) AcceptBooking(ctx context.Context, cmd AcceptBookingCommand) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, cmd.BookingID)
	if err != nil {
		return nil, err
	}
	if booking.OwnerID != cmd.OwnerID {
		return nil, &domain.AuthorizationError{Reason: "caller is not the booking's owner"}
	}
	if booking.Status != domain.BookingStatusPending {
		return nil, &domain.StateError{Current: booking.Status, Required: "booking must be pending to accept"}
	}

	conflict, err := s.bookingRepo.HasConflict(ctx, booking.VehicleID, booking.StartDate, booking.EndDate,
		domain.OccupancyStatuses, booking.ID)
	if err != nil {
		return nil, err
	}
	if conflict {
		return nil, &domain.ConflictError{Reason: "vehicle already has an overlapping confirmed or active booking"}
	}

	approved := make(map[string]bool, len(cmd.ApprovedAddOns))
	for _, name := range cmd.ApprovedAddOns {
		approved[name] = true
	}
	allApproved := true
	for i := range booking.AddOns {
		booking.AddOns[i].Approved = approved[booking.AddOns[i].Name]
		if !booking.AddOns[i].Approved {
			allApproved = false
		}
	}

	// Rejected add-ons leave the total; the due amount only ever goes down
	// here.
	booking.AmountDueCents = booking.DailyPriceCents*int64(booking.TotalDays) + booking.ApprovedAddOnTotalCents()

	target := domain.BookingStatusAccepted
	if !allApproved {
		target = domain.BookingStatusRevisionRequired
	}
	booking.Status = target

	ok, err := s.bookingRepo.UpdateIfStatusAndAvailable(ctx, booking, domain.BookingStatusPending)
	if err != nil {
		return nil, fmt.Errorf("failed to accept booking: %w", err)
	}
	if !ok {
		return nil, s.diagnoseFailedTransition(ctx, booking.ID, domain.BookingStatusPending)
	}

	renter, rerr := s.partyRepo.Get(ctx, domain.PartyKindRenter, booking.RenterID)
	vehicle, verr := s.vehicleRepo.GetByID(ctx, booking.VehicleID)
	if rerr == nil && verr == nil {
		var mailErr error
		if allApproved {
			mailErr = s.emailSvc.SendBookingAcceptedNotification(ctx, renter.Email, vehicle.Name)
		} else {
			mailErr = s.emailSvc.SendRevisionRequiredNotification(ctx, renter.Email, vehicle.Name)
		}
		if mailErr != nil {
			logger.Error("Failed to send booking review email", "booking_id", booking.ID, "error", mailErr)
		}
	}
	title, message := "Booking Accepted", "Your booking request was accepted. You can now pay to confirm."
	if !allApproved {
		title, message = "Booking Needs Your Confirmation", "The owner approved your request with changes to the add-ons. Please review and confirm."
	}
	s.notifier.Notify(ctx, domain.Recipient{Kind: domain.PartyKindRenter, ID: booking.RenterID},
		title, message, domain.NotificationCategoryBooking, domain.NotificationPriorityNormal,
		bookingAttrs(booking.ID))

	return booking, nil
}

func (s *bookingService) AcceptRevision(ctx context.Context, cmd AcceptRevisionCommand) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, cmd.BookingID)
	if err != nil {
		return nil, err
	}
	if booking.RenterID != cmd.RenterID {
		return nil, &domain.AuthorizationError{Reason: "caller is not the booking's renter"}
	}
	if booking.Status != domain.BookingStatusRevisionRequired {
		return nil, &domain.StateError{Current: booking.Status, Required: "booking must be awaiting revision confirmation"}
	}

	renter, err := s.partyRepo.Get(ctx, domain.PartyKindRenter, booking.RenterID)
	if err != nil {
		return nil, err
	}
	if renter.Blocked {
		return nil, &domain.AuthorizationError{Reason: "renter account is blocked"}
	}
	owner, err := s.partyRepo.Get(ctx, domain.PartyKindOwner, booking.OwnerID)
	if err != nil {
		return nil, err
	}
	if owner.Blocked {
		return nil, &domain.AuthorizationError{Reason: "owner account is blocked"}
	}

	booking.Status = domain.BookingStatusAccepted
	ok, err := s.bookingRepo.UpdateIfStatusAndAvailable(ctx, booking, domain.BookingStatusRevisionRequired)
	if err != nil {
		return nil, fmt.Errorf("failed to accept revision: %w", err)
	}
	if !ok {
		current, gerr := s.bookingRepo.GetByID(ctx, booking.ID)
		if gerr != nil {
			return nil, gerr
		}
		if current.Status != domain.BookingStatusRevisionRequired {
			return nil, &domain.StateError{Current: current.Status, Required: "booking must be awaiting revision confirmation"}
		}
		// The dates went stale while the revision sat unconfirmed. Roll the
		// booking back to pending instead of leaving it stuck; the renter is
		// told, not failed.
		current.Status = domain.BookingStatusPending
		if _, err := s.bookingRepo.UpdateIfStatus(ctx, current, domain.BookingStatusRevisionRequired); err != nil {
			return nil, fmt.Errorf("failed to roll booking back to pending: %w", err)
		}
		s.notifier.Notify(ctx, domain.Recipient{Kind: domain.PartyKindRenter, ID: booking.RenterID},
			"Booking Dates No Longer Available",
			"Another booking was confirmed for these dates while your revision was pending. Your request has been returned to the owner for review.",
			domain.NotificationCategoryBooking, domain.NotificationPriorityHigh,
			bookingAttrs(booking.ID))
		return current, nil
	}

	s.notifier.Notify(ctx, domain.Recipient{Kind: domain.PartyKindOwner, ID: booking.OwnerID},
		"Revised Booking Confirmed",
		fmt.Sprintf("%s accepted the revised booking terms. Awaiting payment.", renter.Name),
		domain.NotificationCategoryBooking, domain.NotificationPriorityNormal,
		bookingAttrs(booking.ID))
	s.notifier.Notify(ctx, domain.Recipient{Kind: domain.PartyKindRenter, ID: booking.RenterID},
		"Booking Accepted",
		"You accepted the revised terms. You can now pay to confirm your booking.",
		domain.NotificationCategoryBooking, domain.NotificationPriorityNormal,
		bookingAttrs(booking.ID))

	return booking, nil
}

func (s *bookingService) ConfirmPayment(ctx context.Context, cmd ConfirmPaymentCommand) (*domain.Booking, error) {
	if cmd.TxnID == "" {
		return nil, &domain.ValidationError{Field: "txn_id", Reason: "transaction id is required"}
	}
	if cmd.AmountCents <= 0 {
		return nil, &domain.ValidationError{Field: "amount_cents", Reason: "amount must be positive"}
	}

	booking, err := s.bookingRepo.GetByID(ctx, cmd.BookingID)
	if err != nil {
		return nil, err
	}
	switch booking.Status {
	case domain.BookingStatusAccepted, domain.BookingStatusConfirmed, domain.BookingStatusActive:
	default:
		return nil, &domain.StateError{Current: booking.Status, Required: "booking must be accepted before payment"}
	}

	recorded, err := s.paymentRepo.Record(ctx, &domain.PaymentTransaction{
		TxnID:       cmd.TxnID,
		BookingID:   booking.ID,
		AmountCents: cmd.AmountCents,
		Method:      cmd.Method,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to record payment: %w", err)
	}
	if !recorded {
		// Replayed provider callback; the first delivery already applied it.
		logger.Info("Ignoring duplicate payment callback", "booking_id", booking.ID, "txn_id", cmd.TxnID)
		return booking, nil
	}

	// The paid amount is applied as a database-side increment before any
	// status transition, so the money stays persisted even when the
	// transition below loses a race.
	booking, err = s.bookingRepo.ApplyPayment(ctx, booking.ID, cmd.AmountCents)
	if err != nil {
		return nil, fmt.Errorf("failed to apply payment: %w", err)
	}

	confirmed := false
	if booking.Status == domain.BookingStatusAccepted {
		booking.Status = domain.BookingStatusConfirmed
		ok, err := s.bookingRepo.UpdateIfStatusAndAvailable(ctx, booking, domain.BookingStatusAccepted)
		if err != nil {
			return nil, fmt.Errorf("failed to confirm booking: %w", err)
		}
		if !ok {
			return nil, s.diagnoseFailedTransition(ctx, booking.ID, domain.BookingStatusAccepted)
		}
		confirmed = true
	}

	if confirmed {
		renter, rerr := s.partyRepo.Get(ctx, domain.PartyKindRenter, booking.RenterID)
		owner, oerr := s.partyRepo.Get(ctx, domain.PartyKindOwner, booking.OwnerID)
		vehicle, verr := s.vehicleRepo.GetByID(ctx, booking.VehicleID)
		if rerr == nil && oerr == nil && verr == nil {
			if err := s.emailSvc.SendBookingConfirmedNotification(ctx, owner.Email, renter.Name, vehicle.Name); err != nil {
				logger.Error("Failed to send booking confirmed email", "booking_id", booking.ID, "error", err)
			}
		}
		s.notifier.Notify(ctx, domain.Recipient{Kind: domain.PartyKindOwner, ID: booking.OwnerID},
			"Booking Confirmed",
			fmt.Sprintf("Payment received; booking %d is confirmed.", booking.ID),
			domain.NotificationCategoryPayment, domain.NotificationPriorityNormal,
			bookingAttrs(booking.ID))
	}
	s.notifier.Notify(ctx, domain.Recipient{Kind: domain.PartyKindRenter, ID: booking.RenterID},
		"Payment Received",
		fmt.Sprintf("Your payment was applied to booking %d.", booking.ID),
		domain.NotificationCategoryPayment, domain.NotificationPriorityNormal,
		bookingAttrs(booking.ID))

	return booking, nil
}

func (s *bookingService) CancelBooking(ctx context.Context, cmd CancelBookingCommand) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, cmd.BookingID)
	if err != nil {
		return nil, err
	}
	switch {
	case cmd.Actor.Kind == domain.PartyKindRenter && booking.RenterID == cmd.Actor.ID:
	case cmd.Actor.Kind == domain.PartyKindOwner && booking.OwnerID == cmd.Actor.ID:
	default:
		return nil, &domain.AuthorizationError{Reason: "caller is not a party to this booking"}
	}

	cancelled, performed, err := s.cancel(ctx, booking, cmd.Reason)
	if err != nil {
		return nil, err
	}
	if performed {
		// Notify the counter-party of whoever cancelled.
		counter := domain.Recipient{Kind: domain.PartyKindOwner, ID: booking.OwnerID}
		if cmd.Actor.Kind == domain.PartyKindOwner {
			counter = domain.Recipient{Kind: domain.PartyKindRenter, ID: booking.RenterID}
		}
		s.notifyCancellation(ctx, cancelled, cmd.Reason, counter)
	}

	return cancelled, nil
}

func (s *bookingService) ForceCancelBooking(ctx context.Context, bookingID int32, reason string) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	cancelled, performed, err := s.cancel(ctx, booking, reason)
	if err != nil {
		return nil, err
	}
	if performed {
		s.notifyCancellation(ctx, cancelled, reason,
			domain.Recipient{Kind: domain.PartyKindRenter, ID: booking.RenterID},
			domain.Recipient{Kind: domain.PartyKindOwner, ID: booking.OwnerID})
	}
	return cancelled, nil
}

// cancel moves a booking to CANCELLED, charging the policy fee exactly once.
// The status-gated write makes a concurrent double cancel a no-op for the
// loser. The second return reports whether this call performed the
// transition; repeat cancels skip the notification side effects.
func (s *bookingService) cancel(ctx context.Context, booking *domain.Booking, reason string) (*domain.Booking, bool, error) {
	for {
		if booking.Status == domain.BookingStatusCancelled {
			return booking, false, nil
		}
		if booking.Status == domain.BookingStatusCompleted {
			return nil, false, &domain.StateError{Current: booking.Status, Required: "completed bookings cannot be cancelled"}
		}

		result := policy.ComputeCancellation(booking.Status, booking.AmountDueCents, booking.AmountPaidCents)
		previous := booking.Status
		booking.CancellationFeeCents = result.FeeCents
		if result.MarkRefunded {
			booking.PaymentStatus = domain.PaymentStatusRefunded
		}
		booking.Status = domain.BookingStatusCancelled

		ok, err := s.bookingRepo.UpdateIfStatus(ctx, booking, previous)
		if err != nil {
			return nil, false, fmt.Errorf("failed to cancel booking: %w", err)
		}
		if ok {
			return booking, true, nil
		}

		// Lost a race; reload and retry against the new status.
		booking, err = s.bookingRepo.GetByID(ctx, booking.ID)
		if err != nil {
			return nil, false, err
		}
	}
}

func (s *bookingService) notifyCancellation(ctx context.Context, booking *domain.Booking, reason string, recipients ...domain.Recipient) {
	vehicleName := fmt.Sprintf("vehicle %d", booking.VehicleID)
	if vehicle, err := s.vehicleRepo.GetByID(ctx, booking.VehicleID); err == nil {
		vehicleName = vehicle.Name
	}
	for _, recipient := range recipients {
		if party, err := s.partyRepo.Get(ctx, recipient.Kind, recipient.ID); err == nil {
			if err := s.emailSvc.SendBookingCancelledNotification(ctx, party.Email, vehicleName, reason); err != nil {
				logger.Error("Failed to send cancellation email", "booking_id", booking.ID, "error", err)
			}
		}
		s.notifier.Notify(ctx, recipient,
			"Booking Cancelled",
			fmt.Sprintf("Booking %d for %s was cancelled.", booking.ID, vehicleName),
			domain.NotificationCategoryBooking, domain.NotificationPriorityHigh,
			bookingAttrs(booking.ID))
	}
}

func (s *bookingService) RequestRefund(ctx context.Context, cmd RefundRequestCommand) (*domain.Booking, error) {
	if cmd.WalletName == "" || cmd.WalletID == "" {
		return nil, &domain.ValidationError{Field: "wallet", Reason: "wallet name and id are required"}
	}

	booking, err := s.bookingRepo.GetByID(ctx, cmd.BookingID)
	if err != nil {
		return nil, err
	}
	if booking.RenterID != cmd.RenterID {
		return nil, &domain.AuthorizationError{Reason: "caller is not the booking's renter"}
	}
	if booking.Status != domain.BookingStatusCancelled {
		return nil, &domain.StateError{Current: booking.Status, Required: "refunds apply to cancelled bookings only"}
	}
	if booking.PaymentStatus != domain.PaymentStatusPartial && booking.PaymentStatus != domain.PaymentStatusFull {
		return nil, &domain.StateError{Current: booking.Status, Required: "no refundable payment on this booking"}
	}
	if booking.RefundRequest.Requested {
		return nil, &domain.StateError{Current: booking.Status, Required: "a refund has already been requested"}
	}

	ok, err := s.bookingRepo.SetRefundRequest(ctx, booking.ID, cmd.WalletName, cmd.WalletID)
	if err != nil {
		return nil, fmt.Errorf("failed to record refund request: %w", err)
	}
	if !ok {
		return nil, &domain.StateError{Current: booking.Status, Required: "a refund has already been requested"}
	}
	booking.RefundRequest = domain.RefundRequest{Requested: true, WalletName: cmd.WalletName, WalletID: cmd.WalletID}

	s.notifier.Notify(ctx, domain.Recipient{Kind: domain.PartyKindOwner, ID: booking.OwnerID},
		"Refund Requested",
		fmt.Sprintf("The renter requested a refund for booking %d to their %s wallet.", booking.ID, cmd.WalletName),
		domain.NotificationCategoryRefund, domain.NotificationPriorityHigh,
		bookingAttrs(booking.ID))

	return booking, nil
}

func (s *bookingService) ConfirmRentalStart(ctx context.Context, ownerID, bookingID int32) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.OwnerID != ownerID {
		return nil, &domain.AuthorizationError{Reason: "caller is not the booking's owner"}
	}
	if booking.RentalStartConfirmed {
		return booking, nil
	}
	if booking.Status != domain.BookingStatusConfirmed {
		return nil, &domain.StateError{Current: booking.Status, Required: "booking must be confirmed to start the rental"}
	}

	booking.Status = domain.BookingStatusActive
	booking.RentalStartConfirmed = true
	ok, err := s.bookingRepo.UpdateIfStatus(ctx, booking, domain.BookingStatusConfirmed)
	if err != nil {
		return nil, fmt.Errorf("failed to mark rental started: %w", err)
	}
	if !ok {
		return s.bookingRepo.GetByID(ctx, bookingID)
	}

	s.notifier.Notify(ctx, domain.Recipient{Kind: domain.PartyKindRenter, ID: booking.RenterID},
		"Rental Started",
		fmt.Sprintf("The owner confirmed pickup for booking %d. Enjoy the ride!", booking.ID),
		domain.NotificationCategoryBooking, domain.NotificationPriorityNormal,
		bookingAttrs(booking.ID))
	return booking, nil
}

func (s *bookingService) ConfirmRentalEnd(ctx context.Context, ownerID, bookingID int32) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.OwnerID != ownerID {
		return nil, &domain.AuthorizationError{Reason: "caller is not the booking's owner"}
	}
	if booking.RentalEndConfirmed {
		return booking, nil
	}
	if booking.Status != domain.BookingStatusActive && booking.Status != domain.BookingStatusConfirmed {
		return nil, &domain.StateError{Current: booking.Status, Required: "rental is not in progress"}
	}

	previous := booking.Status
	booking.Status = domain.BookingStatusCompleted
	booking.RentalEndConfirmed = true
	ok, err := s.bookingRepo.UpdateIfStatus(ctx, booking, previous)
	if err != nil {
		return nil, fmt.Errorf("failed to mark rental completed: %w", err)
	}
	if !ok {
		return s.bookingRepo.GetByID(ctx, bookingID)
	}

	s.notifier.Notify(ctx, domain.Recipient{Kind: domain.PartyKindRenter, ID: booking.RenterID},
		"Rental Completed",
		fmt.Sprintf("The owner confirmed the return for booking %d. Thanks for riding with us.", booking.ID),
		domain.NotificationCategoryBooking, domain.NotificationPriorityNormal,
		bookingAttrs(booking.ID))
	return booking, nil
}

func (s *bookingService) CancelBookingsForVehicle(ctx context.Context, vehicleID int32, reason string) error {
	bookings, err := s.bookingRepo.ListNonTerminalByVehicle(ctx, vehicleID)
	if err != nil {
		return fmt.Errorf("failed to list bookings for vehicle %d: %w", vehicleID, err)
	}
	for i := range bookings {
		if _, err := s.ForceCancelBooking(ctx, bookings[i].ID, reason); err != nil {
			logger.Error("Failed to force-cancel booking for unavailable vehicle",
				"booking_id", bookings[i].ID, "vehicle_id", vehicleID, "error", err)
		}
	}
	return nil
}

func (s *bookingService) GetBooking(ctx context.Context, actor domain.Recipient, bookingID int32) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	switch {
	case actor.Kind == domain.PartyKindRenter && booking.RenterID == actor.ID:
	case actor.Kind == domain.PartyKindOwner && booking.OwnerID == actor.ID:
	default:
		return nil, &domain.AuthorizationError{Reason: "caller is not a party to this booking"}
	}
	return booking, nil
}

func (s *bookingService) ListBookingsForRenter(ctx context.Context, renterID int32, status string, page, pageSize int32) ([]domain.Booking, int32, error) {
	return s.bookingRepo.ListByRenter(ctx, renterID, status, page, pageSize)
}

func (s *bookingService) ListBookingsForOwner(ctx context.Context, ownerID int32, status string, page, pageSize int32) ([]domain.Booking, int32, error) {
	return s.bookingRepo.ListByOwner(ctx, ownerID, status, page, pageSize)
}

// diagnoseFailedTransition turns a failed conditional update into the right
// domain error: the status guard lost a race, or the overlap subquery found
// a confirmed conflict.
func (s *bookingService) diagnoseFailedTransition(ctx context.Context, bookingID int32, expected domain.BookingStatus) error {
	current, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return err
	}
	if current.Status != expected {
		return &domain.StateError{Current: current.Status, Required: fmt.Sprintf("booking must be %s", expected)}
	}
	return &domain.ConflictError{Reason: "vehicle already has an overlapping confirmed or active booking"}
}

func bookingAttrs(bookingID int32) map[string]string {
	return map[string]string{
		"type":       "BOOKING",
		"booking_id": fmt.Sprintf("%d", bookingID),
	}
}
