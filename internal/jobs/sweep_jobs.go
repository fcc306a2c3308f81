package jobs

import (
	"context"
	"fmt"
	"time"

	"rentaride-backend/internal/domain"
	"rentaride-backend/internal/logger"
)

// WarnUnstartedRentals nags both parties about confirmed rentals whose start
// date passed over an hour ago without the owner marking pickup. There is no
// guard flag: the warning repeats every run until the rental is started.
func (jr *JobRunner) WarnUnstartedRentals() {
	jr.runWithRecovery("WarnUnstartedRentals", func() {
		ctx := context.Background()

		query := `
			SELECT id, renter_id, owner_id, vehicle_id, start_date
			FROM bookings
			WHERE status = 'CONFIRMED'
			  AND rental_start_confirmed = false
			  AND start_date < NOW() - INTERVAL '1 hour'
		`
		rows, err := jr.db.QueryContext(ctx, query)
		if err != nil {
			logger.Error("Failed to query unstarted rentals", "error", err)
			return
		}
		defer rows.Close()

		count := 0
		for rows.Next() {
			var (
				bookingID, renterID, ownerID, vehicleID int32
				startDate                               time.Time
			)
			if err := rows.Scan(&bookingID, &renterID, &ownerID, &vehicleID, &startDate); err != nil {
				logger.Error("Failed to scan unstarted rental", "error", err)
				continue
			}

			message := fmt.Sprintf("Booking %d was due to start on %s but pickup has not been confirmed.",
				bookingID, startDate.Format("2006-01-02"))
			jr.notifyBothParties(ctx, bookingID, renterID, ownerID, "Rental Not Started", message,
				domain.NotificationCategoryReminder)
			count++
		}
		if err := rows.Err(); err != nil {
			logger.Error("Error iterating unstarted rentals", "error", err)
			return
		}
		logger.Info("Unstarted-rental warnings sent", "count", count)
	})
}

// WarnOverdueReturns nags both parties about rentals past their end date
// without a confirmed return. Repeats every run, like WarnUnstartedRentals.
func (jr *JobRunner) WarnOverdueReturns() {
	jr.runWithRecovery("WarnOverdueReturns", func() {
		ctx := context.Background()

		query := `
			SELECT id, renter_id, owner_id, vehicle_id, end_date
			FROM bookings
			WHERE status IN ('ACTIVE', 'CONFIRMED')
			  AND rental_end_confirmed = false
			  AND end_date < NOW() - INTERVAL '1 hour'
		`
		rows, err := jr.db.QueryContext(ctx, query)
		if err != nil {
			logger.Error("Failed to query overdue returns", "error", err)
			return
		}
		defer rows.Close()

		count := 0
		for rows.Next() {
			var (
				bookingID, renterID, ownerID, vehicleID int32
				endDate                                 time.Time
			)
			if err := rows.Scan(&bookingID, &renterID, &ownerID, &vehicleID, &endDate); err != nil {
				logger.Error("Failed to scan overdue return", "error", err)
				continue
			}

			message := fmt.Sprintf("Booking %d was due back on %s and the return has not been confirmed.",
				bookingID, endDate.Format("2006-01-02"))
			jr.notifyBothParties(ctx, bookingID, renterID, ownerID, "Vehicle Return Overdue", message,
				domain.NotificationCategoryReminder)
			count++
		}
		if err := rows.Err(); err != nil {
			logger.Error("Error iterating overdue returns", "error", err)
			return
		}
		logger.Info("Overdue-return warnings sent", "count", count)
	})
}

// FollowUpStaleRefunds reminds owners about refund requests that have sat
// unresolved for over a day. Repeats every run until the refund settles.
func (jr *JobRunner) FollowUpStaleRefunds() {
	jr.runWithRecovery("FollowUpStaleRefunds", func() {
		ctx := context.Background()

		query := `
			SELECT id, owner_id, refund_wallet_name
			FROM bookings
			WHERE refund_requested = true
			  AND payment_status <> 'REFUNDED'
			  AND updated_on < NOW() - INTERVAL '24 hours'
		`
		rows, err := jr.db.QueryContext(ctx, query)
		if err != nil {
			logger.Error("Failed to query stale refund requests", "error", err)
			return
		}
		defer rows.Close()

		count := 0
		for rows.Next() {
			var (
				bookingID, ownerID int32
				walletName         string
			)
			if err := rows.Scan(&bookingID, &ownerID, &walletName); err != nil {
				logger.Error("Failed to scan stale refund request", "error", err)
				continue
			}

			if owner, err := jr.parties.Get(ctx, domain.PartyKindOwner, ownerID); err == nil {
				if err := jr.services.Email.SendRefundFollowUp(ctx, owner.Email, bookingID, walletName); err != nil {
					logger.Error("Failed to send refund follow-up email", "booking_id", bookingID, "error", err)
				}
			} else {
				logger.Error("Failed to resolve owner for refund follow-up", "booking_id", bookingID, "error", err)
			}
			jr.services.Notifier.Notify(ctx, domain.Recipient{Kind: domain.PartyKindOwner, ID: ownerID},
				"Refund Still Pending",
				fmt.Sprintf("The refund requested for booking %d has not been settled yet.", bookingID),
				domain.NotificationCategoryRefund, domain.NotificationPriorityHigh, nil)
			count++
		}
		if err := rows.Err(); err != nil {
			logger.Error("Error iterating stale refund requests", "error", err)
			return
		}
		logger.Info("Stale-refund follow-ups sent", "count", count)
	})
}

// SendUpcomingReminders emails both parties about rentals starting or ending
// within the next 24 hours. The reminder flags make each reminder one-shot:
// the flag is written only after a successful send, so a failed send retries
// on the next run.
func (jr *JobRunner) SendUpcomingReminders() {
	jr.runWithRecovery("SendUpcomingReminders", func() {
		ctx := context.Background()
		jr.sendPhaseReminders(ctx, "start")
		jr.sendPhaseReminders(ctx, "end")
	})
}

func (jr *JobRunner) sendPhaseReminders(ctx context.Context, phase string) {
	dateColumn, flagColumn := "start_date", "start_reminder_sent"
	if phase == "end" {
		dateColumn, flagColumn = "end_date", "end_reminder_sent"
	}

	query := fmt.Sprintf(`
		SELECT id, renter_id, owner_id, vehicle_id, %s
		FROM bookings
		WHERE status IN ('CONFIRMED', 'ACTIVE')
		  AND %s = false
		  AND %s BETWEEN NOW() AND NOW() + INTERVAL '24 hours'
	`, dateColumn, flagColumn, dateColumn)

	rows, err := jr.db.QueryContext(ctx, query)
	if err != nil {
		logger.Error("Failed to query upcoming rentals", "phase", phase, "error", err)
		return
	}
	defer rows.Close()

	count := 0
	for rows.Next() {
		var (
			bookingID, renterID, ownerID, vehicleID int32
			date                                    time.Time
		)
		if err := rows.Scan(&bookingID, &renterID, &ownerID, &vehicleID, &date); err != nil {
			logger.Error("Failed to scan upcoming rental", "phase", phase, "error", err)
			continue
		}

		sent := true
		for _, recipient := range []domain.Recipient{
			{Kind: domain.PartyKindRenter, ID: renterID},
			{Kind: domain.PartyKindOwner, ID: ownerID},
		} {
			party, err := jr.parties.Get(ctx, recipient.Kind, recipient.ID)
			if err != nil {
				logger.Error("Failed to resolve party for reminder", "booking_id", bookingID, "error", err)
				sent = false
				continue
			}
			vehicleName := fmt.Sprintf("vehicle %d", vehicleID)
			if err := jr.services.Email.SendRentalReminder(ctx, party.Email, vehicleName, phase, date.Format("2006-01-02")); err != nil {
				logger.Error("Failed to send rental reminder", "booking_id", bookingID, "phase", phase, "error", err)
				sent = false
				continue
			}
			jr.services.Notifier.Notify(ctx, recipient,
				fmt.Sprintf("Rental %s tomorrow", phase),
				fmt.Sprintf("Booking %d is due to %s on %s.", bookingID, phase, date.Format("2006-01-02")),
				domain.NotificationCategoryReminder, domain.NotificationPriorityNormal, nil)
		}
		if !sent {
			continue
		}

		var markErr error
		if phase == "start" {
			markErr = jr.bookings.MarkStartReminderSent(ctx, bookingID)
		} else {
			markErr = jr.bookings.MarkEndReminderSent(ctx, bookingID)
		}
		if markErr != nil {
			logger.Error("Failed to mark reminder sent", "booking_id", bookingID, "phase", phase, "error", markErr)
			continue
		}
		count++
	}
	if err := rows.Err(); err != nil {
		logger.Error("Error iterating upcoming rentals", "phase", phase, "error", err)
		return
	}
	logger.Info("Upcoming reminders sent", "phase", phase, "count", count)
}

// ExpireUnconfirmedBookings cancels requests that never reached CONFIRMED
// before their start date passed by more than a day. Cancellation goes
// through the engine's cancel path, whose status gate makes a second sweep
// run over the same booking a no-op.
func (jr *JobRunner) ExpireUnconfirmedBookings() {
	jr.runWithRecovery("ExpireUnconfirmedBookings", func() {
		ctx := context.Background()

		query := `
			SELECT id
			FROM bookings
			WHERE status IN ('PENDING', 'ACCEPTED', 'REVISION_REQUIRED')
			  AND start_date < NOW() - INTERVAL '24 hours'
		`
		rows, err := jr.db.QueryContext(ctx, query)
		if err != nil {
			logger.Error("Failed to query expired booking requests", "error", err)
			return
		}
		defer rows.Close()

		var expired []int32
		for rows.Next() {
			var bookingID int32
			if err := rows.Scan(&bookingID); err != nil {
				logger.Error("Failed to scan expired booking request", "error", err)
				continue
			}
			expired = append(expired, bookingID)
		}
		if err := rows.Err(); err != nil {
			logger.Error("Error iterating expired booking requests", "error", err)
			return
		}

		count := 0
		for _, bookingID := range expired {
			if _, err := jr.services.Booking.ForceCancelBooking(ctx, bookingID, "booking was not confirmed before its start date"); err != nil {
				logger.Error("Failed to expire booking", "booking_id", bookingID, "error", err)
				continue
			}
			count++
		}
		logger.Info("Unconfirmed bookings expired", "count", count)
	})
}

// NudgeUnreadMessages tells each party about unseen chat messages from the
// counter-party on in-flight bookings. One notification per sweep per party;
// it repeats each run while messages stay unread.
func (jr *JobRunner) NudgeUnreadMessages() {
	jr.runWithRecovery("NudgeUnreadMessages", func() {
		ctx := context.Background()

		query := `
			SELECT id, renter_id, owner_id
			FROM bookings
			WHERE status IN ('ACCEPTED', 'REVISION_REQUIRED', 'CONFIRMED', 'ACTIVE')
		`
		rows, err := jr.db.QueryContext(ctx, query)
		if err != nil {
			logger.Error("Failed to query bookings for unread nudge", "error", err)
			return
		}
		defer rows.Close()

		type candidate struct {
			bookingID, renterID, ownerID int32
		}
		var candidates []candidate
		for rows.Next() {
			var c candidate
			if err := rows.Scan(&c.bookingID, &c.renterID, &c.ownerID); err != nil {
				logger.Error("Failed to scan booking for unread nudge", "error", err)
				continue
			}
			candidates = append(candidates, c)
		}
		if err := rows.Err(); err != nil {
			logger.Error("Error iterating bookings for unread nudge", "error", err)
			return
		}

		count := 0
		for _, c := range candidates {
			thread, err := jr.chats.FindThreadForBooking(ctx, c.bookingID)
			if err != nil {
				logger.Error("Failed to look up chat thread", "booking_id", c.bookingID, "error", err)
				continue
			}
			if thread == nil {
				continue
			}

			pairs := []struct {
				reader domain.Recipient
				sender domain.Recipient
			}{
				{
					reader: domain.Recipient{Kind: domain.PartyKindRenter, ID: c.renterID},
					sender: domain.Recipient{Kind: domain.PartyKindOwner, ID: c.ownerID},
				},
				{
					reader: domain.Recipient{Kind: domain.PartyKindOwner, ID: c.ownerID},
					sender: domain.Recipient{Kind: domain.PartyKindRenter, ID: c.renterID},
				},
			}
			for _, p := range pairs {
				unseen, err := jr.chats.CountUnseenFrom(ctx, thread.ID, p.sender)
				if err != nil {
					logger.Error("Failed to count unseen messages", "booking_id", c.bookingID, "error", err)
					continue
				}
				if unseen == 0 {
					continue
				}
				jr.services.Notifier.Notify(ctx, p.reader,
					"Unread Messages",
					fmt.Sprintf("You have %d unread message(s) about booking %d.", unseen, c.bookingID),
					domain.NotificationCategoryChat, domain.NotificationPriorityLow, nil)
				count++
			}
		}
		logger.Info("Unread-message nudges sent", "count", count)
	})
}

func (jr *JobRunner) notifyBothParties(ctx context.Context, bookingID, renterID, ownerID int32, title, message string, category domain.NotificationCategory) {
	for _, recipient := range []domain.Recipient{
		{Kind: domain.PartyKindRenter, ID: renterID},
		{Kind: domain.PartyKindOwner, ID: ownerID},
	} {
		jr.services.Notifier.Notify(ctx, recipient, title, message, category, domain.NotificationPriorityHigh,
			map[string]string{"booking_id": fmt.Sprintf("%d", bookingID)})
	}
}
