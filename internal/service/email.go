package service

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type emailService struct {
	apiKey    string
	fromEmail string
	fromName  string
}

func NewEmailService(apiKey, fromEmail, fromName string) EmailService {
	return &emailService{
		apiKey:    apiKey,
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

func (s *emailService) send(to, subject, plainText string) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	recipient := mail.NewEmail("", to)
	message := mail.NewSingleEmail(from, subject, recipient, plainText, "")

	client := sendgrid.NewSendClient(s.apiKey)
	response, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}
	return nil
}

func (s *emailService) SendBookingRequestNotification(ctx context.Context, ownerEmail, renterName, vehicleName string) error {
	subject := fmt.Sprintf("New Booking Request: %s", vehicleName)
	body := fmt.Sprintf("%s has requested to rent your %s.\n\nPlease review the request and its add-ons in the app.\n\nBest regards,\nThe RentARide Team", renterName, vehicleName)
	return s.send(ownerEmail, subject, body)
}

func (s *emailService) SendBookingAcceptedNotification(ctx context.Context, renterEmail, vehicleName string) error {
	subject := fmt.Sprintf("Booking Accepted: %s", vehicleName)
	body := fmt.Sprintf("Your booking request for %s was accepted by the owner.\n\nYou can now complete the payment to confirm your booking.\n\nBest regards,\nThe RentARide Team", vehicleName)
	return s.send(renterEmail, subject, body)
}

func (s *emailService) SendRevisionRequiredNotification(ctx context.Context, renterEmail, vehicleName string) error {
	subject := fmt.Sprintf("Booking Updated: %s", vehicleName)
	body := fmt.Sprintf("The owner approved your booking request for %s with changes to the requested add-ons.\n\nPlease review the revised terms and confirm in the app.\n\nBest regards,\nThe RentARide Team", vehicleName)
	return s.send(renterEmail, subject, body)
}

func (s *emailService) SendBookingConfirmedNotification(ctx context.Context, ownerEmail, renterName, vehicleName string) error {
	subject := fmt.Sprintf("Booking Confirmed: %s", vehicleName)
	body := fmt.Sprintf("%s has paid and confirmed the booking for your %s.\n\nBest regards,\nThe RentARide Team", renterName, vehicleName)
	return s.send(ownerEmail, subject, body)
}

func (s *emailService) SendBookingCancelledNotification(ctx context.Context, email, vehicleName, reason string) error {
	subject := fmt.Sprintf("Booking Cancelled: %s", vehicleName)
	body := fmt.Sprintf("The booking for %s has been cancelled.", vehicleName)
	if reason != "" {
		body += fmt.Sprintf("\n\nReason: %s", reason)
	}
	body += "\n\nBest regards,\nThe RentARide Team"
	return s.send(email, subject, body)
}

func (s *emailService) SendRentalReminder(ctx context.Context, email, vehicleName, phase, date string) error {
	subject := fmt.Sprintf("Upcoming Rental %s: %s", phase, vehicleName)
	body := fmt.Sprintf("This is a reminder that the rental of %s is due to %s on %s.\n\nBest regards,\nThe RentARide Team", vehicleName, phase, date)
	return s.send(email, subject, body)
}

func (s *emailService) SendRefundFollowUp(ctx context.Context, ownerEmail string, bookingID int32, walletName string) error {
	subject := fmt.Sprintf("Refund Pending for Booking %d", bookingID)
	body := fmt.Sprintf("The renter of booking %d requested a refund to their %s wallet more than a day ago and it has not been settled yet.\n\nPlease process the refund in the app.\n\nBest regards,\nThe RentARide Team", bookingID, walletName)
	return s.send(ownerEmail, subject, body)
}
