package service

import (
	"context"

	"rentaride-backend/internal/domain"
	"rentaride-backend/internal/events"
	"rentaride-backend/internal/logger"
	"rentaride-backend/internal/realtime"
	"rentaride-backend/internal/repository"
)

type notifier struct {
	noteRepo  repository.NotificationRepository
	publisher events.Publisher
	registry  *realtime.Registry
}

func NewNotifier(noteRepo repository.NotificationRepository, publisher events.Publisher, registry *realtime.Registry) Notifier {
	return &notifier{
		noteRepo:  noteRepo,
		publisher: publisher,
		registry:  registry,
	}
}

// Notify persists the notification, broadcasts it on the pub/sub channel,
// and pushes it to a live session when one is connected. Each leg is
// best-effort: failures are logged and the remaining legs still run.
func (n *notifier) Notify(ctx context.Context, recipient domain.Recipient, title, message string,
	category domain.NotificationCategory, priority domain.NotificationPriority,
	attributes map[string]string) {

	note := &domain.Notification{
		Recipient:  recipient,
		Title:      title,
		Message:    message,
		Category:   category,
		Priority:   priority,
		Attributes: attributes,
	}
	if err := n.noteRepo.Create(ctx, note); err != nil {
		logger.Error("Failed to persist notification",
			"recipient_kind", recipient.Kind, "recipient_id", recipient.ID, "error", err)
	}

	if err := n.publisher.Publish(ctx, events.BookingEvent{
		Type:      events.EventNotification,
		Recipient: recipient,
		Title:     title,
		Message:   message,
	}); err != nil {
		logger.Error("Failed to publish notification event",
			"recipient_kind", recipient.Kind, "recipient_id", recipient.ID, "error", err)
	}

	if session := n.registry.Lookup(recipient); session != nil {
		if err := session.Send(note); err != nil {
			logger.Warn("Failed to push notification to live session",
				"recipient_kind", recipient.Kind, "recipient_id", recipient.ID, "error", err)
		}
	}
}
