package service

import (
	"context"

	"rentaride-backend/internal/domain"
	"rentaride-backend/internal/repository"
)

type notificationService struct {
	noteRepo repository.NotificationRepository
}

func NewNotificationService(noteRepo repository.NotificationRepository) NotificationService {
	return &notificationService{noteRepo: noteRepo}
}

func (s *notificationService) GetNotifications(ctx context.Context, recipient domain.Recipient, page, pageSize int32) ([]domain.Notification, int32, error) {
	offset := (page - 1) * pageSize
	return s.noteRepo.List(ctx, recipient, pageSize, offset)
}

func (s *notificationService) MarkAsRead(ctx context.Context, recipient domain.Recipient, notificationID int32) error {
	return s.noteRepo.MarkAsRead(ctx, notificationID, recipient)
}
