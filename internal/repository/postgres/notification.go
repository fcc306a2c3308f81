package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"rentaride-backend/internal/domain"
	"rentaride-backend/internal/repository"
)

type notificationRepository struct {
	db *sql.DB
}

func NewNotificationRepository(db *sql.DB) repository.NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, note *domain.Notification) error {
	attrs, err := json.Marshal(note.Attributes)
	if err != nil {
		return fmt.Errorf("failed to encode notification attributes: %w", err)
	}
	query := `INSERT INTO notifications (recipient_kind, recipient_id, title, message, category, priority, attributes, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, NOW()) RETURNING id, created_on`
	return r.db.QueryRowContext(ctx, query,
		note.Recipient.Kind, note.Recipient.ID, note.Title, note.Message, note.Category, note.Priority, attrs,
	).Scan(&note.ID, &note.CreatedOn)
}

func (r *notificationRepository) List(ctx context.Context, recipient domain.Recipient, limit, offset int32) ([]domain.Notification, int32, error) {
	var count int32
	countQuery := `SELECT count(*) FROM notifications WHERE recipient_kind = $1 AND recipient_id = $2`
	if err := r.db.QueryRowContext(ctx, countQuery, recipient.Kind, recipient.ID).Scan(&count); err != nil {
		return nil, 0, err
	}

	query := `SELECT id, recipient_kind, recipient_id, title, message, category, priority, is_read, attributes, created_on
	          FROM notifications WHERE recipient_kind = $1 AND recipient_id = $2
	          ORDER BY created_on DESC LIMIT $3 OFFSET $4`
	rows, err := r.db.QueryContext(ctx, query, recipient.Kind, recipient.ID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var notes []domain.Notification
	for rows.Next() {
		var n domain.Notification
		var attrs []byte
		if err := rows.Scan(&n.ID, &n.Recipient.Kind, &n.Recipient.ID, &n.Title, &n.Message,
			&n.Category, &n.Priority, &n.IsRead, &attrs, &n.CreatedOn); err != nil {
			return nil, 0, err
		}
		if len(attrs) > 0 {
			if err := json.Unmarshal(attrs, &n.Attributes); err != nil {
				return nil, 0, fmt.Errorf("failed to decode attributes for notification %d: %w", n.ID, err)
			}
		}
		notes = append(notes, n)
	}
	return notes, count, rows.Err()
}

func (r *notificationRepository) MarkAsRead(ctx context.Context, id int32, recipient domain.Recipient) error {
	query := `UPDATE notifications SET is_read = true WHERE id = $1 AND recipient_kind = $2 AND recipient_id = $3`
	res, err := r.db.ExecContext(ctx, query, id, recipient.Kind, recipient.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return &domain.NotFoundError{Entity: "notification", ID: id}
	}
	return nil
}
