package postgres

import (
	"context"
	"database/sql"

	"rentaride-backend/internal/domain"
	"rentaride-backend/internal/repository"
)

// Read-only view over the chat store. The sweep's unread-message nudge is
// the only consumer.
type chatRepository struct {
	db *sql.DB
}

func NewChatRepository(db *sql.DB) repository.ChatRepository {
	return &chatRepository{db: db}
}

func (r *chatRepository) FindThreadForBooking(ctx context.Context, bookingID int32) (*domain.ChatThread, error) {
	t := &domain.ChatThread{}
	query := `SELECT id, booking_id, renter_id, owner_id FROM chat_threads WHERE booking_id = $1`
	err := r.db.QueryRowContext(ctx, query, bookingID).Scan(&t.ID, &t.BookingID, &t.RenterID, &t.OwnerID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *chatRepository) CountUnseenFrom(ctx context.Context, threadID int32, sender domain.Recipient) (int32, error) {
	query := `SELECT count(*) FROM chat_messages
	          WHERE thread_id = $1 AND sender_kind = $2 AND sender_id = $3 AND seen = false`
	var count int32
	err := r.db.QueryRowContext(ctx, query, threadID, sender.Kind, sender.ID).Scan(&count)
	return count, err
}
