package postgres

import (
	"database/sql"

	"rentaride-backend/internal/repository"

	_ "github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.BookingRepository
	repository.PaymentRepository
	repository.VehicleRepository
	repository.PartyRepository
	repository.NotificationRepository
	repository.ChatRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                     db,
		BookingRepository:      NewBookingRepository(db),
		PaymentRepository:      NewPaymentRepository(db),
		VehicleRepository:      NewVehicleRepository(db),
		PartyRepository:        NewPartyRepository(db),
		NotificationRepository: NewNotificationRepository(db),
		ChatRepository:         NewChatRepository(db),
	}
}
