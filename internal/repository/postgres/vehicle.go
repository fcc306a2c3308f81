package postgres

import (
	"context"
	"database/sql"

	"rentaride-backend/internal/domain"
	"rentaride-backend/internal/repository"
)

// The vehicle directory is owned by another subsystem; this repository only
// reads the columns the booking core prices and validates against.
type vehicleRepository struct {
	db *sql.DB
}

func NewVehicleRepository(db *sql.DB) repository.VehicleRepository {
	return &vehicleRepository{db: db}
}

func (r *vehicleRepository) GetByID(ctx context.Context, id int32) (*domain.Vehicle, error) {
	v := &domain.Vehicle{}
	query := `SELECT id, owner_id, name, daily_price_cents, min_rental_days, max_rental_days, status, created_on
	          FROM vehicles WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&v.ID, &v.OwnerID, &v.Name, &v.DailyPriceCents, &v.MinRentalDays, &v.MaxRentalDays, &v.Status, &v.CreatedOn,
	)
	if err == sql.ErrNoRows {
		return nil, &domain.NotFoundError{Entity: "vehicle", ID: id}
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}
