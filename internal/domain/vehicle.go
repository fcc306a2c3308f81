package domain

import "time"

type VehicleStatus string

const (
	VehicleStatusAvailable   VehicleStatus = "AVAILABLE"
	VehicleStatusUnavailable VehicleStatus = "UNAVAILABLE"
	VehicleStatusBlocked     VehicleStatus = "BLOCKED"
	VehicleStatusDeleted     VehicleStatus = "DELETED"
)

// Vehicle is the read-only shape served by the external vehicle directory.
// The booking core prices against DailyPriceCents and validates the rental
// period against the min/max bounds; it never mutates vehicle state.
type Vehicle struct {
	ID              int32         `json:"id"`
	OwnerID         int32         `json:"owner_id"`
	Name            string        `json:"name"`
	DailyPriceCents int64         `json:"daily_price_cents"`
	MinRentalDays   int32         `json:"min_rental_days"`
	MaxRentalDays   int32         `json:"max_rental_days"`
	Status          VehicleStatus `json:"status"`
	CreatedOn       time.Time     `json:"created_on"`
}

// Rentable reports whether new bookings may target this vehicle.
func (v *Vehicle) Rentable() bool {
	return v.Status == VehicleStatusAvailable
}
