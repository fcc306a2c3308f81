package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"rentaride-backend/internal/domain"
	"rentaride-backend/internal/repository"
)

const bookingColumns = `id, renter_id, owner_id, vehicle_id, start_date, end_date, total_days,
	daily_price_cents, amount_due_cents, amount_paid_cents, cancellation_fee_cents, payment_method, add_ons,
	pickup_location, pickup_time, drop_time, status, payment_status,
	rental_start_confirmed, rental_end_confirmed, start_reminder_sent, end_reminder_sent,
	refund_requested, refund_wallet_name, refund_wallet_id, created_on, updated_on`

type bookingRepository struct {
	db *sql.DB
}

func NewBookingRepository(db *sql.DB) repository.BookingRepository {
	return &bookingRepository{db: db}
}

func (r *bookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	addOns, err := json.Marshal(b.AddOns)
	if err != nil {
		return fmt.Errorf("failed to encode add-ons: %w", err)
	}
	query := `INSERT INTO bookings (renter_id, owner_id, vehicle_id, start_date, end_date, total_days,
	            daily_price_cents, amount_due_cents, amount_paid_cents, payment_method, add_ons,
	            pickup_location, pickup_time, drop_time, status, payment_status, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, NOW(), NOW())
	          RETURNING id, created_on, updated_on`
	return r.db.QueryRowContext(ctx, query,
		b.RenterID, b.OwnerID, b.VehicleID, b.StartDate, b.EndDate, b.TotalDays,
		b.DailyPriceCents, b.AmountDueCents, b.AmountPaidCents, b.PaymentMethod, addOns,
		b.PickupLocation, b.PickupTime, b.DropTime, b.Status, b.PaymentStatus,
	).Scan(&b.ID, &b.CreatedOn, &b.UpdatedOn)
}

func (r *bookingRepository) GetByID(ctx context.Context, id int32) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
	b, err := scanBooking(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, &domain.NotFoundError{Entity: "booking", ID: id}
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (r *bookingRepository) Update(ctx context.Context, b *domain.Booking) error {
	addOns, err := json.Marshal(b.AddOns)
	if err != nil {
		return fmt.Errorf("failed to encode add-ons: %w", err)
	}
	query := `UPDATE bookings SET ` + bookingSetClause + ` WHERE id=$14`
	_, err = r.db.ExecContext(ctx, query, bookingSetArgs(b, addOns)...)
	return err
}

// bookingSetClause covers every field a lifecycle transition may touch.
// updated_on is bumped on every write.
const bookingSetClause = `status=$1, payment_status=$2, amount_due_cents=$3, amount_paid_cents=$4,
	cancellation_fee_cents=$5, add_ons=$6, refund_requested=$7, refund_wallet_name=$8,
	refund_wallet_id=$9, rental_start_confirmed=$10, rental_end_confirmed=$11,
	start_reminder_sent=$12, end_reminder_sent=$13, updated_on=NOW()`

func bookingSetArgs(b *domain.Booking, addOns []byte) []interface{} {
	return []interface{}{
		b.Status, b.PaymentStatus, b.AmountDueCents, b.AmountPaidCents,
		b.CancellationFeeCents, addOns, b.RefundRequest.Requested, b.RefundRequest.WalletName,
		b.RefundRequest.WalletID, b.RentalStartConfirmed, b.RentalEndConfirmed,
		b.StartReminderSent, b.EndReminderSent, b.ID,
	}
}

func (r *bookingRepository) UpdateIfStatus(ctx context.Context, b *domain.Booking, expected domain.BookingStatus) (bool, error) {
	addOns, err := json.Marshal(b.AddOns)
	if err != nil {
		return false, fmt.Errorf("failed to encode add-ons: %w", err)
	}
	query := `UPDATE bookings SET ` + bookingSetClause + ` WHERE id=$14 AND status=$15`
	args := append(bookingSetArgs(b, addOns), expected)
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *bookingRepository) UpdateIfStatusAndAvailable(ctx context.Context, b *domain.Booking, expected domain.BookingStatus) (bool, error) {
	addOns, err := json.Marshal(b.AddOns)
	if err != nil {
		return false, fmt.Errorf("failed to encode add-ons: %w", err)
	}
	// The status guard and the overlap check run inside one UPDATE so two
	// concurrent occupancy-granting transitions on the same vehicle cannot
	// both commit.
	query := `UPDATE bookings SET ` + bookingSetClause + `
	          WHERE id=$14 AND status=$15
	            AND NOT EXISTS (
	              SELECT 1 FROM bookings o
	              WHERE o.vehicle_id=$16 AND o.id <> $14 AND o.status IN ('CONFIRMED', 'ACTIVE')
	                AND o.start_date <= $18 AND o.end_date >= $17
	            )`
	args := append(bookingSetArgs(b, addOns), expected, b.VehicleID, b.StartDate, b.EndDate)
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *bookingRepository) ApplyPayment(ctx context.Context, id int32, amountCents int64) (*domain.Booking, error) {
	// The increment and the payment-status recompute run in the database so
	// concurrent callbacks on the same booking cannot drop each other's
	// amounts, and a guard miss cannot lose a recorded payment.
	query := `UPDATE bookings SET amount_paid_cents = amount_paid_cents + $1,
	            payment_status = CASE WHEN amount_paid_cents + $1 >= amount_due_cents THEN 'FULL' ELSE 'PARTIAL' END,
	            updated_on = NOW()
	          WHERE id = $2
	          RETURNING ` + bookingColumns
	b, err := scanBooking(r.db.QueryRowContext(ctx, query, amountCents, id))
	if err == sql.ErrNoRows {
		return nil, &domain.NotFoundError{Entity: "booking", ID: id}
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (r *bookingRepository) HasConflict(ctx context.Context, vehicleID int32, start, end time.Time, statuses []domain.BookingStatus, excludeID int32) (bool, error) {
	query := `SELECT count(*) FROM bookings
	          WHERE vehicle_id = $1 AND id <> $2
	            AND status = ANY($3)
	            AND start_date <= $5 AND end_date >= $4`
	var count int32
	err := r.db.QueryRowContext(ctx, query, vehicleID, excludeID, statusArray(statuses), start, end).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *bookingRepository) HasActiveForRenter(ctx context.Context, renterID, vehicleID int32) (bool, error) {
	query := `SELECT count(*) FROM bookings
	          WHERE renter_id = $1 AND vehicle_id = $2 AND status = ANY($3)`
	var count int32
	err := r.db.QueryRowContext(ctx, query, renterID, vehicleID, statusArray(domain.NonTerminalStatuses)).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *bookingRepository) SetRefundRequest(ctx context.Context, id int32, walletName, walletID string) (bool, error) {
	query := `UPDATE bookings SET refund_requested=true, refund_wallet_name=$1, refund_wallet_id=$2, updated_on=NOW()
	          WHERE id=$3 AND status='CANCELLED' AND refund_requested=false`
	res, err := r.db.ExecContext(ctx, query, walletName, walletID, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *bookingRepository) MarkStartReminderSent(ctx context.Context, id int32) error {
	_, err := r.db.ExecContext(ctx, `UPDATE bookings SET start_reminder_sent=true, updated_on=NOW() WHERE id=$1`, id)
	return err
}

func (r *bookingRepository) MarkEndReminderSent(ctx context.Context, id int32) error {
	_, err := r.db.ExecContext(ctx, `UPDATE bookings SET end_reminder_sent=true, updated_on=NOW() WHERE id=$1`, id)
	return err
}

func (r *bookingRepository) ListByRenter(ctx context.Context, renterID int32, status string, page, pageSize int32) ([]domain.Booking, int32, error) {
	return r.list(ctx, "renter_id", renterID, status, page, pageSize)
}

func (r *bookingRepository) ListByOwner(ctx context.Context, ownerID int32, status string, page, pageSize int32) ([]domain.Booking, int32, error) {
	return r.list(ctx, "owner_id", ownerID, status, page, pageSize)
}

func (r *bookingRepository) list(ctx context.Context, column string, partyID int32, status string, page, pageSize int32) ([]domain.Booking, int32, error) {
	offset := (page - 1) * pageSize
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE ` + column + ` = $1`
	args := []interface{}{partyID}
	argIdx := 2
	if status != "" {
		query += " AND status = $2"
		args = append(args, status)
		argIdx++
	}

	var count int32
	countQuery := "SELECT count(*) FROM (" + query + ") as sub"
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(" ORDER BY created_on DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, pageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var bookings []domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, 0, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, count, rows.Err()
}

func (r *bookingRepository) ListNonTerminalByVehicle(ctx context.Context, vehicleID int32) ([]domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE vehicle_id = $1 AND status = ANY($2)`
	rows, err := r.db.QueryContext(ctx, query, vehicleID, statusArray(domain.NonTerminalStatuses))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	b := &domain.Booking{}
	var addOns []byte
	err := row.Scan(
		&b.ID, &b.RenterID, &b.OwnerID, &b.VehicleID, &b.StartDate, &b.EndDate, &b.TotalDays,
		&b.DailyPriceCents, &b.AmountDueCents, &b.AmountPaidCents, &b.CancellationFeeCents, &b.PaymentMethod, &addOns,
		&b.PickupLocation, &b.PickupTime, &b.DropTime, &b.Status, &b.PaymentStatus,
		&b.RentalStartConfirmed, &b.RentalEndConfirmed, &b.StartReminderSent, &b.EndReminderSent,
		&b.RefundRequest.Requested, &b.RefundRequest.WalletName, &b.RefundRequest.WalletID,
		&b.CreatedOn, &b.UpdatedOn,
	)
	if err != nil {
		return nil, err
	}
	if len(addOns) > 0 {
		if err := json.Unmarshal(addOns, &b.AddOns); err != nil {
			return nil, fmt.Errorf("failed to decode add-ons for booking %d: %w", b.ID, err)
		}
	}
	return b, nil
}

// statusArray renders a status list as a Postgres text array literal for
// use with = ANY($n).
func statusArray(statuses []domain.BookingStatus) string {
	out := "{"
	for i, s := range statuses {
		if i > 0 {
			out += ","
		}
		out += string(s)
	}
	return out + "}"
}
