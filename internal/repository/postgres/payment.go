package postgres

import (
	"context"
	"database/sql"

	"rentaride-backend/internal/domain"
	"rentaride-backend/internal/repository"
)

type paymentRepository struct {
	db *sql.DB
}

func NewPaymentRepository(db *sql.DB) repository.PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Record(ctx context.Context, txn *domain.PaymentTransaction) (bool, error) {
	// txn_id carries a unique constraint; a replayed provider callback hits
	// ON CONFLICT and inserts nothing.
	query := `INSERT INTO payment_transactions (txn_id, booking_id, amount_cents, method, created_on)
	          VALUES ($1, $2, $3, $4, NOW())
	          ON CONFLICT (txn_id) DO NOTHING`
	res, err := r.db.ExecContext(ctx, query, txn.TxnID, txn.BookingID, txn.AmountCents, txn.Method)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *paymentRepository) ListByBooking(ctx context.Context, bookingID int32) ([]domain.PaymentTransaction, error) {
	query := `SELECT id, txn_id, booking_id, amount_cents, method, created_on
	          FROM payment_transactions WHERE booking_id = $1 ORDER BY created_on`
	rows, err := r.db.QueryContext(ctx, query, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txns []domain.PaymentTransaction
	for rows.Next() {
		var t domain.PaymentTransaction
		if err := rows.Scan(&t.ID, &t.TxnID, &t.BookingID, &t.AmountCents, &t.Method, &t.CreatedOn); err != nil {
			return nil, err
		}
		txns = append(txns, t)
	}
	return txns, rows.Err()
}
