package payment

import (
	"context"

	"github.com/jmoiron/sqlx"
)

const paymentColumns = `id, user_id, booking_id, order_id, gateway_payment_id, gateway_signature, amount, currency, status, created_at, updated_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, userID, bookingID int, orderID string, amount int64, currency string) (*Payment, error) {
	query := `
		INSERT INTO payments (user_id, booking_id, order_id, amount, currency, status)
		VALUES ($1, $2, $3, $4, $5, 'created')
		RETURNING ` + paymentColumns

	var p Payment
	err := r.db.GetContext(ctx, &p, query, userID, bookingID, orderID, amount, currency)
	if err != nil {
		return nil, err
	}

	return &p, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`

	var p Payment
	err := r.db.GetContext(ctx, &p, query, id)
	if err != nil {
		return nil, err
	}

	return &p, nil
}

func (r *repository) GetByOrderID(ctx context.Context, orderID string) (*Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE order_id = $1`

	var p Payment
	err := r.db.GetContext(ctx, &p, query, orderID)
	if err != nil {
		return nil, err
	}

	return &p, nil
}

func (r *repository) MarkCaptured(ctx context.Context, id int, gatewayPaymentID, signature string) error {
	query := `
		UPDATE payments
		SET status = 'captured', gateway_payment_id = $2, gateway_signature = $3, updated_at = NOW()
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query, id, gatewayPaymentID, signature)
	return err
}

func (r *repository) MarkFailed(ctx context.Context, id int) error {
	query := `
		UPDATE payments
		SET status = 'failed', updated_at = NOW()
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

func (r *repository) MarkRefunded(ctx context.Context, id int) error {
	query := `
		UPDATE payments
		SET status = 'refunded', updated_at = NOW()
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

func (r *repository) ListByUser(ctx context.Context, userID int) ([]Payment, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM payments
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	var payments []Payment
	err := r.db.SelectContext(ctx, &payments, query, userID)
	if err != nil {
		return nil, err
	}

	return payments, nil
}
