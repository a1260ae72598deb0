package booking

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"
)

var ErrNotPendingOrMissing = errors.New("booking not found or not pending")

const bookingColumns = `id, user_id, booking_type, room_id, mess_plan_id, start_date, end_date, duration_months, total_amount, status, payment_id, created_at, updated_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, p CreateParams) (*Booking, error) {
	query := `
		INSERT INTO bookings (user_id, booking_type, room_id, mess_plan_id, start_date, end_date, duration_months, total_amount, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 'pending')
		RETURNING ` + bookingColumns

	var b Booking
	err := r.db.GetContext(ctx, &b, query,
		p.UserID, p.BookingType, p.RoomID, p.MessPlanID,
		p.StartDate, p.EndDate, p.DurationMonths, p.TotalAmount)
	if err != nil {
		return nil, err
	}

	return &b, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	var b Booking
	err := r.db.GetContext(ctx, &b, query, id)
	if err != nil {
		return nil, err
	}

	return &b, nil
}

func (r *repository) ListByUser(ctx context.Context, userID int) ([]Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	var bookings []Booking
	err := r.db.SelectContext(ctx, &bookings, query, userID)
	if err != nil {
		return nil, err
	}

	return bookings, nil
}

func (r *repository) ListByOwner(ctx context.Context, ownerID int) ([]BookingWithDetails, error) {
	query := `
		SELECT
			b.id,
			b.user_id,
			b.booking_type,
			b.room_id,
			b.mess_plan_id,
			b.start_date,
			b.end_date,
			b.duration_months,
			b.total_amount,
			b.status,
			b.payment_id,
			b.created_at,
			b.updated_at,
			COALESCE(r.title, m.name) AS listing_title,
			COALESCE(r.owner_id, m.owner_id) AS listing_owner_id,
			u.name AS user_name,
			u.email AS user_email
		FROM bookings b
		LEFT JOIN rooms r ON b.room_id = r.id
		LEFT JOIN mess_plans m ON b.mess_plan_id = m.id
		JOIN users u ON b.user_id = u.id
		WHERE r.owner_id = $1 OR m.owner_id = $1
		ORDER BY b.created_at DESC
	`

	var bookings []BookingWithDetails
	err := r.db.SelectContext(ctx, &bookings, query, ownerID)
	if err != nil {
		return nil, err
	}

	return bookings, nil
}

// CancelPending flips a pending booking to cancelled. The status guard
// lives in the statement so a racing confirm cannot be overwritten.
func (r *repository) CancelPending(ctx context.Context, id int) error {
	query := `
		UPDATE bookings
		SET status = 'cancelled', updated_at = NOW()
		WHERE id = $1 AND status = 'pending'
	`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotPendingOrMissing
	}

	return nil
}

func (r *repository) UpdateStatus(ctx context.Context, id int, status string) error {
	query := `
		UPDATE bookings
		SET status = $2, updated_at = NOW()
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query, id, status)
	return err
}

func (r *repository) SetStatusAndPayment(ctx context.Context, id int, status string, paymentID int) error {
	query := `
		UPDATE bookings
		SET status = $2, payment_id = $3, updated_at = NOW()
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query, id, status, paymentID)
	return err
}
