package payout

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

var (
	ErrNotFound            = errors.New("payout not found")
	ErrInsufficientBalance = errors.New("insufficient payout balance")
)

const payoutColumns = `id, owner_id, amount, status, transaction_id, admin_notes, processed_at, created_at, updated_at`

// balanceQuery computes the owner's withdrawable balance: confirmed
// booking revenue on their listings minus every payout that is not
// rejected. Rejected payouts release their reservation.
const balanceQuery = `
	SELECT
		COALESCE((
			SELECT SUM(b.total_amount)
			FROM bookings b
			LEFT JOIN rooms r ON b.room_id = r.id
			LEFT JOIN mess_plans m ON b.mess_plan_id = m.id
			WHERE b.status = 'confirmed'
			  AND COALESCE(r.owner_id, m.owner_id) = $1
		), 0)
		-
		COALESCE((
			SELECT SUM(p.amount)
			FROM payouts p
			WHERE p.owner_id = $1
			  AND p.status IN ('pending', 'processing', 'paid')
		), 0)
`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

// Create checks the balance and inserts the payout inside a single
// transaction. The advisory lock serializes concurrent requests from
// the same owner; without it two requests could both read the same
// balance and overdraw.
func (r *repository) Create(ctx context.Context, ownerID int, amount int64) (*Payout, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, ownerID); err != nil {
		return nil, err
	}

	var balance int64
	if err := tx.GetContext(ctx, &balance, balanceQuery, ownerID); err != nil {
		return nil, err
	}

	if amount > balance {
		return nil, fmt.Errorf("%w: available %d", ErrInsufficientBalance, balance)
	}

	var p Payout
	err = tx.QueryRowxContext(ctx,
		`INSERT INTO payouts (owner_id, amount, status)
		 VALUES ($1, $2, 'pending')
		 RETURNING `+payoutColumns,
		ownerID, amount,
	).StructScan(&p)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &p, nil
}

func (r *repository) AvailableBalance(ctx context.Context, ownerID int) (int64, error) {
	var balance int64
	err := r.db.GetContext(ctx, &balance, balanceQuery, ownerID)
	if err != nil {
		return 0, err
	}

	return balance, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*Payout, error) {
	query := `SELECT ` + payoutColumns + ` FROM payouts WHERE id = $1`

	var p Payout
	err := r.db.GetContext(ctx, &p, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &p, nil
}

func (r *repository) ListByOwner(ctx context.Context, ownerID int) ([]Payout, error) {
	query := `
		SELECT ` + payoutColumns + `
		FROM payouts
		WHERE owner_id = $1
		ORDER BY created_at DESC
	`

	var payouts []Payout
	err := r.db.SelectContext(ctx, &payouts, query, ownerID)
	if err != nil {
		return nil, err
	}

	return payouts, nil
}

func (r *repository) ListAll(ctx context.Context) ([]Payout, error) {
	query := `
		SELECT ` + payoutColumns + `
		FROM payouts
		ORDER BY created_at DESC
	`

	var payouts []Payout
	err := r.db.SelectContext(ctx, &payouts, query)
	if err != nil {
		return nil, err
	}

	return payouts, nil
}

// UpdateStatus overwrites the payout status unconditionally; admins may
// move a payout to any status, including backwards. processed_at is
// stamped the first time the payout reaches paid.
func (r *repository) UpdateStatus(ctx context.Context, id int, status string, transactionID, adminNotes *string) (*Payout, error) {
	query := `
		UPDATE payouts
		SET status = $2,
		    transaction_id = COALESCE($3, transaction_id),
		    admin_notes = COALESCE($4, admin_notes),
		    processed_at = CASE WHEN $2 = 'paid' AND processed_at IS NULL THEN NOW() ELSE processed_at END,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING ` + payoutColumns

	var p Payout
	err := r.db.QueryRowxContext(ctx, query, id, status, transactionID, adminNotes).StructScan(&p)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &p, nil
}
