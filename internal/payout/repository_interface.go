package payout

import "context"

type Repository interface {
	// Create reserves amount out of the owner's available balance and
	// inserts a pending payout. Balance check and insert run in one
	// transaction under a per-owner lock.
	Create(ctx context.Context, ownerID int, amount int64) (*Payout, error)
	AvailableBalance(ctx context.Context, ownerID int) (int64, error)
	GetByID(ctx context.Context, id int) (*Payout, error)
	ListByOwner(ctx context.Context, ownerID int) ([]Payout, error)
	ListAll(ctx context.Context) ([]Payout, error)
	UpdateStatus(ctx context.Context, id int, status string, transactionID, adminNotes *string) (*Payout, error)
}
