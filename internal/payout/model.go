package payout

import "time"

const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusPaid       = "paid"
	StatusRejected   = "rejected"
)

type Payout struct {
	ID      int   `db:"id" json:"id"`
	OwnerID int   `db:"owner_id" json:"owner_id"`
	Amount  int64 `db:"amount" json:"amount"`

	Status string `db:"status" json:"status"`

	// Set by an admin when the transfer is executed out of band.
	TransactionID *string    `db:"transaction_id" json:"transaction_id,omitempty"`
	AdminNotes    *string    `db:"admin_notes" json:"admin_notes,omitempty"`
	ProcessedAt   *time.Time `db:"processed_at" json:"processed_at,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

type RequestPayoutRequest struct {
	Amount int64 `json:"amount" binding:"required,gt=0"`
}

type UpdatePayoutRequest struct {
	Status        string `json:"status" binding:"required,oneof=pending processing paid rejected"`
	TransactionID string `json:"transaction_id"`
	AdminNotes    string `json:"admin_notes"`
}

type BalanceResponse struct {
	Available int64  `json:"available"`
	Currency  string `json:"currency"`
}
