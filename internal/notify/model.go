package notify

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

type Notification struct {
	ID     int    `db:"id" json:"id"`
	UserID int    `db:"user_id" json:"user_id"`
	Title  string `db:"title" json:"title"`
	Body   string `db:"body" json:"body"`

	// Metadata carries domain references (booking id, payout id) for
	// clients that want to deep-link.
	Metadata types.JSONText `db:"metadata" json:"metadata,omitempty"`

	IsRead    bool      `db:"is_read" json:"is_read"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// EmailJob is the queued delivery unit. Jobs are retried in-process and
// parked on a failed list after the last attempt.
type EmailJob struct {
	To      string    `json:"to"`
	Name    string    `json:"name"`
	Subject string    `json:"subject"`
	Body    string    `json:"body"`
	Tries   int       `json:"tries"`
	Created time.Time `json:"created"`
}
