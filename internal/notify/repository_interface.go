package notify

import (
	"context"

	"github.com/jmoiron/sqlx/types"
)

type Repository interface {
	Create(ctx context.Context, userID int, title, body string, metadata types.JSONText) (*Notification, error)
	ListByUser(ctx context.Context, userID int) ([]Notification, error)
	MarkRead(ctx context.Context, userID, id int) error
	UnreadCount(ctx context.Context, userID int) (int, error)
}
