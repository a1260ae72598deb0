package notify

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
)

var ErrNotFound = errors.New("notification not found")

const notificationColumns = `id, user_id, title, body, metadata, is_read, created_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, userID int, title, body string, metadata types.JSONText) (*Notification, error) {
	query := `
		INSERT INTO notifications (user_id, title, body, metadata)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + notificationColumns

	var n Notification
	err := r.db.GetContext(ctx, &n, query, userID, title, body, metadata)
	if err != nil {
		return nil, err
	}

	return &n, nil
}

func (r *repository) ListByUser(ctx context.Context, userID int) ([]Notification, error) {
	query := `
		SELECT ` + notificationColumns + `
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT 100
	`

	var notifications []Notification
	err := r.db.SelectContext(ctx, &notifications, query, userID)
	if err != nil {
		return nil, err
	}

	return notifications, nil
}

// MarkRead is scoped to the owning user so one user cannot mark
// another's notifications.
func (r *repository) MarkRead(ctx context.Context, userID, id int) error {
	query := `
		UPDATE notifications
		SET is_read = TRUE
		WHERE id = $1 AND user_id = $2
	`

	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *repository) UnreadCount(ctx context.Context, userID int) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND is_read = FALSE`, userID)
	if err != nil {
		return 0, err
	}

	return count, nil
}
