package payment

import "context"

type Repository interface {
	Create(ctx context.Context, userID, bookingID int, orderID string, amount int64, currency string) (*Payment, error)
	GetByID(ctx context.Context, id int) (*Payment, error)
	GetByOrderID(ctx context.Context, orderID string) (*Payment, error)
	MarkCaptured(ctx context.Context, id int, gatewayPaymentID, signature string) error
	MarkFailed(ctx context.Context, id int) error
	MarkRefunded(ctx context.Context, id int) error
	ListByUser(ctx context.Context, userID int) ([]Payment, error)
}
