package booking

import (
	"context"
	"time"
)

type CreateParams struct {
	UserID         int
	BookingType    string
	RoomID         *int
	MessPlanID     *int
	StartDate      time.Time
	EndDate        *time.Time
	DurationMonths *int
	TotalAmount    int64
}

type Repository interface {
	Create(ctx context.Context, p CreateParams) (*Booking, error)
	GetByID(ctx context.Context, id int) (*Booking, error)
	ListByUser(ctx context.Context, userID int) ([]Booking, error)
	ListByOwner(ctx context.Context, ownerID int) ([]BookingWithDetails, error)
	CancelPending(ctx context.Context, id int) error
	UpdateStatus(ctx context.Context, id int, status string) error
	SetStatusAndPayment(ctx context.Context, id int, status string, paymentID int) error
}
