package booking

import "time"

const (
	TypeRoom = "room"
	TypeMess = "mess"

	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
	// StatusCompleted exists in the schema but no operation produces it.
	StatusCompleted = "completed"
)

type Booking struct {
	ID          int    `db:"id" json:"id"`
	UserID      int    `db:"user_id" json:"user_id"`
	BookingType string `db:"booking_type" json:"booking_type"`

	// Exactly one of RoomID / MessPlanID is set, matching BookingType.
	RoomID     *int `db:"room_id" json:"room_id,omitempty"`
	MessPlanID *int `db:"mess_plan_id" json:"mess_plan_id,omitempty"`

	StartDate      time.Time  `db:"start_date" json:"start_date"`
	EndDate        *time.Time `db:"end_date" json:"end_date,omitempty"`
	DurationMonths *int       `db:"duration_months" json:"duration_months,omitempty"`

	// TotalAmount is fixed at creation from the listing's price snapshot
	// and never recomputed.
	TotalAmount int64  `db:"total_amount" json:"total_amount"`
	Status      string `db:"status" json:"status"`
	PaymentID   *int   `db:"payment_id" json:"payment_id,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

type BookingWithDetails struct {
	Booking
	ListingTitle string `db:"listing_title" json:"listing_title"`
	OwnerID      int    `db:"listing_owner_id" json:"listing_owner_id"`
	UserName     string `db:"user_name" json:"user_name"`
	UserEmail    string `db:"user_email" json:"user_email"`
}

type CreateBookingRequest struct {
	BookingType      string `json:"booking_type" binding:"required,oneof=room mess"`
	RoomID           int    `json:"room_id"`
	MessPlanID       int    `json:"mess_plan_id"`
	StartDate        string `json:"start_date"`
	DurationInMonths int    `json:"duration_in_months" binding:"omitempty,gte=1"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=confirmed cancelled"`
}

type OwnerBookingsResponse struct {
	Count         int                  `json:"count"`
	TotalEarnings int64                `json:"total_earnings"`
	Bookings      []BookingWithDetails `json:"bookings"`
}
