package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"roomnmeal/internal/auth"
	"roomnmeal/internal/listing"
	"roomnmeal/internal/logger"
	"roomnmeal/internal/metrics"
)

var (
	ErrNotFound           = errors.New("booking not found")
	ErrNotAuthorized      = errors.New("not authorized")
	ErrInvalidTransition  = errors.New("booking cannot be cancelled in its current status")
	ErrListingUnavailable = errors.New("listing not available for booking")
	ErrInvalidBooking     = errors.New("invalid booking details")
)

// ListingStore is the slice of the listing repository the ledger needs:
// price snapshots, ownership, and availability flags.
type ListingStore interface {
	GetRoomByID(ctx context.Context, id int) (*listing.Room, error)
	GetMessPlanByID(ctx context.Context, id int) (*listing.MessPlan, error)
}

// Notifier delivers best-effort notifications. Implementations must
// never fail the caller; errors are swallowed and logged internally.
type Notifier interface {
	Notify(ctx context.Context, userID int, title, body string, metadata map[string]string)
}

type Service interface {
	Create(ctx context.Context, userID int, req CreateBookingRequest) (*Booking, error)
	Cancel(ctx context.Context, userID, bookingID int) error
	UpdateStatusByOwner(ctx context.Context, ownerID, bookingID int, status string) (*Booking, error)
	GetByID(ctx context.Context, callerID int, callerRole string, bookingID int) (*Booking, error)
	ListMine(ctx context.Context, userID int) ([]Booking, error)
	ListForOwner(ctx context.Context, ownerID int) (*OwnerBookingsResponse, error)
}

type service struct {
	repo     Repository
	listings ListingStore
	notifier Notifier
}

func NewService(repo Repository, listings ListingStore, notifier Notifier) Service {
	return &service{
		repo:     repo,
		listings: listings,
		notifier: notifier,
	}
}

// parseStartDate accepts RFC3339 or plain dates; anything unparsable
// defaults to now, matching the lenient input contract.
func parseStartDate(s string) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Now()
}

func (s *service) Create(ctx context.Context, userID int, req CreateBookingRequest) (*Booking, error) {
	start := parseStartDate(req.StartDate)

	duration := req.DurationInMonths
	if duration <= 0 {
		duration = 1
	}

	params := CreateParams{
		UserID:      userID,
		BookingType: req.BookingType,
		StartDate:   start,
	}

	var ownerID int
	var notifTitle string

	switch {
	case req.BookingType == TypeRoom && req.RoomID > 0:
		room, err := s.listings.GetRoomByID(ctx, req.RoomID)
		if err != nil || !room.Bookable() {
			return nil, ErrListingUnavailable
		}

		// Room charge is deposit plus first month's rent, fixed at
		// booking time. Later price edits never touch this booking.
		params.TotalAmount = room.Price + room.Deposit
		params.RoomID = &req.RoomID
		params.DurationMonths = &duration
		end := start.AddDate(0, duration, 0)
		params.EndDate = &end

		ownerID = room.OwnerID
		notifTitle = "New Room Booking: " + room.Title

	case req.BookingType == TypeMess && req.MessPlanID > 0:
		plan, err := s.listings.GetMessPlanByID(ctx, req.MessPlanID)
		if err != nil || !plan.Bookable() {
			return nil, ErrListingUnavailable
		}

		// Mess subscriptions charge one month at a time; the duration
		// argument is ignored for them.
		params.TotalAmount = plan.MonthlyPrice
		params.MessPlanID = &req.MessPlanID
		end := start.AddDate(0, 1, 0)
		params.EndDate = &end

		ownerID = plan.OwnerID
		notifTitle = "New Mess Subscription: " + plan.Name

	default:
		return nil, ErrInvalidBooking
	}

	b, err := s.repo.Create(ctx, params)
	if err != nil {
		return nil, err
	}

	metrics.RecordBooking(b.BookingType)

	// Fire-and-forget: a failed notification must never fail or roll
	// back the booking.
	s.notifier.Notify(ctx, ownerID, notifTitle,
		fmt.Sprintf("You have a new booking request. Total: %d", b.TotalAmount),
		map[string]string{"booking_id": fmt.Sprintf("%d", b.ID)})

	return b, nil
}

func (s *service) Cancel(ctx context.Context, userID, bookingID int) error {
	b, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return ErrNotFound
	}

	if b.UserID != userID {
		return ErrNotAuthorized
	}

	if b.Status != StatusPending {
		return ErrInvalidTransition
	}

	if err := s.repo.CancelPending(ctx, bookingID); err != nil {
		if errors.Is(err, ErrNotPendingOrMissing) {
			return ErrInvalidTransition
		}
		return err
	}

	metrics.RecordBookingCancellation()
	return nil
}

// UpdateStatusByOwner overwrites the booking status without checking
// the current state. Owners are trusted with this lever; guarding it
// would change documented behavior.
func (s *service) UpdateStatusByOwner(ctx context.Context, ownerID, bookingID int, status string) (*Booking, error) {
	if status != StatusConfirmed && status != StatusCancelled {
		return nil, ErrInvalidBooking
	}

	b, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, ErrNotFound
	}

	listingOwner, err := s.resolveListingOwner(ctx, b)
	if err != nil {
		return nil, err
	}
	if listingOwner != ownerID {
		return nil, ErrNotAuthorized
	}

	if err := s.repo.UpdateStatus(ctx, bookingID, status); err != nil {
		return nil, err
	}

	logger.Info("booking status updated by owner",
		"booking_id", bookingID, "owner_id", ownerID, "status", status)

	b.Status = status
	return b, nil
}

// GetByID restricts visibility to the requester, the listing owner, or
// an admin. Anyone else probing ids gets ErrNotAuthorized, not the row.
func (s *service) GetByID(ctx context.Context, callerID int, callerRole string, bookingID int) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, ErrNotFound
	}

	if b.UserID == callerID || callerRole == auth.RoleAdmin {
		return b, nil
	}

	listingOwner, err := s.resolveListingOwner(ctx, b)
	if err == nil && listingOwner == callerID {
		return b, nil
	}

	return nil, ErrNotAuthorized
}

func (s *service) ListMine(ctx context.Context, userID int) ([]Booking, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *service) ListForOwner(ctx context.Context, ownerID int) (*OwnerBookingsResponse, error) {
	bookings, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	var earnings int64
	for _, b := range bookings {
		if b.Status == StatusConfirmed {
			earnings += b.TotalAmount
		}
	}

	return &OwnerBookingsResponse{
		Count:         len(bookings),
		TotalEarnings: earnings,
		Bookings:      bookings,
	}, nil
}

func (s *service) resolveListingOwner(ctx context.Context, b *Booking) (int, error) {
	switch {
	case b.RoomID != nil:
		room, err := s.listings.GetRoomByID(ctx, *b.RoomID)
		if err != nil {
			return 0, ErrNotFound
		}
		return room.OwnerID, nil
	case b.MessPlanID != nil:
		plan, err := s.listings.GetMessPlanByID(ctx, *b.MessPlanID)
		if err != nil {
			return 0, ErrNotFound
		}
		return plan.OwnerID, nil
	}
	return 0, ErrNotFound
}
