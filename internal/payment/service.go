package payment

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"roomnmeal/internal/auth"
	"roomnmeal/internal/booking"
	"roomnmeal/internal/logger"
	"roomnmeal/internal/metrics"
)

var (
	ErrNotFound          = errors.New("payment not found")
	ErrNotAuthorized     = errors.New("not authorized")
	ErrInvalidSignature  = errors.New("invalid payment signature")
	ErrBookingNotPayable = errors.New("booking is not awaiting payment")
	ErrNotRefundable     = errors.New("payment is not refundable")
	// ErrWebhookMisconfigured means the webhook secret is absent; the
	// gateway gets a 500 so it keeps redelivering until fixed.
	ErrWebhookMisconfigured = errors.New("webhook secret not configured")
)

// BookingLedger is the slice of the booking repository the adapter
// mutates when captures and refunds cascade.
type BookingLedger interface {
	GetByID(ctx context.Context, id int) (*booking.Booking, error)
	SetStatusAndPayment(ctx context.Context, id int, status string, paymentID int) error
	UpdateStatus(ctx context.Context, id int, status string) error
}

type Service interface {
	CreateOrder(ctx context.Context, userID, bookingID int) (*CreateOrderResponse, error)
	Verify(ctx context.Context, req VerifyRequest) (*Payment, error)
	HandleWebhook(ctx context.Context, rawBody []byte, signature string) error
	Refund(ctx context.Context, paymentID int) (*Payment, error)
	GetByID(ctx context.Context, callerID int, callerRole string, id int) (*Payment, error)
	ListMine(ctx context.Context, userID int) ([]Payment, error)
}

type service struct {
	repo          Repository
	bookings      BookingLedger
	gateway       Gateway
	keySecret     string
	webhookSecret string
}

func NewService(repo Repository, bookings BookingLedger, gateway Gateway, keySecret, webhookSecret string) Service {
	return &service{
		repo:          repo,
		bookings:      bookings,
		gateway:       gateway,
		keySecret:     keySecret,
		webhookSecret: webhookSecret,
	}
}

func (s *service) CreateOrder(ctx context.Context, userID, bookingID int) (*CreateOrderResponse, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, ErrNotFound
	}

	if b.UserID != userID {
		return nil, ErrNotAuthorized
	}

	// Only pending bookings may open a new order; this blocks a second
	// charge against an already-paid booking.
	if b.Status != booking.StatusPending {
		return nil, ErrBookingNotPayable
	}

	// The gateway charges in minor units (paise).
	order, err := s.gateway.CreateOrder(ctx, b.TotalAmount*100, DefaultCurrency,
		fmt.Sprintf("booking_%d", bookingID))
	if err != nil {
		return nil, err
	}

	p, err := s.repo.Create(ctx, userID, bookingID, order.ID, b.TotalAmount, order.Currency)
	if err != nil {
		return nil, err
	}

	metrics.PaymentOrdersTotal.Inc()

	return &CreateOrderResponse{
		OrderID:   order.ID,
		Amount:    order.Amount,
		Currency:  order.Currency,
		PaymentID: p.ID,
	}, nil
}

func (s *service) Verify(ctx context.Context, req VerifyRequest) (*Payment, error) {
	if !VerifyPaymentSignature(req.OrderID, req.PaymentID, req.Signature, s.keySecret) {
		return nil, ErrInvalidSignature
	}

	p, err := s.repo.GetByOrderID(ctx, req.OrderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if err := s.repo.MarkCaptured(ctx, p.ID, req.PaymentID, req.Signature); err != nil {
		return nil, err
	}

	if err := s.bookings.SetStatusAndPayment(ctx, p.BookingID, booking.StatusConfirmed, p.ID); err != nil {
		return nil, err
	}

	metrics.RecordPaymentCapture("verify")

	p.Status = StatusCaptured
	p.GatewayPaymentID = &req.PaymentID
	return p, nil
}

// HandleWebhook verifies the HMAC over the exact raw request body and
// then dispatches on the event type. The body must never be parsed or
// re-serialized before the signature check.
func (s *service) HandleWebhook(ctx context.Context, rawBody []byte, signature string) error {
	if s.webhookSecret == "" {
		return ErrWebhookMisconfigured
	}

	if !VerifyWebhookSignature(rawBody, signature, s.webhookSecret) {
		// Log enough to diagnose a misconfigured secret, but never the
		// expected signature value.
		logger.Error("webhook signature mismatch", "body_bytes", len(rawBody))
		metrics.RecordWebhookEvent("unknown", "bad_signature")
		return ErrInvalidSignature
	}

	var event WebhookEvent
	if err := json.Unmarshal(rawBody, &event); err != nil {
		metrics.RecordWebhookEvent("unknown", "bad_payload")
		return nil
	}

	entity := event.Payload.Payment.Entity

	switch event.Event {
	case EventPaymentCaptured:
		p, err := s.repo.GetByOrderID(ctx, entity.OrderID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				// Order unknown to us. Accept so the gateway stops
				// redelivering.
				metrics.RecordWebhookEvent(event.Event, "unknown_order")
				return nil
			}
			return err
		}

		// Redelivery of a capture for an already-captured payment is a
		// no-op, not an error.
		if p.Status == StatusCaptured || p.Status == StatusRefunded {
			metrics.RecordWebhookEvent(event.Event, "duplicate")
			return nil
		}

		if err := s.repo.MarkCaptured(ctx, p.ID, entity.ID, signature); err != nil {
			return err
		}
		if err := s.bookings.SetStatusAndPayment(ctx, p.BookingID, booking.StatusConfirmed, p.ID); err != nil {
			return err
		}

		metrics.RecordPaymentCapture("webhook")
		metrics.RecordWebhookEvent(event.Event, "processed")
		return nil

	case EventPaymentFailed:
		p, err := s.repo.GetByOrderID(ctx, entity.OrderID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				metrics.RecordWebhookEvent(event.Event, "unknown_order")
				return nil
			}
			return err
		}

		// A late failure event never demotes a captured payment.
		if p.Status != StatusCreated && p.Status != StatusAuthorized {
			metrics.RecordWebhookEvent(event.Event, "ignored")
			return nil
		}

		if err := s.repo.MarkFailed(ctx, p.ID); err != nil {
			return err
		}

		metrics.RecordWebhookEvent(event.Event, "processed")
		return nil

	default:
		// Events this service does not understand are acknowledged and
		// dropped; the gateway must not retry them.
		metrics.RecordWebhookEvent(event.Event, "ignored")
		return nil
	}
}

// Refund reverses a captured payment. The gateway call happens first so
// a gateway failure leaves the payment and booking untouched.
func (s *service) Refund(ctx context.Context, paymentID int) (*Payment, error) {
	p, err := s.repo.GetByID(ctx, paymentID)
	if err != nil {
		return nil, ErrNotFound
	}

	if p.Status != StatusCaptured || p.GatewayPaymentID == nil {
		return nil, ErrNotRefundable
	}

	refundID, err := s.gateway.Refund(ctx, *p.GatewayPaymentID, p.Amount*100)
	if err != nil {
		return nil, err
	}

	if err := s.repo.MarkRefunded(ctx, p.ID); err != nil {
		return nil, err
	}
	if err := s.bookings.UpdateStatus(ctx, p.BookingID, booking.StatusCancelled); err != nil {
		return nil, err
	}

	metrics.PaymentRefundsTotal.Inc()
	logger.Info("payment refunded",
		"payment_id", p.ID, "booking_id", p.BookingID, "refund_id", refundID)

	p.Status = StatusRefunded
	return p, nil
}

// GetByID restricts payment visibility to the payer or an admin.
func (s *service) GetByID(ctx context.Context, callerID int, callerRole string, id int) (*Payment, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}

	if p.UserID != callerID && callerRole != auth.RoleAdmin {
		return nil, ErrNotAuthorized
	}

	return p, nil
}

func (s *service) ListMine(ctx context.Context, userID int) ([]Payment, error) {
	return s.repo.ListByUser(ctx, userID)
}
