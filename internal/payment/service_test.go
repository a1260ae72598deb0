package payment

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"testing"

	"roomnmeal/internal/booking"
	"roomnmeal/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.Init()

	code := m.Run()
	os.Exit(code)
}

type fakePaymentRepo struct {
	payments map[int]*Payment
	byOrder  map[string]*Payment
	nextID   int

	failMarkCaptured error
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{
		payments: make(map[int]*Payment),
		byOrder:  make(map[string]*Payment),
		nextID:   1,
	}
}

func (f *fakePaymentRepo) add(p *Payment) *Payment {
	if p.ID == 0 {
		p.ID = f.nextID
		f.nextID++
	}
	f.payments[p.ID] = p
	f.byOrder[p.OrderID] = p
	return p
}

func (f *fakePaymentRepo) Create(_ context.Context, userID, bookingID int, orderID string, amount int64, currency string) (*Payment, error) {
	return f.add(&Payment{
		UserID:    userID,
		BookingID: bookingID,
		OrderID:   orderID,
		Amount:    amount,
		Currency:  currency,
		Status:    StatusCreated,
	}), nil
}

func (f *fakePaymentRepo) GetByID(_ context.Context, id int) (*Payment, error) {
	p, ok := f.payments[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *p
	return &cp, nil
}

func (f *fakePaymentRepo) GetByOrderID(_ context.Context, orderID string) (*Payment, error) {
	p, ok := f.byOrder[orderID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *p
	return &cp, nil
}

func (f *fakePaymentRepo) MarkCaptured(_ context.Context, id int, gatewayPaymentID, signature string) error {
	if f.failMarkCaptured != nil {
		return f.failMarkCaptured
	}
	p := f.payments[id]
	p.Status = StatusCaptured
	p.GatewayPaymentID = &gatewayPaymentID
	p.GatewaySignature = &signature
	return nil
}

func (f *fakePaymentRepo) MarkFailed(_ context.Context, id int) error {
	f.payments[id].Status = StatusFailed
	return nil
}

func (f *fakePaymentRepo) MarkRefunded(_ context.Context, id int) error {
	f.payments[id].Status = StatusRefunded
	return nil
}

func (f *fakePaymentRepo) ListByUser(_ context.Context, userID int) ([]Payment, error) {
	var out []Payment
	for _, p := range f.payments {
		if p.UserID == userID {
			out = append(out, *p)
		}
	}
	return out, nil
}

type fakeBookingLedger struct {
	bookings map[int]*booking.Booking
}

func newFakeBookingLedger(bs ...*booking.Booking) *fakeBookingLedger {
	f := &fakeBookingLedger{bookings: make(map[int]*booking.Booking)}
	for _, b := range bs {
		f.bookings[b.ID] = b
	}
	return f
}

func (f *fakeBookingLedger) GetByID(_ context.Context, id int) (*booking.Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return b, nil
}

func (f *fakeBookingLedger) SetStatusAndPayment(_ context.Context, id int, status string, paymentID int) error {
	b := f.bookings[id]
	b.Status = status
	b.PaymentID = &paymentID
	return nil
}

func (f *fakeBookingLedger) UpdateStatus(_ context.Context, id int, status string) error {
	f.bookings[id].Status = status
	return nil
}

type fakeGateway struct {
	orders       int
	refunds      int
	failOrder    bool
	failRefund   bool
	lastAmount   int64
	lastCurrency string
}

func (f *fakeGateway) CreateOrder(_ context.Context, amountMinorUnits int64, currency, receipt string) (*Order, error) {
	if f.failOrder {
		return nil, fmt.Errorf("%w: connection refused", ErrGatewayFailure)
	}
	f.orders++
	f.lastAmount = amountMinorUnits
	f.lastCurrency = currency
	return &Order{
		ID:       fmt.Sprintf("order_fake_%d", f.orders),
		Amount:   amountMinorUnits,
		Currency: currency,
	}, nil
}

func (f *fakeGateway) Refund(_ context.Context, gatewayPaymentID string, amountMinorUnits int64) (string, error) {
	if f.failRefund {
		return "", fmt.Errorf("%w: timeout", ErrGatewayFailure)
	}
	f.refunds++
	return fmt.Sprintf("rfnd_fake_%d", f.refunds), nil
}

const (
	testKeySecret     = "test-key-secret"
	testWebhookSecret = "test-webhook-secret"
)

func pendingBooking(id, userID int, amount int64) *booking.Booking {
	return &booking.Booking{ID: id, UserID: userID, TotalAmount: amount, Status: booking.StatusPending}
}

func TestCreateOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("opens order in paise for pending booking", func(t *testing.T) {
		repo := newFakePaymentRepo()
		ledger := newFakeBookingLedger(pendingBooking(1, 10, 5000))
		gw := &fakeGateway{}
		svc := NewService(repo, ledger, gw, testKeySecret, testWebhookSecret)

		resp, err := svc.CreateOrder(ctx, 10, 1)
		require.NoError(t, err)

		assert.Equal(t, int64(500000), gw.lastAmount)
		assert.Equal(t, DefaultCurrency, gw.lastCurrency)
		assert.Equal(t, int64(500000), resp.Amount)
		assert.NotEmpty(t, resp.OrderID)

		p, err := repo.GetByID(ctx, resp.PaymentID)
		require.NoError(t, err)
		assert.Equal(t, StatusCreated, p.Status)
		assert.Equal(t, int64(5000), p.Amount)
	})

	t.Run("rejects booking owned by someone else", func(t *testing.T) {
		repo := newFakePaymentRepo()
		ledger := newFakeBookingLedger(pendingBooking(1, 10, 5000))
		svc := NewService(repo, ledger, &fakeGateway{}, testKeySecret, testWebhookSecret)

		_, err := svc.CreateOrder(ctx, 99, 1)
		assert.ErrorIs(t, err, ErrNotAuthorized)
	})

	t.Run("rejects non-pending booking", func(t *testing.T) {
		b := pendingBooking(1, 10, 5000)
		b.Status = booking.StatusConfirmed
		svc := NewService(newFakePaymentRepo(), newFakeBookingLedger(b), &fakeGateway{}, testKeySecret, testWebhookSecret)

		_, err := svc.CreateOrder(ctx, 10, 1)
		assert.ErrorIs(t, err, ErrBookingNotPayable)
	})

	t.Run("missing booking", func(t *testing.T) {
		svc := NewService(newFakePaymentRepo(), newFakeBookingLedger(), &fakeGateway{}, testKeySecret, testWebhookSecret)

		_, err := svc.CreateOrder(ctx, 10, 42)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("gateway failure creates no payment row", func(t *testing.T) {
		repo := newFakePaymentRepo()
		ledger := newFakeBookingLedger(pendingBooking(1, 10, 5000))
		svc := NewService(repo, ledger, &fakeGateway{failOrder: true}, testKeySecret, testWebhookSecret)

		_, err := svc.CreateOrder(ctx, 10, 1)
		assert.ErrorIs(t, err, ErrGatewayFailure)
		assert.Empty(t, repo.payments)
	})
}

func TestVerify(t *testing.T) {
	ctx := context.Background()

	setup := func() (*fakePaymentRepo, *fakeBookingLedger, Service, *Payment) {
		repo := newFakePaymentRepo()
		ledger := newFakeBookingLedger(pendingBooking(1, 10, 5000))
		svc := NewService(repo, ledger, &fakeGateway{}, testKeySecret, testWebhookSecret)
		p := repo.add(&Payment{UserID: 10, BookingID: 1, OrderID: "order_abc", Amount: 5000, Status: StatusCreated})
		return repo, ledger, svc, p
	}

	t.Run("valid signature captures payment and confirms booking", func(t *testing.T) {
		repo, ledger, svc, p := setup()

		req := VerifyRequest{
			OrderID:   "order_abc",
			PaymentID: "pay_xyz",
			Signature: sign("order_abc|pay_xyz", testKeySecret),
		}

		got, err := svc.Verify(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, StatusCaptured, got.Status)

		stored, _ := repo.GetByID(ctx, p.ID)
		assert.Equal(t, StatusCaptured, stored.Status)
		require.NotNil(t, stored.GatewayPaymentID)
		assert.Equal(t, "pay_xyz", *stored.GatewayPaymentID)

		b := ledger.bookings[1]
		assert.Equal(t, booking.StatusConfirmed, b.Status)
		require.NotNil(t, b.PaymentID)
		assert.Equal(t, p.ID, *b.PaymentID)
	})

	t.Run("bad signature leaves everything untouched", func(t *testing.T) {
		repo, ledger, svc, p := setup()

		req := VerifyRequest{
			OrderID:   "order_abc",
			PaymentID: "pay_xyz",
			Signature: sign("order_abc|pay_xyz", "wrong-secret"),
		}

		_, err := svc.Verify(ctx, req)
		assert.ErrorIs(t, err, ErrInvalidSignature)

		stored, _ := repo.GetByID(ctx, p.ID)
		assert.Equal(t, StatusCreated, stored.Status)
		assert.Equal(t, booking.StatusPending, ledger.bookings[1].Status)
	})

	t.Run("unknown order", func(t *testing.T) {
		_, _, svc, _ := setup()

		req := VerifyRequest{
			OrderID:   "order_missing",
			PaymentID: "pay_xyz",
			Signature: sign("order_missing|pay_xyz", testKeySecret),
		}

		_, err := svc.Verify(ctx, req)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func capturedEvent(t *testing.T, event, orderID, paymentID string) []byte {
	t.Helper()
	var e WebhookEvent
	e.Event = event
	e.Payload.Payment.Entity.ID = paymentID
	e.Payload.Payment.Entity.OrderID = orderID
	body, err := json.Marshal(e)
	require.NoError(t, err)
	return body
}

func TestHandleWebhook(t *testing.T) {
	ctx := context.Background()

	setup := func() (*fakePaymentRepo, *fakeBookingLedger, Service, *Payment) {
		repo := newFakePaymentRepo()
		ledger := newFakeBookingLedger(pendingBooking(1, 10, 5000))
		svc := NewService(repo, ledger, &fakeGateway{}, testKeySecret, testWebhookSecret)
		p := repo.add(&Payment{UserID: 10, BookingID: 1, OrderID: "order_abc", Amount: 5000, Status: StatusCreated})
		return repo, ledger, svc, p
	}

	t.Run("captured event confirms booking", func(t *testing.T) {
		repo, ledger, svc, p := setup()

		body := capturedEvent(t, EventPaymentCaptured, "order_abc", "pay_hook")
		err := svc.HandleWebhook(ctx, body, sign(string(body), testWebhookSecret))
		require.NoError(t, err)

		stored, _ := repo.GetByID(ctx, p.ID)
		assert.Equal(t, StatusCaptured, stored.Status)
		assert.Equal(t, booking.StatusConfirmed, ledger.bookings[1].Status)
	})

	t.Run("redelivered capture is a no-op", func(t *testing.T) {
		repo, ledger, svc, p := setup()

		body := capturedEvent(t, EventPaymentCaptured, "order_abc", "pay_hook")
		signature := sign(string(body), testWebhookSecret)

		require.NoError(t, svc.HandleWebhook(ctx, body, signature))

		// Sanity: second delivery must not error or flip state back.
		ledger.bookings[1].Status = booking.StatusConfirmed
		require.NoError(t, svc.HandleWebhook(ctx, body, signature))

		stored, _ := repo.GetByID(ctx, p.ID)
		assert.Equal(t, StatusCaptured, stored.Status)
		assert.Equal(t, booking.StatusConfirmed, ledger.bookings[1].Status)
	})

	t.Run("bad signature rejected before parsing", func(t *testing.T) {
		repo, _, svc, p := setup()

		body := capturedEvent(t, EventPaymentCaptured, "order_abc", "pay_hook")
		err := svc.HandleWebhook(ctx, body, sign(string(body), "wrong-secret"))
		assert.ErrorIs(t, err, ErrInvalidSignature)

		stored, _ := repo.GetByID(ctx, p.ID)
		assert.Equal(t, StatusCreated, stored.Status)
	})

	t.Run("missing webhook secret", func(t *testing.T) {
		repo := newFakePaymentRepo()
		svc := NewService(repo, newFakeBookingLedger(), &fakeGateway{}, testKeySecret, "")

		err := svc.HandleWebhook(ctx, []byte(`{}`), "sig")
		assert.ErrorIs(t, err, ErrWebhookMisconfigured)
	})

	t.Run("malformed body with valid signature is acknowledged", func(t *testing.T) {
		_, _, svc, _ := setup()

		body := []byte(`{not json`)
		err := svc.HandleWebhook(ctx, body, sign(string(body), testWebhookSecret))
		assert.NoError(t, err)
	})

	t.Run("unknown order acknowledged", func(t *testing.T) {
		_, _, svc, _ := setup()

		body := capturedEvent(t, EventPaymentCaptured, "order_unknown", "pay_hook")
		err := svc.HandleWebhook(ctx, body, sign(string(body), testWebhookSecret))
		assert.NoError(t, err)
	})

	t.Run("failed event marks payment failed", func(t *testing.T) {
		repo, ledger, svc, p := setup()

		body := capturedEvent(t, EventPaymentFailed, "order_abc", "pay_hook")
		err := svc.HandleWebhook(ctx, body, sign(string(body), testWebhookSecret))
		require.NoError(t, err)

		stored, _ := repo.GetByID(ctx, p.ID)
		assert.Equal(t, StatusFailed, stored.Status)
		assert.Equal(t, booking.StatusPending, ledger.bookings[1].Status)
	})

	t.Run("late failure never demotes a captured payment", func(t *testing.T) {
		repo, _, svc, p := setup()

		capture := capturedEvent(t, EventPaymentCaptured, "order_abc", "pay_hook")
		require.NoError(t, svc.HandleWebhook(ctx, capture, sign(string(capture), testWebhookSecret)))

		failed := capturedEvent(t, EventPaymentFailed, "order_abc", "pay_hook")
		require.NoError(t, svc.HandleWebhook(ctx, failed, sign(string(failed), testWebhookSecret)))

		stored, _ := repo.GetByID(ctx, p.ID)
		assert.Equal(t, StatusCaptured, stored.Status)
	})

	t.Run("unrecognized event acknowledged", func(t *testing.T) {
		_, _, svc, _ := setup()

		body := capturedEvent(t, "order.paid", "order_abc", "pay_hook")
		err := svc.HandleWebhook(ctx, body, sign(string(body), testWebhookSecret))
		assert.NoError(t, err)
	})
}

func TestRefund(t *testing.T) {
	ctx := context.Background()

	capturedPayment := func(repo *fakePaymentRepo) *Payment {
		gwID := "pay_captured"
		return repo.add(&Payment{
			UserID: 10, BookingID: 1, OrderID: "order_abc",
			Amount: 5000, Status: StatusCaptured, GatewayPaymentID: &gwID,
		})
	}

	t.Run("refunds captured payment and cancels booking", func(t *testing.T) {
		repo := newFakePaymentRepo()
		b := pendingBooking(1, 10, 5000)
		b.Status = booking.StatusConfirmed
		ledger := newFakeBookingLedger(b)
		gw := &fakeGateway{}
		svc := NewService(repo, ledger, gw, testKeySecret, testWebhookSecret)
		p := capturedPayment(repo)

		got, err := svc.Refund(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, StatusRefunded, got.Status)
		assert.Equal(t, 1, gw.refunds)
		assert.Equal(t, booking.StatusCancelled, ledger.bookings[1].Status)
	})

	t.Run("gateway failure leaves payment and booking untouched", func(t *testing.T) {
		repo := newFakePaymentRepo()
		b := pendingBooking(1, 10, 5000)
		b.Status = booking.StatusConfirmed
		ledger := newFakeBookingLedger(b)
		svc := NewService(repo, ledger, &fakeGateway{failRefund: true}, testKeySecret, testWebhookSecret)
		p := capturedPayment(repo)

		_, err := svc.Refund(ctx, p.ID)
		assert.ErrorIs(t, err, ErrGatewayFailure)

		stored, _ := repo.GetByID(ctx, p.ID)
		assert.Equal(t, StatusCaptured, stored.Status)
		assert.Equal(t, booking.StatusConfirmed, ledger.bookings[1].Status)
	})

	t.Run("uncaptured payment is not refundable", func(t *testing.T) {
		repo := newFakePaymentRepo()
		svc := NewService(repo, newFakeBookingLedger(), &fakeGateway{}, testKeySecret, testWebhookSecret)
		p := repo.add(&Payment{UserID: 10, BookingID: 1, OrderID: "order_abc", Amount: 5000, Status: StatusCreated})

		_, err := svc.Refund(ctx, p.ID)
		assert.ErrorIs(t, err, ErrNotRefundable)
	})

	t.Run("missing payment", func(t *testing.T) {
		svc := NewService(newFakePaymentRepo(), newFakeBookingLedger(), &fakeGateway{}, testKeySecret, testWebhookSecret)

		_, err := svc.Refund(ctx, 99)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestGetByID(t *testing.T) {
	ctx := context.Background()

	repo := newFakePaymentRepo()
	svc := NewService(repo, newFakeBookingLedger(), &fakeGateway{}, testKeySecret, testWebhookSecret)
	p := repo.add(&Payment{UserID: 10, BookingID: 1, OrderID: "order_abc", Amount: 5000, Status: StatusCreated})

	t.Run("payer can view", func(t *testing.T) {
		got, err := svc.GetByID(ctx, 10, "student", p.ID)
		require.NoError(t, err)
		assert.Equal(t, p.ID, got.ID)
	})

	t.Run("admin can view", func(t *testing.T) {
		_, err := svc.GetByID(ctx, 99, "admin", p.ID)
		assert.NoError(t, err)
	})

	t.Run("stranger cannot view", func(t *testing.T) {
		_, err := svc.GetByID(ctx, 99, "owner", p.ID)
		assert.ErrorIs(t, err, ErrNotAuthorized)
	})
}
