package payment

import "time"

const (
	StatusCreated    = "created"
	StatusAuthorized = "authorized"
	StatusCaptured   = "captured"
	StatusFailed     = "failed"
	StatusRefunded   = "refunded"

	DefaultCurrency = "INR"
)

type Payment struct {
	ID        int `db:"id" json:"id"`
	UserID    int `db:"user_id" json:"user_id"`
	BookingID int `db:"booking_id" json:"booking_id"`

	// Gateway-side identifiers. OrderID is unique; PaymentID and
	// Signature arrive on capture.
	OrderID          string  `db:"order_id" json:"order_id"`
	GatewayPaymentID *string `db:"gateway_payment_id" json:"gateway_payment_id,omitempty"`
	GatewaySignature *string `db:"gateway_signature" json:"-"`

	Amount   int64  `db:"amount" json:"amount"`
	Currency string `db:"currency" json:"currency"`
	Status   string `db:"status" json:"status"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

type CreateOrderRequest struct {
	BookingID int `json:"booking_id" binding:"required"`
}

type CreateOrderResponse struct {
	OrderID   string `json:"order_id"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
	PaymentID int    `json:"payment_id"`
}

type VerifyRequest struct {
	OrderID   string `json:"order_id" binding:"required"`
	PaymentID string `json:"payment_id" binding:"required"`
	Signature string `json:"signature" binding:"required"`
}

// WebhookEvent is the gateway's notification payload. The raw request
// body is verified before this struct is ever populated.
type WebhookEvent struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity struct {
				ID      string `json:"id"`
				OrderID string `json:"order_id"`
				Amount  int64  `json:"amount"`
				Status  string `json:"status"`
			} `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

const (
	EventPaymentCaptured = "payment.captured"
	EventPaymentFailed   = "payment.failed"
)
