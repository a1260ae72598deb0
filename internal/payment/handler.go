package payment

import (
	"errors"
	"net/http"
	"strconv"

	"roomnmeal/internal/api"
	"roomnmeal/internal/auth"
	"roomnmeal/internal/logger"

	"github.com/gin-gonic/gin"
)

// SignatureHeader carries the gateway's HMAC over the raw webhook body.
const SignatureHeader = "X-Razorpay-Signature"

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// CreateOrder godoc
// @Summary      Create payment order
// @Description  Opens a gateway order for a pending booking owned by the caller. Amount is taken from the booking, converted to paise.
// @Tags         payments
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      CreateOrderRequest  true  "Booking to pay for"
// @Success      201      {object}  CreateOrderResponse
// @Failure      400      {object}  api.ErrorResponse
// @Failure      403      {object}  api.ErrorResponse
// @Failure      404      {object}  api.ErrorResponse
// @Failure      502      {object}  api.ErrorResponse
// @Router       /payments/order [post]
func (h *Handler) CreateOrder(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	resp, err := h.service.CreateOrder(c.Request.Context(), userID, req.BookingID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Booking not found"})
		case errors.Is(err, ErrNotAuthorized):
			c.JSON(http.StatusForbidden, api.ErrorResponse{Error: "You can only pay for your own bookings"})
		case errors.Is(err, ErrBookingNotPayable):
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Booking is not awaiting payment"})
		case errors.Is(err, ErrGatewayFailure):
			c.JSON(http.StatusBadGateway, api.ErrorResponse{Error: "Payment gateway unavailable"})
		default:
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to create payment order"})
		}
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// Verify godoc
// @Summary      Verify payment
// @Description  Checks the client-supplied capture signature, marks the payment captured and confirms the booking.
// @Tags         payments
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      VerifyRequest  true  "Gateway order, payment and signature"
// @Success      200      {object}  Payment
// @Failure      400      {object}  api.ErrorResponse
// @Failure      404      {object}  api.ErrorResponse
// @Router       /payments/verify [post]
func (h *Handler) Verify(c *gin.Context) {
	var req VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	p, err := h.service.Verify(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidSignature):
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Payment verification failed"})
		case errors.Is(err, ErrNotFound):
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Payment not found"})
		default:
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to verify payment"})
		}
		return
	}

	c.JSON(http.StatusOK, p)
}

// Webhook godoc
// @Summary      Payment gateway webhook
// @Description  Unauthenticated endpoint for gateway notifications. The HMAC signature over the raw body is checked before any parsing.
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        X-Razorpay-Signature  header    string  true  "HMAC-SHA256 of the request body"
// @Success      200                   {object}  api.MessageResponse
// @Failure      400                   {object}  api.ErrorResponse
// @Failure      500                   {object}  api.ErrorResponse
// @Router       /webhooks/payment [post]
func (h *Handler) Webhook(c *gin.Context) {
	rawBody, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Failed to read request body"})
		return
	}

	signature := c.GetHeader(SignatureHeader)

	err = h.service.HandleWebhook(c.Request.Context(), rawBody, signature)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidSignature):
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid webhook signature"})
		case errors.Is(err, ErrWebhookMisconfigured):
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Webhook not configured"})
		default:
			logger.Error("webhook processing failed", "error", err)
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to process webhook"})
		}
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "Webhook processed"})
}

// Refund godoc
// @Summary      Refund payment
// @Description  Admin-only. Issues a gateway refund for a captured payment and cancels the booking.
// @Tags         payments
// @Security     BearerAuth
// @Produce      json
// @Param        paymentID  path      int  true  "Payment ID"
// @Success      200        {object}  Payment
// @Failure      400        {object}  api.ErrorResponse
// @Failure      404        {object}  api.ErrorResponse
// @Failure      502        {object}  api.ErrorResponse
// @Router       /admin/payments/{paymentID}/refund [post]
func (h *Handler) Refund(c *gin.Context) {
	paymentID, err := strconv.Atoi(c.Param("paymentID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid payment ID"})
		return
	}

	p, err := h.service.Refund(c.Request.Context(), paymentID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Payment not found"})
		case errors.Is(err, ErrNotRefundable):
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Payment cannot be refunded"})
		case errors.Is(err, ErrGatewayFailure):
			c.JSON(http.StatusBadGateway, api.ErrorResponse{Error: "Payment gateway unavailable"})
		default:
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to refund payment"})
		}
		return
	}

	c.JSON(http.StatusOK, p)
}

// GetPayment godoc
// @Summary      Get payment by ID
// @Description  Visible only to the payer or an admin.
// @Tags         payments
// @Security     BearerAuth
// @Produce      json
// @Param        paymentID  path      int  true  "Payment ID"
// @Success      200        {object}  Payment
// @Failure      403        {object}  api.ErrorResponse
// @Failure      404        {object}  api.ErrorResponse
// @Router       /payments/{paymentID} [get]
func (h *Handler) GetPayment(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}
	role, _ := auth.GetUserRole(c)

	paymentID, err := strconv.Atoi(c.Param("paymentID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid payment ID"})
		return
	}

	p, err := h.service.GetByID(c.Request.Context(), userID, role, paymentID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Payment not found"})
		case errors.Is(err, ErrNotAuthorized):
			c.JSON(http.StatusForbidden, api.ErrorResponse{Error: "Not authorized to view this payment"})
		default:
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch payment"})
		}
		return
	}

	c.JSON(http.StatusOK, p)
}

// ListMyPayments godoc
// @Summary      List my payments
// @Tags         payments
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}   Payment
// @Failure      500  {object}  api.ErrorResponse
// @Router       /payments [get]
func (h *Handler) ListMyPayments(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	payments, err := h.service.ListMine(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch payments"})
		return
	}

	c.JSON(http.StatusOK, payments)
}
