package payout

import (
	"errors"
	"net/http"
	"strconv"

	"roomnmeal/internal/api"
	"roomnmeal/internal/auth"
	"roomnmeal/internal/payment"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// RequestPayout godoc
// @Summary      Request payout
// @Description  Owner-only. Reserves the amount out of the owner's withdrawable balance; requires a bank account or UPI handle on file.
// @Tags         payouts
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      RequestPayoutRequest  true  "Amount to withdraw"
// @Success      201      {object}  Payout
// @Failure      400      {object}  api.ErrorResponse
// @Failure      500      {object}  api.ErrorResponse
// @Router       /payouts [post]
func (h *Handler) RequestPayout(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	var req RequestPayoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	p, err := h.service.Request(c.Request.Context(), userID, req.Amount)
	if err != nil {
		switch {
		case errors.Is(err, ErrMissingPayoutDestination):
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Add a bank account or UPI ID before requesting a payout"})
		case errors.Is(err, ErrInsufficientBalance):
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to request payout"})
		}
		return
	}

	c.JSON(http.StatusCreated, p)
}

// GetBalance godoc
// @Summary      Get withdrawable balance
// @Description  Confirmed booking revenue on the owner's listings minus non-rejected payouts.
// @Tags         payouts
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  BalanceResponse
// @Failure      500  {object}  api.ErrorResponse
// @Router       /payouts/balance [get]
func (h *Handler) GetBalance(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	balance, err := h.service.Balance(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch balance"})
		return
	}

	c.JSON(http.StatusOK, BalanceResponse{Available: balance, Currency: payment.DefaultCurrency})
}

// ListMyPayouts godoc
// @Summary      List my payouts
// @Tags         payouts
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}   Payout
// @Failure      500  {object}  api.ErrorResponse
// @Router       /payouts [get]
func (h *Handler) ListMyPayouts(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	payouts, err := h.service.ListMine(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch payouts"})
		return
	}

	c.JSON(http.StatusOK, payouts)
}

// ListAllPayouts godoc
// @Summary      List all payouts
// @Description  Admin-only.
// @Tags         payouts
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}   Payout
// @Failure      500  {object}  api.ErrorResponse
// @Router       /admin/payouts [get]
func (h *Handler) ListAllPayouts(c *gin.Context) {
	payouts, err := h.service.ListAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch payouts"})
		return
	}

	c.JSON(http.StatusOK, payouts)
}

// UpdatePayout godoc
// @Summary      Update payout status
// @Description  Admin-only. Moves the payout to any status and records the transfer reference.
// @Tags         payouts
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payoutID  path      int                  true  "Payout ID"
// @Param        request   body      UpdatePayoutRequest  true  "Target status"
// @Success      200       {object}  Payout
// @Failure      400       {object}  api.ErrorResponse
// @Failure      404       {object}  api.ErrorResponse
// @Router       /admin/payouts/{payoutID} [patch]
func (h *Handler) UpdatePayout(c *gin.Context) {
	payoutID, err := strconv.Atoi(c.Param("payoutID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid payout ID"})
		return
	}

	var req UpdatePayoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	p, err := h.service.UpdateStatus(c.Request.Context(), payoutID, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Payout not found"})
		default:
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to update payout"})
		}
		return
	}

	c.JSON(http.StatusOK, p)
}
