package handler

import (
	"net/http"

	"github.com/osse101/IdleRealm_Go/internal/game"
	"github.com/osse101/IdleRealm_Go/internal/logger"
)

// PaymentHandler receives confirmations from the payment provider
type PaymentHandler struct {
	game game.Service
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(svc game.Service) *PaymentHandler {
	return &PaymentHandler{game: svc}
}

// ConfirmPaymentRequest is the webhook body
type ConfirmPaymentRequest struct {
	OwnerID   string `json:"owner_id" validate:"required,ownerid"`
	Amount    int64  `json:"amount" validate:"required,gt=0"`
	Reference string `json:"reference" validate:"required,max=128"`
}

// HandleConfirm credits a confirmed payment once per reference
// @Summary Confirm payment
// @Description Provider webhook; requires X-API-Key
// @Tags payments
// @Accept json
// @Produce json
// @Param request body ConfirmPaymentRequest true "Payment"
// @Success 200 {object} game.PaymentResult
// @Failure 409 {object} ErrorResponse "reference already applied"
// @Router /api/v1/payments/confirm [post]
func (h *PaymentHandler) HandleConfirm(w http.ResponseWriter, r *http.Request) {
	var req ConfirmPaymentRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Confirm payment"); err != nil {
		return
	}
	ctx := logger.WithOwner(r.Context(), req.OwnerID)
	r = r.WithContext(ctx)

	res, err := h.game.ApplyPayment(ctx, req.OwnerID, req.Amount, req.Reference)
	if err != nil {
		respondServiceError(w, r, "confirm payment", err)
		return
	}
	logger.FromContext(ctx).Info(LogMsgPaymentConfirmed, "reference", req.Reference, "credited", res.Credited, "claimed", res.Claimed)
	respondJSON(w, http.StatusOK, res)
}
