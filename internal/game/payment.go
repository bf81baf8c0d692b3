package game

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/osse101/IdleRealm_Go/internal/domain"
	"github.com/osse101/IdleRealm_Go/internal/event"
	"github.com/osse101/IdleRealm_Go/internal/logger"
	"github.com/osse101/IdleRealm_Go/internal/progression"
)

// PaymentResult reports how a confirmed payment was credited
type PaymentResult struct {
	Credited int64 `json:"credited"`
	// Claimed is set when the credit waits in claims because the owner is offline
	Claimed bool `json:"claimed"`
}

// ApplyPayment credits a confirmed payment once per reference. Connected
// owners get the silver directly; offline owners find it in their claims.
func (s *service) ApplyPayment(ctx context.Context, ownerID string, amount int64, reference string) (PaymentResult, error) {
	reference = strings.TrimSpace(reference)
	if reference == "" || len(reference) > MaxReferenceLength {
		return PaymentResult{}, domain.NewValidationError(domain.ErrInvalidInput, "reference must be 1-%d characters", MaxReferenceLength)
	}
	if amount <= 0 {
		return PaymentResult{}, domain.NewValidationError(domain.ErrInvalidAmount, "amount must be positive")
	}
	amount = progression.Clamp(amount, progression.MaxPaymentCredit)

	var res PaymentResult
	_, err := s.mutate(ctx, ownerID, func(c *domain.Character, now time.Time) (mutation, error) {
		if c.State.HasPayment(reference) {
			return mutation{}, domain.NewValidationError(domain.ErrDuplicatePayment, "%s", reference)
		}
		c.State.RecordPayment(reference)

		var msg string
		if s.Cache.IsConnected(ownerID) {
			res.Credited = s.Ledger.CreditSilver(&c.State, amount)
			msg = fmt.Sprintf(MsgPaymentCredited, res.Credited)
		} else {
			c.State.AddClaim(domain.ClaimSourcePayment, nil, amount, now)
			res.Credited = amount
			res.Claimed = true
			msg = fmt.Sprintf(MsgPaymentQueued, amount)
		}
		c.State.Notify(domain.NotifyPayment, msg, now)

		result := &domain.ActionResult{Success: true, Message: msg, At: now}
		if !res.Claimed {
			result.Silver = res.Credited
		}
		return mutation{
			result: result,
			extra:  []event.Event{event.NewPaymentAppliedEvent(ownerID, res.Credited, reference, res.Claimed)},
		}, nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicatePayment) {
			logger.FromContext(ctx).Info(LogMsgPaymentDuplicate, "owner_id", ownerID, "reference", reference)
		}
		return PaymentResult{}, err
	}
	logger.FromContext(ctx).Info(LogMsgPaymentApplied, "owner_id", ownerID, "amount", res.Credited, "claimed", res.Claimed)
	return res, nil
}
