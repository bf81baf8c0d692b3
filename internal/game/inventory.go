package game

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/osse101/IdleRealm_Go/internal/domain"
	"github.com/osse101/IdleRealm_Go/internal/logger"
	"github.com/osse101/IdleRealm_Go/internal/progression"
)

// EquipResult is the newly worn item and whatever it replaced
type EquipResult struct {
	Equipped domain.ItemSnapshot  `json:"equipped"`
	Previous *domain.ItemSnapshot `json:"previous,omitempty"`
}

// Equip moves one item from the inventory into its slot. The replaced item
// goes back to the inventory; the swap is refused if it would not fit.
func (s *service) Equip(ctx context.Context, ownerID, itemID string) (EquipResult, error) {
	var res EquipResult
	_, err := s.mutate(ctx, ownerID, func(c *domain.Character, now time.Time) (mutation, error) {
		snap, err := s.Catalog.ResolveItem(itemID)
		if err != nil {
			return mutation{}, domain.NewValidationError(domain.ErrItemNotFound, "%s", itemID)
		}
		if snap.Slot == "" {
			return mutation{}, domain.NewValidationError(domain.ErrNotEquippable, "%s", itemID)
		}
		if !c.State.Inventory.Has(itemID, 1) {
			return mutation{}, domain.NewValidationError(domain.ErrInsufficientQuantity, "%s is not in the inventory", itemID)
		}

		prev, worn := c.State.Equipment[snap.Slot]
		if worn {
			// the equipped item's stack frees a key only when it was the last one
			freed := c.State.Inventory.Quantity(itemID) == 1
			_, held := c.State.Inventory[prev.ID]
			if !held && !freed && len(c.State.Inventory) >= s.Ledger.InventoryCap() {
				return mutation{}, domain.NewValidationError(domain.ErrInventoryFull, "no room for %s", prev.Name)
			}
		}

		if err := s.Ledger.RemoveItem(&c.State, itemID, 1); err != nil {
			return mutation{}, err
		}
		if worn {
			if err := s.Ledger.AddItem(&c.State, prev.ID, 1); err != nil {
				return mutation{}, err
			}
			p := prev
			res.Previous = &p
		}
		c.State.Equipment[snap.Slot] = snap
		res.Equipped = snap

		msg := fmt.Sprintf(MsgEquipped, snap.Name)
		return mutation{result: &domain.ActionResult{Success: true, Message: msg, At: now}}, nil
	})
	return res, err
}

// Unequip moves the item in slot back to the inventory
func (s *service) Unequip(ctx context.Context, ownerID string, slot domain.Slot) (domain.ItemSnapshot, error) {
	var removed domain.ItemSnapshot
	_, err := s.mutate(ctx, ownerID, func(c *domain.Character, now time.Time) (mutation, error) {
		snap, ok := c.State.Equipment[slot]
		if !ok {
			return mutation{}, domain.NewValidationError(domain.ErrSlotEmpty, "%s", slot)
		}
		if err := s.Ledger.AddItem(&c.State, snap.ID, 1); err != nil {
			return mutation{}, domain.NewValidationError(domain.ErrInventoryFull, "no room for %s", snap.Name)
		}
		delete(c.State.Equipment, slot)
		removed = snap

		msg := fmt.Sprintf(MsgUnequipped, snap.Name)
		return mutation{result: &domain.ActionResult{Success: true, Message: msg, At: now}}, nil
	})
	return removed, err
}

// CollectResult reports what a claims pickup moved
type CollectResult struct {
	Collected int              `json:"collected"`
	Remaining int              `json:"remaining"`
	Items     map[string]int64 `json:"items,omitempty"`
	Silver    int64            `json:"silver,omitempty"`
}

// CollectClaims moves pending deliveries into the inventory. Items that still
// do not fit stay on their claim.
func (s *service) CollectClaims(ctx context.Context, ownerID string) (CollectResult, error) {
	var out CollectResult
	_, err := s.mutate(ctx, ownerID, func(c *domain.Character, now time.Time) (mutation, error) {
		total := len(c.State.Claims)
		res := domain.ActionResult{Success: true, At: now}
		kept := c.State.Claims[:0]
		for _, claim := range c.State.Claims {
			added, overflow := s.Ledger.AddItemsPartial(&c.State, claim.Items)
			for id, qty := range added {
				res.AddItem(id, qty)
			}
			if claim.Silver > 0 {
				res.Silver += s.Ledger.CreditSilver(&c.State, claim.Silver)
			}
			if len(overflow) > 0 {
				claim.Items = overflow
				claim.Silver = 0
				kept = append(kept, claim)
				continue
			}
			out.Collected++
		}
		c.State.Claims = kept
		out.Remaining = len(kept)
		out.Items = res.Items
		out.Silver = res.Silver

		res.Message = fmt.Sprintf(MsgClaimsCollected, out.Collected, total)
		c.State.Notify(domain.NotifyClaim, res.Message, now)
		return mutation{result: &res}, nil
	})
	return out, err
}

// SendItems moves items from one owner's inventory to another owner's claims.
// The two gates are taken one after the other, never nested.
func (s *service) SendItems(ctx context.Context, fromOwner, toOwner, itemID string, qty int64) error {
	if fromOwner == toOwner {
		return domain.NewValidationError(domain.ErrInvalidInput, "cannot send items to yourself")
	}
	if qty <= 0 || qty > progression.MaxItemsPerStep {
		return domain.NewValidationError(domain.ErrInvalidQuantity, "quantity must be between 1 and %d", progression.MaxItemsPerStep)
	}
	recipient, err := s.Status(ctx, toOwner)
	if err != nil {
		return err
	}

	var senderName string
	_, err = s.mutate(ctx, fromOwner, func(c *domain.Character, now time.Time) (mutation, error) {
		if err := s.Ledger.RemoveItem(&c.State, itemID, qty); err != nil {
			return mutation{}, domain.NewValidationError(domain.ErrInsufficientQuantity, "%s", itemID)
		}
		senderName = c.Name
		msg := fmt.Sprintf(MsgItemsSent, qty, progression.DisplayName(itemID), recipient.Name)
		return mutation{result: &domain.ActionResult{Success: true, Message: msg, At: now}}, nil
	})
	if err != nil {
		return err
	}

	_, err = s.mutate(ctx, toOwner, func(c *domain.Character, now time.Time) (mutation, error) {
		c.State.AddClaim(domain.ClaimSourceDelivery, map[string]int64{itemID: qty}, 0, now)
		msg := fmt.Sprintf(MsgItemsReceived, qty, progression.DisplayName(itemID), senderName)
		c.State.Notify(domain.NotifyClaim, msg, now)
		return mutation{result: &domain.ActionResult{Success: true, Message: msg, At: now}}, nil
	})
	if err == nil {
		return nil
	}

	logger.FromContext(ctx).Warn(LogMsgDeliveryRefund, "from", fromOwner, "to", toOwner, "item", itemID, "error", err)
	_, refundErr := s.mutate(ctx, fromOwner, func(c *domain.Character, now time.Time) (mutation, error) {
		c.State.AddClaim(domain.ClaimSourceDelivery, map[string]int64{itemID: qty}, 0, now)
		return mutation{}, nil
	})
	return errors.Join(err, refundErr)
}
