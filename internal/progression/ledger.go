package progression

import (
	"fmt"
	"sort"

	"github.com/osse101/IdleRealm_Go/internal/domain"
)

// Ledger applies XP, silver and inventory mutations with the shared caps.
// Every engine goes through a Ledger so the rules live in one place.
type Ledger struct {
	inventoryCap int
}

// NewLedger creates a ledger. A non-positive cap falls back to DefaultInventoryCap.
func NewLedger(inventoryCap int) *Ledger {
	if inventoryCap <= 0 {
		inventoryCap = DefaultInventoryCap
	}
	return &Ledger{inventoryCap: inventoryCap}
}

// InventoryCap returns the maximum number of distinct item ids
func (l *Ledger) InventoryCap() int {
	return l.inventoryCap
}

// Clamp bounds v to [0, limit]
func Clamp(v, limit int64) int64 {
	if v < 0 {
		return 0
	}
	if v > limit {
		return limit
	}
	return v
}

// AddXP grants XP to a skill. The grant is clamped to MaxXPPerStep and the
// total to MaxTotalXP. It returns the XP actually granted and a level-up, if any.
func (l *Ledger) AddXP(s *domain.State, skill string, amount int64) (int64, *domain.LevelUp) {
	amount = Clamp(amount, MaxXPPerStep)
	if amount == 0 {
		return 0, nil
	}
	current := s.SkillOf(skill)
	total := Clamp(current.XP+amount, MaxTotalXP)
	granted := total - current.XP

	newLevel := LevelForXP(total)
	if newLevel < current.Level {
		// stored level is never lowered
		newLevel = current.Level
	}
	s.Skills[skill] = domain.Skill{Level: newLevel, XP: total}

	if newLevel > current.Level {
		return granted, &domain.LevelUp{Skill: skill, From: current.Level, To: newLevel}
	}
	return granted, nil
}

// AddSilver credits silver clamped to MaxSilverPerStep and the MaxSilver balance
func (l *Ledger) AddSilver(s *domain.State, amount int64) int64 {
	amount = Clamp(amount, MaxSilverPerStep)
	before := s.Silver
	s.Silver = Clamp(s.Silver+amount, MaxSilver)
	return s.Silver - before
}

// CreditSilver credits purchased or delivered silver. It is bounded by
// MaxPaymentCredit instead of the per-step cap.
func (l *Ledger) CreditSilver(s *domain.State, amount int64) int64 {
	amount = Clamp(amount, MaxPaymentCredit)
	before := s.Silver
	s.Silver = Clamp(s.Silver+amount, MaxSilver)
	return s.Silver - before
}

// CanAdd reports whether itemID fits the distinct-key cap
func (l *Ledger) CanAdd(inv domain.Inventory, itemID string) bool {
	if _, ok := inv[itemID]; ok {
		return true
	}
	return len(inv) < l.inventoryCap
}

// AddItem adds qty of itemID. It fails with ErrInventoryFull and no mutation
// when the item would be a new distinct key beyond the cap.
func (l *Ledger) AddItem(s *domain.State, itemID string, qty int64) error {
	if qty <= 0 {
		return nil
	}
	if !l.CanAdd(s.Inventory, itemID) {
		return fmt.Errorf("%w: cannot add %s", domain.ErrInventoryFull, itemID)
	}
	s.Inventory[itemID] = Clamp(s.Inventory[itemID]+Clamp(qty, MaxItemsPerStep), MaxStackQuantity)
	return nil
}

// AddItems adds a batch atomically: either every item fits or nothing changes.
func (l *Ledger) AddItems(s *domain.State, items map[string]int64) error {
	newKeys := 0
	for id, qty := range items {
		if qty <= 0 {
			continue
		}
		if _, ok := s.Inventory[id]; !ok {
			newKeys++
		}
	}
	if len(s.Inventory)+newKeys > l.inventoryCap {
		return fmt.Errorf("%w: %d new items, %d free slots", domain.ErrInventoryFull, newKeys, l.inventoryCap-len(s.Inventory))
	}
	for id, qty := range items {
		if qty <= 0 {
			continue
		}
		s.Inventory[id] = Clamp(s.Inventory[id]+Clamp(qty, MaxItemsPerStep), MaxStackQuantity)
	}
	return nil
}

// AddItemsPartial adds what fits and returns the remainder that did not.
// added holds the quantities actually credited after the safety caps.
// Items are visited in id order so the outcome is deterministic.
func (l *Ledger) AddItemsPartial(s *domain.State, items map[string]int64) (added, overflow map[string]int64) {
	ids := make([]string, 0, len(items))
	for id := range items {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		qty := items[id]
		if qty <= 0 {
			continue
		}
		before := s.Inventory[id]
		if err := l.AddItem(s, id, qty); err != nil {
			if overflow == nil {
				overflow = make(map[string]int64)
			}
			overflow[id] += qty
			continue
		}
		// report what the caps let through, not what was asked for
		delta := s.Inventory[id] - before
		if delta <= 0 {
			continue
		}
		if added == nil {
			added = make(map[string]int64)
		}
		added[id] += delta
	}
	return added, overflow
}

// RemoveItem consumes qty of itemID, deleting the key at zero
func (l *Ledger) RemoveItem(s *domain.State, itemID string, qty int64) error {
	if qty <= 0 {
		return nil
	}
	have := s.Inventory[itemID]
	if have < qty {
		return fmt.Errorf("%w: %s (have %d, need %d)", domain.ErrInsufficientQuantity, itemID, have, qty)
	}
	if have == qty {
		delete(s.Inventory, itemID)
		return nil
	}
	s.Inventory[itemID] = have - qty
	return nil
}

// Rederive recomputes every level from total XP after a curve change.
// Levels are only raised, never lowered.
func Rederive(skills map[string]domain.Skill) []domain.LevelUp {
	keys := make([]string, 0, len(skills))
	for k := range skills {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var ups []domain.LevelUp
	for _, k := range keys {
		sk := skills[k]
		derived := LevelForXP(sk.XP)
		if sk.Level < 1 {
			sk.Level = 1
		}
		if derived > sk.Level {
			ups = append(ups, domain.LevelUp{Skill: k, From: sk.Level, To: derived})
			sk.Level = derived
		}
		skills[k] = sk
	}
	return ups
}
