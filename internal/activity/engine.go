package activity

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/osse101/IdleRealm_Go/internal/catalog"
	"github.com/osse101/IdleRealm_Go/internal/domain"
	"github.com/osse101/IdleRealm_Go/internal/progression"
	"github.com/osse101/IdleRealm_Go/internal/utils"
)

// StartRequest asks for quantity actions producing itemID
type StartRequest struct {
	Type     domain.ActionType
	ItemID   string
	Quantity int
}

// Timing is returned by a successful start
type Timing struct {
	Skill         string        `json:"skill"`
	RequiredLevel int           `json:"required_level"`
	Efficiency    float64       `json:"efficiency"`
	PerActionTime time.Duration `json:"per_action_time"`
	Total         time.Duration `json:"total"`
	FirstActionAt time.Time     `json:"first_action_at"`
	FinishesAt    time.Time     `json:"finishes_at"`
}

// Engine runs gathering, refining and crafting. It holds no character state;
// callers pass the character under its owner's gate.
type Engine struct {
	catalog *catalog.Catalog
	ledger  *progression.Ledger
	rng     *rand.Rand

	minActionTime time.Duration
}

// Option configures an Engine
type Option func(*Engine)

// WithMinActionTime raises the per-action floor, typically to the heartbeat
// interval: a live tick runs at most one step per beat, so shorter actions
// would progress slower online than offline catch-up grants.
func WithMinActionTime(d time.Duration) Option {
	return func(e *Engine) {
		if d > e.minActionTime {
			e.minActionTime = d
		}
	}
}

// NewEngine creates a new activity engine. The engine steps many owners in
// parallel, so rng must be safe for concurrent use (utils.NewLockedRand).
func NewEngine(cat *catalog.Catalog, ledger *progression.Ledger, rng *rand.Rand, opts ...Option) *Engine {
	e := &Engine{catalog: cat, ledger: ledger, rng: rng, minActionTime: MinActionTime}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Efficiency returns the efficiency percentage for producing item
func Efficiency(state *domain.State, item *catalog.Item) float64 {
	level := state.SkillOf(item.Skill).Level
	eff := state.GearStats().Efficiency + EfficiencyPerLevel*float64(level-catalog.LevelRequirement(item.Tier))
	return math.Max(0, math.Min(MaxEfficiency, eff))
}

// PerActionTime applies efficiency to the item's base time, floored at MinActionTime
func PerActionTime(base time.Duration, efficiency float64) time.Duration {
	d := time.Duration(float64(base) * (1 - efficiency/100))
	if d < MinActionTime {
		return MinActionTime
	}
	return d
}

// Start validates the request and installs the activity. No items are granted yet.
func (e *Engine) Start(c *domain.Character, req StartRequest, now time.Time) (Timing, error) {
	if !c.Task.IsIdle() {
		return Timing{}, domain.NewValidationError(domain.ErrAlreadyBusy, "currently %s", c.Task.Kind)
	}
	if req.Quantity < 1 || req.Quantity > MaxActivityQuantity {
		return Timing{}, domain.NewValidationError(domain.ErrInvalidQuantity, "quantity must be between 1 and %d", MaxActivityQuantity)
	}
	item, err := e.catalog.LookupItem(req.ItemID)
	if err != nil {
		return Timing{}, domain.NewValidationError(domain.ErrItemNotFound, "%s", req.ItemID)
	}
	skill, err := e.catalog.SkillForItem(item.ID, req.Type)
	if err != nil {
		return Timing{}, domain.NewValidationError(domain.ErrWrongActionType, "%s cannot be made by %s", item.ID, req.Type)
	}

	required := catalog.LevelRequirement(item.Tier)
	if have := c.State.SkillOf(skill).Level; have < required {
		return Timing{}, domain.NewValidationError(domain.ErrInsufficientLevel, "%s level %d required, have %d", skill, required, have)
	}

	eff := Efficiency(&c.State, item)
	per := max(PerActionTime(item.BaseTime(), eff), e.minActionTime)
	total := per * time.Duration(req.Quantity)
	if total > MaxActivityDuration {
		return Timing{}, domain.NewValidationError(domain.ErrDurationExceeded, "%s requested, limit %s", total, MaxActivityDuration)
	}

	c.SetTask(domain.ActivityTask(&domain.Activity{
		Type:             req.Type,
		ItemID:           item.ID,
		Skill:            skill,
		ActionsRemaining: req.Quantity,
		Duration:         per,
		NextActionAt:     now.Add(per),
		StartedAt:        now,
	}), now)

	return Timing{
		Skill:         skill,
		RequiredLevel: required,
		Efficiency:    eff,
		PerActionTime: per,
		Total:         total,
		FirstActionAt: now.Add(per),
		FinishesAt:    now.Add(total),
	}, nil
}

// Step performs one action at the given simulated time and reschedules the next.
// Validation failures (inventory full, missing ingredients) end the activity and
// are reported on the result. A returned error means the descriptor was corrupt
// or referenced a missing item; the activity has already been cleared.
func (e *Engine) Step(c *domain.Character, at time.Time) (domain.ActionResult, error) {
	res := domain.ActionResult{At: at}
	act := c.Task.Activity
	if c.Task.Kind != domain.TaskActivity || act == nil {
		return res, &domain.InvariantViolation{Subject: "activity", Detail: "step without an activity"}
	}
	if err := act.Validate(); err != nil {
		e.clear(c, at, MsgInvalidState)
		res.Message = MsgInvalidState
		res.Finished = true
		return res, err
	}
	item, err := e.catalog.LookupItem(act.ItemID)
	if err != nil {
		e.clear(c, at, MsgInvalidState)
		res.Message = MsgInvalidState
		res.Finished = true
		return res, &domain.FatalConfigError{Kind: "item", ID: act.ItemID}
	}

	gear := c.State.GearStats()
	outputID := item.ID
	if act.Type == domain.ActionCrafting && item.Equippable() {
		outputID = catalog.QualityItemID(item.ID, catalog.RollQuality(e.rng, gear.QualityBonus))
	}

	if act.Type != domain.ActionGathering {
		for _, ing := range item.Ingredients {
			if !c.State.Inventory.Has(ing.ItemID, ing.Quantity) {
				return e.fail(c, at, fmt.Sprintf(MsgMissingMaterial, progression.DisplayName(item.ID))), nil
			}
		}
	}
	if !e.ledger.CanAdd(c.State.Inventory, outputID) && freedSlots(&c.State, item, act.Type) == 0 {
		return e.fail(c, at, MsgInventoryFull), nil
	}

	if act.Type != domain.ActionGathering {
		for _, ing := range item.Ingredients {
			// presence checked above
			_ = e.ledger.RemoveItem(&c.State, ing.ItemID, ing.Quantity)
		}
	}
	if err := e.ledger.AddItem(&c.State, outputID, 1); err != nil {
		return e.fail(c, at, MsgInventoryFull), nil
	}
	res.AddItem(outputID, 1)

	xp := int64(math.Round(float64(item.BaseXP) * utils.BonusMultiplier(gear.XPBonus)))
	granted, up := e.ledger.AddXP(&c.State, act.Skill, xp)
	res.AddXP(act.Skill, granted)
	if up != nil {
		res.LeveledUp = append(res.LeveledUp, *up)
		c.State.Notify(domain.NotifyLevelUp, progression.LevelUpMessage(up.Skill, up.To), at)
	}

	act.ActionsRemaining--
	act.ActionsDone++
	act.Session.Steps++
	act.Session.XP += granted
	act.Session.AddItems(map[string]int64{outputID: 1})
	act.NextActionAt = act.NextActionAt.Add(act.Duration)

	res.Success = true
	if act.Type == domain.ActionGathering {
		res.Message = fmt.Sprintf(MsgGathered, progression.DisplayName(outputID))
	} else {
		res.Message = fmt.Sprintf(MsgProduced, progression.DisplayName(outputID))
	}

	if act.ActionsRemaining <= 0 {
		msg := fmt.Sprintf(MsgCompleted, progression.DisplayName(item.ID), act.ActionsDone)
		c.State.Notify(domain.NotifyActivityDone, msg, at)
		c.ClearTask()
		res.Message = msg
		res.Finished = true
	}
	return res, nil
}

// Stop ends the running activity and returns its session summary
func (e *Engine) Stop(c *domain.Character, now time.Time) (domain.SessionSummary, error) {
	act := c.Task.Activity
	if c.Task.Kind != domain.TaskActivity || act == nil {
		return domain.SessionSummary{}, domain.NewValidationError(domain.ErrNotBusy, "no activity running")
	}
	summary := domain.SessionSummary{
		Kind:     domain.TaskActivity,
		Target:   act.ItemID,
		Reason:   domain.ReasonStopped,
		Totals:   act.Session,
		Duration: now.Sub(act.StartedAt),
		EndedAt:  now,
	}
	c.State.Notify(domain.NotifyActivityDone, fmt.Sprintf(MsgStopped, progression.DisplayName(act.ItemID), act.ActionsDone), now)
	c.ClearTask()
	return summary, nil
}

func (e *Engine) fail(c *domain.Character, at time.Time, msg string) domain.ActionResult {
	e.clear(c, at, msg)
	return domain.ActionResult{Success: false, Message: msg, Finished: true, At: at}
}

func (e *Engine) clear(c *domain.Character, at time.Time, msg string) {
	c.State.Notify(domain.NotifyActivityFailed, msg, at)
	c.ClearTask()
}

// freedSlots counts ingredient keys that a step would fully consume
func freedSlots(s *domain.State, item *catalog.Item, action domain.ActionType) int {
	if action == domain.ActionGathering {
		return 0
	}
	n := 0
	for _, ing := range item.Ingredients {
		if s.Inventory[ing.ItemID] == ing.Quantity {
			n++
		}
	}
	return n
}
