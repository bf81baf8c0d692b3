// Package game is the facade for every user operation on a character. Each
// operation runs under the owner's gate against the cached character, marks
// it dirty, and publishes the outcome after the gate is released.
package game

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/osse101/IdleRealm_Go/internal/activity"
	"github.com/osse101/IdleRealm_Go/internal/catalog"
	"github.com/osse101/IdleRealm_Go/internal/combat"
	"github.com/osse101/IdleRealm_Go/internal/concurrency"
	"github.com/osse101/IdleRealm_Go/internal/domain"
	"github.com/osse101/IdleRealm_Go/internal/dungeon"
	"github.com/osse101/IdleRealm_Go/internal/event"
	"github.com/osse101/IdleRealm_Go/internal/logger"
	"github.com/osse101/IdleRealm_Go/internal/persist"
	"github.com/osse101/IdleRealm_Go/internal/progression"
	"github.com/osse101/IdleRealm_Go/internal/store"
	"github.com/osse101/IdleRealm_Go/internal/tick"
)

// Service defines every gated user operation
type Service interface {
	CreateCharacter(ctx context.Context, ownerID, name string) (domain.StatusSnapshot, error)
	Status(ctx context.Context, ownerID string) (domain.StatusSnapshot, error)
	// Resume replays offline progress, marks the owner connected and
	// returns the offline report exactly once
	Resume(ctx context.Context, ownerID string) (ResumeResult, error)
	// Disconnect stops live ticks for the owner and flushes the character
	Disconnect(ctx context.Context, ownerID string) error

	StartActivity(ctx context.Context, ownerID string, req activity.StartRequest) (activity.Timing, error)
	StopActivity(ctx context.Context, ownerID string) (domain.SessionSummary, error)
	StartCombat(ctx context.Context, ownerID string, tier int, monsterID string) (domain.CombatState, error)
	Flee(ctx context.Context, ownerID string) (domain.SessionSummary, error)
	StartDungeon(ctx context.Context, ownerID, dungeonID string, repeats int) (domain.DungeonRun, error)
	AbandonDungeon(ctx context.Context, ownerID string) (domain.SessionSummary, error)

	Equip(ctx context.Context, ownerID, itemID string) (EquipResult, error)
	Unequip(ctx context.Context, ownerID string, slot domain.Slot) (domain.ItemSnapshot, error)
	CollectClaims(ctx context.Context, ownerID string) (CollectResult, error)
	SendItems(ctx context.Context, fromOwner, toOwner, itemID string, qty int64) error
	ApplyPayment(ctx context.Context, ownerID string, amount int64, reference string) (PaymentResult, error)
}

// Deps are the collaborators of the game service
type Deps struct {
	Cache     *persist.Cache
	Store     store.CharacterStore
	Gate      *concurrency.Gate
	Catalog   *catalog.Catalog
	Ledger    *progression.Ledger
	Activity  *activity.Engine
	Combat    *combat.Engine
	Dungeon   *dungeon.Engine
	Advancer  *tick.Advancer
	Sink      *tick.Sink
	Publisher tick.Publisher
	Clock     domain.Clock
}

type service struct {
	Deps
}

// NewService creates a new game service
func NewService(deps Deps) Service {
	if deps.Clock == nil {
		deps.Clock = domain.NewRealClock()
	}
	return &service{Deps: deps}
}

// mutation is the outcome of one gated operation, delivered after release
type mutation struct {
	result    *domain.ActionResult
	summaries []domain.SessionSummary
	extra     []event.Event
}

// mutate loads the owner's character under its gate, brings its simulation
// up to now, applies fn and delivers the result once the gate is released.
// fn returning an error leaves the character untouched by fn.
func (s *service) mutate(ctx context.Context, ownerID string, fn func(c *domain.Character, now time.Time) (mutation, error)) (domain.StatusSnapshot, error) {
	var (
		status  domain.StatusSnapshot
		caught  tick.Outcome
		applied mutation
	)
	err := s.Gate.RunExclusive(ctx, ownerID, func() error {
		c, err := s.Cache.Load(ctx, ownerID)
		if err != nil {
			return err
		}
		now := s.Clock.Now()
		var changed bool
		caught, changed = s.bringCurrent(ctx, c, now)
		if changed {
			s.Cache.MarkDirty(ownerID)
		}

		applied, err = fn(c, now)
		if err != nil {
			status = c.Snapshot(now)
			return err
		}
		c.UpdatedAt = now
		s.Cache.MarkDirty(ownerID)
		status = c.Snapshot(now)
		return nil
	})
	if caught.Stepped() || len(caught.Summaries) > 0 {
		s.Sink.Deliver(ctx, status, caught)
	}
	if err != nil {
		return status, err
	}

	out := tick.Outcome{Kind: status.TaskKind, Summaries: applied.summaries}
	if applied.result != nil {
		out.Results = []domain.ActionResult{*applied.result}
	}
	for _, evt := range applied.extra {
		s.publish(ctx, evt)
	}
	s.Sink.Deliver(ctx, status, out)
	return status, nil
}

// bringCurrent runs the steps due before a user operation. Connected owners
// are kept current by the heartbeat, so at most one step is due; others are
// replayed as a catch-up whose report waits for the next resume.
func (s *service) bringCurrent(ctx context.Context, c *domain.Character, now time.Time) (tick.Outcome, bool) {
	var out tick.Outcome
	if s.Cache.IsConnected(c.OwnerID) {
		out = s.Advancer.Live(c, now)
	} else {
		out = s.Advancer.CatchUp(c, now)
	}
	for _, err := range out.Errors {
		logger.FromContext(ctx).Warn(LogMsgStepDuringOp, "character_id", c.ID, "task", out.Kind, "error", err)
	}
	changed := out.Stepped()
	if out.Report != nil {
		// folded into the attached report instead of one event per step
		out.Results = nil
		out.Report = nil
	}
	return out, changed
}

func (s *service) publish(ctx context.Context, evt event.Event) {
	if s.Publisher != nil {
		s.Publisher.PublishWithRetry(ctx, evt)
	}
}

// CreateCharacter creates the owner's single character
func (s *service) CreateCharacter(ctx context.Context, ownerID, name string) (domain.StatusSnapshot, error) {
	ownerID = strings.TrimSpace(ownerID)
	name = strings.TrimSpace(name)
	if ownerID == "" {
		return domain.StatusSnapshot{}, domain.NewValidationError(domain.ErrInvalidInput, "owner id is required")
	}
	if n := len([]rune(name)); n < MinNameLength || n > MaxNameLength {
		return domain.StatusSnapshot{}, domain.NewValidationError(domain.ErrInvalidInput, "name must be %d-%d characters", MinNameLength, MaxNameLength)
	}

	var created *domain.Character
	var status domain.StatusSnapshot
	err := s.Gate.RunExclusive(ctx, ownerID, func() error {
		if _, ok := s.Cache.Peek(ownerID); ok {
			return domain.ErrCharacterExists
		}
		now := s.Clock.Now()
		c := domain.NewCharacter(ownerID, name, now)
		c.State.Notify(domain.NotifySystem, fmt.Sprintf(MsgCreated, name), now)
		if err := s.Store.Create(ctx, c); err != nil {
			return err
		}
		s.Cache.Insert(c)
		created = c.Clone()
		status = c.Snapshot(now)
		return nil
	})
	if err != nil {
		return domain.StatusSnapshot{}, err
	}

	logger.FromContext(ctx).Info(LogMsgCharacterCreated, "owner_id", ownerID, "character_id", created.ID)
	s.publish(ctx, event.NewCharacterCreatedEvent(created))
	s.publish(ctx, event.NewStatusUpdateEvent(status))
	return status, nil
}

// Status returns the current snapshot without advancing the simulation
func (s *service) Status(ctx context.Context, ownerID string) (domain.StatusSnapshot, error) {
	return concurrency.Exclusive(ctx, s.Gate, ownerID, func() (domain.StatusSnapshot, error) {
		c, err := s.Cache.Load(ctx, ownerID)
		if err != nil {
			return domain.StatusSnapshot{}, err
		}
		return c.Snapshot(s.Clock.Now()), nil
	})
}

// ResumeResult is returned when a session starts
type ResumeResult struct {
	Status domain.StatusSnapshot  `json:"status"`
	Report *domain.OfflineReport `json:"offline_report,omitempty"`
}

// Resume replays offline progress and marks the owner connected
func (s *service) Resume(ctx context.Context, ownerID string) (ResumeResult, error) {
	var (
		res ResumeResult
		out tick.Outcome
	)
	err := s.Gate.RunExclusive(ctx, ownerID, func() error {
		c, err := s.Cache.Load(ctx, ownerID)
		if err != nil {
			return err
		}
		now := s.Clock.Now()
		out = s.Advancer.CatchUp(c, now)
		for _, stepErr := range out.Errors {
			logger.FromContext(ctx).Warn(LogMsgStepDuringOp, "character_id", c.ID, "task", out.Kind, "error", stepErr)
		}
		res.Report = c.State.TakeOfflineReport()
		s.Cache.SetConnected(ownerID, true)
		c.UpdatedAt = now
		s.Cache.MarkDirty(ownerID)
		res.Status = c.Snapshot(now)
		return nil
	})
	if err != nil {
		return ResumeResult{}, err
	}

	steps := 0
	if res.Report != nil {
		steps = res.Report.Steps
	}
	logger.FromContext(ctx).Info(LogMsgResumed, "owner_id", ownerID, "offline_steps", steps)

	// the report replaces the individual catch-up results
	s.Sink.Deliver(ctx, res.Status, tick.Outcome{Kind: out.Kind, Summaries: out.Summaries, Report: res.Report})
	return res, nil
}

// Disconnect marks the owner offline and writes the character back
func (s *service) Disconnect(ctx context.Context, ownerID string) error {
	err := s.Gate.RunExclusive(ctx, ownerID, func() error {
		if _, ok := s.Cache.Peek(ownerID); !ok {
			return domain.ErrCharacterNotFound
		}
		s.Cache.SetConnected(ownerID, false)
		return nil
	})
	if err != nil {
		return err
	}
	logger.FromContext(ctx).Info(LogMsgDisconnected, "owner_id", ownerID)

	if err := s.Cache.FlushOwner(ctx, ownerID); err != nil {
		// still dirty; the periodic flush retries
		logger.FromContext(ctx).Warn(LogMsgDisconnectFlush, "owner_id", ownerID, "error", err)
		if !errors.Is(err, domain.ErrStoreUnavailable) {
			return err
		}
	}
	return nil
}
