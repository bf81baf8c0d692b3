package game

import (
	"context"
	"fmt"
	"time"

	"github.com/osse101/IdleRealm_Go/internal/activity"
	"github.com/osse101/IdleRealm_Go/internal/domain"
	"github.com/osse101/IdleRealm_Go/internal/progression"
)

// StartActivity begins gathering, refining or crafting
func (s *service) StartActivity(ctx context.Context, ownerID string, req activity.StartRequest) (activity.Timing, error) {
	var timing activity.Timing
	_, err := s.mutate(ctx, ownerID, func(c *domain.Character, now time.Time) (mutation, error) {
		t, err := s.Activity.Start(c, req, now)
		if err != nil {
			return mutation{}, err
		}
		timing = t
		return mutation{result: &domain.ActionResult{
			Success: true,
			Message: fmt.Sprintf(MsgActivityStarted, progression.DisplayName(req.ItemID), req.Quantity),
			At:      now,
		}}, nil
	})
	return timing, err
}

// StopActivity ends the running activity and returns its session summary
func (s *service) StopActivity(ctx context.Context, ownerID string) (domain.SessionSummary, error) {
	var summary domain.SessionSummary
	_, err := s.mutate(ctx, ownerID, func(c *domain.Character, now time.Time) (mutation, error) {
		sum, err := s.Activity.Stop(c, now)
		if err != nil {
			return mutation{}, err
		}
		summary = sum
		return mutation{
			result: &domain.ActionResult{
				Success:  true,
				Message:  fmt.Sprintf(MsgActivityStopped, progression.DisplayName(sum.Target)),
				Finished: true,
				At:       now,
			},
			summaries: []domain.SessionSummary{sum},
		}, nil
	})
	return summary, err
}

// StartCombat begins an auto-fight against a catalog monster
func (s *service) StartCombat(ctx context.Context, ownerID string, tier int, monsterID string) (domain.CombatState, error) {
	var state domain.CombatState
	_, err := s.mutate(ctx, ownerID, func(c *domain.Character, now time.Time) (mutation, error) {
		cs, err := s.Combat.Start(c, tier, monsterID, now)
		if err != nil {
			return mutation{}, err
		}
		state = *cs.Clone()
		return mutation{result: &domain.ActionResult{
			Success: true,
			Message: fmt.Sprintf(MsgCombatStarted, cs.MobName),
			CombatUpdate: &domain.CombatUpdate{
				MobID:           cs.MobID,
				MobHealth:       cs.MobHealth,
				MobMaxHealth:    cs.MobMaxHealth,
				PlayerHealth:    cs.PlayerHealth,
				PlayerMaxHealth: cs.PlayerMaxHealth,
			},
			At: now,
		}}, nil
	})
	return state, err
}

// Flee ends the current free-standing fight
func (s *service) Flee(ctx context.Context, ownerID string) (domain.SessionSummary, error) {
	var summary domain.SessionSummary
	_, err := s.mutate(ctx, ownerID, func(c *domain.Character, now time.Time) (mutation, error) {
		name := ""
		if c.Task.Combat != nil {
			name = c.Task.Combat.MobName
		}
		sum, err := s.Combat.Flee(c, now)
		if err != nil {
			return mutation{}, err
		}
		summary = sum
		return mutation{
			result: &domain.ActionResult{
				Success:  true,
				Message:  fmt.Sprintf(MsgCombatFled, name),
				Finished: true,
				At:       now,
			},
			summaries: []domain.SessionSummary{sum},
		}, nil
	})
	return summary, err
}

// StartDungeon consumes an entry item and begins a run
func (s *service) StartDungeon(ctx context.Context, ownerID, dungeonID string, repeats int) (domain.DungeonRun, error) {
	var run domain.DungeonRun
	_, err := s.mutate(ctx, ownerID, func(c *domain.Character, now time.Time) (mutation, error) {
		r, err := s.Dungeon.Start(c, dungeonID, repeats, now)
		if err != nil {
			return mutation{}, err
		}
		run = *c.Task.Clone().Dungeon
		return mutation{result: &domain.ActionResult{
			Success: true,
			Message: fmt.Sprintf(MsgDungeonStarted, progression.DisplayName(dungeonID)),
			DungeonUpdate: &domain.DungeonUpdate{
				DungeonID:  r.DungeonID,
				Phase:      r.Phase,
				Wave:       r.Wave,
				TotalWaves: r.TotalWaves,
			},
			At: now,
		}}, nil
	})
	return run, err
}

// AbandonDungeon leaves the current run without its rewards
func (s *service) AbandonDungeon(ctx context.Context, ownerID string) (domain.SessionSummary, error) {
	var summary domain.SessionSummary
	_, err := s.mutate(ctx, ownerID, func(c *domain.Character, now time.Time) (mutation, error) {
		run := c.Task.Dungeon
		sum, err := s.Dungeon.Abandon(c, now)
		if err != nil {
			return mutation{}, err
		}
		summary = sum
		return mutation{
			result: &domain.ActionResult{
				Success: true,
				Message: fmt.Sprintf(MsgDungeonAbandoned, progression.DisplayName(sum.Target)),
				DungeonUpdate: &domain.DungeonUpdate{
					DungeonID:  sum.Target,
					Phase:      domain.DungeonAbandoned,
					Wave:       run.Wave,
					TotalWaves: run.TotalWaves,
				},
				Finished: true,
				At:       now,
			},
			summaries: []domain.SessionSummary{sum},
		}, nil
	})
	return summary, err
}
