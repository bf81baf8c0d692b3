package tick

import (
	"fmt"
	"time"

	"github.com/osse101/IdleRealm_Go/internal/domain"
	"github.com/osse101/IdleRealm_Go/internal/metrics"
)

// Stepper advances one kind of task by a single discrete step at a given
// simulated instant. Steppers never perform I/O.
type Stepper interface {
	Step(c *domain.Character, at time.Time) (domain.ActionResult, error)
}

// Outcome is everything one Live or CatchUp call produced
type Outcome struct {
	Kind      domain.TaskKind
	Results   []domain.ActionResult
	Summaries []domain.SessionSummary
	// Errors are invariant violations and config errors already healed by clearing the task
	Errors  []error
	Snapped bool
	// Report is set by CatchUp when at least one step ran
	Report *domain.OfflineReport
}

// Stepped reports whether any engine step ran
func (o Outcome) Stepped() bool { return len(o.Results) > 0 }

// Advancer turns elapsed time into engine steps. It holds no per-character
// state; callers serialize access to a character through the gate.
type Advancer struct {
	steppers         map[domain.TaskKind]Stepper
	drift            time.Duration
	maxOfflineSteps  int
	maxOfflineWindow time.Duration
}

// Option configures an Advancer
type Option func(*Advancer)

// WithDriftThreshold sets the live-tick snap threshold
func WithDriftThreshold(d time.Duration) Option {
	return func(a *Advancer) {
		if d > 0 {
			a.drift = d
		}
	}
}

// WithMaxOfflineSteps bounds a combat or dungeon catch-up batch
func WithMaxOfflineSteps(n int) Option {
	return func(a *Advancer) {
		if n > 0 {
			a.maxOfflineSteps = n
		}
	}
}

// WithMaxOfflineWindow bounds the absent time a catch-up replays
func WithMaxOfflineWindow(d time.Duration) Option {
	return func(a *Advancer) {
		if d > 0 {
			a.maxOfflineWindow = d
		}
	}
}

// NewAdvancer wires one stepper per task kind
func NewAdvancer(activity, combat, dungeon Stepper, opts ...Option) *Advancer {
	a := &Advancer{
		steppers: map[domain.TaskKind]Stepper{
			domain.TaskActivity: activity,
			domain.TaskCombat:   combat,
			domain.TaskDungeon:  dungeon,
		},
		drift:            DefaultDriftThreshold,
		maxOfflineSteps:  DefaultMaxOfflineSteps,
		maxOfflineWindow: DefaultMaxOfflineWindow,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// ActionsToProcess is the catch-up planner: the number of whole steps of
// length d that fit between from and now, capped at remaining.
func ActionsToProcess(from, now time.Time, d time.Duration, remaining int) int {
	elapsed := now.Sub(from)
	if elapsed <= 0 || d <= 0 || remaining <= 0 {
		return 0
	}
	possible := elapsed / d
	if possible > time.Duration(remaining) {
		return remaining
	}
	return int(possible)
}

// Live runs at most one step when the character's task is due. When the next
// due time is still more than the drift threshold behind now, timers are
// snapped forward instead of letting steps burst on later heartbeats.
func (a *Advancer) Live(c *domain.Character, now time.Time) Outcome {
	out := Outcome{Kind: c.Task.Kind}
	defer a.settle(c, now)

	if c.Task.IsIdle() {
		return out
	}
	due, ok := c.Task.DueAt()
	if ok && now.Before(due) {
		return out
	}

	a.run(c, due, &out)
	metrics.EngineSteps.WithLabelValues(string(out.Kind)).Inc()

	if next, ok := c.Task.DueAt(); ok && now.Sub(next) > a.drift {
		Snap(c, now)
		out.Snapped = true
	}
	return out
}

// CatchUp replays the steps missed since c.SimulatedAt in one synchronous
// batch and attaches the aggregated report to the character state.
func (a *Advancer) CatchUp(c *domain.Character, now time.Time) Outcome {
	out := Outcome{Kind: c.Task.Kind}
	defer a.settle(c, now)

	if c.Task.IsIdle() || !now.After(c.SimulatedAt) {
		return out
	}

	from := c.SimulatedAt
	if window := now.Sub(from); window > a.maxOfflineWindow {
		from = now.Add(-a.maxOfflineWindow)
	}

	report := domain.OfflineReport{Task: c.Task.Kind, From: from, To: now}
	limit := a.maxOfflineSteps
	if act := c.Task.Activity; c.Task.Kind == domain.TaskActivity && act != nil && act.Duration > 0 {
		limit = ActionsToProcess(from, now, act.Duration, act.ActionsRemaining)
		// replay on the elapsed-time grid anchored at the last simulated instant
		act.NextActionAt = from.Add(act.Duration)
	}

	var last time.Time
	for steps := 0; steps < limit && !c.Task.IsIdle(); steps++ {
		due, ok := c.Task.DueAt()
		if !ok || due.After(now) {
			break
		}
		before := len(out.Results)
		a.run(c, due, &out)
		for _, res := range out.Results[before:] {
			report.Absorb(res)
		}
		last = due
	}

	if n := len(out.Results); n > 0 {
		metrics.CatchUpSteps.WithLabelValues(string(out.Kind)).Add(float64(n))
		report.Simulated = last.Sub(from)
		c.State.AttachOfflineReport(report)
		out.Report = &report
	}

	if due, ok := c.Task.DueAt(); ok && now.Sub(due) > a.drift {
		Snap(c, now)
		out.Snapped = true
	}
	return out
}

func (a *Advancer) settle(c *domain.Character, now time.Time) {
	if now.After(c.SimulatedAt) {
		c.SimulatedAt = now
	}
}

// run performs one isolated step. A panic, an unknown task kind, or a
// malformed task clears the task and is reported as an InvariantViolation.
func (a *Advancer) run(c *domain.Character, at time.Time, out *Outcome) {
	res, err := a.safeStep(c, at)
	out.Results = append(out.Results, res)
	out.Summaries = append(out.Summaries, res.Summaries...)
	if err != nil {
		out.Errors = append(out.Errors, err)
		metrics.EngineErrors.WithLabelValues(string(out.Kind)).Inc()
	}
}

func (a *Advancer) safeStep(c *domain.Character, at time.Time) (res domain.ActionResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			res = heal(c, at)
			err = &domain.InvariantViolation{Subject: "tick", Detail: fmt.Sprintf("step panicked: %v", r)}
		}
	}()

	if verr := c.Task.Validate(); verr != nil {
		return heal(c, at), verr
	}
	stepper, ok := a.steppers[c.Task.Kind]
	if !ok || stepper == nil {
		return heal(c, at), &domain.InvariantViolation{Subject: "tick", Detail: fmt.Sprintf("no engine for %q", c.Task.Kind)}
	}
	return stepper.Step(c, at)
}

func heal(c *domain.Character, at time.Time) domain.ActionResult {
	c.State.Notify(domain.NotifySystem, MsgTaskReset, at)
	c.ClearTask()
	return domain.ActionResult{Message: MsgTaskReset, Finished: true, At: at}
}

// Snap moves every timer of the current task that lies in the past to one
// interval after now.
func Snap(c *domain.Character, now time.Time) {
	switch c.Task.Kind {
	case domain.TaskActivity:
		if act := c.Task.Activity; act != nil && act.NextActionAt.Before(now) {
			act.NextActionAt = now.Add(act.Duration)
		}
	case domain.TaskCombat:
		snapCombat(c.Task.Combat, now)
	case domain.TaskDungeon:
		run := c.Task.Dungeon
		if run == nil {
			return
		}
		if run.Combat != nil {
			snapCombat(run.Combat, now)
		}
		if run.NextEventAt.Before(now) {
			run.NextEventAt = now
		}
	}
}

func snapCombat(cs *domain.CombatState, now time.Time) {
	if cs == nil {
		return
	}
	if cs.PlayerNextAttackAt.Before(now) {
		cs.PlayerNextAttackAt = now.Add(cs.PlayerAttackInterval)
	}
	if cs.MobNextAttackAt.Before(now) {
		cs.MobNextAttackAt = now.Add(cs.MobAttackInterval)
	}
}
