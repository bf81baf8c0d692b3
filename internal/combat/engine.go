package combat

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

// Outcome is how a round ended
type Outcome int

const (
	Ongoing Outcome = iota
	Killed
	Defeated
)

// Engine resolves fights. Free-standing fights respawn their monster after a
// kill; dungeon waves use the same rounds with Respawn unset and handle the
// outcome themselves.
type Engine struct {
	catalog *catalog.Catalog
	ledger  *progression.Ledger
	rng     *rand.Rand
}

// NewEngine creates a new combat engine. The engine steps many owners in
// parallel, so rng must be safe for concurrent use (utils.NewLockedRand).
func NewEngine(cat *catalog.Catalog, ledger *progression.Ledger, rng *rand.Rand) *Engine {
	return &Engine{catalog: cat, ledger: ledger, rng: rng}
}

// NewFight builds combat state against a monster scaled by scale.
// Both combatants swing for the first time one interval after now.
func NewFight(s *domain.State, m *catalog.Monster, scale float64, respawn bool, now time.Time) *domain.CombatState {
	if scale <= 0 {
		scale = 1
	}
	player := DerivePlayerStats(s)
	mobInterval := m.AttackInterval()
	if mobInterval <= 0 {
		mobInterval = DefaultAttackInterval
	}
	hp := scaled(m.Health, scale)
	if hp < 1 {
		hp = 1
	}
	return &domain.CombatState{
		MobID:                m.ID,
		MobName:              m.Name,
		MobTier:              m.Tier,
		MobHealth:            hp,
		MobMaxHealth:         hp,
		MobDamage:            scaled(m.Damage, scale),
		MobDefense:           scaled(m.Defense, scale),
		MobScale:             scale,
		MobAttackInterval:    mobInterval,
		MobNextAttackAt:      now.Add(mobInterval),
		PlayerHealth:         player.MaxHealth,
		PlayerMaxHealth:      player.MaxHealth,
		PlayerAttackInterval: player.AttackInterval,
		PlayerNextAttackAt:   now.Add(player.AttackInterval),
		Respawn:              respawn,
		StartedAt:            now,
	}
}

// Start begins an auto-fight against a monster of the given tier
func (e *Engine) Start(c *domain.Character, tier int, monsterID string, now time.Time) (*domain.CombatState, error) {
	if !c.Task.IsIdle() {
		return nil, domain.NewValidationError(domain.ErrAlreadyBusy, "currently %s", c.Task.Kind)
	}
	m, err := e.catalog.LookupMonster(tier, monsterID)
	if err != nil {
		return nil, domain.NewValidationError(domain.ErrMonsterNotFound, "tier %d %s", tier, monsterID)
	}
	cs := NewFight(&c.State, m, 1, true, now)
	c.SetTask(domain.CombatTask(cs), now)
	return cs, nil
}

// Step runs one round of the character's free-standing fight
func (e *Engine) Step(c *domain.Character, at time.Time) (domain.ActionResult, error) {
	cs := c.Task.Combat
	if c.Task.Kind != domain.TaskCombat || cs == nil {
		return domain.ActionResult{At: at}, &domain.InvariantViolation{Subject: "combat", Detail: "step without a fight"}
	}

	res, outcome, err := e.Round(c, cs, at)
	if err != nil {
		c.State.Notify(domain.NotifySystem, MsgReset, at)
		c.ClearTask()
		res.Finished = true
		return res, err
	}

	switch outcome {
	case Killed:
		if cs.Respawn {
			cs.MobHealth = cs.MobMaxHealth
			cs.MobNextAttackAt = at.Add(cs.MobAttackInterval)
		}
	case Defeated:
		summary := Summary(cs, domain.ReasonDefeated, at)
		res.Summaries = append(res.Summaries, summary)
		c.State.Notify(domain.NotifyDefeat, fmt.Sprintf(MsgDefeated, cs.MobName), at)
		c.ClearTask()
		res.Finished = true
	}
	return res, nil
}

// Round resolves one player attack plus any monster attacks due by at.
// On a kill the rewards are applied to c; respawn is left to the caller.
func (e *Engine) Round(c *domain.Character, cs *domain.CombatState, at time.Time) (domain.ActionResult, Outcome, error) {
	res := domain.ActionResult{At: at}
	if err := cs.Validate(); err != nil {
		return res, Ongoing, err
	}
	if cs.PlayerHealth <= 0 {
		return res, Defeated, nil
	}

	player := DerivePlayerStats(&c.State)
	update := &domain.CombatUpdate{MobID: cs.MobID, MobMaxHealth: cs.MobMaxHealth, PlayerMaxHealth: cs.PlayerMaxHealth}
	res.CombatUpdate = update

	dealt := Mitigate(player.Damage, float64(cs.MobDefense))
	cs.MobHealth = max(0, cs.MobHealth-dealt)
	cs.TotalPlayerDmg += dealt
	update.PlayerDamage = dealt

	for hits := 0; cs.MobHealth > 0 && cs.PlayerHealth > 0 && !at.Before(cs.MobNextAttackAt); hits++ {
		if hits == MaxMobHitsPerRound {
			cs.MobNextAttackAt = at.Add(cs.MobAttackInterval)
			break
		}
		taken := Mitigate(float64(cs.MobDamage), player.Defense)
		cs.PlayerHealth = max(0, cs.PlayerHealth-taken)
		cs.TotalMobDmg += taken
		update.MobDamage += taken
		cs.MobNextAttackAt = cs.MobNextAttackAt.Add(cs.MobAttackInterval)
	}
	cs.PlayerNextAttackAt = cs.PlayerNextAttackAt.Add(cs.PlayerAttackInterval)

	update.MobHealth = cs.MobHealth
	update.PlayerHealth = cs.PlayerHealth
	res.Success = true
	res.Message = fmt.Sprintf(MsgHit, cs.MobName, dealt)

	if cs.MobHealth <= 0 {
		if err := e.reward(c, cs, &res, at); err != nil {
			return res, Ongoing, err
		}
		update.Killed = true
		res.Message = fmt.Sprintf(MsgKilled, cs.MobName)
		return res, Killed, nil
	}
	if cs.PlayerHealth <= 0 {
		update.Defeated = true
		res.Success = false
		res.Message = fmt.Sprintf(MsgDefeated, cs.MobName)
		return res, Defeated, nil
	}
	return res, Ongoing, nil
}

// reward grants XP, silver and loot for a kill. Loot that does not fit the
// inventory is queued as a claim.
func (e *Engine) reward(c *domain.Character, cs *domain.CombatState, res *domain.ActionResult, at time.Time) error {
	m, err := e.catalog.LookupMonster(0, cs.MobID)
	if err != nil {
		return &domain.FatalConfigError{Kind: "monster", ID: cs.MobID}
	}
	gear := c.State.GearStats()

	xp := int64(math.Round(float64(m.XP) * cs.MobScale * utils.BonusMultiplier(gear.XPBonus)))
	granted, up := e.ledger.AddXP(&c.State, domain.SkillCombat, xp)
	res.AddXP(domain.SkillCombat, granted)
	if up != nil {
		res.LeveledUp = append(res.LeveledUp, *up)
		c.State.Notify(domain.NotifyLevelUp, progression.LevelUpMessage(up.Skill, up.To), at)
	}

	base := utils.RandomInt64(e.rng, m.SilverMin, m.SilverMax)
	silver := e.ledger.AddSilver(&c.State, int64(math.Round(float64(base)*cs.MobScale*utils.BonusMultiplier(gear.SilverBonus))))
	res.Silver = silver

	drops := make(map[string]int64)
	dropMult := utils.BonusMultiplier(gear.DropBonus)
	for _, entry := range m.Loot {
		if utils.Chance(e.rng, entry.Chance*dropMult) {
			drops[entry.ItemID] += utils.RandomInt64(e.rng, entry.Min, entry.Max)
		}
	}
	added, overflow := e.ledger.AddItemsPartial(&c.State, drops)
	for id, qty := range added {
		res.AddItem(id, qty)
	}
	if len(overflow) > 0 {
		c.State.AddClaim(domain.ClaimSourceLoot, overflow, 0, at)
	}

	cs.Kills++
	cs.Session.Steps++
	cs.Session.XP += granted
	cs.Session.Silver += silver
	cs.Session.AddItems(drops)

	res.CombatUpdate.XP = granted
	res.CombatUpdate.Silver = silver
	if len(drops) > 0 {
		res.CombatUpdate.Loot = drops
	}
	return nil
}

// Flee ends the current fight immediately and returns its summary
func (e *Engine) Flee(c *domain.Character, now time.Time) (domain.SessionSummary, error) {
	cs := c.Task.Combat
	if c.Task.Kind != domain.TaskCombat || cs == nil {
		return domain.SessionSummary{}, domain.NewValidationError(domain.ErrNotBusy, "not in combat")
	}
	summary := Summary(cs, domain.ReasonFled, now)
	c.State.Notify(domain.NotifyCombatSummary, fmt.Sprintf(MsgFled, cs.MobName, cs.Kills), now)
	c.ClearTask()
	return summary, nil
}

// Summary closes a fight's session totals
func Summary(cs *domain.CombatState, reason string, at time.Time) domain.SessionSummary {
	return domain.SessionSummary{
		Kind:         domain.TaskCombat,
		Target:       cs.MobID,
		Reason:       reason,
		Totals:       cs.Clone().Session,
		Duration:     at.Sub(cs.StartedAt),
		EndedAt:      at,
		Kills:        cs.Kills,
		PlayerDamage: cs.TotalPlayerDmg,
		MobDamage:    cs.TotalMobDmg,
	}
}
