package combat

import (
	"math"
	"time"

	"github.com/osse101/IdleRealm_Go/internal/domain"
	"github.com/osse101/IdleRealm_Go/internal/utils"
)

// PlayerStats are the combat values derived from skills and equipment
type PlayerStats struct {
	Level          int
	MaxHealth      int64
	Damage         float64
	Defense        float64
	AttackInterval time.Duration
}

// DerivePlayerStats computes combat stats from the combat skill and gear
func DerivePlayerStats(s *domain.State) PlayerStats {
	gear := s.GearStats()
	level := s.SkillOf(domain.SkillCombat).Level

	raw := BaseDamage + gear.Damage + gear.Strength + AgilityWeight*gear.Agility + IntelligenceWeight*gear.Intelligence
	dmg := raw * (1 + gear.ItemPower/ItemPowerDivisor) * (1 + DamagePerLevel*float64(level-1))

	interval := DefaultAttackInterval
	if gear.AttackIntervalMs > 0 {
		interval = time.Duration(gear.AttackIntervalMs) * time.Millisecond
	}

	return PlayerStats{
		Level:          level,
		MaxHealth:      int64(math.Round(BaseMaxHealth + gear.Health + HealthPerLevel*float64(level-1))),
		Damage:         dmg,
		Defense:        gear.Defense,
		AttackInterval: interval,
	}
}

// Mitigate reduces raw damage by the defender's diminishing-returns mitigation.
// The result is never below 1.
func Mitigate(raw, defense float64) int64 {
	m := utils.DiminishingReturns(defense, MitigationScale)
	dealt := int64(math.Round(raw * (1 - m)))
	if dealt < 1 {
		return 1
	}
	return dealt
}

func scaled(v int64, scale float64) int64 {
	return int64(math.Round(float64(v) * scale))
}
