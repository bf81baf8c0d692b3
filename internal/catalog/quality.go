package catalog

import (
	"math/rand"
	"strconv"
	"strings"

	"github.com/osse101/IdleRealm_Go/internal/domain"
)

// QualityItemID appends the quality suffix. Normal items keep their base id.
func QualityItemID(baseID string, q domain.Quality) string {
	if q <= domain.QualityNormal || !q.Valid() {
		return baseID
	}
	return baseID + QualitySuffix + strconv.Itoa(int(q))
}

// ParseItemID splits a possibly quality-suffixed id into base id and quality
func ParseItemID(id string) (string, domain.Quality) {
	idx := strings.LastIndex(id, QualitySuffix)
	if idx <= 0 {
		return id, domain.QualityNormal
	}
	n, err := strconv.Atoi(id[idx+len(QualitySuffix):])
	if err != nil {
		return id, domain.QualityNormal
	}
	q := domain.Quality(n)
	if q <= domain.QualityNormal || !q.Valid() {
		return id, domain.QualityNormal
	}
	return id[:idx], q
}

// RollQuality picks a crafted quality tier. Non-normal chances are scaled by
// (1 + bonusPct/100) and the total is capped at MaxNonNormalChance.
func RollQuality(rng *rand.Rand, bonusPct float64) domain.Quality {
	scale := 1 + bonusPct/100
	if scale < 0 {
		scale = 0
	}
	tiers := []struct {
		q      domain.Quality
		chance float64
	}{
		{domain.QualityMasterpiece, ChanceMasterpiece * scale},
		{domain.QualityExcellent, ChanceExcellent * scale},
		{domain.QualityOutstanding, ChanceOutstanding * scale},
		{domain.QualityGood, ChanceGood * scale},
	}

	total := 0.0
	for _, t := range tiers {
		total += t.chance
	}
	norm := 1.0
	if total > MaxNonNormalChance {
		norm = MaxNonNormalChance / total
	}

	roll := rng.Float64()
	cumulative := 0.0
	for _, t := range tiers {
		cumulative += t.chance * norm
		if roll < cumulative {
			return t.q
		}
	}
	return domain.QualityNormal
}

// ResolveItem returns a snapshot for a possibly quality-suffixed id with
// quality-multiplied stats. Results are memoized.
func (c *Catalog) ResolveItem(id string) (domain.ItemSnapshot, error) {
	if snap, ok := c.resolved.Get(id); ok {
		return snap, nil
	}
	baseID, q := ParseItemID(id)
	it, err := c.LookupItem(baseID)
	if err != nil {
		return domain.ItemSnapshot{}, err
	}
	snap := domain.ItemSnapshot{
		ID:      id,
		BaseID:  it.ID,
		Name:    it.Name,
		Type:    it.Type,
		Tier:    it.Tier,
		Slot:    it.Slot,
		Quality: q,
		Stats:   it.Stats.Scale(q.Multiplier()),
	}
	if q > domain.QualityNormal {
		snap.Name = q.String() + " " + it.Name
	}
	c.resolved.Add(id, snap)
	return snap, nil
}
