package progression

import (
	"math"
	"sort"
)

// cumulative[L] is the total XP needed to reach level L. Index 0 is unused.
var cumulative = buildCurve()

func buildCurve() []int64 {
	curve := make([]int64, MaxLevel+2)
	for level := 2; level <= MaxLevel+1; level++ {
		curve[level] = curve[level-1] + XPToNext(level-1)
	}
	return curve
}

// XPToNext returns the XP needed to advance from level to level+1
func XPToNext(level int) int64 {
	if level < 1 {
		level = 1
	}
	return int64(BaseXP * math.Pow(Growth, float64(level-1)))
}

// CumulativeXP returns the total XP required to reach a level from level 1
func CumulativeXP(level int) int64 {
	switch {
	case level <= 1:
		return 0
	case level > MaxLevel+1:
		level = MaxLevel + 1
	}
	return cumulative[level]
}

// LevelForXP returns the unique L with CumulativeXP(L) <= totalXP < CumulativeXP(L+1), capped at MaxLevel
func LevelForXP(totalXP int64) int {
	if totalXP <= 0 {
		return 1
	}
	// first level whose requirement exceeds totalXP, minus one
	idx := sort.Search(MaxLevel, func(i int) bool {
		return cumulative[i+2] > totalXP
	})
	level := idx + 1
	if level > MaxLevel {
		return MaxLevel
	}
	return level
}

// Progress returns the level and the XP still needed to reach the next level
func Progress(totalXP int64) (level int, xpToNext int64) {
	level = LevelForXP(totalXP)
	if level >= MaxLevel {
		return MaxLevel, 0
	}
	return level, CumulativeXP(level+1) - totalXP
}
