package engine

import (
	"math"

	"github.com/Asside333/HabitHub/internal/config"
)

// LevelProgress describes where a cumulative XP total sits on the curve.
type LevelProgress struct {
	Level       int
	XPIntoLevel int
	XPNeeded    int
	XPRemaining int
	Ratio       float64
}

// XPForNextLevel returns the XP needed to clear the given level:
// round(baseXp * growth^(level-1)), never below 1.
func XPForNextLevel(cfg config.Leveling, level int) int {
	if level < 1 {
		level = 1
	}
	need := int(math.Round(float64(cfg.BaseXP) * math.Pow(cfg.Growth, float64(level-1))))
	if need < 1 {
		need = 1
	}
	return need
}

// ComputeLevelProgress walks thresholds from level 1, consuming each level's
// requirement while enough XP remains. O(level), which is fine for the small
// level counts a habit economy produces.
func ComputeLevelProgress(cfg config.Leveling, totalXP int) LevelProgress {
	level := 1
	remaining := nonNegative(totalXP)
	for remaining >= XPForNextLevel(cfg, level) {
		remaining -= XPForNextLevel(cfg, level)
		level++
	}
	return progressAt(cfg, level, remaining)
}

// XPToReachLevel returns the cumulative XP required to arrive at level.
func XPToReachLevel(cfg config.Leveling, level int) int {
	total := 0
	for l := 1; l < level; l++ {
		total += XPForNextLevel(cfg, l)
	}
	return total
}

// ComputeLevelProgressAtLevel computes progress pinned to a given level.
// Used wherever the displayed level must not regress: after a rollback the
// total may sit below the level's floor, in which case XPIntoLevel is 0.
func ComputeLevelProgressAtLevel(cfg config.Leveling, totalXP, level int) LevelProgress {
	if level < 1 {
		level = 1
	}
	into := nonNegative(totalXP) - XPToReachLevel(cfg, level)
	needed := XPForNextLevel(cfg, level)
	if into < 0 {
		into = 0
	}
	if into > needed {
		into = needed
	}
	return progressAt(cfg, level, into)
}

func progressAt(cfg config.Leveling, level, into int) LevelProgress {
	needed := XPForNextLevel(cfg, level)
	ratio := 0.0
	if needed > 0 {
		ratio = float64(into) / float64(needed)
	}
	return LevelProgress{
		Level:       level,
		XPIntoLevel: into,
		XPNeeded:    needed,
		XPRemaining: nonNegative(needed - into),
		Ratio:       ratio,
	}
}

// levelUpGold sums the gold bonus for every level crossed in (from, to].
func levelUpGold(cfg config.Leveling, from, to int) int {
	bonus := 0
	for level := from + 1; level <= to; level++ {
		bonus += cfg.LevelUpGoldBase + (level-1)*cfg.LevelUpGoldPerLevel
	}
	return bonus
}
