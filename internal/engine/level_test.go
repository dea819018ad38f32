package engine

import (
	"testing"

	"github.com/Asside333/HabitHub/internal/config"
)

func levelingFixture() config.Leveling {
	return config.Leveling{
		BaseXP:              50,
		Growth:              1.25,
		LevelUpGoldBase:     10,
		LevelUpGoldPerLevel: 2,
	}
}

func TestXPForNextLevel(t *testing.T) {
	cfg := levelingFixture()
	cases := []struct {
		level int
		want  int
	}{
		{-3, 50}, // clamps to level 1
		{0, 50},
		{1, 50},
		{2, 63}, // round(50 * 1.25)
		{3, 78}, // round(50 * 1.5625)
	}
	for _, tc := range cases {
		if got := XPForNextLevel(cfg, tc.level); got != tc.want {
			t.Errorf("XPForNextLevel(%d) = %d, want %d", tc.level, got, tc.want)
		}
	}
}

func TestXPForNextLevelNeverBelowOne(t *testing.T) {
	cfg := config.Leveling{BaseXP: 0, Growth: 1.0}
	if got := XPForNextLevel(cfg, 5); got != 1 {
		t.Fatalf("floor = %d, want 1", got)
	}
}

func TestComputeLevelProgress(t *testing.T) {
	cfg := levelingFixture()
	cases := []struct {
		totalXP   string
		xp        int
		level     int
		into      int
		remaining int
	}{
		{"zero", 0, 1, 0, 50},
		{"just short", 49, 1, 49, 1},
		{"exactly one level", 50, 2, 0, 63},
		{"into level two", 70, 2, 20, 43},
		{"two levels", 113, 3, 0, 78},
		{"negative clamps", -5, 1, 0, 50},
	}
	for _, tc := range cases {
		got := ComputeLevelProgress(cfg, tc.xp)
		if got.Level != tc.level || got.XPIntoLevel != tc.into || got.XPRemaining != tc.remaining {
			t.Errorf("%s: got level %d into %d remaining %d, want %d/%d/%d",
				tc.totalXP, got.Level, got.XPIntoLevel, got.XPRemaining, tc.level, tc.into, tc.remaining)
		}
	}
}

func TestComputeLevelProgressAtLevelPinned(t *testing.T) {
	cfg := levelingFixture()

	// Total below the pinned level's floor: progress shows 0 into the level.
	got := ComputeLevelProgressAtLevel(cfg, 10, 2)
	if got.Level != 2 || got.XPIntoLevel != 0 || got.XPNeeded != 63 {
		t.Fatalf("pinned below floor: %+v", got)
	}

	// Total above the pinned level's ceiling clamps to full.
	got = ComputeLevelProgressAtLevel(cfg, 1000, 2)
	if got.XPIntoLevel != got.XPNeeded {
		t.Fatalf("pinned above ceiling: %+v", got)
	}
}

func TestLevelUpGold(t *testing.T) {
	cfg := levelingFixture()
	if got := levelUpGold(cfg, 1, 2); got != 12 {
		t.Fatalf("1->2 gold = %d, want 12", got)
	}
	// 1->3 crosses two levels: (10+2*1) + (10+2*2) = 26.
	if got := levelUpGold(cfg, 1, 3); got != 26 {
		t.Fatalf("1->3 gold = %d, want 26", got)
	}
	if got := levelUpGold(cfg, 3, 3); got != 0 {
		t.Fatalf("no level-up gold = %d, want 0", got)
	}
}
