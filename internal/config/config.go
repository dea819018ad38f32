package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config is the full tuning surface of the engine plus the quest catalog.
// Everything has a playable default; a config file only overrides what it
// names. Reward numbers are balance, not contract: the engine must behave
// correctly for any sanitized Config.
type Config struct {
	Features    Features    `toml:"features"`
	Leveling    Leveling    `toml:"leveling"`
	Economy     Economy     `toml:"economy"`
	Progression Progression `toml:"progression"`
	Quests      []Quest     `toml:"quest"`
}

type Features struct {
	GoldEnabled bool `toml:"gold_enabled"`
}

type Leveling struct {
	BaseXP              int     `toml:"base_xp"`
	Growth              float64 `toml:"growth"`
	LevelUpGoldBase     int     `toml:"level_up_gold_base"`
	LevelUpGoldPerLevel int     `toml:"level_up_gold_per_level"`
}

type EffortScale struct {
	Min     int `toml:"min"`
	Max     int `toml:"max"`
	Default int `toml:"default"`
}

type Economy struct {
	EffortScale          EffortScale `toml:"effort_scale"`
	EffortXPTable        []int       `toml:"effort_xp_table"`
	GoldFromXPRatio      float64     `toml:"gold_from_xp_ratio"`
	DailyXPCapBase       int         `toml:"daily_xp_cap_base"`
	DailyXPCapPerLevel   int         `toml:"daily_xp_cap_per_level"`
	DailyGoldCapBase     int         `toml:"daily_gold_cap_base"`
	DailyGoldCapPerLevel int         `toml:"daily_gold_cap_per_level"`
}

type TierRule struct {
	MinObjectives int `toml:"min_objectives"`
	BonusGold     int `toml:"bonus_gold"`
}

type DailyTiers struct {
	Bronze TierRule `toml:"bronze"`
	Silver TierRule `toml:"silver"`
	Gold   TierRule `toml:"gold"`
}

type RestDayRules struct {
	Enabled    bool `toml:"enabled"`
	MaxPerWeek int  `toml:"max_per_week"`
}

type VacationRules struct {
	Enabled        bool `toml:"enabled"`
	MaxDaysPerYear int  `toml:"max_days_per_year"`
}

type StreakRules struct {
	MinTierForStreak    string        `toml:"min_tier_for_streak"`
	ShieldMonthlyRefill int           `toml:"shield_monthly_refill"`
	RestDays            RestDayRules  `toml:"rest_days"`
	Vacation            VacationRules `toml:"vacation"`
}

type ChestTier struct {
	ID        string `toml:"id"`
	MinScore  int    `toml:"min_score"`
	BonusXP   int    `toml:"bonus_xp"`
	BonusGold int    `toml:"bonus_gold"`
}

type BossRules struct {
	Enabled bool `toml:"enabled"`
	BaseHP  int  `toml:"base_hp"`
}

type WeeklyRules struct {
	TierPoints map[string]int `toml:"tier_points"`
	ChestTiers []ChestTier    `toml:"chest_tiers"`
	Boss       BossRules      `toml:"boss"`
}

type BadgeThreshold struct {
	ID        string `toml:"id"`
	MinPoints int    `toml:"min_points"`
}

type MonthlyRules struct {
	Points          map[string]int   `toml:"points"`
	BadgeThresholds []BadgeThreshold `toml:"badge_thresholds"`
	Cosmetics       []string         `toml:"cosmetics"`
}

type Milestone struct {
	ID        string `toml:"id"`
	MinPoints int    `toml:"min_points"`
	Tokens    int    `toml:"tokens"`
}

type YearlyRules struct {
	RelicEveryPoints int         `toml:"relic_every_points"`
	Relics           []string    `toml:"relics"`
	Milestones       []Milestone `toml:"milestones"`
}

type Progression struct {
	DailyTiers       DailyTiers   `toml:"daily_tiers"`
	Streak           StreakRules  `toml:"streak"`
	Weekly           WeeklyRules  `toml:"weekly"`
	Monthly          MonthlyRules `toml:"monthly"`
	Yearly           YearlyRules  `toml:"yearly"`
	EventLogMax      int          `toml:"event_log_max"`
	WeeklyArchiveMax int          `toml:"weekly_archive_max"`
}

// Quest is a read-only catalog record. The engine never creates or deletes
// quests; it only claims rewards against their ids.
type Quest struct {
	ID     string `toml:"id"`
	Title  string `toml:"title"`
	Effort int    `toml:"effort"`
	XP     int    `toml:"xp"` // legacy reward hint, used to estimate effort when effort is absent
	Gold   int    `toml:"gold"`
	Icon   string `toml:"icon"`
	Hidden bool   `toml:"hidden"`
}

func Default() Config {
	return Config{
		Features: Features{GoldEnabled: true},
		Leveling: Leveling{
			BaseXP:              50,
			Growth:              1.25,
			LevelUpGoldBase:     10,
			LevelUpGoldPerLevel: 2,
		},
		Economy: Economy{
			EffortScale:          EffortScale{Min: 1, Max: 10, Default: 5},
			EffortXPTable:        []int{6, 9, 12, 16, 20, 25, 31, 38, 46, 55},
			GoldFromXPRatio:      0.5,
			DailyXPCapBase:       150,
			DailyXPCapPerLevel:   10,
			DailyGoldCapBase:     75,
			DailyGoldCapPerLevel: 5,
		},
		Progression: Progression{
			DailyTiers: DailyTiers{
				Bronze: TierRule{MinObjectives: 1, BonusGold: 5},
				Silver: TierRule{MinObjectives: 3, BonusGold: 15},
				Gold:   TierRule{MinObjectives: 5, BonusGold: 30},
			},
			Streak: StreakRules{
				MinTierForStreak:    "silver",
				ShieldMonthlyRefill: 1,
				RestDays:            RestDayRules{Enabled: true, MaxPerWeek: 1},
				Vacation:            VacationRules{Enabled: true, MaxDaysPerYear: 15},
			},
			Weekly: WeeklyRules{
				TierPoints: map[string]int{"bronze": 1, "silver": 2, "gold": 3},
				ChestTiers: []ChestTier{
					{ID: "bronze", MinScore: 6, BonusXP: 20, BonusGold: 15},
					{ID: "silver", MinScore: 10, BonusXP: 40, BonusGold: 30},
					{ID: "gold", MinScore: 15, BonusXP: 80, BonusGold: 60},
				},
				Boss: BossRules{Enabled: true, BaseHP: 12},
			},
			Monthly: MonthlyRules{
				Points: map[string]int{"bronze": 1, "silver": 2, "gold": 3},
				BadgeThresholds: []BadgeThreshold{
					{ID: "steady", MinPoints: 30},
					{ID: "driven", MinPoints: 60},
					{ID: "heroic", MinPoints: 90},
				},
				Cosmetics: []string{"frame_bronze", "frame_silver", "frame_gold"},
			},
			Yearly: YearlyRules{
				RelicEveryPoints: 180,
				Relics:           []string{"compass", "lantern", "banner", "crown", "phoenix", "comet"},
				Milestones: []Milestone{
					{ID: "year_bronze", MinPoints: 120, Tokens: 1},
					{ID: "year_silver", MinPoints: 360, Tokens: 2},
					{ID: "year_gold", MinPoints: 720, Tokens: 3},
				},
			},
			EventLogMax:      200,
			WeeklyArchiveMax: 16,
		},
		Quests: []Quest{
			{ID: "water", Title: "Drink 1L of water", Effort: 2, Gold: 5, Icon: "water"},
			{ID: "walk", Title: "Walk 20 minutes", Effort: 5, Gold: 10, Icon: "walk"},
			{ID: "read", Title: "Read 15 minutes", Effort: 4, Gold: 8, Icon: "book"},
		},
	}
}

// DefaultPath returns the per-user config location.
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(homeDir, ".habithub.toml"), nil
}

// Load reads the TOML config at path over the defaults. A missing file is
// not an error: defaults apply.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg.sanitized(), nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg.sanitized(), nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode config %s: %w", path, err)
	}
	return cfg.sanitized(), nil
}

func clampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// sanitized clamps every knob into its legal range so the engine never sees
// a value it would have to defend against.
func (c Config) sanitized() Config {
	if c.Leveling.BaseXP < 1 {
		c.Leveling.BaseXP = 1
	}
	if c.Leveling.Growth < 1.05 {
		c.Leveling.Growth = 1.05
	}
	if c.Leveling.Growth > 2 {
		c.Leveling.Growth = 2
	}
	if c.Leveling.LevelUpGoldBase < 0 {
		c.Leveling.LevelUpGoldBase = 0
	}
	if c.Leveling.LevelUpGoldPerLevel < 0 {
		c.Leveling.LevelUpGoldPerLevel = 0
	}

	c.Economy.EffortScale.Min = clampInt(c.Economy.EffortScale.Min, 1, 10)
	c.Economy.EffortScale.Max = clampInt(c.Economy.EffortScale.Max, c.Economy.EffortScale.Min, 10)
	c.Economy.EffortScale.Default = clampInt(c.Economy.EffortScale.Default, c.Economy.EffortScale.Min, c.Economy.EffortScale.Max)
	if len(c.Economy.EffortXPTable) == 0 {
		c.Economy.EffortXPTable = Default().Economy.EffortXPTable
	}
	for i, xp := range c.Economy.EffortXPTable {
		if xp < 0 {
			c.Economy.EffortXPTable[i] = 0
		}
	}
	if c.Economy.GoldFromXPRatio < 0 {
		c.Economy.GoldFromXPRatio = 0
	}
	if c.Economy.DailyXPCapBase < 0 {
		c.Economy.DailyXPCapBase = 0
	}
	if c.Economy.DailyXPCapPerLevel < 0 {
		c.Economy.DailyXPCapPerLevel = 0
	}
	if c.Economy.DailyGoldCapBase < 0 {
		c.Economy.DailyGoldCapBase = 0
	}
	if c.Economy.DailyGoldCapPerLevel < 0 {
		c.Economy.DailyGoldCapPerLevel = 0
	}

	p := &c.Progression
	if p.DailyTiers.Bronze.MinObjectives < 1 {
		p.DailyTiers.Bronze.MinObjectives = 1
	}
	if p.DailyTiers.Silver.MinObjectives < p.DailyTiers.Bronze.MinObjectives {
		p.DailyTiers.Silver.MinObjectives = p.DailyTiers.Bronze.MinObjectives
	}
	if p.DailyTiers.Gold.MinObjectives < p.DailyTiers.Silver.MinObjectives {
		p.DailyTiers.Gold.MinObjectives = p.DailyTiers.Silver.MinObjectives
	}
	for _, r := range []*TierRule{&p.DailyTiers.Bronze, &p.DailyTiers.Silver, &p.DailyTiers.Gold} {
		if r.BonusGold < 0 {
			r.BonusGold = 0
		}
	}
	switch p.Streak.MinTierForStreak {
	case "bronze", "silver", "gold":
	default:
		p.Streak.MinTierForStreak = "silver"
	}
	if p.Streak.ShieldMonthlyRefill < 0 {
		p.Streak.ShieldMonthlyRefill = 0
	}
	if p.Streak.RestDays.MaxPerWeek < 0 {
		p.Streak.RestDays.MaxPerWeek = 0
	}
	if p.Streak.Vacation.MaxDaysPerYear < 0 {
		p.Streak.Vacation.MaxDaysPerYear = 0
	}
	if p.Weekly.Boss.BaseHP < 1 {
		p.Weekly.Boss.BaseHP = 1
	}
	if p.Yearly.RelicEveryPoints < 1 {
		p.Yearly.RelicEveryPoints = 1
	}
	if p.EventLogMax < 1 {
		p.EventLogMax = 1
	}
	if p.WeeklyArchiveMax < 1 {
		p.WeeklyArchiveMax = 1
	}

	quests := c.Quests[:0]
	for _, q := range c.Quests {
		if q.ID == "" {
			continue
		}
		if q.Effort == 0 && q.XP > 0 {
			q.Effort = estimateEffort(c.Economy, q.XP)
		}
		if q.Effort == 0 {
			q.Effort = c.Economy.EffortScale.Default
		}
		q.Effort = clampInt(q.Effort, c.Economy.EffortScale.Min, c.Economy.EffortScale.Max)
		quests = append(quests, q)
	}
	c.Quests = quests
	return c
}

// estimateEffort maps a legacy flat xp reward onto the effort scale by
// picking the table entry closest to it.
func estimateEffort(eco Economy, xp int) int {
	best := eco.EffortScale.Default
	bestDelta := -1
	for effort := eco.EffortScale.Min; effort <= eco.EffortScale.Max; effort++ {
		idx := effort - 1
		tableXP := 0
		if idx >= 0 && idx < len(eco.EffortXPTable) {
			tableXP = eco.EffortXPTable[idx]
		}
		delta := tableXP - xp
		if delta < 0 {
			delta = -delta
		}
		if bestDelta < 0 || delta < bestDelta {
			bestDelta = delta
			best = effort
		}
	}
	return best
}

// QuestByID looks up a catalog record.
func (c Config) QuestByID(id string) (Quest, bool) {
	for _, q := range c.Quests {
		if q.ID == id {
			return q, true
		}
	}
	return Quest{}, false
}

// VisibleQuests returns the catalog minus hidden entries.
func (c Config) VisibleQuests() []Quest {
	out := make([]Quest, 0, len(c.Quests))
	for _, q := range c.Quests {
		if !q.Hidden {
			out = append(out, q)
		}
	}
	return out
}
