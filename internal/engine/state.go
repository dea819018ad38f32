package engine

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Asside333/HabitHub/internal/config"
)

// SchemaVersion is the persisted save-blob schema version.
const SchemaVersion = 1

// DateLayout is the dateKey wire format (ISO calendar date).
const DateLayout = "2006-01-02"

// Currencies are the spendable balances plus the cumulative XP mirror.
// TotalXP is the sum of all currently granted claim XP: rollbacks reduce it,
// spending never does. All four fields stay non-negative at all times.
type Currencies struct {
	XP      int `json:"xp"`
	Gold    int `json:"gold"`
	TotalXP int `json:"totalXp"`
	Tokens  int `json:"tokens"`
}

// Progress tracks the level and the streak machinery. Level is monotonically
// non-decreasing for the life of the save, even when TotalXP drops.
type Progress struct {
	Level                 int            `json:"level"`
	Streak                int            `json:"streak"`
	StreakShield          int            `json:"streakShield"`
	RestDaysUsedByWeek    map[string]int `json:"restDaysUsedByWeek"`
	VacationDaysRemaining int            `json:"vacationDaysRemaining"`
	LastActiveDate        string         `json:"lastActiveDate"`
	LastTier              Tier           `json:"lastTier"`
	LastShieldRefillMonth string         `json:"lastShieldRefillMonth"`
}

// DailyState is scoped to the single active calendar day and reset whenever
// DateKey changes.
type DailyState struct {
	DateKey              string `json:"dateKey"`
	ObjectivesCompleted  int    `json:"objectivesCompleted"`
	Tier                 Tier   `json:"tier"`
	TierBonusGoldApplied int    `json:"tierBonusGoldApplied"`
	VacationMode         bool   `json:"vacationMode"`
}

// Claim is one reward-ledger entry. Granted is what the cap policy allowed;
// Computed is what the effort table wanted. The record's existence is the
// sole gate against double-granting.
type Claim struct {
	ClaimedAt    time.Time `json:"claimedAt"`
	XPGranted    int       `json:"xpGranted"`
	GoldGranted  int       `json:"goldGranted"`
	XPComputed   int       `json:"xpComputed"`
	GoldComputed int       `json:"goldComputed"`
}

// UnmarshalJSON tolerates the legacy claim shape where granted amounts were
// stored as plain xp/gold and computed amounts were absent.
func (c *Claim) UnmarshalJSON(data []byte) error {
	var raw struct {
		ClaimedAt    string `json:"claimedAt"`
		XP           int    `json:"xp"`
		Gold         int    `json:"gold"`
		XPGranted    *int   `json:"xpGranted"`
		GoldGranted  *int   `json:"goldGranted"`
		XPComputed   int    `json:"xpComputed"`
		GoldComputed int    `json:"goldComputed"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	c.XPGranted = raw.XP
	if raw.XPGranted != nil {
		c.XPGranted = *raw.XPGranted
	}
	c.GoldGranted = raw.Gold
	if raw.GoldGranted != nil {
		c.GoldGranted = *raw.GoldGranted
	}
	c.XPComputed = raw.XPComputed
	c.GoldComputed = raw.GoldComputed
	if ts, err := time.Parse(time.RFC3339, raw.ClaimedAt); err == nil {
		c.ClaimedAt = ts
	}
	return nil
}

// ChestClaim marks a weekly chest as taken for its weekKey.
type ChestClaim struct {
	ClaimedAt   time.Time `json:"claimedAt"`
	ChestTierID string    `json:"chestTierId"`
}

// Claims holds the reward ledger plus the one-time chest unlock records.
type Claims struct {
	RewardClaims map[string]Claim      `json:"rewardClaims"`
	ChestClaims  map[string]ChestClaim `json:"chestClaims"`
}

// WeeklyCycle covers one Monday-keyed calendar week.
type WeeklyCycle struct {
	WeekKey      string          `json:"weekKey"`
	Days         map[string]Tier `json:"days"`
	Score        int             `json:"score"`
	ChestTierID  string          `json:"chestTierId"`
	ChestClaimed bool            `json:"chestClaimed"`
	BossMaxHP    int             `json:"bossMaxHp"`
	BossHP       int             `json:"bossHp"`
	BossDefeated bool            `json:"bossDefeated"`
}

// WeeklyArchive is the snapshot kept when a week rolls over.
type WeeklyArchive struct {
	WeekKey      string `json:"weekKey"`
	Score        int    `json:"score"`
	ChestTierID  string `json:"chestTierId"`
	ChestClaimed bool   `json:"chestClaimed"`
	BossDefeated bool   `json:"bossDefeated"`
	BossMaxHP    int    `json:"bossMaxHp"`
}

type MonthlyCycle struct {
	MonthKey string `json:"monthKey"`
	Points   int    `json:"points"`
	BadgeID  string `json:"badgeId"`
}

// YearlyCycle resets every calendar year; relics and milestones are
// monotonic one-time unlocks, never revoked within the year.
type YearlyCycle struct {
	YearKey           string   `json:"yearKey"`
	Points            int      `json:"points"`
	RelicsUnlocked    []string `json:"relicsUnlocked"`
	MilestonesClaimed []string `json:"milestonesClaimed"`
}

type Cycles struct {
	Weekly            WeeklyCycle     `json:"weekly"`
	WeeklyArchives    []WeeklyArchive `json:"weeklyArchives"`
	BossStreak        int             `json:"bossStreak"`
	Monthly           MonthlyCycle    `json:"monthly"`
	Yearly            YearlyCycle     `json:"yearly"`
	CosmeticInventory []string        `json:"cosmeticInventory"`
	BadgesUnlocked    []string        `json:"badgesUnlocked"`
}

type DebugSettings struct {
	UseDebugDate bool   `json:"useDebugDate"`
	DebugDate    string `json:"debugDate"`
}

// GameState is the single in-memory aggregate owned by the engine. External
// collaborators may read it but must route every mutation through the
// engine's operations.
type GameState struct {
	Version    int           `json:"v"`
	Currencies Currencies    `json:"currencies"`
	Progress   Progress      `json:"progress"`
	Daily      DailyState    `json:"daily"`
	Claims     Claims        `json:"claims"`
	Events     []Event       `json:"eventLog"`
	Debug      DebugSettings `json:"debug"`
	Cycles     Cycles        `json:"cycles"`
}

// NewGameState returns the initial aggregate for a fresh save.
func NewGameState(cfg config.Config) GameState {
	return GameState{
		Version: SchemaVersion,
		Progress: Progress{
			Level:                 1,
			LastTier:              TierNone,
			RestDaysUsedByWeek:    map[string]int{},
			VacationDaysRemaining: cfg.Progression.Streak.Vacation.MaxDaysPerYear,
		},
		Daily: DailyState{Tier: TierNone},
		Claims: Claims{
			RewardClaims: map[string]Claim{},
			ChestClaims:  map[string]ChestClaim{},
		},
		Cycles: Cycles{
			Weekly:            WeeklyCycle{Days: map[string]Tier{}},
			WeeklyArchives:    []WeeklyArchive{},
			CosmeticInventory: []string{},
			BadgesUnlocked:    []string{},
			Yearly:            YearlyCycle{RelicsUnlocked: []string{}, MilestonesClaimed: []string{}},
		},
	}
}

// saveEnvelope is the persisted wrapper around the state blob.
type saveEnvelope struct {
	SchemaVersion int             `json:"schemaVersion"`
	UpdatedAt     string          `json:"updatedAt"`
	State         json.RawMessage `json:"state"`
}

// DecodeSave turns a persisted blob back into a normalized GameState. It
// accepts the enveloped shape, a bare legacy state object, or garbage. The
// worst case is a fresh state, never an error for shape drift alone.
func DecodeSave(data []byte, cfg config.Config) (GameState, error) {
	st := NewGameState(cfg)
	if len(data) == 0 {
		return st, nil
	}

	var env saveEnvelope
	payload := data
	if err := json.Unmarshal(data, &env); err == nil && len(env.State) > 0 {
		payload = env.State
	}
	if err := json.Unmarshal(payload, &st); err != nil {
		return NewGameState(cfg), fmt.Errorf("decode save: %w", err)
	}
	normalizeState(&st, cfg)
	return st, nil
}

// EncodeSave normalizes the aggregate and wraps it in the versioned
// envelope. Invariant-violating states are refused rather than persisted.
func EncodeSave(st *GameState, cfg config.Config, now time.Time) ([]byte, error) {
	normalizeState(st, cfg)
	if err := AssertValid(st); err != nil {
		return nil, err
	}
	state, err := json.Marshal(st)
	if err != nil {
		return nil, fmt.Errorf("encode state: %w", err)
	}
	env := saveEnvelope{
		SchemaVersion: st.Version,
		UpdatedAt:     now.UTC().Format(time.RFC3339),
		State:         state,
	}
	data, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("encode save: %w", err)
	}
	return data, nil
}

func nonNegative(v int) int {
	if v < 0 {
		return 0
	}
	return v
}

// normalizeState clamps every numeric field, re-derives mirrored fields and
// fills missing sub-objects with safe defaults. Called before every save and
// after every load; never trusts shape from storage.
func normalizeState(st *GameState, cfg config.Config) {
	if st.Version < 1 {
		st.Version = SchemaVersion
	}

	if st.Claims.RewardClaims == nil {
		st.Claims.RewardClaims = map[string]Claim{}
	}
	if st.Claims.ChestClaims == nil {
		st.Claims.ChestClaims = map[string]ChestClaim{}
	}
	for key, claim := range st.Claims.RewardClaims {
		claim.XPGranted = nonNegative(claim.XPGranted)
		claim.GoldGranted = nonNegative(claim.GoldGranted)
		if claim.XPComputed < claim.XPGranted {
			claim.XPComputed = claim.XPGranted
		}
		if claim.GoldComputed < claim.GoldGranted {
			claim.GoldComputed = claim.GoldGranted
		}
		st.Claims.RewardClaims[key] = claim
	}

	st.Currencies.XP = nonNegative(st.Currencies.XP)
	st.Currencies.Gold = nonNegative(st.Currencies.Gold)
	st.Currencies.Tokens = nonNegative(st.Currencies.Tokens)
	// Ledger-sum definition of TotalXP: the claims are authoritative.
	st.Currencies.TotalXP = claimedXPTotal(st.Claims.RewardClaims)

	if st.Progress.RestDaysUsedByWeek == nil {
		st.Progress.RestDaysUsedByWeek = map[string]int{}
	}
	st.Progress.Streak = nonNegative(st.Progress.Streak)
	if st.Progress.StreakShield < 0 {
		st.Progress.StreakShield = 0
	}
	if st.Progress.StreakShield > 1 {
		st.Progress.StreakShield = 1
	}
	st.Progress.VacationDaysRemaining = nonNegative(st.Progress.VacationDaysRemaining)
	if !st.Progress.LastTier.IsValid() {
		st.Progress.LastTier = TierNone
	}
	computed := ComputeLevelProgress(cfg.Leveling, st.Currencies.TotalXP)
	if st.Progress.Level < computed.Level {
		st.Progress.Level = computed.Level
	}
	if st.Progress.Level < 1 {
		st.Progress.Level = 1
	}

	st.Daily.ObjectivesCompleted = nonNegative(st.Daily.ObjectivesCompleted)
	st.Daily.TierBonusGoldApplied = nonNegative(st.Daily.TierBonusGoldApplied)
	if !st.Daily.Tier.IsValid() {
		st.Daily.Tier = TierNone
	}

	if st.Cycles.Weekly.Days == nil {
		st.Cycles.Weekly.Days = map[string]Tier{}
	}
	for day, tier := range st.Cycles.Weekly.Days {
		if !tier.IsValid() {
			st.Cycles.Weekly.Days[day] = TierNone
		}
	}
	st.Cycles.Weekly.Score = nonNegative(st.Cycles.Weekly.Score)
	st.Cycles.Weekly.BossMaxHP = nonNegative(st.Cycles.Weekly.BossMaxHP)
	st.Cycles.Weekly.BossHP = nonNegative(st.Cycles.Weekly.BossHP)
	st.Cycles.BossStreak = nonNegative(st.Cycles.BossStreak)
	if st.Cycles.WeeklyArchives == nil {
		st.Cycles.WeeklyArchives = []WeeklyArchive{}
	}
	if max := cfg.Progression.WeeklyArchiveMax; len(st.Cycles.WeeklyArchives) > max {
		st.Cycles.WeeklyArchives = st.Cycles.WeeklyArchives[len(st.Cycles.WeeklyArchives)-max:]
	}
	st.Cycles.Monthly.Points = nonNegative(st.Cycles.Monthly.Points)
	st.Cycles.Yearly.Points = nonNegative(st.Cycles.Yearly.Points)
	if st.Cycles.Yearly.RelicsUnlocked == nil {
		st.Cycles.Yearly.RelicsUnlocked = []string{}
	}
	if st.Cycles.Yearly.MilestonesClaimed == nil {
		st.Cycles.Yearly.MilestonesClaimed = []string{}
	}
	if st.Cycles.CosmeticInventory == nil {
		st.Cycles.CosmeticInventory = []string{}
	}
	if st.Cycles.BadgesUnlocked == nil {
		st.Cycles.BadgesUnlocked = []string{}
	}

	if st.Events == nil {
		st.Events = []Event{}
	}
	if max := cfg.Progression.EventLogMax; len(st.Events) > max {
		st.Events = st.Events[len(st.Events)-max:]
	}
}

// AssertValid is the defensive last line: states that violate the hard
// invariants must never be persisted. Callers prevent these by routing all
// mutation through the engine's operations.
func AssertValid(st *GameState) error {
	var problems []string
	if st.Currencies.XP < 0 {
		problems = append(problems, "currencies.xp is negative")
	}
	if st.Currencies.Gold < 0 {
		problems = append(problems, "currencies.gold is negative")
	}
	if st.Currencies.TotalXP < 0 {
		problems = append(problems, "currencies.totalXp is negative")
	}
	if st.Currencies.Tokens < 0 {
		problems = append(problems, "currencies.tokens is negative")
	}
	if st.Progress.Level < 1 {
		problems = append(problems, "progress.level below 1")
	}
	if st.Claims.RewardClaims == nil || st.Claims.ChestClaims == nil {
		problems = append(problems, "claims maps missing")
	}
	if len(problems) > 0 {
		return errors.New("invalid state: " + problems[0])
	}
	return nil
}

// ClaimKey builds the ledger's idempotence key.
func ClaimKey(dateKey, actionID string) string {
	return dateKey + ":" + actionID
}

func claimedXPTotal(claims map[string]Claim) int {
	total := 0
	for _, c := range claims {
		total += nonNegative(c.XPGranted)
	}
	return total
}
