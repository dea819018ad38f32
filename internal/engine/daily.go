package engine

import (
	"context"

	"github.com/Asside333/HabitHub/internal/config"
)

// computeTier returns the highest configured tier whose objective threshold
// the count satisfies. Tiers with a non-positive threshold are disabled.
func computeTier(cfg config.Config, completed int) Tier {
	tiers := cfg.Progression.DailyTiers
	check := func(rule config.TierRule) bool {
		return rule.MinObjectives > 0 && completed >= rule.MinObjectives
	}
	switch {
	case check(tiers.Gold):
		return TierGold
	case check(tiers.Silver):
		return TierSilver
	case check(tiers.Bronze):
		return TierBronze
	default:
		return TierNone
	}
}

func tierBonusGold(cfg config.Config, tier Tier) int {
	if !cfg.Features.GoldEnabled {
		return 0
	}
	switch tier {
	case TierGold:
		return nonNegative(cfg.Progression.DailyTiers.Gold.BonusGold)
	case TierSilver:
		return nonNegative(cfg.Progression.DailyTiers.Silver.BonusGold)
	case TierBronze:
		return nonNegative(cfg.Progression.DailyTiers.Bronze.BonusGold)
	default:
		return 0
	}
}

// tierBonusDelta is the adjustment needed to move the applied bonus to the
// desired one. Upgrades pay the difference, downgrades retract it, so the
// bonus is never double paid no matter how completions churn within a day.
func tierBonusDelta(desired, applied int) int {
	return desired - applied
}

// refreshDailyProgress recomputes today's objective count and tier from the
// claim ledger and settles the tier bonus via a delta against what was
// already applied.
func (s *Service) refreshDailyProgress() {
	today := s.activeDate()
	if s.state.Daily.DateKey != today {
		s.state.Daily = DailyState{DateKey: today}
	}

	prefix := today + ":"
	completed := 0
	for key := range s.state.Claims.RewardClaims {
		if len(key) > len(prefix) && key[:len(prefix)] == prefix {
			completed++
		}
	}

	tier := computeTier(s.cfg, completed)
	desired := tierBonusGold(s.cfg, tier)
	if delta := tierBonusDelta(desired, s.state.Daily.TierBonusGoldApplied); delta != 0 {
		s.applyDelta(0, delta)
		s.state.Daily.TierBonusGoldApplied = desired
		s.logEvent(EventTierBonusAdjust, map[string]any{
			"dateKey":   today,
			"tier":      string(tier),
			"goldDelta": delta,
			"applied":   desired,
		})
	}
	s.state.Daily.ObjectivesCompleted = completed
	s.state.Daily.Tier = tier
}

// EnsureDailyProgress runs the day-change pipeline if needed, refreshes the
// tier tracker and persists. Read surfaces call it before rendering.
func (s *Service) EnsureDailyProgress(ctx context.Context) error {
	s.handleDayChange()
	s.refreshDailyProgress()
	return s.persist(ctx)
}
