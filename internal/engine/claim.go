package engine

import (
	"context"

	"github.com/Asside333/HabitHub/internal/config"
)

// DailyCaps are the anti-exploit ceilings for one dateKey at a given level.
type DailyCaps struct {
	XPPerDay   int
	GoldPerDay int
}

func (s *Service) dailyCaps(level int) DailyCaps {
	if level < 1 {
		level = 1
	}
	offset := level - 1
	caps := DailyCaps{
		XPPerDay: s.cfg.Economy.DailyXPCapBase + s.cfg.Economy.DailyXPCapPerLevel*offset,
	}
	if s.goldEnabled() {
		caps.GoldPerDay = s.cfg.Economy.DailyGoldCapBase + s.cfg.Economy.DailyGoldCapPerLevel*offset
	}
	return caps
}

// dailyRewardTotals sums the granted amounts of every ledger claim for the
// given dateKey. Caps are always re-evaluated from the ledger's current
// contents; there is no separate counter to desynchronize.
func (s *Service) dailyRewardTotals(dateKey string) (xp, gold int) {
	prefix := dateKey + ":"
	for key, claim := range s.state.Claims.RewardClaims {
		if len(key) < len(prefix) || key[:len(prefix)] != prefix {
			continue
		}
		xp += nonNegative(claim.XPGranted)
		gold += nonNegative(claim.GoldGranted)
	}
	return xp, gold
}

// CapDecision is the cap policy's verdict for one prospective claim.
type CapDecision struct {
	XPGranted     int
	GoldGranted   int
	XPRemaining   int
	GoldRemaining int
	CapXPPerDay   int
	CapGoldPerDay int
	CapReached    bool
	Partial       bool
}

func (s *Service) applyDailyCaps(dateKey string, xpWanted, goldWanted, level int) CapDecision {
	caps := s.dailyCaps(level)
	todayXP, todayGold := s.dailyRewardTotals(dateKey)

	d := CapDecision{
		XPRemaining:   nonNegative(caps.XPPerDay - todayXP),
		GoldRemaining: nonNegative(caps.GoldPerDay - todayGold),
		CapXPPerDay:   caps.XPPerDay,
		CapGoldPerDay: caps.GoldPerDay,
	}
	xpWanted = nonNegative(xpWanted)
	goldWanted = nonNegative(goldWanted)
	d.XPGranted = min(xpWanted, d.XPRemaining)
	d.GoldGranted = min(goldWanted, d.GoldRemaining)
	d.CapReached = d.XPGranted == 0 && d.GoldGranted == 0 && (xpWanted > 0 || goldWanted > 0)
	d.Partial = d.XPGranted < xpWanted || d.GoldGranted < goldWanted
	return d
}

// EffectiveReward is a quest's effort-table reward after the cap policy.
type EffectiveReward struct {
	Effort       int
	XPComputed   int
	GoldComputed int
	XPGranted    int
	GoldGranted  int
	Cap          CapDecision
}

// RewardPreview returns a quest's uncapped effort-table reward. Pure; used
// by listing surfaces.
func RewardPreview(cfg config.Config, q config.Quest) (xp, gold int) {
	idx := q.Effort - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(cfg.Economy.EffortXPTable) {
		idx = len(cfg.Economy.EffortXPTable) - 1
	}
	xp = nonNegative(cfg.Economy.EffortXPTable[idx])
	if cfg.Features.GoldEnabled {
		gold = int(float64(xp)*cfg.Economy.GoldFromXPRatio + 0.5)
	}
	return xp, gold
}

func (s *Service) computeEffectiveReward(q config.Quest, dateKey string) EffectiveReward {
	xpComputed, goldComputed := RewardPreview(s.cfg, q)
	decision := s.applyDailyCaps(dateKey, xpComputed, goldComputed, s.state.Progress.Level)
	return EffectiveReward{
		Effort:       q.Effort,
		XPComputed:   xpComputed,
		GoldComputed: goldComputed,
		XPGranted:    decision.XPGranted,
		GoldGranted:  decision.GoldGranted,
		Cap:          decision,
	}
}

// PreviewReward computes today's effective (capped) reward for a quest
// without touching any state.
func (s *Service) PreviewReward(actionID string) (EffectiveReward, bool) {
	q, ok := s.cfg.QuestByID(actionID)
	if !ok {
		return EffectiveReward{}, false
	}
	return s.computeEffectiveReward(q, s.activeDate()), true
}

func (s *Service) logCapSnapshot(dateKey, reason, actionID string) {
	caps := s.dailyCaps(s.state.Progress.Level)
	xp, gold := s.dailyRewardTotals(dateKey)
	s.logEvent(EventCapRecalculated, map[string]any{
		"reason":           reason,
		"actionId":         actionID,
		"dateKey":          dateKey,
		"totalXpGranted":   xp,
		"totalGoldGranted": gold,
		"xpRemaining":      nonNegative(caps.XPPerDay - xp),
		"goldRemaining":    nonNegative(caps.GoldPerDay - gold),
		"capXpPerDay":      caps.XPPerDay,
		"capGoldPerDay":    caps.GoldPerDay,
	})
}

// ClaimReward grants a quest's reward exactly once per (actionId, dateKey).
// A second claim for the same key is a no-op with reason already_claimed;
// that record's existence is the whole idempotence contract. An empty
// dateKey means today.
func (s *Service) ClaimReward(ctx context.Context, actionID, dateKey string) (ClaimResult, error) {
	if actionID == "" {
		return ClaimResult{Reason: ReasonInvalidInput}, nil
	}
	s.handleDayChange()
	if dateKey == "" {
		dateKey = s.activeDate()
	}
	key := ClaimKey(dateKey, actionID)
	if _, exists := s.state.Claims.RewardClaims[key]; exists {
		return ClaimResult{Reason: ReasonAlreadyClaimed}, nil
	}
	quest, ok := s.cfg.QuestByID(actionID)
	if !ok {
		return ClaimResult{Reason: ReasonInvalidInput}, nil
	}

	reward := s.computeEffectiveReward(quest, dateKey)
	s.state.Claims.RewardClaims[key] = Claim{
		ClaimedAt:    s.clock.Now().UTC(),
		XPGranted:    reward.XPGranted,
		GoldGranted:  reward.GoldGranted,
		XPComputed:   reward.XPComputed,
		GoldComputed: reward.GoldComputed,
	}
	levelUp := s.applyDelta(reward.XPGranted, reward.GoldGranted)

	s.logEvent(EventClaimReward, map[string]any{
		"actionId":     actionID,
		"dateKey":      dateKey,
		"xpDelta":      reward.XPGranted,
		"goldDelta":    reward.GoldGranted,
		"xpComputed":   reward.XPComputed,
		"goldComputed": reward.GoldComputed,
		"effort":       reward.Effort,
	})
	if reward.Cap.Partial {
		s.logEvent(EventCapApplied, map[string]any{
			"actionId":      actionID,
			"dateKey":       dateKey,
			"xpComputed":    reward.XPComputed,
			"goldComputed":  reward.GoldComputed,
			"xpGranted":     reward.XPGranted,
			"goldGranted":   reward.GoldGranted,
			"capXpPerDay":   reward.Cap.CapXPPerDay,
			"capGoldPerDay": reward.Cap.CapGoldPerDay,
		})
	}
	s.logCapSnapshot(dateKey, "claim", actionID)
	s.refreshDailyProgress()

	reason := ReasonClaimed
	switch {
	case reward.Cap.CapReached:
		reason = ReasonCapReached
	case reward.Cap.Partial:
		reason = ReasonClaimPartial
	}
	res := ClaimResult{
		Applied:   true,
		Reason:    reason,
		XPDelta:   reward.XPGranted,
		GoldDelta: reward.GoldGranted,
		LevelUp:   levelUp,
	}
	if err := s.persist(ctx); err != nil {
		return ClaimResult{}, err
	}
	return res, nil
}

// RollbackClaim reverses a prior claim using the stored granted amounts, not
// a recomputation, so the reversal stays exact even if effort tables or caps
// changed since the claim. The ledger entry is deleted.
func (s *Service) RollbackClaim(ctx context.Context, actionID, dateKey string) (ClaimResult, error) {
	if actionID == "" {
		return ClaimResult{Reason: ReasonInvalidInput}, nil
	}
	s.handleDayChange()
	if dateKey == "" {
		dateKey = s.activeDate()
	}
	key := ClaimKey(dateKey, actionID)
	claim, exists := s.state.Claims.RewardClaims[key]
	if !exists {
		return ClaimResult{Reason: ReasonMissingClaim}, nil
	}

	xpBack := nonNegative(claim.XPGranted)
	goldBack := nonNegative(claim.GoldGranted)
	delete(s.state.Claims.RewardClaims, key)
	s.applyDelta(-xpBack, -goldBack)

	s.logEvent(EventRollbackReward, map[string]any{
		"actionId":  actionID,
		"dateKey":   dateKey,
		"xpDelta":   -xpBack,
		"goldDelta": -goldBack,
	})
	s.logCapSnapshot(dateKey, "rollback", actionID)
	s.refreshDailyProgress()

	res := ClaimResult{
		Applied:   true,
		Reason:    ReasonRolledBack,
		XPDelta:   -xpBack,
		GoldDelta: -goldBack,
	}
	if err := s.persist(ctx); err != nil {
		return ClaimResult{}, err
	}
	return res, nil
}

// HasClaim reports whether the ledger holds a claim for (actionId, dateKey).
func (s *Service) HasClaim(actionID, dateKey string) bool {
	if dateKey == "" {
		dateKey = s.activeDate()
	}
	_, ok := s.state.Claims.RewardClaims[ClaimKey(dateKey, actionID)]
	return ok
}
