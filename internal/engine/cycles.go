package engine

import (
	"context"
	"slices"
	"time"

	"github.com/Asside333/HabitHub/internal/config"
)

// WeekKey returns the Monday of the dateKey's ISO week as a dateKey.
func WeekKey(dateKey string) string {
	t, err := time.Parse(DateLayout, dateKey)
	if err != nil {
		return dateKey
	}
	offset := (int(t.Weekday()) + 6) % 7
	return t.AddDate(0, 0, -offset).Format(DateLayout)
}

// MonthKey returns the dateKey's "YYYY-MM" prefix.
func MonthKey(dateKey string) string {
	if len(dateKey) < 7 {
		return dateKey
	}
	return dateKey[:7]
}

// YearKey returns the dateKey's "YYYY" prefix.
func YearKey(dateKey string) string {
	if len(dateKey) < 4 {
		return dateKey
	}
	return dateKey[:4]
}

func weeklyTierPoints(cfg config.Config, tier Tier) int {
	return nonNegative(cfg.Progression.Weekly.TierPoints[string(tier)])
}

func monthlyTierPoints(cfg config.Config, tier Tier) int {
	return nonNegative(cfg.Progression.Monthly.Points[string(tier)])
}

// chestTierFor picks the best chest the score qualifies for: the tier with
// the highest MinScore still at or below the score.
func chestTierFor(cfg config.Config, score int) (config.ChestTier, bool) {
	var best config.ChestTier
	found := false
	for _, tier := range cfg.Progression.Weekly.ChestTiers {
		if tier.MinScore <= score && (!found || tier.MinScore > best.MinScore) {
			best = tier
			found = true
		}
	}
	return best, found
}

// ensureWeeklyCycle rolls the weekly cycle forward when the week changed.
// The finished week is archived into a bounded ring, and a defeated boss
// carries its streak into the next week's HP.
func (s *Service) ensureWeeklyCycle(weekKey string) {
	w := &s.state.Cycles.Weekly
	if w.WeekKey == weekKey {
		return
	}
	if w.WeekKey != "" {
		s.state.Cycles.WeeklyArchives = append(s.state.Cycles.WeeklyArchives, WeeklyArchive{
			WeekKey:      w.WeekKey,
			Score:        w.Score,
			ChestTierID:  w.ChestTierID,
			ChestClaimed: w.ChestClaimed,
			BossDefeated: w.BossDefeated,
			BossMaxHP:    w.BossMaxHP,
		})
		if max := s.cfg.Progression.WeeklyArchiveMax; len(s.state.Cycles.WeeklyArchives) > max {
			s.state.Cycles.WeeklyArchives = s.state.Cycles.WeeklyArchives[len(s.state.Cycles.WeeklyArchives)-max:]
		}
		if s.cfg.Progression.Weekly.Boss.Enabled && w.BossDefeated {
			s.state.Cycles.BossStreak++
		} else {
			s.state.Cycles.BossStreak = 0
		}
		s.logEvent(EventWeekArchived, map[string]any{
			"weekKey":      w.WeekKey,
			"score":        w.Score,
			"chestTierId":  w.ChestTierID,
			"bossDefeated": w.BossDefeated,
			"bossStreak":   s.state.Cycles.BossStreak,
		})
	}

	hp := 0
	if s.cfg.Progression.Weekly.Boss.Enabled {
		hp = s.cfg.Progression.Weekly.Boss.BaseHP + 2*s.state.Cycles.BossStreak
	}
	s.state.Cycles.Weekly = WeeklyCycle{
		WeekKey:   weekKey,
		Days:      map[string]Tier{},
		BossMaxHP: hp,
		BossHP:    hp,
	}
	s.logEvent(EventWeekStarted, map[string]any{
		"weekKey":   weekKey,
		"bossMaxHp": hp,
	})
}

func (s *Service) ensureMonthlyCycle(monthKey string) {
	if s.state.Cycles.Monthly.MonthKey == monthKey {
		return
	}
	s.state.Cycles.Monthly = MonthlyCycle{MonthKey: monthKey}
	s.logEvent(EventMonthStarted, map[string]any{"monthKey": monthKey})
}

// ensureYearlyCycle resets the yearly counters and restores the vacation
// budget. Relics and milestones start over; badges and cosmetics earned in
// past years stay in the sticky collections.
func (s *Service) ensureYearlyCycle(yearKey string) {
	if s.state.Cycles.Yearly.YearKey == yearKey {
		return
	}
	s.state.Cycles.Yearly = YearlyCycle{
		YearKey:           yearKey,
		RelicsUnlocked:    []string{},
		MilestonesClaimed: []string{},
	}
	if s.cfg.Progression.Streak.Vacation.Enabled {
		s.state.Progress.VacationDaysRemaining = s.cfg.Progression.Streak.Vacation.MaxDaysPerYear
	}
	s.logEvent(EventYearStarted, map[string]any{"yearKey": yearKey})
}

// finalizeWeeklyFromTier records one closed day's tier into the current
// weekly cycle. Each dateKey contributes at most once regardless of how
// often the pipeline runs. The day-change pipeline rolls the cycle forward
// before closing the previous day, so this never re-keys the week itself.
func (s *Service) finalizeWeeklyFromTier(dateKey string, tier Tier) {
	if dateKey == "" {
		return
	}
	w := &s.state.Cycles.Weekly
	if _, recorded := w.Days[dateKey]; recorded {
		return
	}
	w.Days[dateKey] = tier

	points := weeklyTierPoints(s.cfg, tier)
	w.Score += points
	w.ChestTierID = ""
	if chest, ok := chestTierFor(s.cfg, w.Score); ok {
		w.ChestTierID = chest.ID
	}
	if s.cfg.Progression.Weekly.Boss.Enabled && !w.BossDefeated && points > 0 {
		w.BossHP = nonNegative(w.BossHP - points)
		if w.BossHP == 0 {
			w.BossDefeated = true
		}
	}
	s.logEvent(EventWeekDayRecorded, map[string]any{
		"weekKey": w.WeekKey,
		"dateKey": dateKey,
		"tier":    string(tier),
		"points":  points,
		"score":   w.Score,
		"bossHp":  w.BossHP,
	})

	s.updateLongTermProgress(tier)
}

// updateLongTermProgress feeds a closed day's tier into the current monthly
// and yearly cycles. The day-change pipeline has already rolled them, so a
// day closed across a boundary credits the new bucket.
func (s *Service) updateLongTermProgress(tier Tier) {
	points := monthlyTierPoints(s.cfg, tier)
	if points == 0 {
		return
	}
	s.state.Cycles.Monthly.Points += points
	s.checkMonthlyBadge()

	s.state.Cycles.Yearly.Points += points
	s.checkYearlyRelics()
	s.checkYearlyMilestones()
}

// checkMonthlyBadge awards the highest badge threshold the month's points
// meet. The per-month badge can upgrade as points grow; the sticky badge and
// cosmetic collections only ever gain entries.
func (s *Service) checkMonthlyBadge() {
	thresholds := s.cfg.Progression.Monthly.BadgeThresholds
	points := s.state.Cycles.Monthly.Points

	bestIdx := -1
	for i, th := range thresholds {
		if points >= th.MinPoints && (bestIdx < 0 || th.MinPoints > thresholds[bestIdx].MinPoints) {
			bestIdx = i
		}
	}
	if bestIdx < 0 {
		return
	}
	badge := thresholds[bestIdx]
	if s.state.Cycles.Monthly.BadgeID == badge.ID {
		return
	}
	s.state.Cycles.Monthly.BadgeID = badge.ID
	if !slices.Contains(s.state.Cycles.BadgesUnlocked, badge.ID) {
		s.state.Cycles.BadgesUnlocked = append(s.state.Cycles.BadgesUnlocked, badge.ID)
	}
	if cosmetics := s.cfg.Progression.Monthly.Cosmetics; bestIdx < len(cosmetics) {
		if c := cosmetics[bestIdx]; !slices.Contains(s.state.Cycles.CosmeticInventory, c) {
			s.state.Cycles.CosmeticInventory = append(s.state.Cycles.CosmeticInventory, c)
		}
	}
	s.logEvent(EventMonthBadgeUnlocked, map[string]any{
		"monthKey": s.state.Cycles.Monthly.MonthKey,
		"badgeId":  badge.ID,
		"points":   points,
	})
}

// checkYearlyRelics unlocks relics in catalog order, one per configured
// point bucket.
func (s *Service) checkYearlyRelics() {
	y := &s.state.Cycles.Yearly
	relics := s.cfg.Progression.Yearly.Relics
	unlockCount := y.Points / s.cfg.Progression.Yearly.RelicEveryPoints
	if unlockCount > len(relics) {
		unlockCount = len(relics)
	}
	for i := len(y.RelicsUnlocked); i < unlockCount; i++ {
		y.RelicsUnlocked = append(y.RelicsUnlocked, relics[i])
		s.logEvent(EventYearRelicUnlocked, map[string]any{
			"yearKey": y.YearKey,
			"relicId": relics[i],
			"points":  y.Points,
		})
	}
}

// checkYearlyMilestones pays each met milestone's tokens exactly once per
// year. Tokens are a meta currency credited directly; they sit outside the
// XP economy and its caps.
func (s *Service) checkYearlyMilestones() {
	y := &s.state.Cycles.Yearly
	for _, m := range s.cfg.Progression.Yearly.Milestones {
		if y.Points < m.MinPoints || slices.Contains(y.MilestonesClaimed, m.ID) {
			continue
		}
		y.MilestonesClaimed = append(y.MilestonesClaimed, m.ID)
		s.state.Currencies.Tokens += nonNegative(m.Tokens)
		s.logEvent(EventYearMilestone, map[string]any{
			"yearKey":     y.YearKey,
			"milestoneId": m.ID,
			"tokens":      m.Tokens,
		})
	}
}

// ClaimWeeklyChest claims the current week's chest, once. The chest tier is
// recomputed from the score at claim time.
func (s *Service) ClaimWeeklyChest(ctx context.Context) (ChestResult, error) {
	s.handleDayChange()

	w := &s.state.Cycles.Weekly
	if w.ChestClaimed {
		return ChestResult{Reason: ReasonAlreadyClaimed, ChestTier: w.ChestTierID}, nil
	}
	if _, taken := s.state.Claims.ChestClaims[w.WeekKey]; taken {
		return ChestResult{Reason: ReasonAlreadyClaimed, ChestTier: w.ChestTierID}, nil
	}
	chest, ok := chestTierFor(s.cfg, w.Score)
	if !ok {
		return ChestResult{Reason: ReasonNoChest}, nil
	}

	goldBonus := 0
	if s.goldEnabled() {
		goldBonus = nonNegative(chest.BonusGold)
	}
	levelUp := s.applyDelta(nonNegative(chest.BonusXP), goldBonus)
	w.ChestTierID = chest.ID
	w.ChestClaimed = true
	s.state.Claims.ChestClaims[w.WeekKey] = ChestClaim{
		ClaimedAt:   s.clock.Now().UTC(),
		ChestTierID: chest.ID,
	}
	s.logEvent(EventWeekChestClaimed, map[string]any{
		"weekKey":     w.WeekKey,
		"chestTierId": chest.ID,
		"score":       w.Score,
		"xpDelta":     chest.BonusXP,
		"goldDelta":   goldBonus,
	})

	res := ChestResult{
		Applied:   true,
		Reason:    ReasonClaimed,
		ChestTier: chest.ID,
		XPDelta:   nonNegative(chest.BonusXP),
		GoldDelta: goldBonus,
		LevelUp:   levelUp,
	}
	if err := s.persist(ctx); err != nil {
		return ChestResult{}, err
	}
	return res, nil
}
