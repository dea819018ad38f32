package engine

import (
	"math"
	"time"
)

// AuditStatus classifies the pacing of the XP economy.
type AuditStatus string

const (
	AuditStable  AuditStatus = "stable"
	AuditTooFast AuditStatus = "too_fast"
	AuditTooSlow AuditStatus = "too_slow"
)

// Pacing window: a level should take between these many active days.
const (
	auditStableMinDays = 5
	auditStableMaxDays = 14
	auditTargetDays    = 9
	auditRoundTo       = 5
)

// DailyRewardTotals exposes the granted XP and gold already booked for a
// dateKey.
func (s *Service) DailyRewardTotals(dateKey string) (xp, gold int) {
	if dateKey == "" {
		dateKey = s.activeDate()
	}
	return s.dailyRewardTotals(dateKey)
}

// RecentXPAverage averages the granted XP over the days in the window that
// had any activity. Inactive days are excluded so a missed weekend does not
// drag the estimate down.
type RecentXPAverage struct {
	AverageXP  float64
	ActiveDays int
	WindowDays int
}

func (s *Service) RecentXPAverage(windowDays int) RecentXPAverage {
	if windowDays < 1 {
		windowDays = 7
	}
	res := RecentXPAverage{WindowDays: windowDays}
	anchor, err := time.Parse(DateLayout, s.activeDate())
	if err != nil {
		return res
	}
	sum := 0
	for i := 0; i < windowDays; i++ {
		dayKey := anchor.AddDate(0, 0, -i).Format(DateLayout)
		xp, _ := s.dailyRewardTotals(dayKey)
		if xp > 0 {
			sum += xp
			res.ActiveDays++
		}
	}
	if res.ActiveDays > 0 {
		res.AverageXP = float64(sum) / float64(res.ActiveDays)
	}
	return res
}

// EconomyAudit is a balance health check over the configured catalog and the
// player's recent pace.
type EconomyAudit struct {
	Status            AuditStatus
	PotentialXP       int
	MaxXPToday        int
	CapXPPerDay       int
	XPRemainingForLvl int
	DaysToLevel       float64
	BasedOnAverage    bool
	SuggestedCapXP    int
}

// ComputeEconomyAudit estimates how fast the player levels at their recent
// pace, falling back to the daily cap when there is no recent activity, and
// suggests a cap adjustment when the pace leaves the stable window.
func (s *Service) ComputeEconomyAudit() EconomyAudit {
	potentialXP := 0
	for _, q := range s.cfg.VisibleQuests() {
		xp, _ := RewardPreview(s.cfg, q)
		potentialXP += xp
	}

	today := s.activeDate()
	todayXP, _ := s.dailyRewardTotals(today)
	caps := s.dailyCaps(s.state.Progress.Level)
	xpHeadroom := nonNegative(caps.XPPerDay - todayXP)

	progress := s.LevelProgress()
	avg := s.RecentXPAverage(7)
	dailyXP := avg.AverageXP
	if avg.ActiveDays == 0 {
		dailyXP = float64(caps.XPPerDay)
	}

	audit := EconomyAudit{
		Status:            AuditStable,
		PotentialXP:       potentialXP,
		MaxXPToday:        min(potentialXP, xpHeadroom),
		CapXPPerDay:       caps.XPPerDay,
		XPRemainingForLvl: progress.XPRemaining,
		BasedOnAverage:    avg.ActiveDays > 0,
		DaysToLevel:       math.Inf(1),
	}
	if dailyXP > 0 {
		audit.DaysToLevel = float64(progress.XPRemaining) / dailyXP
	}
	if !math.IsInf(audit.DaysToLevel, 1) && audit.DaysToLevel < auditStableMinDays {
		audit.Status = AuditTooFast
	}
	if math.IsInf(audit.DaysToLevel, 1) || audit.DaysToLevel > auditStableMaxDays {
		audit.Status = AuditTooSlow
	}
	audit.SuggestedCapXP = suggestedCapXP(audit)
	return audit
}

// suggestedCapXP nudges the daily XP cap back toward a target days-to-level,
// rounded to a configurable granularity.
func suggestedCapXP(audit EconomyAudit) int {
	suggested := audit.CapXPPerDay
	switch audit.Status {
	case AuditTooFast:
		suggested = int(float64(audit.CapXPPerDay) * 0.8)
	case AuditTooSlow:
		suggested = int(math.Ceil(float64(audit.CapXPPerDay) * 1.2))
	}
	fromLevel := int(math.Ceil(float64(audit.XPRemainingForLvl) / float64(auditTargetDays)))
	if fromLevel > suggested {
		suggested = fromLevel
	}
	suggested = int(math.Round(float64(suggested)/auditRoundTo)) * auditRoundTo
	if suggested < auditRoundTo {
		suggested = auditRoundTo
	}
	return suggested
}
