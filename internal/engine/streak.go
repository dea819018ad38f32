package engine

import "context"

// StreakOutcome is the verdict for one closed day.
type StreakOutcome string

const (
	OutcomeVacationFreeze StreakOutcome = "vacation_freeze"
	OutcomeStreakUp       StreakOutcome = "streak_up"
	OutcomeShieldUsed     StreakOutcome = "shield_used"
	OutcomeRestDayUsed    StreakOutcome = "rest_day_used"
	OutcomeReset          StreakOutcome = "reset"
)

// resolveStreakOutcome decides what happens to the streak when a day closes.
// Protections are consumed in a fixed order: an armed vacation day freezes
// the day outright, a qualifying tier extends the streak, then the shield,
// then a weekly rest day, and only when all of those are exhausted does the
// streak reset.
func (s *Service) resolveStreakOutcome(prev DailyState, weekKey string) StreakOutcome {
	st := &s.cfg.Progression.Streak
	switch {
	case prev.VacationMode:
		return OutcomeVacationFreeze
	case prev.Tier.AtLeast(Tier(st.MinTierForStreak)):
		return OutcomeStreakUp
	case s.state.Progress.StreakShield >= 1:
		return OutcomeShieldUsed
	case st.RestDays.Enabled && s.state.Progress.RestDaysUsedByWeek[weekKey] < st.RestDays.MaxPerWeek:
		return OutcomeRestDayUsed
	default:
		return OutcomeReset
	}
}

// finalizePreviousDay closes out prev when the active date has moved on.
// The weekly rollup sees the day's tier before any streak bookkeeping so
// that a reset never erases the points the day actually earned.
func (s *Service) finalizePreviousDay(prev DailyState) {
	s.finalizeWeeklyFromTier(prev.DateKey, prev.Tier)

	weekKey := WeekKey(prev.DateKey)
	outcome := s.resolveStreakOutcome(prev, weekKey)
	switch outcome {
	case OutcomeStreakUp:
		s.state.Progress.Streak++
	case OutcomeShieldUsed:
		s.state.Progress.StreakShield--
	case OutcomeRestDayUsed:
		s.state.Progress.RestDaysUsedByWeek[weekKey]++
	case OutcomeReset:
		s.state.Progress.Streak = 0
	}
	s.state.Progress.LastTier = prev.Tier

	s.logEvent(EventStreakDayClosed, map[string]any{
		"dateKey": prev.DateKey,
		"tier":    string(prev.Tier),
		"outcome": string(outcome),
		"streak":  s.state.Progress.Streak,
	})
}

// refillMonthlyShield tops the shield back up to one at most once per
// calendar month. The refill month is recorded even when the shield is
// already full, so skipping a month never banks an extra charge.
func (s *Service) refillMonthlyShield(monthKey string) {
	if s.cfg.Progression.Streak.ShieldMonthlyRefill < 1 {
		return
	}
	if s.state.Progress.LastShieldRefillMonth == monthKey {
		return
	}
	s.state.Progress.LastShieldRefillMonth = monthKey
	if s.state.Progress.StreakShield >= 1 {
		return
	}
	s.state.Progress.StreakShield = 1
	s.logEvent(EventStreakShieldRefill, map[string]any{
		"monthKey": monthKey,
		"shield":   s.state.Progress.StreakShield,
	})
}

// VacationResult reports the outcome of toggling vacation mode.
type VacationResult struct {
	Applied       bool
	Reason        Reason
	VacationMode  bool
	DaysRemaining int
}

// SetVacationMode arms or disarms vacation mode for the active day. Arming
// consumes one vacation day up front; disarming later the same day does not
// refund it.
func (s *Service) SetVacationMode(ctx context.Context, enabled bool) (VacationResult, error) {
	s.handleDayChange()

	res := VacationResult{
		VacationMode:  s.state.Daily.VacationMode,
		DaysRemaining: s.state.Progress.VacationDaysRemaining,
	}
	if !s.cfg.Progression.Streak.Vacation.Enabled {
		res.Reason = ReasonInvalidInput
		return res, nil
	}
	if enabled == s.state.Daily.VacationMode {
		res.Applied = true
		res.Reason = ReasonClaimed
		return res, nil
	}
	if enabled {
		if s.state.Progress.VacationDaysRemaining < 1 {
			res.Reason = ReasonInvalidInput
			return res, nil
		}
		s.state.Progress.VacationDaysRemaining--
		s.state.Daily.VacationMode = true
		s.logEvent(EventVacationDayArmed, map[string]any{
			"dateKey":       s.state.Daily.DateKey,
			"daysRemaining": s.state.Progress.VacationDaysRemaining,
		})
	} else {
		s.state.Daily.VacationMode = false
	}

	res.Applied = true
	res.Reason = ReasonClaimed
	res.VacationMode = s.state.Daily.VacationMode
	res.DaysRemaining = s.state.Progress.VacationDaysRemaining
	if err := s.persist(ctx); err != nil {
		return VacationResult{}, err
	}
	return res, nil
}
