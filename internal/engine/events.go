package engine

import (
	"time"

	"github.com/google/uuid"
)

// Event types appended to the audit log. The log is diagnostic only; no
// engine logic reads it back.
const (
	EventClaimReward        = "CLAIM_REWARD"
	EventRollbackReward     = "ROLLBACK_REWARD"
	EventCapApplied         = "CAP_APPLIED"
	EventCapRecalculated    = "CAP_RECALCULATED"
	EventTierBonusAdjust    = "TIER_BONUS_ADJUST"
	EventStreakDayClosed    = "STREAK_DAY_CLOSED"
	EventStreakShieldRefill = "STREAK_SHIELD_REFILL"
	EventVacationDayArmed   = "VACATION_DAY_ARMED"
	EventWeekStarted        = "WEEK_STARTED"
	EventWeekArchived       = "WEEK_ARCHIVED"
	EventWeekDayRecorded    = "WEEK_DAY_RECORDED"
	EventWeekChestClaimed   = "WEEK_CHEST_CLAIMED"
	EventMonthStarted       = "MONTH_STARTED"
	EventMonthBadgeUnlocked = "MONTH_BADGE_UNLOCKED"
	EventYearStarted        = "YEAR_STARTED"
	EventYearRelicUnlocked  = "YEAR_RELIC_UNLOCKED"
	EventYearMilestone      = "YEAR_MILESTONE_UNLOCKED"
	EventProgressReset      = "PROGRESS_RESET"
)

// Event is one entry in the bounded audit ring.
type Event struct {
	ID        string         `json:"id"`
	Timestamp time.Time      `json:"timestamp"`
	Type      string         `json:"type"`
	Payload   map[string]any `json:"payload"`
}

// logEvent appends to the ring, evicting the oldest entries past the
// configured cap. Appended events are also queued for the durable archive.
func (s *Service) logEvent(eventType string, payload map[string]any) {
	if payload == nil {
		payload = map[string]any{}
	}
	ev := Event{
		ID:        uuid.NewString(),
		Timestamp: s.clock.Now().UTC(),
		Type:      eventType,
		Payload:   payload,
	}
	s.state.Events = append(s.state.Events, ev)
	if max := s.cfg.Progression.EventLogMax; len(s.state.Events) > max {
		s.state.Events = s.state.Events[len(s.state.Events)-max:]
	}
	s.pendingArchive = append(s.pendingArchive, ev)
}
