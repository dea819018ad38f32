package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Asside333/HabitHub/internal/config"
)

// Store persists the save blob and keeps the durable event archive. The
// engine treats the blob as opaque bytes; shape and schema live in this
// package.
type Store interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
	ArchiveEvents(ctx context.Context, events []Event) error
}

// Service owns the game aggregate and exposes every mutation as an
// operation. All mutations are serialized by construction; callers hold one
// Service per process and never edit the state directly.
type Service struct {
	cfg            config.Config
	clock          Clock
	store          Store
	log            logrus.FieldLogger
	state          GameState
	pendingArchive []Event
}

// NewService loads the saved aggregate, normalizing whatever shape it finds.
func NewService(ctx context.Context, cfg config.Config, store Store, clock Clock, log logrus.FieldLogger) (*Service, error) {
	if clock == nil {
		clock = SystemClock()
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	data, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load save: %w", err)
	}
	state, err := DecodeSave(data, cfg)
	if err != nil {
		log.WithError(err).Warn("save blob unreadable, starting fresh")
		state = NewGameState(cfg)
	}
	return &Service{cfg: cfg, clock: clock, store: store, log: log, state: state}, nil
}

// State exposes the aggregate for read-only rendering. Mutations go through
// the operations.
func (s *Service) State() *GameState {
	return &s.state
}

// Config returns the tuning the service was built with.
func (s *Service) Config() config.Config {
	return s.cfg
}

// ActiveDate resolves today's dateKey, honoring the debug override.
func (s *Service) ActiveDate() string {
	return s.activeDate()
}

// LevelProgress reports the XP bar pinned to the current level.
func (s *Service) LevelProgress() LevelProgress {
	return ComputeLevelProgressAtLevel(s.cfg.Leveling, s.state.Currencies.TotalXP, s.state.Progress.Level)
}

// RecentEvents returns up to n audit entries, newest last.
func (s *Service) RecentEvents(n int) []Event {
	events := s.state.Events
	if n > 0 && len(events) > n {
		events = events[len(events)-n:]
	}
	out := make([]Event, len(events))
	copy(out, events)
	return out
}

// handleDayChange is the day-boundary pipeline: refill the monthly shield,
// roll the weekly/monthly/yearly cycles to the active date, then close out
// the previous day and reset the daily scope. Safe to run any number of
// times; only the first run after a date change has effects.
func (s *Service) handleDayChange() {
	today := s.activeDate()
	s.refillMonthlyShield(MonthKey(today))
	s.ensureWeeklyCycle(WeekKey(today))
	s.ensureMonthlyCycle(MonthKey(today))
	s.ensureYearlyCycle(YearKey(today))

	if s.state.Progress.LastActiveDate == today {
		if s.state.Daily.DateKey == "" {
			s.state.Daily = DailyState{DateKey: today, Tier: TierNone}
		}
		return
	}
	if s.state.Progress.LastActiveDate != "" {
		prev := s.state.Daily
		prev.DateKey = s.state.Progress.LastActiveDate
		s.finalizePreviousDay(prev)
	}
	s.state.Progress.LastActiveDate = today
	s.state.Daily = DailyState{DateKey: today, Tier: TierNone}
}

// HandleDayChange runs the day-boundary pipeline and persists. The watcher
// calls it at midnight; interactive commands run it implicitly.
func (s *Service) HandleDayChange(ctx context.Context) error {
	s.handleDayChange()
	s.refreshDailyProgress()
	return s.persist(ctx)
}

// SetDebugDate pins the active date to the given dateKey, or clears the pin
// when dateKey is empty. The pipeline runs immediately so cycles catch up.
func (s *Service) SetDebugDate(ctx context.Context, dateKey string) error {
	if dateKey == "" {
		s.state.Debug = DebugSettings{}
	} else {
		if _, err := time.Parse(DateLayout, dateKey); err != nil {
			return fmt.Errorf("invalid date %q: want YYYY-MM-DD", dateKey)
		}
		s.state.Debug = DebugSettings{UseDebugDate: true, DebugDate: dateKey}
	}
	s.handleDayChange()
	s.refreshDailyProgress()
	return s.persist(ctx)
}

// ResetProgress wipes the aggregate back to a fresh save. The debug date
// pin survives the reset so simulated timelines can be replayed.
func (s *Service) ResetProgress(ctx context.Context) error {
	debug := s.state.Debug
	s.state = NewGameState(s.cfg)
	s.state.Debug = debug
	s.logEvent(EventProgressReset, map[string]any{"dateKey": s.activeDate()})
	s.handleDayChange()
	s.refreshDailyProgress()
	return s.persist(ctx)
}

// persist encodes and saves the aggregate, then flushes queued events to the
// durable archive. Archive failures are logged, not fatal: the in-state ring
// still has the recent entries.
func (s *Service) persist(ctx context.Context) error {
	data, err := EncodeSave(&s.state, s.cfg, s.clock.Now())
	if err != nil {
		return fmt.Errorf("encode save: %w", err)
	}
	if err := s.store.Save(ctx, data); err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	if len(s.pendingArchive) > 0 {
		if err := s.store.ArchiveEvents(ctx, s.pendingArchive); err != nil {
			s.log.WithError(err).Warn("archive events")
		}
		s.pendingArchive = s.pendingArchive[:0]
	}
	return nil
}
