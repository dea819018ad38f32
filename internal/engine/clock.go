package engine

import "time"

// Clock resolves the current instant. The active dateKey is derived from it
// in UTC, unless a debug override pins the date.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock is the wall-clock used outside tests.
func SystemClock() Clock { return systemClock{} }

// FixedClock always reports the same instant. Handy for tests and for the
// HH_PINNED_DATE override.
type FixedClock struct {
	Instant time.Time
}

func (c FixedClock) Now() time.Time { return c.Instant }

// activeDate resolves "today" as a dateKey, honoring the persisted debug
// override first.
func (s *Service) activeDate() string {
	if s.state.Debug.UseDebugDate && s.state.Debug.DebugDate != "" {
		return s.state.Debug.DebugDate
	}
	return s.clock.Now().UTC().Format(DateLayout)
}
