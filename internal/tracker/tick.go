package tracker

import (
	"context"
	"time"
)

// DefaultTickInterval is the period between two ticks.
const DefaultTickInterval = time.Second

// Tick reloads the snapshot and adds exactly one second to every running
// project, whatever the real time since the previous tick. It returns the
// number of projects advanced and persists only when that number is
// non-zero.
func (s *Store) Tick() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshLocked()
	n := 0
	for i := range s.projects {
		if s.projects[i].IsRunning && s.projects[i].LastStartTime != nil {
			s.projects[i].TimeInSeconds++
			n++
		}
	}
	if n > 0 {
		s.persistLocked()
	}
	return n
}

// Engine drives Store.Tick on a fixed schedule.
type Engine struct {
	store    *Store
	interval time.Duration

	// OnTick, when set, is called after every tick with the number of
	// projects advanced.
	OnTick func(advanced int)
}

// NewEngine returns an engine ticking store every interval. A non-positive
// interval selects DefaultTickInterval.
func NewEngine(store *Store, interval time.Duration) *Engine {
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	return &Engine{store: store, interval: interval}
}

// Interval returns the tick period.
func (e *Engine) Interval() time.Duration { return e.interval }

// Run ticks until ctx is done. The ticker is released on return.
func (e *Engine) Run(ctx context.Context) error {
	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			n := e.store.Tick()
			if e.OnTick != nil {
				e.OnTick(n)
			}
		}
	}
}
