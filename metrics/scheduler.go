package metrics

import (
	"sync"
	"time"
)

// Scheduler re-runs a recompute callback on a fixed interval so the ticker
// crosses date boundaries (midnight, new week) without waiting for a stats
// change. The callback also runs once on Start.
type Scheduler struct {
	Interval time.Duration
	OnTick   func(now time.Time)

	mu   sync.Mutex
	stop chan struct{}
}

const DefaultRecomputeInterval = 10 * time.Minute

func NewScheduler(onTick func(now time.Time)) *Scheduler {
	return &Scheduler{
		Interval: DefaultRecomputeInterval,
		OnTick:   onTick,
	}
}

// Start launches the repeating recompute. Calling Start twice without Stop
// is a no-op.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stop != nil {
		return
	}
	s.stop = make(chan struct{})
	stop := s.stop

	s.OnTick(time.Now())
	go func() {
		ticker := time.NewTicker(s.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case now := <-ticker.C:
				s.OnTick(now)
			}
		}
	}()
}

// Stop halts the repeating recompute. Safe to call when not started.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stop == nil {
		return
	}
	close(s.stop)
	s.stop = nil
}
