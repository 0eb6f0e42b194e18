// Package sweep evicts idle conversation sessions on a fixed interval.
package sweep

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/frontdesk-ai/frontdesk/backend/internal/service/session"
)

// Sweeper periodically removes sessions idle past the configured
// threshold. Sweep-evicted sessions do not produce a finalized record;
// only explicit ends do.
type Sweeper struct {
	sessions  *session.Registry
	interval  time.Duration
	threshold time.Duration
	now       func() time.Time

	started  bool
	stopOnce sync.Once
	done     chan struct{}
	finished chan struct{}
}

// New builds a sweeper over the registry.
func New(sessions *session.Registry, interval, idleThreshold time.Duration) *Sweeper {
	return NewWithClock(sessions, interval, idleThreshold, func() time.Time { return time.Now().UTC() })
}

// NewWithClock injects the time source for deterministic tests; tests
// normally skip Start entirely and drive RunOnce directly.
func NewWithClock(sessions *session.Registry, interval, idleThreshold time.Duration, now func() time.Time) *Sweeper {
	return &Sweeper{
		sessions:  sessions,
		interval:  interval,
		threshold: idleThreshold,
		now:       now,
		done:      make(chan struct{}),
		finished:  make(chan struct{}),
	}
}

// Start launches the background loop. It runs until ctx is cancelled or
// Stop is called.
func (s *Sweeper) Start(ctx context.Context) {
	s.started = true
	go func() {
		defer close(s.finished)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		log.Printf("[sweep] started interval=%s idle_threshold=%s", s.interval, s.threshold)
		for {
			select {
			case <-ctx.Done():
				return
			case <-s.done:
				return
			case <-ticker.C:
				s.RunOnce(s.now())
			}
		}
	}()
}

// Stop terminates the loop and waits for it to exit. Safe to call when
// the sweeper was never started.
func (s *Sweeper) Stop() {
	s.stopOnce.Do(func() { close(s.done) })
	if s.started {
		<-s.finished
	}
}

// RunOnce performs a single sweep at now and reports how many sessions
// were evicted.
func (s *Sweeper) RunOnce(now time.Time) int {
	removed := s.sessions.SweepExpired(s.threshold, now)
	for _, sess := range removed {
		log.Printf("[sweep] evicted session=%s owner=%s idle=%s", sess.ID, sess.OwnerID, sess.IdleSince(now))
	}
	return len(removed)
}
