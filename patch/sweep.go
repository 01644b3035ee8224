package patch

import (
	"context"
	"time"

	"github.com/Zenakin-1777/TerrariaMenu/process"
)

// startLocked launches the sweep goroutine if it is not already running.
// Caller holds s.mu.
func (s *Scheduler) startLocked() {
	if s.running {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	s.running = true
	s.cancel = cancel
	s.done = done
	s.log.Infoln("Sweep loop started, interval", s.interval.String())
	go s.run(ctx, done)
}

// Stop cancels the sweep loop and waits up to the stop timeout for it to
// finish, then proceeds regardless. Idempotent; the loop restarts on the
// next activation.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	cancel := s.cancel
	done := s.done
	s.running = false
	s.cancel = nil
	s.done = nil
	s.mu.Unlock()

	cancel()
	select {
	case <-done:
		s.log.Infoln("Sweep loop stopped")
	case <-time.After(s.stopTimeout):
		s.log.Warn("sweep loop did not stop within ", s.stopTimeout.String())
	}
}

// run is the sweep loop. Each tick writes every active entry once when a
// target is attached; with no target it idles on the longer interval. The
// loop ends only on cancellation, never on a write failure.
func (s *Scheduler) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	for {
		wait := s.interval
		if s.writer.IsAttached() {
			s.sweep()
		} else {
			wait = s.idleInterval
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(wait):
		}
	}
}

// sweepEntry is a snapshot of one active entry, taken under the lock so the
// writes below run without it. Control-layer mutations are never blocked by
// an in-progress sweep.
type sweepEntry struct {
	name  string
	addr  process.MemoryAddress
	value process.Value
}

func (s *Scheduler) sweep() {
	s.mu.Lock()
	batch := make([]sweepEntry, 0, len(s.entries))
	for name, e := range s.entries {
		if e.active {
			batch = append(batch, sweepEntry{name: name, addr: e.addr, value: e.value})
		}
	}
	s.mu.Unlock()

	for _, e := range batch {
		if err := s.writeEntry(e); err != nil {
			// A single failed write never aborts the tick; the remaining
			// entries are still attempted.
			s.writeErrors.Add(1)
			s.log.Debugln("write", e.name, "at", e.addr.String(), "failed:", err)
			continue
		}
		s.writes.Add(1)
	}
	s.sweeps.Add(1)
}

func (s *Scheduler) writeEntry(e sweepEntry) error {
	switch e.value.Kind {
	case process.KindInt32:
		return s.writer.WriteInt32(e.addr, e.value.I32)
	case process.KindFloat32:
		return s.writer.WriteFloat32(e.addr, e.value.F32)
	case process.KindFloat64:
		return s.writer.WriteFloat64(e.addr, e.value.F64)
	}
	return nil
}
