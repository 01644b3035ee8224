// Package patch continuously re-asserts chosen values into target memory,
// counteracting the target's own writes ("freezing").
package patch

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Zenakin-1777/TerrariaMenu/process"

	"github.com/Moonlight-Companies/gologger/coloransi"
	"github.com/Moonlight-Companies/gologger/logger"
)

const (
	// DefaultInterval is the sweep period while a target is attached.
	DefaultInterval = 50 * time.Millisecond

	// DefaultIdleInterval is the back-off wait while no target is attached.
	DefaultIdleInterval = 1000 * time.Millisecond

	// DefaultStopTimeout bounds how long Stop waits for the sweep loop.
	DefaultStopTimeout = 5000 * time.Millisecond
)

// MemoryWriter is the subset of the accessor the sweep needs.
type MemoryWriter interface {
	IsAttached() bool
	WriteInt32(addr process.MemoryAddress, value int32) error
	WriteFloat32(addr process.MemoryAddress, value float32) error
	WriteFloat64(addr process.MemoryAddress, value float64) error
}

// entry is one named patch in the registry.
type entry struct {
	addr   process.MemoryAddress
	value  process.Value
	active bool
}

// Stats are cumulative sweep counters.
type Stats struct {
	Sweeps      uint64
	Writes      uint64
	WriteErrors uint64
}

// Scheduler holds the patch registry and runs the background sweep. The
// zero value is not usable; create one with NewScheduler.
type Scheduler struct {
	writer       MemoryWriter
	interval     time.Duration
	idleInterval time.Duration
	stopTimeout  time.Duration
	log          *logger.Logger

	mu      sync.Mutex
	entries map[string]*entry
	running bool
	cancel  context.CancelFunc
	done    chan struct{}

	sweeps      atomic.Uint64
	writes      atomic.Uint64
	writeErrors atomic.Uint64
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithInterval sets the sweep period while attached.
func WithInterval(d time.Duration) Option {
	return func(s *Scheduler) { s.interval = d }
}

// WithIdleInterval sets the back-off wait while detached.
func WithIdleInterval(d time.Duration) Option {
	return func(s *Scheduler) { s.idleInterval = d }
}

// WithStopTimeout bounds the wait for the sweep loop during Stop.
func WithStopTimeout(d time.Duration) Option {
	return func(s *Scheduler) { s.stopTimeout = d }
}

// NewScheduler creates an idle Scheduler writing through w. The sweep
// goroutine starts lazily on the first activation.
func NewScheduler(w MemoryWriter, opts ...Option) *Scheduler {
	s := &Scheduler{
		writer:       w,
		interval:     DefaultInterval,
		idleInterval: DefaultIdleInterval,
		stopTimeout:  DefaultStopTimeout,
		entries:      make(map[string]*entry),
		log:          logger.NewLogger(coloransi.Color(coloransi.Green, coloransi.ColorOrange, "freezer")),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Upsert creates or replaces the named patch. A new entry starts inactive;
// replacing an existing entry swaps its address and value in place, so the
// latest value wins on the next sweep without re-activation.
func (s *Scheduler) Upsert(name string, addr process.MemoryAddress, value process.Value) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.entries[name]; ok {
		e.addr = addr
		e.value = value
		return
	}
	s.entries[name] = &entry{addr: addr, value: value}
}

// Activate marks the named patch for re-assertion. The first activation
// starts the sweep loop. Returns false when the name is unknown.
func (s *Scheduler) Activate(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[name]
	if !ok {
		return false
	}
	e.active = true
	s.startLocked()
	return true
}

// Deactivate stops re-asserting the named patch. The sweep loop keeps
// running idle; it only writes active entries.
func (s *Scheduler) Deactivate(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[name]
	if !ok {
		return false
	}
	e.active = false
	return true
}

// Remove deletes the named patch from the registry.
func (s *Scheduler) Remove(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[name]; !ok {
		return false
	}
	delete(s.entries, name)
	return true
}

// DeactivateAll clears every active flag in one critical section. This is
// the emergency kill switch; entries stay in the registry.
func (s *Scheduler) DeactivateAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.entries {
		e.active = false
	}
	s.log.Infoln("All patches deactivated")
}

// IsActive reports whether the named patch is currently re-asserted.
func (s *Scheduler) IsActive(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[name]
	return ok && e.active
}

// ActiveCount returns the number of active patches.
func (s *Scheduler) ActiveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, e := range s.entries {
		if e.active {
			n++
		}
	}
	return n
}

// ListNames returns every registered patch name, sorted.
func (s *Scheduler) ListNames() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := make([]string, 0, len(s.entries))
	for name := range s.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Stats returns cumulative sweep counters.
func (s *Scheduler) Stats() Stats {
	return Stats{
		Sweeps:      s.sweeps.Load(),
		Writes:      s.writes.Load(),
		WriteErrors: s.writeErrors.Load(),
	}
}
