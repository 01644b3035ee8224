package simproc

import (
	"fmt"
	"sync"

	"github.com/Zenakin-1777/TerrariaMenu/process"
)

// SimLocator implements process.Locator over a registry of simulated
// processes.
type SimLocator struct {
	mu    sync.Mutex
	procs []*SimProcess
}

var _ process.Locator = (*SimLocator)(nil)

// NewLocator creates an empty SimLocator
func NewLocator(procs ...*SimProcess) *SimLocator {
	return &SimLocator{procs: procs}
}

// Add registers a simulated process with the locator.
func (l *SimLocator) Add(p *SimProcess) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.procs = append(l.procs, p)
}

func (l *SimLocator) byPID(pid process.ProcessID) *SimProcess {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, p := range l.procs {
		if p.pid == pid {
			return p
		}
	}
	return nil
}

// ListByName returns every live simulated process matching name.
func (l *SimLocator) ListByName(name string) ([]process.TargetProcess, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var out []process.TargetProcess
	for _, p := range l.procs {
		if p.Alive() && process.MatchName(p.name, name) {
			out = append(out, p.Target())
		}
	}
	return out, nil
}

// FindProcess returns the lowest-PID match for name.
func (l *SimLocator) FindProcess(name string) (*process.TargetProcess, error) {
	matches, err := l.ListByName(name)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w: %q", process.ErrNoProcess, name)
	}

	best := matches[0]
	for _, m := range matches[1:] {
		if m.PID < best.PID {
			best = m
		}
	}
	return &best, nil
}

// IsValid reports whether the simulated process exists and is still alive.
func (l *SimLocator) IsValid(tp *process.TargetProcess) bool {
	if tp == nil {
		return false
	}
	p := l.byPID(tp.PID)
	return p != nil && p.Alive()
}

// MainModuleBase returns the base address of the simulated region.
func (l *SimLocator) MainModuleBase(tp *process.TargetProcess) (process.MemoryAddress, error) {
	if tp == nil {
		return 0, process.ErrNoProcess
	}
	p := l.byPID(tp.PID)
	if p == nil {
		return 0, process.ErrNoProcess
	}
	return p.base, nil
}

// Open returns the simulated process itself as the session.
func (l *SimLocator) Open(tp *process.TargetProcess) (process.Session, error) {
	if tp == nil {
		return nil, process.ErrNoProcess
	}
	p := l.byPID(tp.PID)
	if p == nil {
		return nil, process.ErrNoProcess
	}
	if !p.Alive() {
		return nil, fmt.Errorf("%w: pid %d", process.ErrProcessGone, int(tp.PID))
	}
	return p, nil
}
