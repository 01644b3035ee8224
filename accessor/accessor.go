// Package accessor owns the attach/detach session to one target process and
// provides raw and typed reads/writes against its address space.
package accessor

import (
	"fmt"
	"sync"

	"github.com/Zenakin-1777/TerrariaMenu/process"

	"github.com/Moonlight-Companies/gologger/coloransi"
	"github.com/Moonlight-Companies/gologger/logger"
)

// AttachInfo is the context produced by a successful attach. The module base
// is carried here explicitly so callers compute table addresses from it
// rather than from shared mutable state.
type AttachInfo struct {
	Target     process.TargetProcess
	ModuleBase process.MemoryAddress
}

// Accessor is a memory accessor for one target process at a time.
//
// State machine: detached -> Attach -> attached -> {target exit, Detach,
// re-Attach} -> detached. At most one live session exists per Accessor.
type Accessor struct {
	locator process.Locator

	mu      sync.Mutex
	target  *process.TargetProcess
	session process.Session
	base    process.MemoryAddress
	log     *logger.Logger
}

// New creates a detached Accessor using the given locator for discovery,
// liveness checks and session opening.
func New(locator process.Locator) *Accessor {
	return &Accessor{
		locator: locator,
		log:     detachedLogger(),
	}
}

func detachedLogger() *logger.Logger {
	return logger.NewLogger(coloransi.Color(coloransi.Red, coloransi.ColorOrange, "accessor-detached"))
}

// Attach opens a read+write session to the process. Any existing session is
// detached first. The returned AttachInfo carries the main module base used
// as the offset origin for address tables.
func (a *Accessor) Attach(tp *process.TargetProcess) (*AttachInfo, error) {
	if tp == nil {
		return nil, fmt.Errorf("attach: %w", process.ErrNoProcess)
	}
	if !a.locator.IsValid(tp) {
		return nil, fmt.Errorf("attach %s: %w", tp, process.ErrProcessGone)
	}

	session, err := a.locator.Open(tp)
	if err != nil {
		return nil, fmt.Errorf("attach %s: %w", tp, err)
	}

	base, err := a.locator.MainModuleBase(tp)
	if err != nil {
		session.Close()
		return nil, fmt.Errorf("attach %s: %w", tp, err)
	}

	log := logger.NewLogger(coloransi.Color(coloransi.ColorPurple, coloransi.ColorOrange, fmt.Sprintf("accessor-%d", int(tp.PID))))

	a.mu.Lock()
	old := a.session
	target := *tp
	a.target = &target
	a.session = session
	a.base = base
	a.log = log
	a.mu.Unlock()

	if old != nil {
		old.Close()
	}

	log.Infoln("Attached to", target.String(), "module base", base.String())
	return &AttachInfo{Target: target, ModuleBase: base}, nil
}

// Detach closes the current session. Idempotent; safe when already detached.
func (a *Accessor) Detach() {
	a.mu.Lock()
	session := a.session
	log := a.log
	a.session = nil
	a.target = nil
	a.base = 0
	a.log = detachedLogger()
	a.mu.Unlock()

	if session != nil {
		session.Close()
		log.Infoln("Detached")
	}
}

// IsAttached reports whether a session exists and the target still validates
// as live. Liveness is re-checked on every call; the target can terminate at
// any time, including mid-operation.
func (a *Accessor) IsAttached() bool {
	a.mu.Lock()
	session := a.session
	target := a.target
	a.mu.Unlock()

	if session == nil {
		return false
	}
	return session.Alive() && a.locator.IsValid(target)
}

// ModuleBase returns the attach-time main module base address.
func (a *Accessor) ModuleBase() (process.MemoryAddress, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.session == nil {
		return 0, process.ErrNotAttached
	}
	return a.base, nil
}

// currentSession snapshots the session under the lock so OS calls run
// without holding it.
func (a *Accessor) currentSession() (process.Session, error) {
	a.mu.Lock()
	session := a.session
	a.mu.Unlock()

	if session == nil {
		return nil, process.ErrNotAttached
	}
	return session, nil
}

// ReadBytes reads size bytes at addr. Partial reads fail whole.
func (a *Accessor) ReadBytes(addr process.MemoryAddress, size process.MemorySize) ([]byte, error) {
	session, err := a.currentSession()
	if err != nil {
		return nil, err
	}
	if size == 0 {
		return nil, fmt.Errorf("%w: zero-size read", process.ErrInvalidAddress)
	}
	return session.ReadMemory(addr, size)
}

// WriteBytes writes data at addr. Partial writes fail whole.
func (a *Accessor) WriteBytes(addr process.MemoryAddress, data []byte) error {
	session, err := a.currentSession()
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return fmt.Errorf("%w: zero-size write", process.ErrInvalidAddress)
	}
	return session.WriteMemory(addr, data)
}
