// Package simproc provides an in-memory stand-in for a target process: a
// byte region mapped at a fixed base address behind the process.Session
// interface, plus a locator over a registry of simulated processes. It backs
// the engine's tests and lets the tooling be exercised without a real
// target.
package simproc

import (
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/Zenakin-1777/TerrariaMenu/process"
)

// SimProcess is a simulated target process owning one writable memory
// region [base, base+size).
type SimProcess struct {
	pid  process.ProcessID
	name string
	base process.MemoryAddress

	mu    sync.Mutex
	data  []byte
	alive bool
}

var _ process.Session = (*SimProcess)(nil)

// New creates a live simulated process with a zeroed region of the given
// size mapped at base.
func New(pid process.ProcessID, name string, base process.MemoryAddress, size process.MemorySize) *SimProcess {
	return &SimProcess{
		pid:   pid,
		name:  name,
		base:  base,
		data:  make([]byte, size),
		alive: true,
	}
}

// PID returns the simulated process ID
func (p *SimProcess) PID() process.ProcessID {
	return p.pid
}

// Name returns the simulated process name
func (p *SimProcess) Name() string {
	return p.name
}

// Base returns the base address of the simulated region
func (p *SimProcess) Base() process.MemoryAddress {
	return p.base
}

// Alive reports whether the simulated process has not been terminated.
func (p *SimProcess) Alive() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.alive
}

// Terminate simulates the target exiting. All subsequent memory operations
// fail with process.ErrProcessGone.
func (p *SimProcess) Terminate() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.alive = false
}

// Close implements process.Session. The simulated region stays mapped so a
// later re-attach sees the same memory.
func (p *SimProcess) Close() error {
	return nil
}

func (p *SimProcess) checkRange(addr process.MemoryAddress, size process.MemorySize) (uint64, error) {
	if !p.alive {
		return 0, process.ErrProcessGone
	}
	// Compared without addr+size arithmetic, which wraps for addresses near
	// the top of the 64-bit space.
	length := uint64(len(p.data))
	end := uint64(p.base) + length
	if uint64(addr) < uint64(p.base) {
		return 0, fmt.Errorf("%w: %s..+%d outside region %s..%s",
			process.ErrInvalidAddress, addr, uint(size), p.base, process.MemoryAddress(end))
	}
	off := uint64(addr) - uint64(p.base)
	if uint64(size) > length || off > length-uint64(size) {
		return 0, fmt.Errorf("%w: %s..+%d outside region %s..%s",
			process.ErrInvalidAddress, addr, uint(size), p.base, process.MemoryAddress(end))
	}
	return off, nil
}

// ReadMemory reads size bytes at addr from the simulated region.
func (p *SimProcess) ReadMemory(addr process.MemoryAddress, size process.MemorySize) ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	off, err := p.checkRange(addr, size)
	if err != nil {
		return nil, err
	}
	out := make([]byte, size)
	copy(out, p.data[off:off+uint64(size)])
	return out, nil
}

// WriteMemory writes data at addr into the simulated region.
func (p *SimProcess) WriteMemory(addr process.MemoryAddress, data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	off, err := p.checkRange(addr, process.MemorySize(len(data)))
	if err != nil {
		return err
	}
	copy(p.data[off:], data)
	return nil
}

// PokeUint64 plants a 64-bit little-endian value, typically a pointer for
// chain tests. It bypasses liveness so fixtures can be prepared up front.
func (p *SimProcess) PokeUint64(addr process.MemoryAddress, value uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	off := uint64(addr) - uint64(p.base)
	binary.LittleEndian.PutUint64(p.data[off:off+8], value)
}

// Snapshot returns a copy of the whole region.
func (p *SimProcess) Snapshot() []byte {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]byte, len(p.data))
	copy(out, p.data)
	return out
}

// Target returns the process identity as a locator would report it.
func (p *SimProcess) Target() process.TargetProcess {
	return process.TargetProcess{PID: p.pid, Name: p.name}
}
