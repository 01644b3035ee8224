// Package process defines the types, interfaces and sentinel errors shared
// by the platform memory backends, the accessor and the patch scheduler.
package process

import "fmt"

// ProcessID represents a unique identifier for a process
type ProcessID int

// MemoryAddress represents an absolute memory address within a target process
type MemoryAddress uint64

func (a MemoryAddress) String() string {
	return fmt.Sprintf("0x%X", uint64(a))
}

// MemorySize represents a size of a memory region
type MemorySize uint

func (s MemorySize) String() string {
	return fmt.Sprintf("%d bytes", uint(s))
}

// PointerSize is the width of a pointer in the target address space.
const PointerSize = MemorySize(8)

// TargetProcess is the identity of an OS process as found by a Locator.
// It carries no liveness guarantee; validity must be re-checked on demand.
type TargetProcess struct {
	PID  ProcessID
	Name string // comm or exe basename, best-effort
	Exe  string // path to the executable, may be empty
}

func (t TargetProcess) String() string {
	return fmt.Sprintf("%s (pid %d)", t.Name, int(t.PID))
}
