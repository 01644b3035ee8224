package process

// Memory is raw byte-level access to a target address space.
type Memory interface {
	// ReadMemory reads size bytes at addr. A short read is an error.
	ReadMemory(addr MemoryAddress, size MemorySize) ([]byte, error)

	// WriteMemory writes data at addr. A short write is an error.
	WriteMemory(addr MemoryAddress, data []byte) error
}

// Session is the live OS-level capability granting memory access to one
// target process. At most one session per accessor exists at a time.
type Session interface {
	Memory

	// PID returns the process ID the session is bound to
	PID() ProcessID

	// Alive reports whether the target process still exists. The check is
	// performed against the OS on every call, never cached.
	Alive() bool

	// Close releases the session. Safe to call more than once.
	Close() error
}

// Locator finds live OS processes by name and opens memory sessions to them.
type Locator interface {
	// ListByName returns every process whose name matches, case-insensitive
	// and ignoring any file extension.
	ListByName(name string) ([]TargetProcess, error)

	// FindProcess returns a single match for name, picking the lowest PID
	// when several processes share it. ErrNoProcess when nothing matches.
	FindProcess(name string) (*TargetProcess, error)

	// IsValid reports whether the process has not exited and a cheap
	// property query still succeeds.
	IsValid(tp *TargetProcess) bool

	// MainModuleBase returns the base address of the main executable
	// module, used as the offset origin for address tables.
	MainModuleBase(tp *TargetProcess) (MemoryAddress, error)

	// Open opens a read+write memory session to the process.
	Open(tp *TargetProcess) (Session, error)
}
