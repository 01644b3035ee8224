package process

import "errors"

var (
	// ErrNotAttached is returned when a memory operation is attempted
	// without a live session to a target process.
	ErrNotAttached = errors.New("not attached to a process")

	// ErrProcessGone is returned when the target process has exited or
	// become inaccessible between operations.
	ErrProcessGone = errors.New("target process is gone")

	// ErrInvalidAddress is returned when an address is outside any
	// accessible region of the target, or a size argument is zero.
	ErrInvalidAddress = errors.New("invalid memory address")

	// ErrPartialIO is returned when the OS transferred fewer bytes than
	// requested. Partial transfers are treated as total failures.
	ErrPartialIO = errors.New("partial memory transfer")

	// ErrNoProcess is returned by a Locator when no process matches the
	// requested name.
	ErrNoProcess = errors.New("no matching process")
)
