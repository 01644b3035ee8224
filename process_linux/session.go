//go:build linux

package process_linux

import (
	"fmt"
	"sync"

	"github.com/Zenakin-1777/TerrariaMenu/process"

	"github.com/Moonlight-Companies/gologger/coloransi"
	"github.com/Moonlight-Companies/gologger/logger"
)

// LinuxSession implements process.Session using the process_vm_readv and
// process_vm_writev syscalls. No file handle is held; the capability is the
// PID plus ptrace-level permission, so Close only invalidates the session.
type LinuxSession struct {
	mu  sync.Mutex
	pid process.ProcessID
	log *logger.Logger
}

func newSession(pid process.ProcessID) *LinuxSession {
	s := &LinuxSession{
		pid: pid,
		log: logger.NewLogger(coloransi.Color(coloransi.ColorPurple, coloransi.ColorOrange, fmt.Sprintf("session-%d", int(pid)))),
	}
	s.log.Infoln("Session opened")
	return s
}

// PID returns the process ID the session is bound to
func (s *LinuxSession) PID() process.ProcessID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pid
}

// Alive re-checks the target against /proc on every call.
func (s *LinuxSession) Alive() bool {
	s.mu.Lock()
	pid := s.pid
	s.mu.Unlock()

	if pid == 0 {
		return false
	}
	return procAlive(pid)
}

// ReadMemory reads size bytes at addr from the target process.
func (s *LinuxSession) ReadMemory(addr process.MemoryAddress, size process.MemorySize) ([]byte, error) {
	s.mu.Lock()
	pid := s.pid
	s.mu.Unlock()

	if pid == 0 {
		return nil, process.ErrNotAttached
	}
	if size == 0 {
		return nil, fmt.Errorf("%w: zero-size read at %s", process.ErrInvalidAddress, addr)
	}

	// Syscall runs without the lock held.
	return vmReadv(pid, addr, size)
}

// WriteMemory writes data at addr in the target process.
func (s *LinuxSession) WriteMemory(addr process.MemoryAddress, data []byte) error {
	s.mu.Lock()
	pid := s.pid
	s.mu.Unlock()

	if pid == 0 {
		return process.ErrNotAttached
	}
	if len(data) == 0 {
		return fmt.Errorf("%w: zero-size write at %s", process.ErrInvalidAddress, addr)
	}

	// Copy so a concurrent mutation of the caller's slice cannot tear the write.
	buf := make([]byte, len(data))
	copy(buf, data)

	return vmWritev(pid, addr, buf)
}

// Close invalidates the session. Idempotent.
func (s *LinuxSession) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pid == 0 {
		return nil
	}
	s.log.Infoln("Session closed")
	s.pid = 0
	return nil
}
