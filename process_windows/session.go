//go:build windows

package process_windows

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Zenakin-1777/TerrariaMenu/process"

	"github.com/Moonlight-Companies/gologger/coloransi"
	"github.com/Moonlight-Companies/gologger/logger"
	"golang.org/x/sys/windows"
)

// WindowsSession implements process.Session over an open process handle.
type WindowsSession struct {
	mu     sync.Mutex
	pid    process.ProcessID
	handle windows.Handle
	log    *logger.Logger
}

func newSession(pid process.ProcessID, handle windows.Handle) *WindowsSession {
	s := &WindowsSession{
		pid:    pid,
		handle: handle,
		log:    logger.NewLogger(coloransi.Color(coloransi.ColorPurple, coloransi.ColorOrange, fmt.Sprintf("session-%d", int(pid)))),
	}
	s.log.Infoln("Session opened")
	return s
}

// PID returns the process ID the session is bound to
func (s *WindowsSession) PID() process.ProcessID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pid
}

// Alive re-checks the target on every call.
func (s *WindowsSession) Alive() bool {
	s.mu.Lock()
	handle := s.handle
	s.mu.Unlock()

	if handle == 0 {
		return false
	}
	var code uint32
	if err := windows.GetExitCodeProcess(handle, &code); err != nil {
		return false
	}
	return code == windows.STILL_ACTIVE
}

// ReadMemory reads size bytes at addr. Short reads are total failures.
func (s *WindowsSession) ReadMemory(addr process.MemoryAddress, size process.MemorySize) ([]byte, error) {
	s.mu.Lock()
	handle := s.handle
	s.mu.Unlock()

	if handle == 0 {
		return nil, process.ErrNotAttached
	}
	if size == 0 {
		return nil, fmt.Errorf("%w: zero-size read at %s", process.ErrInvalidAddress, addr)
	}

	buf := make([]byte, size)
	var done uintptr
	err := windows.ReadProcessMemory(handle, uintptr(addr), &buf[0], uintptr(size), &done)
	if err != nil {
		return nil, fmt.Errorf("ReadProcessMemory at %s: %w", addr, mapWinErr(err))
	}
	if process.MemorySize(done) != size {
		return nil, fmt.Errorf("%w: read %d of %d bytes at %s", process.ErrPartialIO, done, uint(size), addr)
	}
	return buf, nil
}

// WriteMemory writes data at addr. Short writes are total failures.
func (s *WindowsSession) WriteMemory(addr process.MemoryAddress, data []byte) error {
	s.mu.Lock()
	handle := s.handle
	s.mu.Unlock()

	if handle == 0 {
		return process.ErrNotAttached
	}
	if len(data) == 0 {
		return fmt.Errorf("%w: zero-size write at %s", process.ErrInvalidAddress, addr)
	}

	buf := make([]byte, len(data))
	copy(buf, data)

	var done uintptr
	err := windows.WriteProcessMemory(handle, uintptr(addr), &buf[0], uintptr(len(buf)), &done)
	if err != nil {
		return fmt.Errorf("WriteProcessMemory at %s: %w", addr, mapWinErr(err))
	}
	if int(done) != len(buf) {
		return fmt.Errorf("%w: wrote %d of %d bytes at %s", process.ErrPartialIO, done, len(buf), addr)
	}
	return nil
}

// Close releases the process handle. Idempotent.
func (s *WindowsSession) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.handle == 0 {
		return nil
	}
	err := windows.CloseHandle(s.handle)
	s.handle = 0
	s.pid = 0
	s.log.Infoln("Session closed")
	if err != nil {
		return fmt.Errorf("CloseHandle: %w", err)
	}
	return nil
}

// mapWinErr converts Win32 errors into the package error taxonomy.
func mapWinErr(err error) error {
	var errno windows.Errno
	if errors.As(err, &errno) {
		switch errno {
		case windows.ERROR_INVALID_PARAMETER, windows.ERROR_INVALID_HANDLE:
			return process.ErrProcessGone
		case windows.ERROR_NOACCESS, windows.ERROR_PARTIAL_COPY:
			return fmt.Errorf("%w (%s)", process.ErrInvalidAddress, errno.Error())
		}
	}
	return err
}
