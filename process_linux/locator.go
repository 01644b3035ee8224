//go:build linux

// Package process_linux implements the process.Locator and process.Session
// interfaces on top of /proc and the process_vm_readv/process_vm_writev
// syscalls.
package process_linux

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/Zenakin-1777/TerrariaMenu/process"

	"github.com/Moonlight-Companies/gologger/coloransi"
	"github.com/Moonlight-Companies/gologger/logger"
)

// LinuxLocator implements process.Locator by enumerating /proc.
type LinuxLocator struct {
	log *logger.Logger
}

// NewLocator creates a new LinuxLocator
func NewLocator() *LinuxLocator {
	return &LinuxLocator{
		log: logger.NewLogger(coloransi.Color(coloransi.Green, coloransi.ColorOrange, "locator")),
	}
}

// ListByName returns every process whose comm or exe basename matches name,
// case-insensitive and ignoring extensions. The calling process is skipped.
func (l *LinuxLocator) ListByName(name string) ([]process.TargetProcess, error) {
	if name == "" {
		return nil, errors.New("empty process name")
	}

	entries, err := os.ReadDir("/proc")
	if err != nil {
		return nil, fmt.Errorf("read /proc: %w", err)
	}

	selfPID := os.Getpid()
	var out []process.TargetProcess

	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		pid, err := strconv.Atoi(e.Name())
		if err != nil || pid <= 0 {
			continue // not a PID dir
		}
		if pid == selfPID {
			continue
		}

		comm, _ := os.ReadFile(filepath.Join("/proc", e.Name(), "comm"))
		commName := strings.TrimSpace(string(comm))

		// Resolve /proc/<pid>/exe; may fail if zombie or permission
		exe, _ := os.Readlink(filepath.Join("/proc", e.Name(), "exe"))

		if process.MatchName(commName, name) || (exe != "" && process.MatchName(filepath.Base(exe), name)) {
			tpName := commName
			if tpName == "" && exe != "" {
				tpName = filepath.Base(exe)
			}
			out = append(out, process.TargetProcess{
				PID:  process.ProcessID(pid),
				Name: tpName,
				Exe:  exe,
			})
		}
	}

	return out, nil
}

// FindProcess returns a single match for name. When several processes match,
// the lowest PID wins and an ambiguity warning is logged; the ambiguity does
// not block attachment.
func (l *LinuxLocator) FindProcess(name string) (*process.TargetProcess, error) {
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
	if len(matches) > 1 {
		l.log.Warn("multiple processes match ", name, ", picking pid ", int(best.PID))
	}
	return &best, nil
}

// IsValid reports whether the process still exists and is accessible.
func (l *LinuxLocator) IsValid(tp *process.TargetProcess) bool {
	if tp == nil || tp.PID <= 0 {
		return false
	}
	return procAlive(tp.PID)
}

// MainModuleBase returns the lowest mapped address of the main executable,
// read from /proc/<pid>/maps.
func (l *LinuxLocator) MainModuleBase(tp *process.TargetProcess) (process.MemoryAddress, error) {
	if tp == nil || tp.PID <= 0 {
		return 0, process.ErrNoProcess
	}
	return mainModuleBase(tp.PID, tp.Exe)
}

// Open opens a memory session to the process. process_vm_readv needs no
// handle, so open only verifies the target exists.
func (l *LinuxLocator) Open(tp *process.TargetProcess) (process.Session, error) {
	if tp == nil || tp.PID <= 0 {
		return nil, process.ErrNoProcess
	}
	if !procAlive(tp.PID) {
		return nil, fmt.Errorf("%w: pid %d", process.ErrProcessGone, int(tp.PID))
	}
	return newSession(tp.PID), nil
}

// procAlive checks for the process via /proc, falling back to kill(pid, 0)
// for transient stat errors (permission, EIO).
func procAlive(pid process.ProcessID) bool {
	_, err := os.Stat(filepath.Join("/proc", strconv.Itoa(int(pid))))
	if err == nil {
		return true
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false
	}
	return syscall.Kill(int(pid), 0) == nil
}
