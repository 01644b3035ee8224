//go:build windows

// Package process_windows implements the process.Locator and process.Session
// interfaces on top of the Win32 OpenProcess/ReadProcessMemory/
// WriteProcessMemory primitives and Toolhelp32 snapshots.
package process_windows

import (
	"fmt"
	"os"
	"unsafe"

	"github.com/Zenakin-1777/TerrariaMenu/process"

	"github.com/Moonlight-Companies/gologger/coloransi"
	"github.com/Moonlight-Companies/gologger/logger"
	"golang.org/x/sys/windows"
)

// sessionAccess is the minimum set of rights a memory session needs.
const sessionAccess = windows.PROCESS_VM_READ |
	windows.PROCESS_VM_WRITE |
	windows.PROCESS_VM_OPERATION |
	windows.PROCESS_QUERY_INFORMATION

// WindowsLocator implements process.Locator using Toolhelp32 snapshots.
type WindowsLocator struct {
	log *logger.Logger
}

// NewLocator creates a new WindowsLocator
func NewLocator() *WindowsLocator {
	return &WindowsLocator{
		log: logger.NewLogger(coloransi.Color(coloransi.Green, coloransi.ColorOrange, "locator")),
	}
}

// ListByName returns every process whose executable name matches name,
// case-insensitive and ignoring the .exe extension.
func (l *WindowsLocator) ListByName(name string) ([]process.TargetProcess, error) {
	if name == "" {
		return nil, fmt.Errorf("empty process name")
	}

	snapshot, err := windows.CreateToolhelp32Snapshot(windows.TH32CS_SNAPPROCESS, 0)
	if err != nil {
		return nil, fmt.Errorf("CreateToolhelp32Snapshot: %w", err)
	}
	defer windows.CloseHandle(snapshot)

	selfPID := process.ProcessID(os.Getpid())
	var out []process.TargetProcess

	var pe windows.ProcessEntry32
	pe.Size = uint32(unsafe.Sizeof(pe))
	if err := windows.Process32First(snapshot, &pe); err != nil {
		return nil, fmt.Errorf("Process32First: %w", err)
	}
	for {
		exeName := windows.UTF16ToString(pe.ExeFile[:])
		pid := process.ProcessID(pe.ProcessID)
		if pid != selfPID && process.MatchName(exeName, name) {
			out = append(out, process.TargetProcess{
				PID:  pid,
				Name: exeName,
			})
		}
		if err := windows.Process32Next(snapshot, &pe); err != nil {
			break
		}
	}

	return out, nil
}

// FindProcess returns a single match for name. When several processes match,
// the lowest PID wins and an ambiguity warning is logged.
func (l *WindowsLocator) FindProcess(name string) (*process.TargetProcess, error) {
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

// IsValid reports whether the process has not exited, probed with a
// limited-rights handle and GetExitCodeProcess.
func (l *WindowsLocator) IsValid(tp *process.TargetProcess) bool {
	if tp == nil || tp.PID <= 0 {
		return false
	}
	return procAlive(tp.PID)
}

// MainModuleBase returns the load address of the process's main module from
// a Toolhelp32 module snapshot.
func (l *WindowsLocator) MainModuleBase(tp *process.TargetProcess) (process.MemoryAddress, error) {
	if tp == nil || tp.PID <= 0 {
		return 0, process.ErrNoProcess
	}

	snapshot, err := windows.CreateToolhelp32Snapshot(
		windows.TH32CS_SNAPMODULE|windows.TH32CS_SNAPMODULE32, uint32(tp.PID))
	if err != nil {
		return 0, fmt.Errorf("module snapshot for pid %d: %w", int(tp.PID), err)
	}
	defer windows.CloseHandle(snapshot)

	var me windows.ModuleEntry32
	me.Size = uint32(unsafe.Sizeof(me))
	// The first module in the snapshot is the main executable.
	if err := windows.Module32First(snapshot, &me); err != nil {
		return 0, fmt.Errorf("Module32First for pid %d: %w", int(tp.PID), err)
	}
	return process.MemoryAddress(me.ModBaseAddr), nil
}

// Open opens a memory session with read, write and operation rights.
func (l *WindowsLocator) Open(tp *process.TargetProcess) (process.Session, error) {
	if tp == nil || tp.PID <= 0 {
		return nil, process.ErrNoProcess
	}

	handle, err := windows.OpenProcess(sessionAccess, false, uint32(tp.PID))
	if err != nil {
		return nil, fmt.Errorf("OpenProcess pid %d: %w", int(tp.PID), err)
	}
	return newSession(tp.PID, handle), nil
}

// procAlive opens a limited-rights handle and checks the exit code.
func procAlive(pid process.ProcessID) bool {
	handle, err := windows.OpenProcess(windows.PROCESS_QUERY_LIMITED_INFORMATION, false, uint32(pid))
	if err != nil {
		return false
	}
	defer windows.CloseHandle(handle)

	var code uint32
	if err := windows.GetExitCodeProcess(handle, &code); err != nil {
		return false
	}
	return code == windows.STILL_ACTIVE
}
