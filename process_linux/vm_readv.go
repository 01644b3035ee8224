//go:build linux

package process_linux

import (
	"fmt"
	"unsafe"

	"github.com/Zenakin-1777/TerrariaMenu/process"

	"golang.org/x/sys/unix"
)

// vmReadv reads memory from another process with the process_vm_readv
// syscall. Short reads are reported as process.ErrPartialIO.
func vmReadv(pid process.ProcessID, addr process.MemoryAddress, size process.MemorySize) ([]byte, error) {
	buf := make([]byte, size)

	localIov := unix.Iovec{
		Base: &buf[0],
		Len:  uint64(size),
	}
	remoteIov := unix.RemoteIovec{
		Base: uintptr(addr),
		Len:  int(size),
	}

	n, _, errno := unix.Syscall6(
		unix.SYS_PROCESS_VM_READV,
		uintptr(pid),
		uintptr(unsafe.Pointer(&localIov)),
		uintptr(1),
		uintptr(unsafe.Pointer(&remoteIov)),
		uintptr(1),
		uintptr(0),
	)

	if errno != 0 {
		return nil, fmt.Errorf("process_vm_readv at %s: %w", addr, mapErrno(errno))
	}
	if process.MemorySize(n) != size {
		return nil, fmt.Errorf("%w: read %d of %d bytes at %s", process.ErrPartialIO, n, uint(size), addr)
	}

	return buf, nil
}

// mapErrno converts syscall errnos into the package error taxonomy.
func mapErrno(errno unix.Errno) error {
	switch errno {
	case unix.ESRCH:
		return process.ErrProcessGone
	case unix.EFAULT, unix.EIO:
		return fmt.Errorf("%w (%s)", process.ErrInvalidAddress, errno.Error())
	case unix.EPERM, unix.EACCES:
		return fmt.Errorf("access denied (%s)", errno.Error())
	}
	return errno
}
