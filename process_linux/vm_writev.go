//go:build linux

package process_linux

import (
	"fmt"
	"unsafe"

	"github.com/Zenakin-1777/TerrariaMenu/process"

	"golang.org/x/sys/unix"
)

// vmWritev writes memory to another process with the process_vm_writev
// syscall. Short writes are reported as process.ErrPartialIO.
func vmWritev(pid process.ProcessID, addr process.MemoryAddress, data []byte) error {
	localIov := unix.Iovec{
		Base: &data[0],
		Len:  uint64(len(data)),
	}
	remoteIov := unix.RemoteIovec{
		Base: uintptr(addr),
		Len:  len(data),
	}

	n, _, errno := unix.Syscall6(
		unix.SYS_PROCESS_VM_WRITEV,
		uintptr(pid),
		uintptr(unsafe.Pointer(&localIov)),
		uintptr(1),
		uintptr(unsafe.Pointer(&remoteIov)),
		uintptr(1),
		uintptr(0),
	)

	if errno != 0 {
		return fmt.Errorf("process_vm_writev at %s: %w", addr, mapErrno(errno))
	}
	if int(n) != len(data) {
		return fmt.Errorf("%w: wrote %d of %d bytes at %s", process.ErrPartialIO, n, len(data), addr)
	}

	return nil
}
