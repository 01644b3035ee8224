package accessor

import (
	"fmt"

	"github.com/Zenakin-1777/TerrariaMenu/process"
)

// ResolvePointerChain resolves multi-level heap indirection. For every
// offset except the last, a pointer is read at (current + offset) and
// becomes the new current address; the final offset is added without
// dereferencing.
//
// Example:
//
//	// addr = *(*(base+0x10) + 0x20) + 0x30
//	addr, err := acc.ResolvePointerChain(base, 0x10, 0x20, 0x30)
//
// The walk fails fast when any intermediate read fails or yields a NULL
// pointer.
func (a *Accessor) ResolvePointerChain(base process.MemoryAddress, offsets ...process.MemorySize) (process.MemoryAddress, error) {
	current := base

	for i := 0; i < len(offsets)-1; i++ {
		step := current + process.MemoryAddress(offsets[i])
		ptr, err := a.ReadPointer(step)
		if err != nil {
			return 0, fmt.Errorf("pointer chain step %d at %s: %w", i, step, err)
		}
		if ptr == 0 {
			return 0, fmt.Errorf("pointer chain step %d at %s: %w: NULL pointer", i, step, process.ErrInvalidAddress)
		}
		current = ptr
	}

	if len(offsets) > 0 {
		current += process.MemoryAddress(offsets[len(offsets)-1])
	}
	return current, nil
}
