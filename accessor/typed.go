package accessor

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/Zenakin-1777/TerrariaMenu/process"
)

// Typed helpers over the byte primitives. All values use the target's fixed
// little-endian encoding.

// ReadInt32 reads a signed 32-bit integer at addr
func (a *Accessor) ReadInt32(addr process.MemoryAddress) (int32, error) {
	data, err := a.ReadBytes(addr, 4)
	if err != nil {
		return 0, err
	}
	return int32(binary.LittleEndian.Uint32(data)), nil
}

// WriteInt32 writes a signed 32-bit integer at addr
func (a *Accessor) WriteInt32(addr process.MemoryAddress, value int32) error {
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, uint32(value))
	return a.WriteBytes(addr, buf)
}

// ReadUint32 reads an unsigned 32-bit integer at addr
func (a *Accessor) ReadUint32(addr process.MemoryAddress) (uint32, error) {
	data, err := a.ReadBytes(addr, 4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(data), nil
}

// ReadUint64 reads an unsigned 64-bit integer at addr
func (a *Accessor) ReadUint64(addr process.MemoryAddress) (uint64, error) {
	data, err := a.ReadBytes(addr, 8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(data), nil
}

// ReadFloat32 reads a 32-bit float at addr
func (a *Accessor) ReadFloat32(addr process.MemoryAddress) (float32, error) {
	bits, err := a.ReadUint32(addr)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(bits), nil
}

// WriteFloat32 writes a 32-bit float at addr
func (a *Accessor) WriteFloat32(addr process.MemoryAddress, value float32) error {
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, math.Float32bits(value))
	return a.WriteBytes(addr, buf)
}

// ReadFloat64 reads a 64-bit float at addr
func (a *Accessor) ReadFloat64(addr process.MemoryAddress) (float64, error) {
	bits, err := a.ReadUint64(addr)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(bits), nil
}

// WriteFloat64 writes a 64-bit float at addr
func (a *Accessor) WriteFloat64(addr process.MemoryAddress, value float64) error {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, math.Float64bits(value))
	return a.WriteBytes(addr, buf)
}

// ReadPointer reads a pointer-sized value at addr and returns it as an
// address in the target's space.
func (a *Accessor) ReadPointer(addr process.MemoryAddress) (process.MemoryAddress, error) {
	data, err := a.ReadBytes(addr, process.PointerSize)
	if err != nil {
		return 0, err
	}
	return process.MemoryAddress(binary.LittleEndian.Uint64(data)), nil
}

// ReadString reads up to maxLen bytes at addr and truncates at the first
// zero byte. On any failure it returns the empty string, so call sites that
// do not check results stay simple.
func (a *Accessor) ReadString(addr process.MemoryAddress, maxLen process.MemorySize) string {
	if maxLen == 0 {
		return ""
	}
	data, err := a.ReadBytes(addr, maxLen)
	if err != nil {
		return ""
	}
	for i, b := range data {
		if b == 0 {
			return string(data[:i])
		}
	}
	return string(data)
}

// WriteValue writes a typed patch value at addr.
func (a *Accessor) WriteValue(addr process.MemoryAddress, value process.Value) error {
	switch value.Kind {
	case process.KindInt32:
		return a.WriteInt32(addr, value.I32)
	case process.KindFloat32:
		return a.WriteFloat32(addr, value.F32)
	case process.KindFloat64:
		return a.WriteFloat64(addr, value.F64)
	}
	return fmt.Errorf("unknown value kind %v", value.Kind)
}
