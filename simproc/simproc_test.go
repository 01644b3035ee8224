package simproc

import (
	"errors"
	"math"
	"testing"

	"github.com/Zenakin-1777/TerrariaMenu/process"
)

func TestReadWriteBounds(t *testing.T) {
	p := New(100, "Terraria.exe", 0x1000, 256)

	if err := p.WriteMemory(0x1010, []byte{1, 2, 3, 4}); err != nil {
		t.Fatalf("WriteMemory: %v", err)
	}
	got, err := p.ReadMemory(0x1010, 4)
	if err != nil {
		t.Fatalf("ReadMemory: %v", err)
	}
	if got[0] != 1 || got[3] != 4 {
		t.Errorf("ReadMemory = %v, want [1 2 3 4]", got)
	}

	if _, err := p.ReadMemory(0x0500, 4); !errors.Is(err, process.ErrInvalidAddress) {
		t.Errorf("read below region: err = %v, want ErrInvalidAddress", err)
	}
	if _, err := p.ReadMemory(0x10FE, 4); !errors.Is(err, process.ErrInvalidAddress) {
		t.Errorf("read past region end: err = %v, want ErrInvalidAddress", err)
	}
	if err := p.WriteMemory(0x2000, []byte{1}); !errors.Is(err, process.ErrInvalidAddress) {
		t.Errorf("write past region: err = %v, want ErrInvalidAddress", err)
	}
}

func TestNearMaxAddressRejected(t *testing.T) {
	p := New(100, "Terraria.exe", 0x1000, 4096)

	// Addresses near the top of the space must fail cleanly, not wrap the
	// bounds arithmetic and panic on the slice.
	for _, addr := range []process.MemoryAddress{math.MaxUint64, math.MaxUint64 - 1, math.MaxUint64 - 4096} {
		if _, err := p.ReadMemory(addr, 2); !errors.Is(err, process.ErrInvalidAddress) {
			t.Errorf("ReadMemory(%s): err = %v, want ErrInvalidAddress", addr, err)
		}
		if err := p.WriteMemory(addr, []byte{1, 2, 3, 4}); !errors.Is(err, process.ErrInvalidAddress) {
			t.Errorf("WriteMemory(%s): err = %v, want ErrInvalidAddress", addr, err)
		}
	}

	// Oversized reads at a valid base must fail the same way.
	if _, err := p.ReadMemory(0x1000, math.MaxUint); !errors.Is(err, process.ErrInvalidAddress) {
		t.Errorf("oversized read: err = %v, want ErrInvalidAddress", err)
	}
}

func TestTerminate(t *testing.T) {
	p := New(100, "Terraria.exe", 0x1000, 64)

	if !p.Alive() {
		t.Fatal("new process should be alive")
	}
	p.Terminate()
	if p.Alive() {
		t.Error("terminated process should not be alive")
	}
	if _, err := p.ReadMemory(0x1000, 4); !errors.Is(err, process.ErrProcessGone) {
		t.Errorf("read after terminate: err = %v, want ErrProcessGone", err)
	}
	if err := p.WriteMemory(0x1000, []byte{1}); !errors.Is(err, process.ErrProcessGone) {
		t.Errorf("write after terminate: err = %v, want ErrProcessGone", err)
	}
}

func TestLocator(t *testing.T) {
	a := New(300, "Terraria.exe", 0x1000, 64)
	b := New(200, "Terraria.exe", 0x1000, 64)
	other := New(50, "steam", 0x1000, 64)
	loc := NewLocator(a, b, other)

	tp, err := loc.FindProcess("terraria")
	if err != nil {
		t.Fatalf("FindProcess: %v", err)
	}
	if tp.PID != 200 {
		t.Errorf("FindProcess picked pid %d, want lowest pid 200", int(tp.PID))
	}

	if _, err := loc.FindProcess("Missing"); !errors.Is(err, process.ErrNoProcess) {
		t.Errorf("FindProcess(Missing): err = %v, want ErrNoProcess", err)
	}

	if !loc.IsValid(tp) {
		t.Error("IsValid = false for live process")
	}
	b.Terminate()
	if loc.IsValid(tp) {
		t.Error("IsValid = true for terminated process")
	}
	if _, err := loc.Open(tp); !errors.Is(err, process.ErrProcessGone) {
		t.Errorf("Open terminated: err = %v, want ErrProcessGone", err)
	}

	base, err := loc.MainModuleBase(&process.TargetProcess{PID: 50})
	if err != nil {
		t.Fatalf("MainModuleBase: %v", err)
	}
	if base != 0x1000 {
		t.Errorf("MainModuleBase = %s, want 0x1000", base)
	}
}
