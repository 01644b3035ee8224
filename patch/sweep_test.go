package patch

import (
	"bytes"
	"testing"
	"time"

	"github.com/Zenakin-1777/TerrariaMenu/accessor"
	"github.com/Zenakin-1777/TerrariaMenu/process"
	"github.com/Zenakin-1777/TerrariaMenu/simproc"
)

const (
	addrHealth = process.MemoryAddress(0x1010) // int32
	addrSpeed  = process.MemoryAddress(0x1018) // float32
)

func newFreezeFixture(t *testing.T) (*Scheduler, *accessor.Accessor, *simproc.SimProcess) {
	t.Helper()
	sim := simproc.New(100, "Terraria.exe", 0x1000, 256)
	loc := simproc.NewLocator(sim)
	acc := accessor.New(loc)

	tgt := sim.Target()
	if _, err := acc.Attach(&tgt); err != nil {
		t.Fatalf("Attach: %v", err)
	}

	s := NewScheduler(acc,
		WithInterval(10*time.Millisecond),
		WithIdleInterval(20*time.Millisecond),
		WithStopTimeout(time.Second))
	t.Cleanup(s.Stop)
	return s, acc, sim
}

// waitFor polls cond until it holds or the deadline expires.
func waitFor(t *testing.T, d time.Duration, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(d)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal(msg)
}

func TestFreezeBeatsConcurrentWriter(t *testing.T) {
	s, acc, sim := newFreezeFixture(t)

	s.Upsert("health", addrHealth, process.Int32Value(100))
	s.Upsert("speed", addrSpeed, process.Float32Value(2.5))
	s.Activate("health")
	s.Activate("speed")

	// Independent writer hammers the health address, simulating the game's
	// own writes.
	stop := make(chan struct{})
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		for {
			select {
			case <-stop:
				return
			case <-time.After(3 * time.Millisecond):
				sim.WriteMemory(addrHealth, []byte{0x37, 0x13, 0x00, 0x00})
			}
		}
	}()

	time.Sleep(80 * time.Millisecond)
	close(stop)
	<-writerDone

	// With the contending writer gone, the next sweep re-asserts both values.
	waitFor(t, time.Second, func() bool {
		h, err := acc.ReadInt32(addrHealth)
		if err != nil || h != 100 {
			return false
		}
		sp, err := acc.ReadFloat32(addrSpeed)
		return err == nil && sp == 2.5
	}, "frozen values were not re-asserted after the concurrent writer stopped")
}

func TestLatestUpsertValueWins(t *testing.T) {
	s, acc, _ := newFreezeFixture(t)

	s.Upsert("health", addrHealth, process.Int32Value(100))
	s.Activate("health")
	waitFor(t, time.Second, func() bool {
		v, err := acc.ReadInt32(addrHealth)
		return err == nil && v == 100
	}, "initial value never swept")

	s.Upsert("health", addrHealth, process.Int32Value(250))
	waitFor(t, time.Second, func() bool {
		v, err := acc.ReadInt32(addrHealth)
		return err == nil && v == 250
	}, "replaced value never swept")
}

func TestDeactivateAllStopsWrites(t *testing.T) {
	s, acc, sim := newFreezeFixture(t)

	s.Upsert("a", 0x1020, process.Int32Value(11))
	s.Upsert("b", 0x1030, process.Int32Value(22))
	s.Upsert("c", 0x1040, process.Float64Value(33.0))
	for _, name := range []string{"a", "b", "c"} {
		s.Activate(name)
	}
	waitFor(t, time.Second, func() bool {
		v, err := acc.ReadInt32(0x1020)
		return err == nil && v == 11
	}, "patches never swept")

	s.DeactivateAll()
	if s.ActiveCount() != 0 {
		t.Fatalf("ActiveCount = %d, want 0", s.ActiveCount())
	}
	if got := s.ListNames(); len(got) != 3 {
		t.Fatalf("ListNames = %v, want all three kept", got)
	}

	// Let any in-flight tick drain, scribble over the patched addresses,
	// then verify no sweep restores them.
	time.Sleep(30 * time.Millisecond)
	sim.WriteMemory(0x1020, []byte{9, 9, 9, 9})
	before := sim.Snapshot()
	time.Sleep(50 * time.Millisecond)
	after := sim.Snapshot()
	if !bytes.Equal(before, after) {
		t.Error("memory changed after DeactivateAll; sweep is still writing")
	}
}

func TestDetachMidSweepIsSafe(t *testing.T) {
	s, acc, sim := newFreezeFixture(t)

	s.Upsert("health", addrHealth, process.Int32Value(100))
	s.Activate("health")
	waitFor(t, time.Second, func() bool {
		v, err := acc.ReadInt32(addrHealth)
		return err == nil && v == 100
	}, "patch never swept")

	// Detach while the loop is running; sweeps must degrade to skipped
	// ticks, not crash.
	acc.Detach()
	if acc.IsAttached() {
		t.Fatal("IsAttached = true after Detach")
	}

	time.Sleep(30 * time.Millisecond)
	sim.WriteMemory(addrHealth, []byte{1, 2, 3, 4})
	before := sim.Snapshot()
	time.Sleep(60 * time.Millisecond)
	after := sim.Snapshot()
	if !bytes.Equal(before, after) {
		t.Error("sweep wrote to target while detached")
	}

	// Re-attach: freezing resumes without restarting the scheduler.
	tgt := sim.Target()
	if _, err := acc.Attach(&tgt); err != nil {
		t.Fatalf("re-Attach: %v", err)
	}
	waitFor(t, time.Second, func() bool {
		v, err := acc.ReadInt32(addrHealth)
		return err == nil && v == 100
	}, "freezing did not resume after re-attach")
}

func TestTargetExitDoesNotStopLoop(t *testing.T) {
	s, _, sim := newFreezeFixture(t)

	s.Upsert("health", addrHealth, process.Int32Value(100))
	s.Activate("health")
	waitFor(t, time.Second, func() bool {
		return s.Stats().Writes > 0
	}, "patch never swept")

	sim.Terminate()

	// The loop keeps ticking; writes are skipped or fail, never fatal.
	time.Sleep(60 * time.Millisecond)
	if !s.IsActive("health") {
		t.Error("entry deactivated by target exit")
	}
	s.Stop()
}

func TestWriteFailureDoesNotAbortSweep(t *testing.T) {
	s, acc, _ := newFreezeFixture(t)

	// One entry points outside the mapped region and fails every tick.
	s.Upsert("broken", 0x9000, process.Int32Value(1))
	s.Upsert("health", addrHealth, process.Int32Value(100))
	s.Activate("broken")
	s.Activate("health")

	waitFor(t, time.Second, func() bool {
		v, err := acc.ReadInt32(addrHealth)
		return err == nil && v == 100
	}, "healthy entry starved by failing entry")

	waitFor(t, time.Second, func() bool {
		return s.Stats().WriteErrors > 0
	}, "failing entry never counted")
}
