package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Zenakin-1777/TerrariaMenu/process"
)

func sampleConfig() *Config {
	return &Config{
		Process:         "Terraria",
		SweepIntervalMS: 50,
		Patches: []PatchConfig{
			{Name: "health", Base: "0x1010", Type: "int32", Value: "400"},
			{Name: "speed", Base: "0x30", Offsets: []string{"0x10", "0x20", "0x08"}, Type: "float32", Value: "2.5"},
			{Name: "coins", Base: "0x7FF612340000", Absolute: true, Type: "float64", Value: "1000000"},
		},
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yml")
	if err := Save(path, sampleConfig()); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Process != "Terraria" {
		t.Errorf("Process = %q, want %q", got.Process, "Terraria")
	}
	if got.SweepIntervalMS != 50 {
		t.Errorf("SweepIntervalMS = %d, want 50", got.SweepIntervalMS)
	}
	if len(got.Patches) != 3 {
		t.Fatalf("len(Patches) = %d, want 3", len(got.Patches))
	}
	if got.Patches[1].Name != "speed" || len(got.Patches[1].Offsets) != 3 {
		t.Errorf("Patches[1] = %+v, want speed with 3 offsets", got.Patches[1])
	}
}

func TestLoadRejectsBadConfigs(t *testing.T) {
	dir := t.TempDir()

	write := func(name, body string) string {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
		return path
	}

	if _, err := Load(filepath.Join(dir, "absent.yml")); err == nil {
		t.Error("Load of missing file should fail")
	}
	if _, err := Load(write("noproc.yml", "patches: []\n")); err == nil {
		t.Error("Load without process name should fail")
	}
	dup := "process: Terraria\npatches:\n - {name: a, base: \"0x10\", type: int32, value: \"1\"}\n - {name: a, base: \"0x20\", type: int32, value: \"2\"}\n"
	if _, err := Load(write("dup.yml", dup)); err == nil {
		t.Error("Load with duplicate patch names should fail")
	}
	bad := "process: Terraria\npatches:\n - {name: a, base: \"0x10\", type: int16, value: \"1\"}\n"
	if _, err := Load(write("badtype.yml", bad)); err == nil {
		t.Error("Load with unknown value type should fail")
	}
}

func TestPatchConfigParsing(t *testing.T) {
	pc := PatchConfig{Name: "speed", Base: "0x30", Offsets: []string{"0x10", "32"}, Type: "float32", Value: "2.5"}

	base, err := pc.BaseAddress(0x1000)
	if err != nil {
		t.Fatalf("BaseAddress: %v", err)
	}
	if base != 0x1030 {
		t.Errorf("BaseAddress = %s, want 0x1030", base)
	}

	abs := PatchConfig{Base: "0x5000", Absolute: true}
	base, err = abs.BaseAddress(0x1000)
	if err != nil || base != 0x5000 {
		t.Errorf("absolute BaseAddress = %s, %v, want 0x5000", base, err)
	}

	offs, err := pc.OffsetChain()
	if err != nil {
		t.Fatalf("OffsetChain: %v", err)
	}
	if len(offs) != 2 || offs[0] != 0x10 || offs[1] != 32 {
		t.Errorf("OffsetChain = %v, want [0x10 32]", offs)
	}

	v, err := pc.PatchValue()
	if err != nil {
		t.Fatalf("PatchValue: %v", err)
	}
	if v.Kind != process.KindFloat32 || v.F32 != 2.5 {
		t.Errorf("PatchValue = %v, want float32(2.5)", v)
	}

	if _, err := ParseAddress("zzz"); err == nil {
		t.Error("ParseAddress(zzz) should fail")
	}
	if _, err := (PatchConfig{Name: "x", Offsets: []string{"nope"}}).OffsetChain(); err == nil {
		t.Error("bad offset should fail")
	}
}

func TestLoadDefaultCreatesSample(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	if _, err := LoadDefault(); err == nil {
		t.Fatal("first LoadDefault should report the freshly created config")
	}

	path, err := DefaultPath()
	if err != nil {
		t.Fatalf("DefaultPath: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("default config not created: %v", err)
	}

	cfg, err := LoadDefault()
	if err != nil {
		t.Fatalf("second LoadDefault: %v", err)
	}
	if cfg.Process != "Terraria" {
		t.Errorf("Process = %q, want Terraria", cfg.Process)
	}
	if len(cfg.Patches) != 0 {
		t.Errorf("sample config has %d patches, want 0", len(cfg.Patches))
	}
}
