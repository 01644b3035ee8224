//go:build linux

package process_linux

import (
	"strings"
	"testing"
)

const sampleMaps = `00400000-0040b000 r-xp 00000000 08:01 1234 /usr/bin/target
0060a000-0060b000 rw-p 0000a000 08:01 1234 /usr/bin/target
00c00000-00c21000 rw-p 00000000 00:00 0 [heap]
7f0000000000-7f0000021000 rw-p 00000000 00:00 0
7f0000400000-7f0000500000 r-xp 00000000 08:01 5678 /usr/lib/libc.so.6
garbage line
ffffffffff600000-ffffffffff601000 --xp 00000000 00:00 0 [vsyscall]
`

func TestParseMaps(t *testing.T) {
	maps, err := parseMaps(strings.NewReader(sampleMaps))
	if err != nil {
		t.Fatalf("parseMaps: %v", err)
	}
	if len(maps) != 6 {
		t.Fatalf("len(maps) = %d, want 6", len(maps))
	}

	first := maps[0]
	if first.start != 0x400000 || first.end != 0x40b000 {
		t.Errorf("range = %x-%x, want 400000-40b000", first.start, first.end)
	}
	if first.perms != "r-xp" {
		t.Errorf("perms = %q, want r-xp", first.perms)
	}
	if first.pathname != "/usr/bin/target" {
		t.Errorf("pathname = %q, want /usr/bin/target", first.pathname)
	}
	if maps[2].pathname != "[heap]" {
		t.Errorf("pathname = %q, want [heap]", maps[2].pathname)
	}
	if maps[3].pathname != "" {
		t.Errorf("anonymous mapping pathname = %q, want empty", maps[3].pathname)
	}
}

func TestModuleBase(t *testing.T) {
	maps, err := parseMaps(strings.NewReader(sampleMaps))
	if err != nil {
		t.Fatalf("parseMaps: %v", err)
	}

	base, err := moduleBase(maps, "/usr/bin/target")
	if err != nil {
		t.Fatalf("moduleBase: %v", err)
	}
	if base != 0x400000 {
		t.Errorf("moduleBase = %s, want 0x400000", base)
	}

	// Unknown exe falls back to the first file-backed mapping.
	base, err = moduleBase(maps, "")
	if err != nil {
		t.Fatalf("moduleBase fallback: %v", err)
	}
	if base != 0x400000 {
		t.Errorf("moduleBase fallback = %s, want 0x400000", base)
	}

	if _, err := moduleBase(nil, "/usr/bin/target"); err == nil {
		t.Error("moduleBase with no mappings should fail")
	}
}
