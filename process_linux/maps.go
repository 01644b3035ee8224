//go:build linux

package process_linux

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/Zenakin-1777/TerrariaMenu/process"
)

// mapping is one parsed line of /proc/<pid>/maps.
type mapping struct {
	start, end uint64
	perms      string
	pathname   string
}

// mainModuleBase returns the start of the first mapping backed by the main
// executable. When the exe path is unknown (permission), the first
// file-backed mapping is used instead.
func mainModuleBase(pid process.ProcessID, exe string) (process.MemoryAddress, error) {
	f, err := os.Open(fmt.Sprintf("/proc/%d/maps", int(pid)))
	if err != nil {
		return 0, fmt.Errorf("open maps for pid %d: %w", int(pid), err)
	}
	defer f.Close()

	maps, err := parseMaps(f)
	if err != nil {
		return 0, fmt.Errorf("parse maps for pid %d: %w", int(pid), err)
	}
	return moduleBase(maps, exe)
}

func moduleBase(maps []mapping, exe string) (process.MemoryAddress, error) {
	if exe != "" {
		for _, m := range maps {
			if m.pathname == exe {
				return process.MemoryAddress(m.start), nil
			}
		}
	}
	for _, m := range maps {
		if strings.HasPrefix(m.pathname, "/") {
			return process.MemoryAddress(m.start), nil
		}
	}
	return 0, fmt.Errorf("no module mapping found")
}

func parseMaps(r io.Reader) ([]mapping, error) {
	var out []mapping
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 2 {
			continue
		}

		// Address range, e.g. "00400000-0040b000"
		addrRange := strings.Split(fields[0], "-")
		if len(addrRange) != 2 {
			continue
		}
		start, err := strconv.ParseUint(addrRange[0], 16, 64)
		if err != nil {
			continue
		}
		end, err := strconv.ParseUint(addrRange[1], 16, 64)
		if err != nil {
			continue
		}

		m := mapping{start: start, end: end, perms: fields[1]}
		if len(fields) >= 6 {
			m.pathname = fields[5]
		}
		out = append(out, m)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
