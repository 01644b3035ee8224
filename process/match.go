package process

import (
	"path/filepath"
	"strings"
)

// MatchName reports whether a process name matches a query, comparing
// case-insensitively and ignoring any file extension on either side, so
// "terraria" matches "Terraria.exe" and vice versa.
func MatchName(procName, query string) bool {
	return strings.EqualFold(stripExt(procName), stripExt(query))
}

func stripExt(name string) string {
	if ext := filepath.Ext(name); ext != "" {
		return name[:len(name)-len(ext)]
	}
	return name
}
