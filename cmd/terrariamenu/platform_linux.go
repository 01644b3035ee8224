//go:build linux

package main

import (
	"github.com/Zenakin-1777/TerrariaMenu/process"
	"github.com/Zenakin-1777/TerrariaMenu/process_linux"
)

func newLocator() process.Locator {
	return process_linux.NewLocator()
}
