//go:build windows

package main

import (
	"github.com/Zenakin-1777/TerrariaMenu/process"
	"github.com/Zenakin-1777/TerrariaMenu/process_windows"
)

func newLocator() process.Locator {
	return process_windows.NewLocator()
}
