package toyourface

import (
	"golang.org/x/sys/windows"
)

// hostModuleBase returns the base load address of the running executable.
// GetModuleHandle with a nil name yields the main module, which is also
// its load address.
func hostModuleBase() (uintptr, error) {
	var h windows.Handle
	if err := windows.GetModuleHandleEx(0, nil, &h); err != nil {
		return 0, err
	}
	return uintptr(h), nil
}
