//go:build !windows

package toyourface

import "errors"

// Only the Windows build knows how to find the host executable; other
// platforms must supply Options.ModuleBase explicitly. Tests do.
func hostModuleBase() (uintptr, error) {
	return 0, errors.New("no host module resolution on this platform, set Options.ModuleBase")
}
