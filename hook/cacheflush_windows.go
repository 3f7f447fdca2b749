//go:build windows

package hook

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	kernel32                  = windows.NewLazySystemDLL("kernel32.dll")
	procFlushInstructionCache = kernel32.NewProc("FlushInstructionCache")
)

// cacheflush invalidates any prefetched or cached instructions for the
// modified range so no processor keeps executing the pre-patch bytes.
func cacheflush(buf []byte) {
	addr := uintptr(unsafe.Pointer(unsafe.SliceData(buf)))
	procFlushInstructionCache.Call(
		uintptr(windows.CurrentProcess()),
		addr,
		uintptr(len(buf)))
}
