//go:build windows

package hook

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

const (
	protRX  = windows.PAGE_EXECUTE_READ
	protRWX = windows.PAGE_EXECUTE_READWRITE
)

func mprotect(buf []byte, prot int) error {
	addr := uintptr(unsafe.Pointer(unsafe.SliceData(buf)))

	var old uint32
	return windows.VirtualProtect(addr, uintptr(len(buf)), uint32(prot), &old)
}
