//go:build windows

package hook

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

func allocExec(size int) ([]byte, error) {
	addr, err := windows.VirtualAlloc(0, uintptr(size),
		windows.MEM_COMMIT|windows.MEM_RESERVE, windows.PAGE_EXECUTE_READWRITE)
	if err != nil {
		return nil, err
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(addr)), size), nil
}

func sealExec(mem []byte) error {
	return mprotect(mem, protRX)
}
