//go:build unix

package hook

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

const (
	protRX  = unix.PROT_READ | unix.PROT_EXEC
	protRWX = unix.PROT_READ | unix.PROT_WRITE | unix.PROT_EXEC
)

// mprotect changes the protection of every page overlapping buf. The
// kernel works in whole pages, so the address is rounded down to a page
// boundary and the length rounded up to cover the tail.
func mprotect(buf []byte, prot int) error {
	addr := uintptr(unsafe.Pointer(unsafe.SliceData(buf)))

	pageSize := uintptr(unix.Getpagesize())
	pageStart := addr &^ (pageSize - 1)

	span := (addr - pageStart) + uintptr(len(buf))
	span = (span + pageSize - 1) &^ (pageSize - 1)

	region := unsafe.Slice((*byte)(unsafe.Pointer(pageStart)), span)
	return unix.Mprotect(region, prot)
}
