//go:build amd64 && !noasm

package memscan

import (
	"math/bits"
	"unsafe"
)

// Kernels in scan_amd64.s. Each compares one unaligned window of memory
// against a broadcast first byte and returns a bitmask with one bit per
// matching byte position, bit 0 being the lowest address. The loads are
// unaligned on purpose: the scan region starts wherever the host module was
// mapped, and an aligned load against an arbitrary base would itself fault.

//go:noescape
func maskFirstByte16(p unsafe.Pointer, b byte) uint32

//go:noescape
func maskFirstByte32(p unsafe.Pointer, b byte) uint32

func scanSSE2(r Region, sig []byte) uintptr {
	scanEnd, ok := scanBounds(r, sig)
	if !ok {
		return 0
	}
	return scanWide(r.Start, scanEnd, sig, 16, maskFirstByte16)
}

func scanAVX2(r Region, sig []byte) uintptr {
	scanEnd, ok := scanBounds(r, sig)
	if !ok {
		return 0
	}
	return scanWide(r.Start, scanEnd, sig, 32, maskFirstByte32)
}

// scanWide walks width-sized windows over [start, scanEnd). A window load
// reads width bytes, so only windows with addr+width <= scanEnd are taken;
// since scanEnd never exceeds the region end, no load reads past it. The
// first-byte mask is a filter, not proof: every set bit is confirmed with a
// full byte compare, lowest address first. The remainder shorter than one
// window falls through to the scalar pass with the same boundary.
func scanWide(start, scanEnd uintptr, sig []byte, width uintptr, mask func(unsafe.Pointer, byte) uint32) uintptr {
	first := sig[0]
	addr := start
	for ; addr+width <= scanEnd; addr += width {
		m := mask(unsafe.Pointer(addr), first)
		for m != 0 {
			candidate := addr + uintptr(bits.TrailingZeros32(m))
			if matchAt(candidate, sig) {
				return candidate
			}
			m &= m - 1
		}
	}
	return scalarRange(addr, scanEnd, sig)
}
