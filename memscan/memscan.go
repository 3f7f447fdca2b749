// Package memscan locates byte signatures in raw memory of the running
// process. It exists to find a known fragment of host machine code whose
// address changes between binary revisions, so everything operates on
// uintptr ranges rather than Go slices: the memory being searched is owned
// by the host, not by us.
package memscan

import (
	"bytes"
	"unsafe"
)

// Region is a half-open [Start, End) address range inside the process. The
// scanner only ever reads it.
type Region struct {
	Start uintptr
	End   uintptr
}

// Len returns the number of bytes in the region, or 0 for an inverted range.
func (r Region) Len() int {
	if r.End <= r.Start {
		return 0
	}
	return int(r.End - r.Start)
}

// Tier selects a scanner implementation. All tiers return identical results
// over the same memory; they differ only in speed.
type Tier int

const (
	TierScalar Tier = iota
	TierSSE2
	TierAVX2

	tierCount
)

func (t Tier) String() string {
	switch t {
	case TierScalar:
		return "scalar"
	case TierSSE2:
		return "sse2"
	case TierAVX2:
		return "avx2"
	}
	return "unknown"
}

// Scan returns the lowest address in r where sig matches byte for byte, or 0
// if the signature is absent. Degenerate inputs (empty signature, empty or
// inverted region, region shorter than the signature) return 0 without
// reading any memory.
func Scan(r Region, sig []byte, tier Tier) uintptr {
	switch tier {
	case TierAVX2:
		return scanAVX2(r, sig)
	case TierSSE2:
		return scanSSE2(r, sig)
	}
	return scanScalar(r, sig)
}

// scanBounds validates the inputs and computes one past the last address a
// match may start at. A match starting at scanEnd-1 ends exactly at End-1;
// anything later would read past End, which may be the edge of mapped
// memory. ok is false when nothing can match; no memory has been touched by
// then.
func scanBounds(r Region, sig []byte) (scanEnd uintptr, ok bool) {
	if len(sig) == 0 || r.End <= r.Start {
		return 0, false
	}
	if uintptr(len(sig)) > r.End-r.Start {
		return 0, false
	}
	scanEnd = r.End - uintptr(len(sig)) + 1
	if scanEnd <= r.Start {
		return 0, false
	}
	return scanEnd, true
}

func scanScalar(r Region, sig []byte) uintptr {
	scanEnd, ok := scanBounds(r, sig)
	if !ok {
		return 0
	}
	return scalarRange(r.Start, scanEnd, sig)
}

// scalarRange is the byte-by-byte search over [start, scanEnd). It is also
// the tail pass of the SIMD tiers.
func scalarRange(start, scanEnd uintptr, sig []byte) uintptr {
	first := sig[0]
	for addr := start; addr < scanEnd; addr++ {
		if *(*byte)(unsafe.Pointer(addr)) == first && matchAt(addr, sig) {
			return addr
		}
	}
	return 0
}

// matchAt compares len(sig) live bytes at addr against sig.
func matchAt(addr uintptr, sig []byte) bool {
	live := unsafe.Slice((*byte)(unsafe.Pointer(addr)), len(sig))
	return bytes.Equal(live, sig)
}
