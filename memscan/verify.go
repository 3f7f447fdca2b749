package memscan

import "unsafe"

// Verify re-checks that live memory at addr still carries sig byte for
// byte. It is the last gate before the patcher touches the host: a mismatch
// means the binary is a revision we do not know, and writing a redirect
// there would corrupt arbitrary code. A zero address or empty signature is
// reported as a mismatch without reading memory.
func Verify(addr uintptr, sig []byte) bool {
	if addr == 0 || len(sig) == 0 {
		return false
	}
	return matchAt(addr, sig)
}

// Mismatch describes one offset where live memory differs from the
// expected signature.
type Mismatch struct {
	Offset int
	Want   byte
	Got    byte
}

// Mismatches lists every differing offset at addr, for diagnostics after a
// failed Verify. Returns nil for a zero address.
func Mismatches(addr uintptr, sig []byte) []Mismatch {
	if addr == 0 {
		return nil
	}
	var diffs []Mismatch
	for i, want := range sig {
		got := *(*byte)(unsafe.Pointer(addr + uintptr(i)))
		if got != want {
			diffs = append(diffs, Mismatch{Offset: i, Want: want, Got: got})
		}
	}
	return diffs
}
