//go:build !amd64 || noasm

package memscan

// Without the amd64 kernels the SIMD tiers run the scalar algorithm.
// Results are identical either way; only the speed differs.

func scanSSE2(r Region, sig []byte) uintptr { return scanScalar(r, sig) }

func scanAVX2(r Region, sig []byte) uintptr { return scanScalar(r, sig) }
