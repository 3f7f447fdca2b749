//go:build amd64

package memscan

// CPUID and XGETBV go through package variables so tests can stand in a
// simulated processor.
var (
	cpuid  = cpuidAsm
	xgetbv = xgetbvAsm
)

//go:noescape
func cpuidAsm(leaf, subleaf uint32) (eax, ebx, ecx, edx uint32)

//go:noescape
func xgetbvAsm(index uint32) (eax, edx uint32)

const (
	cpuidSSE2    = 1 << 26 // leaf 1, EDX
	cpuidOSXSAVE = 1 << 27 // leaf 1, ECX
	cpuidAVX     = 1 << 28 // leaf 1, ECX
	cpuidAVX2    = 1 << 5  // leaf 7, EBX

	// XCR0 bits 1 and 2: the OS saves XMM and YMM state across context
	// switches.
	xcr0AVXState = 0x6
)

func detect() Features {
	var f Features

	_, _, ecx, edx := cpuid(1, 0)
	f.SSE2 = edx&cpuidSSE2 != 0

	// The AVX CPU flag alone is not enough. Unless the OS has enabled
	// extended state save/restore, executing a 256-bit instruction either
	// raises #UD or silently corrupts the upper register halves on a
	// context switch.
	if ecx&cpuidOSXSAVE == 0 || ecx&cpuidAVX == 0 {
		return f
	}
	if lo, _ := xgetbv(0); lo&xcr0AVXState != xcr0AVXState {
		return f
	}

	maxLeaf, _, _, _ := cpuid(0, 0)
	if maxLeaf < 7 {
		return f
	}
	_, ebx, _, _ := cpuid(7, 0)
	f.AVX2 = ebx&cpuidAVX2 != 0
	return f
}
