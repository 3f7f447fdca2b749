package memscan

import "sync"

// Features records which SIMD tiers are both CPU-capable and OS-enabled on
// this machine. Immutable after detection.
type Features struct {
	SSE2 bool
	AVX2 bool
}

// Tiers returns the scan tiers the feature set permits, widest first.
func (f Features) Tiers() []Tier {
	tiers := make([]Tier, 0, int(tierCount))
	if f.AVX2 {
		tiers = append(tiers, TierAVX2)
	}
	if f.SSE2 {
		tiers = append(tiers, TierSSE2)
	}
	return append(tiers, TierScalar)
}

// Detect probes the processor once and caches the result for the life of
// the process. It never fails: anything it cannot confirm is reported
// unavailable.
var Detect = sync.OnceValue(detect)
