package memscan

import (
	"errors"
	"fmt"
	"runtime/debug"
)

// ErrNotFound is returned when no tier could locate the signature.
var ErrNotFound = errors.New("memscan: signature not found")

// Searcher owns the tier-escalation policy: attempt the widest tier the
// feature detection allows, and if a tier faults at runtime, permanently
// rule it out and retry with the next narrower one. The zero value consults
// Detect on first use.
//
// A Searcher is not safe for concurrent use; the installation flow runs it
// exactly once on the load thread.
type Searcher struct {
	feats    Features
	detected bool
	disabled [tierCount]bool

	// scanFn stands in for Scan in tests.
	scanFn func(Region, []byte, Tier) uintptr
}

// NewSearcher returns a Searcher restricted to the tiers f allows.
func NewSearcher(f Features) *Searcher {
	return &Searcher{feats: f, detected: true}
}

// Available reports whether a tier may still be attempted.
func (s *Searcher) Available(t Tier) bool {
	if s.disabled[t] {
		return false
	}
	switch t {
	case TierAVX2:
		return s.feats.AVX2
	case TierSSE2:
		return s.feats.SSE2
	}
	return true
}

// disable rules out t and every wider tier for the rest of the process.
// Go cannot tell an illegal-instruction trap from an access fault once
// recovered, so this takes the conservative union: a tier that faulted is
// never retried, and neither is anything wider. The ladder runs widest
// first, so the wider tiers have already had their chance by then.
func (s *Searcher) disable(t Tier) {
	for i := t; i < tierCount; i++ {
		s.disabled[i] = true
	}
}

// Search runs the tier ladder over r and returns the first match address
// and the tier that produced it. A clean not-found result from one tier
// still tries the narrower ones; the tiers are behaviorally equivalent, but
// a miss from a faulty SIMD path must not be the final word on whether the
// signature exists. The scalar pass runs behind its own fault boundary,
// separate from the SIMD ones: there is nothing narrower to fall back to,
// so a scalar fault means the region itself is unreadable and the search
// ends in not-found rather than a dead host process.
func (s *Searcher) Search(r Region, sig []byte) (uintptr, Tier, error) {
	if !s.detected {
		s.feats = Detect()
		s.detected = true
	}

	for _, t := range []Tier{TierAVX2, TierSSE2} {
		if !s.Available(t) {
			continue
		}
		addr, err := s.scanGuarded(r, sig, t)
		if err != nil {
			s.disable(t)
			continue
		}
		if addr != 0 {
			return addr, t, nil
		}
	}

	if addr, err := s.scanGuarded(r, sig, TierScalar); err == nil && addr != 0 {
		return addr, TierScalar, nil
	}
	return 0, TierScalar, ErrNotFound
}

func (s *Searcher) scan(r Region, sig []byte, t Tier) uintptr {
	if s.scanFn != nil {
		return s.scanFn(r, sig, t)
	}
	return Scan(r, sig, t)
}

// scanGuarded runs one tier behind a fault boundary. SetPanicOnFault
// turns a hardware memory fault inside the scan into a runtime panic this
// frame can recover, which is the closest thing Go has to a structured
// exception handler.
func (s *Searcher) scanGuarded(r Region, sig []byte, t Tier) (addr uintptr, err error) {
	defer debug.SetPanicOnFault(debug.SetPanicOnFault(true))
	defer func() {
		if v := recover(); v != nil {
			err = fmt.Errorf("memscan: %s tier faulted: %v", t, v)
		}
	}()
	return s.scan(r, sig, t), nil
}
