package toyourface

import (
	"errors"
	"fmt"
	"time"

	"github.com/apex/log"
	"github.com/klauspost/cpuid/v2"

	"github.com/LandingCrew/to-your-face-reloaded/hook"
	"github.com/LandingCrew/to-your-face-reloaded/memscan"
)

// ErrVerifyMismatch means the scanner reported a match but the bytes at
// that address no longer equal the signature. Another plugin patching the
// same routine is the usual cause.
var ErrVerifyMismatch = errors.New("toyourface: bytes at located address do not match signature")

// Options configures Install.
type Options struct {
	// CallbackAddr is the absolute address of the decision callback the
	// generated code calls before every greeting. On Windows, obtain it
	// with hook.NewDecisionCallback.
	CallbackAddr uintptr

	// ModuleBase overrides host module resolution. Zero means resolve
	// the running executable's base address automatically.
	ModuleBase uintptr
}

// Report describes a successful installation.
type Report struct {
	// Address is where the signature was found and the redirect written.
	Address uintptr
	// Tier is the scan tier that located it.
	Tier memscan.Tier
	// ScanTime is how long the scan took.
	ScanTime time.Duration
	// HookAddr and HookSize describe the generated routine.
	HookAddr uintptr
	HookSize int
}

// Install locates the host's comment routine and splices the greeting
// filter into it. Every failure is returned rather than panicked: the
// host treats a failed install as "plugin loads but stays inert". The
// hook is permanent; there is no uninstall.
func Install(opts Options) (*Report, error) {
	if opts.CallbackAddr == 0 {
		return nil, errors.New("toyourface: decision callback address is required")
	}

	base := opts.ModuleBase
	if base == 0 {
		var err error
		base, err = hostModuleBase()
		if err != nil {
			return nil, fmt.Errorf("toyourface: resolve host module: %w", err)
		}
	}

	region := memscan.Region{
		Start: base + scanStartOffset,
		End:   base + scanStartOffset + scanSize,
	}

	feats := memscan.Detect()
	log.WithFields(log.Fields{
		"cpu":  cpuid.CPU.BrandName,
		"sse2": feats.SSE2,
		"avx2": feats.AVX2,
	}).Info("cpu features")
	log.WithFields(log.Fields{
		"start": fmt.Sprintf("0x%x", region.Start),
		"end":   fmt.Sprintf("0x%x", region.End),
		"bytes": len(commentSignature),
	}).Info("scanning for comment routine")

	searcher := memscan.NewSearcher(feats)
	begin := time.Now()
	addr, tier, err := searcher.Search(region, commentSignature)
	elapsed := time.Since(begin)
	if err != nil {
		return nil, fmt.Errorf("toyourface: scan failed after %s: %w", elapsed, err)
	}
	log.WithFields(log.Fields{
		"address": fmt.Sprintf("0x%x", addr),
		"offset":  fmt.Sprintf("+0x%x", addr-base),
		"tier":    tier.String(),
		"elapsed": elapsed.String(),
	}).Info("signature located")

	if !memscan.Verify(addr, commentSignature) {
		for _, m := range memscan.Mismatches(addr, commentSignature) {
			log.WithFields(log.Fields{
				"offset": m.Offset,
				"want":   fmt.Sprintf("0x%02x", m.Want),
				"got":    fmt.Sprintf("0x%02x", m.Got),
			}).Error("signature mismatch")
		}
		return nil, ErrVerifyMismatch
	}

	// Execution resumes at the first byte past the overwritten region.
	tramp, err := hook.BuildTrampoline(opts.CallbackAddr, addr+uintptr(len(commentSignature)))
	if err != nil {
		return nil, fmt.Errorf("toyourface: build trampoline: %w", err)
	}
	log.WithFields(log.Fields{
		"entry": fmt.Sprintf("0x%x", tramp.Entry()),
		"size":  tramp.Size(),
	}).Info("hook routine generated")

	if err := hook.InstallRedirect(addr, tramp.Entry(), len(commentSignature)); err != nil {
		return nil, fmt.Errorf("toyourface: install redirect: %w", err)
	}
	log.Info("hook installed")

	return &Report{
		Address:  addr,
		Tier:     tier,
		ScanTime: elapsed,
		HookAddr: tramp.Entry(),
		HookSize: tramp.Size(),
	}, nil
}
