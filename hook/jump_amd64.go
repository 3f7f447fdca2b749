package hook

import (
	"fmt"
	"unsafe"

	"github.com/apex/log"
)

// RedirectSize is the smallest overwrite that fits the redirect sequence:
// MOV R11, imm64 (10 bytes) followed by JMP R11 (3 bytes).
const RedirectSize = 13

// encodeRedirect builds the splice written over the target: load the
// destination into R11 and jump through it. R11 is a scratch register the
// host calling convention lets a call site clobber freely; routing the jump
// through RAX instead silently corrupts a value downstream host code still
// reads, which shows up as a crash nowhere near the hook. Anything between
// the jump and overwriteLen is filled with single-byte NOPs so no partial
// instruction is left if execution lands past the jump.
func encodeRedirect(dest uintptr, overwriteLen int) ([]byte, error) {
	if overwriteLen < RedirectSize {
		return nil, fmt.Errorf("%w: need %d bytes, have %d", ErrOverwriteTooShort, RedirectSize, overwriteLen)
	}

	a := newAssembler(overwriteLen)
	a.movRegImm64(regR11, uint64(dest))
	a.jmpReg(regR11)
	for a.size() < overwriteLen {
		a.nop()
	}
	return a.code()
}

// InstallRedirect overwrites overwriteLen bytes at target with an absolute
// jump to dest. The target page is made writable for the copy and flipped
// back afterwards; a failure to flip back is logged and tolerated, since
// the patched bytes remain valid and executable either way. The instruction
// cache is flushed before returning so no thread keeps executing the
// pre-patch bytes.
//
// Patching the same target twice is undefined; the installer calls this at
// most once per process.
func InstallRedirect(target, dest uintptr, overwriteLen int) error {
	code, err := encodeRedirect(dest, overwriteLen)
	if err != nil {
		return err
	}

	site := unsafe.Slice((*byte)(unsafe.Pointer(target)), overwriteLen)
	if err := mprotect(site, protRWX); err != nil {
		return fmt.Errorf("hook: make target writable: %w", err)
	}
	copy(site, code)
	if err := mprotect(site, protRX); err != nil {
		log.WithError(err).Warn("restore target protection")
	}
	cacheflush(site)
	return nil
}
