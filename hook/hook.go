// Package hook rewrites live executable memory of the running process. It
// builds a small machine-code routine into a private executable buffer and
// splices an absolute jump to it over a located host function, preserving
// the host's register and stack state around an external decision callback.
//
// Limitations:
//   - The generated code and the splice target x86-64 only. On other
//     architectures every installation call fails with ErrUnsupportedArch.
//   - A target address can be patched meaningfully once; re-patching the
//     same site is undefined.
//   - Nothing is ever unhooked. The code buffer stays mapped until process
//     exit because the host may enter it at any time.
package hook

import "errors"

var (
	// ErrOverwriteTooShort means the caller asked to overwrite fewer bytes
	// than the redirect sequence needs.
	ErrOverwriteTooShort = errors.New("hook: overwrite length below redirect size")
	// ErrCodeTooLarge means generated code did not fit its fixed buffer.
	ErrCodeTooLarge = errors.New("hook: generated code exceeds buffer capacity")
	// ErrUnsupportedArch means this build cannot generate code for the
	// splice target.
	ErrUnsupportedArch = errors.New("hook: code generation requires amd64")
)

// Trampoline is the generated hook routine: a fragment of machine code the
// spliced host function jumps into on every call. It consults the decision
// callback and resumes the host with the register state its callers expect.
type Trampoline struct {
	buf *Buffer
}

// Entry returns the address the redirect must jump to.
func (t *Trampoline) Entry() uintptr { return t.buf.Entry() }

// Size returns the number of generated code bytes.
func (t *Trampoline) Size() int { return t.buf.Size() }
