package hook

import "fmt"

// BuildTrampoline generates the hook routine into a fresh executable
// buffer. callbackAddr is the absolute address of the decision callback;
// returnAddr is the host address immediately after the overwritten bytes.
//
// The routine may be entered concurrently by any number of host threads; it
// keeps no state of its own, so everything it depends on must be immutable
// by the time the redirect is installed.
func BuildTrampoline(callbackAddr, returnAddr uintptr) (*Trampoline, error) {
	code, err := trampolineCode(callbackAddr, returnAddr, BufferSize)
	if err != nil {
		return nil, err
	}

	buf, err := NewBuffer()
	if err != nil {
		return nil, err
	}
	if err := buf.commit(code); err != nil {
		return nil, fmt.Errorf("hook: install trampoline code: %w", err)
	}
	return &Trampoline{buf: buf}, nil
}

// trampolineCode emits the routine. Separate from buffer handling so tests
// can decode the bytes without touching executable memory.
func trampolineCode(callbackAddr, returnAddr uintptr, capacity int) ([]byte, error) {
	a := newAssembler(capacity)

	// The overwritten host code left its verdict in EBP; start from a
	// known zero.
	a.xorEbpEbp()

	// Preserve caller state around the callback. RAX goes on twice so RSP
	// sits on a 16-byte boundary at the CALL; callees that spill vector
	// registers fault on a misaligned stack.
	a.push(regRAX)
	a.push(regRAX)
	a.push(regRCX)
	a.push(regRDX)

	// The host carries the subject pointer in RDI at this splice point;
	// the callback takes it as its first argument.
	a.movReg(regRCX, regRDI)

	// The callback's address has no link-time relationship to this buffer,
	// so the call must go through a 64-bit absolute.
	a.movRegImm64(regRAX, uint64(callbackAddr))
	a.callReg(regRAX)
	a.testAlAl()

	a.pop(regRDX)
	a.pop(regRCX)
	a.pop(regRAX)
	a.pop(regRAX)

	// Callback verdict into the flag byte the resumed host code reads.
	a.setneBpl()

	// The overwritten instructions always produced EAX = 1. Later host
	// code may read it, so keep producing it.
	a.movEaxImm32(1)

	// Resume the host with an absolute jump that disturbs no register:
	// stash the return address through the stack and RET into it. This is
	// a mid-function splice, not a subroutine, so a CALL would wreck the
	// host's stack.
	a.push(regRAX)
	a.movRegImm64(regRAX, uint64(returnAddr))
	a.xchgRaxStackTop()
	a.ret()

	return a.code()
}
