package hook

import (
	"fmt"
	"unsafe"

	"github.com/apex/log"
)

// BufferSize is the fixed capacity of a generated-code buffer.
const BufferSize = 256

// Buffer is a fixed-size executable allocation holding generated machine
// code. It lives until process exit: the host may enter the code at any
// later time, so there is no safe moment to release it. A leak detector
// that flags the allocation is reporting intended behavior.
type Buffer struct {
	mem  []byte
	used int
}

// NewBuffer allocates an executable, writable code buffer.
func NewBuffer() (*Buffer, error) {
	mem, err := allocExec(BufferSize)
	if err != nil {
		return nil, fmt.Errorf("hook: allocate code buffer: %w", err)
	}
	return &Buffer{mem: mem}, nil
}

// Entry returns the address of the first byte of generated code.
func (b *Buffer) Entry() uintptr {
	return uintptr(unsafe.Pointer(unsafe.SliceData(b.mem)))
}

// Size returns the number of committed code bytes.
func (b *Buffer) Size() int { return b.used }

// commit copies generated code into the buffer, seals it read+execute and
// flushes the instruction cache for the written range.
func (b *Buffer) commit(code []byte) error {
	if len(code) > len(b.mem) {
		return ErrCodeTooLarge
	}
	copy(b.mem, code)
	b.used = len(code)
	if err := sealExec(b.mem); err != nil {
		// The code is in place and executable either way; only the page
		// protection is looser than intended.
		log.WithError(err).Warn("seal code buffer")
	}
	cacheflush(b.mem[:b.used])
	return nil
}
