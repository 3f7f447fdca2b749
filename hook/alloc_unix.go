//go:build unix

package hook

import (
	"errors"
	"sync"

	"github.com/pboyd/malloc"
	"golang.org/x/sys/unix"
)

// execArena hands out executable memory for generated code. Allocations
// are never returned to the OS; see Buffer for why.
type execArena struct {
	arena    *malloc.Arena
	protect  func(int) error
	initOnce sync.Once
	mu       sync.Mutex
}

func (a *execArena) init(size int) error {
	var err error
	a.initOnce.Do(func() {
		// MmapProt is OR'd with PROT_READ|PROT_WRITE, so the arena maps RWX.
		be := malloc.MmapBackend(malloc.MmapProt(unix.PROT_EXEC))
		if protBE, ok := be.(malloc.ProtectedArenaBackend); ok {
			a.protect = protBE.Protect
		} else {
			a.protect = func(int) error { return nil }
		}

		a.arena = malloc.NewArena(uint64(size), malloc.Backend(be))
		if a.arena == nil {
			err = errors.New("hook: unable to initialize executable arena")
		}
	})
	return err
}

func (a *execArena) alloc(size int) ([]byte, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.init(size); err != nil {
		return nil, err
	}
	if err := a.protect(protRWX); err != nil {
		return nil, err
	}
	return malloc.MallocSlice[byte](a.arena, size)
}

func (a *execArena) seal() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.arena == nil {
		return nil
	}
	return a.protect(protRX)
}

var codeArena = &execArena{}

func allocExec(size int) ([]byte, error) { return codeArena.alloc(size) }

// sealExec flips the arena read+execute. The arena backs a single hook
// buffer, so sealing the whole of it is sealing the buffer.
func sealExec([]byte) error { return codeArena.seal() }
