//go:build windows

package hook

import "syscall"

// NewDecisionCallback wraps fn so generated code can call it through an
// absolute address with the host's native calling convention. The returned
// address stays valid for the life of the process; Windows limits how many
// callbacks a process may create, but the installer needs exactly one.
//
// The generated code cannot unwind a Go panic, so any failure inside fn
// resolves to "allow": a broken filter must never silence the host outright.
func NewDecisionCallback(fn func(subject uintptr) bool) uintptr {
	return syscall.NewCallback(func(subject uintptr) (verdict uintptr) {
		defer func() {
			if recover() != nil {
				verdict = 1
			}
		}()
		if fn(subject) {
			return 1
		}
		return 0
	})
}
