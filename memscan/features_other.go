//go:build !amd64

package memscan

// The signature and the generated hook code are x86-64 by contract, so on
// any other architecture only the scalar tier is ever used.
func detect() Features { return Features{} }
