//go:build !windows

package hook

// x86-64 keeps instruction fetch coherent with stores from the same core,
// and the install runs before any other thread can reach the patched range,
// so there is nothing to do here. Windows has an explicit API and uses it.
func cacheflush(buf []byte) {}
