package hook

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// patchSite allocates executable memory to stand in for the host function
// being spliced. Heap memory would share pages with live Go objects, so the
// tests patch arena pages instead, exactly like a real install.
func patchSite(t *testing.T, size int) ([]byte, uintptr) {
	t.Helper()
	site, err := allocExec(size)
	require.NoError(t, err)
	for i := range site {
		site[i] = 0xCC
	}
	return site, uintptr(unsafe.Pointer(unsafe.SliceData(site)))
}

func TestInstallRedirectTooShortLeavesMemoryUntouched(t *testing.T) {
	site, target := patchSite(t, 64)
	before := append([]byte{}, site...)

	err := InstallRedirect(target, 0x1000, RedirectSize-1)
	assert.ErrorIs(t, err, ErrOverwriteTooShort)
	assert.Equal(t, before, site)
}

func TestInstallRedirect(t *testing.T) {
	const overwriteLen = 18
	site, target := patchSite(t, 64)

	dest := uintptr(0x7FF600001122)
	require.NoError(t, InstallRedirect(target, dest, overwriteLen))

	want, err := encodeRedirect(dest, overwriteLen)
	require.NoError(t, err)
	assert.Equal(t, want, site[:overwriteLen])

	// Bytes past the overwrite survive.
	for i := overwriteLen; i < len(site); i++ {
		assert.EqualValues(t, 0xCC, site[i], "offset %d", i)
	}
}

func TestBuildTrampoline(t *testing.T) {
	tramp, err := BuildTrampoline(0x7FF612345678, 0x7FF600001122)
	require.NoError(t, err)
	assert.NotZero(t, tramp.Entry())
	assert.Greater(t, tramp.Size(), 0)
	assert.LessOrEqual(t, tramp.Size(), BufferSize)

	// The committed bytes decode cleanly straight out of the live buffer.
	code := unsafe.Slice((*byte)(unsafe.Pointer(tramp.Entry())), tramp.Size())
	_, err = disassemble(code)
	assert.NoError(t, err)
}

func TestNewBufferEntryStable(t *testing.T) {
	buf, err := NewBuffer()
	require.NoError(t, err)
	entry := buf.Entry()
	assert.NotZero(t, entry)
	assert.Zero(t, buf.Size())

	require.NoError(t, buf.commit([]byte{0x90, 0xC3}))
	assert.Equal(t, entry, buf.Entry())
	assert.Equal(t, 2, buf.Size())
}

func TestBufferRejectsOversizedCode(t *testing.T) {
	buf, err := NewBuffer()
	require.NoError(t, err)
	assert.ErrorIs(t, buf.commit(make([]byte, BufferSize+1)), ErrCodeTooLarge)
}
