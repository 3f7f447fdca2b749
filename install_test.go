package toyourface

import (
	"runtime"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LandingCrew/to-your-face-reloaded/memscan"
)

func TestInstallSignatureAbsent(t *testing.T) {
	if testing.Short() {
		t.Skip("allocates and scans a full-size module image")
	}

	image := make([]byte, scanStartOffset+scanSize)
	base := uintptr(unsafe.Pointer(&image[0]))

	_, err := Install(Options{CallbackAddr: 0xCAFE0000, ModuleBase: base})
	runtime.KeepAlive(image)
	assert.ErrorIs(t, err, memscan.ErrNotFound)
}

func TestInstallRequiresCallback(t *testing.T) {
	_, err := Install(Options{ModuleBase: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "callback")
}

func TestSignatureReturnsCopy(t *testing.T) {
	sig := Signature()
	require.Equal(t, commentSignature, sig)
	sig[0] ^= 0xFF
	assert.NotEqual(t, sig[0], commentSignature[0])
}
