//go:build !amd64

package hook

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnsupportedArchRefusesToInstall(t *testing.T) {
	tramp, err := BuildTrampoline(0x1000, 0x2000)
	assert.Nil(t, tramp)
	assert.ErrorIs(t, err, ErrUnsupportedArch)

	assert.ErrorIs(t, InstallRedirect(0x1000, 0x2000, 18), ErrUnsupportedArch)
}
