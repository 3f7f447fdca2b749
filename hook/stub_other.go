//go:build !amd64

package hook

// The emitter, trampoline layout and redirect encoding exist only for
// x86-64; other architectures refuse at install time so the plugin
// degrades to inert instead of failing to build.

func BuildTrampoline(callbackAddr, returnAddr uintptr) (*Trampoline, error) {
	return nil, ErrUnsupportedArch
}

func InstallRedirect(target, dest uintptr, overwriteLen int) error {
	return ErrUnsupportedArch
}
