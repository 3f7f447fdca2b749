package toyourface

import (
	"github.com/LandingCrew/to-your-face-reloaded/hook"
)

// FilterCallback makes f callable from the generated hook routine.
// The returned address stays valid for the life of the process.
func FilterCallback(f *Filter) uintptr {
	return hook.NewDecisionCallback(f.Allow)
}
