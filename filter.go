package toyourface

import (
	"fmt"
	"math"

	"github.com/apex/log"
)

// Pose is an actor's world-space position and view direction. Yaw follows
// the host's convention: radians, clockwise, zero pointing along +Y.
type Pose struct {
	X, Y, Z float64
	Yaw     float64
}

// World resolves live actor state for the filter. The host adapter
// implements it over engine objects; tests supply fixtures.
type World interface {
	// Player returns the player's pose. ok is false when no player is
	// loaded (main menu, loading screen).
	Player() (Pose, bool)

	// Subject resolves the actor pointer the host passes to the greeting
	// routine. ok is false for a null pointer, an unknown actor, or the
	// player themself.
	Subject(ptr uintptr) (Pose, bool)
}

// Filter decides whether a greeting may play. It is constructed once,
// before the redirect is installed, and holds no mutable state, so the
// host may call Allow from any thread.
type Filter struct {
	cfg   Config
	world World
}

func NewFilter(cfg Config, world World) *Filter {
	return &Filter{cfg: cfg, world: world}
}

// Allow reports whether the actor behind ptr may greet the player. When
// the world cannot be evaluated the greeting is allowed: failing open
// preserves vanilla behavior instead of silencing every NPC.
func (f *Filter) Allow(ptr uintptr) bool {
	player, ok := f.world.Player()
	if !ok {
		return true
	}
	subject, ok := f.world.Subject(ptr)
	if !ok {
		f.trace(ptr, 0, true, "unresolvable subject")
		return true
	}

	dx := subject.X - player.X
	dy := subject.Y - player.Y
	dz := subject.Z - player.Z
	distSq := dx*dx + dy*dy + dz*dz

	if f.cfg.CloseRangeBypass && distSq <= f.cfg.CloseRangeDistanceSq {
		f.trace(ptr, distSq, true, "close range bypass")
		return true
	}

	inRange := distSq <= f.cfg.MaxGreetingDistanceSq

	var allowed bool
	var reason string
	switch f.cfg.Mode {
	case FilterDistanceOnly:
		allowed = inRange
		reason = "distance check"
	case FilterBoth:
		// Range first: the comparison is cheap next to atan2.
		allowed = inRange && f.facing(player, dx, dy)
		reason = "distance and angle"
	case FilterEither:
		allowed = inRange || f.facing(player, dx, dy)
		reason = "distance or angle"
	default:
		allowed = f.facing(player, dx, dy)
		reason = "angle check"
	}

	f.trace(ptr, distSq, allowed, reason)
	return allowed
}

// facing reports whether the player's view deviates from the direction of
// the subject by less than the configured angle. The deviation wraps, so
// 350 degrees and 10 degrees are 20 degrees apart.
func (f *Filter) facing(player Pose, dx, dy float64) bool {
	angle := math.Atan2(dx, dy)
	if angle < 0 {
		angle += 2 * math.Pi
	}
	deviation := math.Abs(angle - player.Yaw)
	if deviation > math.Pi {
		deviation = 2*math.Pi - deviation
	}
	return deviation < f.cfg.MaxDeviationAngle
}

func (f *Filter) trace(ptr uintptr, distSq float64, allowed bool, reason string) {
	if !f.cfg.DebugLogging {
		return
	}
	verdict := "blocked"
	if allowed {
		verdict = "allowed"
	}
	log.WithFields(log.Fields{
		"subject":  fmt.Sprintf("0x%x", ptr),
		"distance": fmt.Sprintf("%.1f", math.Sqrt(distSq)),
		"verdict":  verdict,
		"reason":   reason,
	}).Info("greeting check")
}
