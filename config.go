package toyourface

import (
	"math"
	"strings"

	"github.com/apex/log"
	"gopkg.in/ini.v1"
)

// Config file locations relative to the game directory. The MCM settings
// file, when it exists, takes priority over the shipped one.
const (
	ConfigFile    = "Data/SKSE/Plugins/to-your-face-reloaded.ini"
	MCMConfigFile = "Data/MCM/Settings/ToYourFaceReloaded.ini"
)

// FilterMode selects how the angle and distance checks combine.
type FilterMode int

const (
	// FilterAngleOnly is the historical behavior: greet only when the
	// player faces the NPC.
	FilterAngleOnly FilterMode = iota
	// FilterDistanceOnly ignores facing and checks range alone.
	FilterDistanceOnly
	// FilterBoth requires facing and range together.
	FilterBoth
	// FilterEither allows a greeting that passes either check.
	FilterEither
)

func (m FilterMode) String() string {
	switch m {
	case FilterDistanceOnly:
		return "distance only"
	case FilterBoth:
		return "both (and)"
	case FilterEither:
		return "either (or)"
	}
	return "angle only"
}

// ParseFilterMode maps the user-facing mode names, including the aliases
// older versions accepted, onto a FilterMode. Unknown input falls back to
// angle-only for compatibility with configs that predate the setting.
func ParseFilterMode(s string) FilterMode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "distance", "distanceonly", "distance_only":
		return FilterDistanceOnly
	case "both", "and":
		return FilterBoth
	case "either", "or":
		return FilterEither
	}
	return FilterAngleOnly
}

// Config holds every user-tunable setting. It is loaded once at plugin
// initialization and treated as immutable afterwards; the installed hook
// reads it concurrently without locks.
type Config struct {
	// MaxDeviationAngle is the widest angle, in radians, between the
	// player's view direction and the NPC that still counts as "facing".
	MaxDeviationAngle float64

	MaxGreetingDistance   float64
	MaxGreetingDistanceSq float64

	CloseRangeBypass     bool
	CloseRangeDistance   float64
	CloseRangeDistanceSq float64

	Mode FilterMode

	// DebugLogging writes one log line per greeting decision. Verbose.
	DebugLogging bool
}

// DefaultConfig returns the settings used when no config file exists.
func DefaultConfig() Config {
	return configFromINI(ini.Empty())
}

// LoadConfig reads the first config file in paths that can be opened and
// falls back to defaults when none can. Values are validated and clamped
// rather than rejected: a bad setting must never keep the plugin from
// loading.
func LoadConfig(paths ...string) Config {
	for _, p := range paths {
		f, err := ini.Load(p)
		if err != nil {
			continue
		}
		log.WithField("path", p).Info("loading configuration")
		return configFromINI(f)
	}
	log.Warn("configuration file not found, using defaults")
	return DefaultConfig()
}

func configFromINI(f *ini.File) Config {
	var cfg Config

	angle := f.Section("Main").Key("fMaxDeviationAngle").MustFloat64(30)
	// Whole degrees only; the fractional part is discarded, not rounded.
	angle = math.Trunc(angle)
	if angle < 0 {
		log.WithField("fMaxDeviationAngle", angle).Warn("negative angle, clamping to 0")
		angle = 0
	}
	if angle > 180 {
		log.WithField("fMaxDeviationAngle", angle).Warn("angle exceeds 180, clamping")
		angle = 180
	}
	cfg.MaxDeviationAngle = angle / 180 * math.Pi

	cfg.Mode = ParseFilterMode(f.Section("Main").Key("sFilterMode").MustString("angle"))

	dist := f.Section("Distance").Key("fMaxGreetingDistance").MustFloat64(150)
	if dist < 0 {
		log.WithField("fMaxGreetingDistance", dist).Warn("negative distance, using absolute value")
		dist = -dist
	}
	cfg.MaxGreetingDistance = dist
	cfg.MaxGreetingDistanceSq = dist * dist

	cfg.CloseRangeBypass = parseBool(f.Section("Distance").Key("bCloseRangeBypass").String(), false)

	closeDist := f.Section("Distance").Key("fCloseRangeDistance").MustFloat64(50)
	if closeDist < 0 {
		log.WithField("fCloseRangeDistance", closeDist).Warn("negative distance, using absolute value")
		closeDist = -closeDist
	}
	if cfg.CloseRangeBypass && closeDist > dist {
		// A bypass radius wider than the greeting radius behaves
		// confusingly; pin it to the greeting radius instead.
		log.WithFields(log.Fields{
			"fCloseRangeDistance":  closeDist,
			"fMaxGreetingDistance": dist,
		}).Warn("close range exceeds greeting range, clamping")
		closeDist = dist
	}
	cfg.CloseRangeDistance = closeDist
	cfg.CloseRangeDistanceSq = closeDist * closeDist

	cfg.DebugLogging = parseBool(f.Section("Debug").Key("bEnableLogging").String(), false)

	log.WithFields(log.Fields{
		"mode":     cfg.Mode.String(),
		"angle":    angle,
		"distance": cfg.MaxGreetingDistance,
		"bypass":   cfg.CloseRangeBypass,
	}).Info("configuration loaded")

	return cfg
}

// parseBool accepts the forms users have put in these files over the
// years; anything unrecognized keeps the default.
func parseBool(raw string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "yes", "1", "on", "enabled":
		return true
	case "false", "no", "0", "off", "disabled":
		return false
	}
	return def
}
