package toyourface

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeINI(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.ini")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.InDelta(t, 30.0/180*math.Pi, cfg.MaxDeviationAngle, 1e-9)
	assert.Equal(t, FilterAngleOnly, cfg.Mode)
	assert.Equal(t, 150.0, cfg.MaxGreetingDistance)
	assert.False(t, cfg.CloseRangeBypass)
	assert.Equal(t, 50.0, cfg.CloseRangeDistance)
	assert.False(t, cfg.DebugLogging)
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg := LoadConfig(filepath.Join(t.TempDir(), "missing.ini"))
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfigFirstExistingPathWins(t *testing.T) {
	override := writeINI(t, "[Main]\nfMaxDeviationAngle = 90\n")
	fallback := writeINI(t, "[Main]\nfMaxDeviationAngle = 10\n")

	cfg := LoadConfig(override, fallback)
	assert.InDelta(t, math.Pi/2, cfg.MaxDeviationAngle, 1e-9)
}

func TestLoadConfigFull(t *testing.T) {
	path := writeINI(t, `
[Main]
fMaxDeviationAngle = 45
sFilterMode = both

[Distance]
fMaxGreetingDistance = 200
bCloseRangeBypass = yes
fCloseRangeDistance = 75

[Debug]
bEnableLogging = on
`)
	cfg := LoadConfig(path)

	assert.InDelta(t, math.Pi/4, cfg.MaxDeviationAngle, 1e-9)
	assert.Equal(t, FilterBoth, cfg.Mode)
	assert.Equal(t, 200.0, cfg.MaxGreetingDistance)
	assert.Equal(t, 40000.0, cfg.MaxGreetingDistanceSq)
	assert.True(t, cfg.CloseRangeBypass)
	assert.Equal(t, 75.0, cfg.CloseRangeDistance)
	assert.True(t, cfg.DebugLogging)
}

func TestLoadConfigClamping(t *testing.T) {
	t.Run("negative angle", func(t *testing.T) {
		cfg := LoadConfig(writeINI(t, "[Main]\nfMaxDeviationAngle = -10\n"))
		assert.Equal(t, 0.0, cfg.MaxDeviationAngle)
	})

	t.Run("fractional angle truncated", func(t *testing.T) {
		cfg := LoadConfig(writeINI(t, "[Main]\nfMaxDeviationAngle = 30.9\n"))
		assert.InDelta(t, 30.0/180*math.Pi, cfg.MaxDeviationAngle, 1e-9)
	})

	t.Run("angle above 180", func(t *testing.T) {
		cfg := LoadConfig(writeINI(t, "[Main]\nfMaxDeviationAngle = 9000\n"))
		assert.InDelta(t, math.Pi, cfg.MaxDeviationAngle, 1e-9)
	})

	t.Run("negative distances", func(t *testing.T) {
		cfg := LoadConfig(writeINI(t, "[Distance]\nfMaxGreetingDistance = -100\nfCloseRangeDistance = -25\n"))
		assert.Equal(t, 100.0, cfg.MaxGreetingDistance)
		assert.Equal(t, 25.0, cfg.CloseRangeDistance)
	})

	t.Run("close range clamped to greeting range when bypass on", func(t *testing.T) {
		cfg := LoadConfig(writeINI(t, "[Distance]\nfMaxGreetingDistance = 100\nbCloseRangeBypass = true\nfCloseRangeDistance = 500\n"))
		assert.Equal(t, 100.0, cfg.CloseRangeDistance)
	})

	t.Run("close range not clamped when bypass off", func(t *testing.T) {
		cfg := LoadConfig(writeINI(t, "[Distance]\nfMaxGreetingDistance = 100\nfCloseRangeDistance = 500\n"))
		assert.Equal(t, 500.0, cfg.CloseRangeDistance)
	})
}

func TestParseFilterMode(t *testing.T) {
	cases := []struct {
		in   string
		want FilterMode
	}{
		{"angle", FilterAngleOnly},
		{"ANGLE", FilterAngleOnly},
		{"distance", FilterDistanceOnly},
		{"distance_only", FilterDistanceOnly},
		{"both", FilterBoth},
		{"and", FilterBoth},
		{"either", FilterEither},
		{"or", FilterEither},
		{" Either ", FilterEither},
		{"", FilterAngleOnly},
		{"nonsense", FilterAngleOnly},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, ParseFilterMode(c.in), "input %q", c.in)
	}
}

func TestParseBool(t *testing.T) {
	for _, s := range []string{"true", "YES", "1", "on", "Enabled"} {
		assert.True(t, parseBool(s, false), "input %q", s)
	}
	for _, s := range []string{"false", "No", "0", "off", "disabled"} {
		assert.False(t, parseBool(s, true), "input %q", s)
	}
	assert.True(t, parseBool("maybe", true))
	assert.False(t, parseBool("", false))
}
