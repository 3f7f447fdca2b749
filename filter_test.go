package toyourface

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeWorld struct {
	player   Pose
	noPlayer bool
	subjects map[uintptr]Pose
}

func (w *fakeWorld) Player() (Pose, bool) {
	return w.player, !w.noPlayer
}

func (w *fakeWorld) Subject(ptr uintptr) (Pose, bool) {
	p, ok := w.subjects[ptr]
	return p, ok
}

// worldWith puts the player at the origin facing +Y and one subject at the
// given position.
func worldWith(subject Pose) *fakeWorld {
	return &fakeWorld{subjects: map[uintptr]Pose{1: subject}}
}

func TestAllowNoPlayerFailsOpen(t *testing.T) {
	f := NewFilter(DefaultConfig(), &fakeWorld{noPlayer: true})
	assert.True(t, f.Allow(1))
}

func TestAllowUnknownSubjectFailsOpen(t *testing.T) {
	f := NewFilter(DefaultConfig(), &fakeWorld{})
	assert.True(t, f.Allow(0))
	assert.True(t, f.Allow(42))
}

func TestAllowAngleOnly(t *testing.T) {
	cfg := DefaultConfig() // 30 degree cone, angle-only

	t.Run("directly ahead", func(t *testing.T) {
		f := NewFilter(cfg, worldWith(Pose{Y: 100}))
		assert.True(t, f.Allow(1))
	})

	t.Run("directly behind", func(t *testing.T) {
		f := NewFilter(cfg, worldWith(Pose{Y: -100}))
		assert.False(t, f.Allow(1))
	})

	t.Run("inside cone", func(t *testing.T) {
		// 20 degrees off the view axis.
		rad := 20.0 / 180 * math.Pi
		f := NewFilter(cfg, worldWith(Pose{X: 100 * math.Sin(rad), Y: 100 * math.Cos(rad)}))
		assert.True(t, f.Allow(1))
	})

	t.Run("outside cone", func(t *testing.T) {
		rad := 40.0 / 180 * math.Pi
		f := NewFilter(cfg, worldWith(Pose{X: 100 * math.Sin(rad), Y: 100 * math.Cos(rad)}))
		assert.False(t, f.Allow(1))
	})

	t.Run("ignores distance", func(t *testing.T) {
		f := NewFilter(cfg, worldWith(Pose{Y: 1e6}))
		assert.True(t, f.Allow(1))
	})
}

func TestAllowAngleWrapsAroundNorth(t *testing.T) {
	// Player looking at 350 degrees, subject at a 10 degree bearing: the
	// raw difference is 340 but the real deviation is 20, inside the cone.
	cfg := DefaultConfig()
	rad := 10.0 / 180 * math.Pi
	w := worldWith(Pose{X: 100 * math.Sin(rad), Y: 100 * math.Cos(rad)})
	w.player.Yaw = 350.0 / 180 * math.Pi

	f := NewFilter(cfg, w)
	assert.True(t, f.Allow(1))
}

func TestAllowDistanceOnly(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Mode = FilterDistanceOnly // 150 unit radius

	t.Run("in range behind player", func(t *testing.T) {
		f := NewFilter(cfg, worldWith(Pose{Y: -100}))
		assert.True(t, f.Allow(1))
	})

	t.Run("out of range ahead", func(t *testing.T) {
		f := NewFilter(cfg, worldWith(Pose{Y: 200}))
		assert.False(t, f.Allow(1))
	})

	t.Run("vertical distance counts", func(t *testing.T) {
		f := NewFilter(cfg, worldWith(Pose{Y: 100, Z: 140}))
		assert.False(t, f.Allow(1))
	})
}

func TestAllowBothAndEither(t *testing.T) {
	facing := Pose{Y: 100}   // ahead, in range
	far := Pose{Y: 400}      // ahead, out of range
	behind := Pose{Y: -100}  // behind, in range
	farBack := Pose{Y: -400} // behind, out of range

	cases := []struct {
		name    string
		mode    FilterMode
		subject Pose
		want    bool
	}{
		{"both passes when both pass", FilterBoth, facing, true},
		{"both fails on distance", FilterBoth, far, false},
		{"both fails on angle", FilterBoth, behind, false},
		{"either passes on angle alone", FilterEither, far, true},
		{"either passes on distance alone", FilterEither, behind, true},
		{"either fails when both fail", FilterEither, farBack, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Mode = c.mode
			f := NewFilter(cfg, worldWith(c.subject))
			assert.Equal(t, c.want, f.Allow(1))
		})
	}
}

func TestAllowCloseRangeBypass(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CloseRangeBypass = true // 50 unit bypass radius

	t.Run("close subject behind player", func(t *testing.T) {
		f := NewFilter(cfg, worldWith(Pose{Y: -30}))
		assert.True(t, f.Allow(1))
	})

	t.Run("bypass disabled", func(t *testing.T) {
		off := cfg
		off.CloseRangeBypass = false
		f := NewFilter(off, worldWith(Pose{Y: -30}))
		assert.False(t, f.Allow(1))
	})

	t.Run("outside bypass radius still filtered", func(t *testing.T) {
		f := NewFilter(cfg, worldWith(Pose{Y: -80}))
		assert.False(t, f.Allow(1))
	})
}

func TestAllowDebugLoggingDoesNotChangeVerdict(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DebugLogging = true
	f := NewFilter(cfg, worldWith(Pose{Y: 100}))
	assert.True(t, f.Allow(1))
	assert.True(t, f.Allow(99)) // unresolvable, also logged
}
