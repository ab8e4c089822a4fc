package logic

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPolicyLevel(t *testing.T) {
	p := NewPolicy(DefaultTuning())

	tests := []struct {
		name   string
		phase  Phase
		recipe Recipe
		center float64
		want   int
	}{
		{"cold preheat direct", PhasePreheat, ramen, 22, 10},
		{"cold cook direct", PhaseCook, ramen, 50, 8},
		{"cold preheat enveloping", PhasePreheat, fishFry, 22, 7},
		{"cold cook enveloping", PhaseCook, fishFry, 120, 6},
		{"just below band", PhasePreheat, ramen, 96.9, 10},
		{"band edge capped", PhasePreheat, ramen, 97, 2},
		{"one degree short", PhaseCook, ramen, 99, 2},
		{"half degree short", PhaseCook, ramen, 99.5, 1},
		{"at target", PhaseCook, ramen, 100, 1},
		{"slightly above target", PhaseCook, ramen, 101, 1},
		{"overshoot", PhaseCook, ramen, 102, 0},
		{"far overshoot", PhasePreheat, fishFry, 200, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.Level(tt.phase, tt.recipe, tt.center))
		})
	}
}

func TestPolicyLevelWithinPowerRange(t *testing.T) {
	p := NewPolicy(DefaultTuning())
	for _, r := range []Recipe{ramen, fishFry, warmUp} {
		for center := 22.0; center <= 260; center += 0.25 {
			for _, phase := range []Phase{PhasePreheat, PhaseCook} {
				level := p.Level(phase, r, center)
				if level < 0 || level > MaxPower {
					t.Fatalf("%s at %.2f: level %d out of range", r.ID, center, level)
				}
			}
		}
	}
}

func TestPolicyKeepWarm(t *testing.T) {
	p := NewPolicy(DefaultTuning())
	assert.Equal(t, 2, p.KeepWarm(ramen, 100))
	assert.Equal(t, 2, p.KeepWarm(ramen, 101.9))
	assert.Equal(t, 0, p.KeepWarm(ramen, 102))
}

func TestPolicyThrottleIsMinimum(t *testing.T) {
	tuning := DefaultTuning()
	p := NewPolicy(tuning)
	assert.Equal(t, tuning.ThrottlePower, p.Throttle())
	assert.Equal(t, 1, p.Throttle())
}
