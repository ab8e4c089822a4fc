package logic

import "math"

// Phase selects the nominal power table used below the maintenance band.
type Phase int

const (
	PhasePreheat Phase = iota
	PhaseCook
)

// Policy selects discrete power levels with anti-overshoot banding.
type Policy struct {
	t Tuning
}

// NewPolicy creates a control policy.
func NewPolicy(t Tuning) Policy {
	return Policy{t: t}
}

// Level returns the power level for the given phase, recipe and center temperature.
//
//	center >= target + ε_high          → 0
//	target − ε_low <= center           → maintenance with proportional correction
//	below the band                     → nominal level for the heat-delivery style
func (p Policy) Level(phase Phase, r Recipe, center float64) int {
	t := p.t
	target := r.TargetTemperature
	switch {
	case center >= target+t.OvershootMargin:
		return 0
	case center >= target-t.MaintenanceBand:
		deficit := math.Max(0, target-center)
		level := t.MaintenancePower + int(math.Round(t.ProportionalGain*deficit))
		return clampLevel(level, 0, t.MaintenanceCap)
	}
	return p.Nominal(phase, r)
}

// Nominal returns the full-power level for the phase. Enveloping recipes run
// gentler to avoid hot-spotting the center.
func (p Policy) Nominal(phase Phase, r Recipe) int {
	t := p.t
	if phase == PhasePreheat {
		if r.EnvelopingHeat {
			return t.EnvelopingPreheatPower
		}
		return t.PreheatPower
	}
	if r.EnvelopingHeat {
		return t.EnvelopingCookPower
	}
	return t.CookPower
}

// KeepWarm returns the level used while waiting for ingredients.
func (p Policy) KeepWarm(r Recipe, center float64) int {
	if center >= r.TargetTemperature+p.t.OvershootMargin {
		return 0
	}
	return p.t.KeepWarmPower
}

// Throttle returns the level used while a hazard is active.
func (p Policy) Throttle() int {
	return p.t.ThrottlePower
}

func clampLevel(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
