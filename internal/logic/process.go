package logic

import "math"

// PlantState is the physical state the controller feeds back into the plant.
type PlantState struct {
	Sensors   Reading
	Legacy    float64
	Vibration float64
}

// PlantInput is everything a plant needs to advance one tick.
type PlantInput struct {
	Prev             PlantState
	Power            int
	Recipe           Recipe
	State            State
	IngredientsAdded bool
}

// PlantOutput is the plant state after one tick plus derived signals.
type PlantOutput struct {
	PlantState
	Uniformity float64
}

// Plant advances the measured environment by one tick. ThermalModel is the
// simulated implementation; a hardware feed can satisfy the same interface.
type Plant interface {
	Step(in PlantInput) PlantOutput
}

// ThermalModel simulates heat flow from the coil into nine sensors.
type ThermalModel struct {
	t   Tuning
	rng Source
}

// NewThermalModel creates a thermal model drawing noise from rng.
func NewThermalModel(t Tuning, rng Source) *ThermalModel {
	return &ThermalModel{t: t, rng: rng}
}

// AmbientState returns the plant state of a cold hob.
func AmbientState(t Tuning) PlantState {
	return PlantState{
		Sensors:   uniformReading(t.Ambient),
		Legacy:    t.Ambient,
		Vibration: t.VibrationFloor,
	}
}

// Step advances every sensor by one tick.
func (m *ThermalModel) Step(in PlantInput) PlantOutput {
	t := m.t
	next := in.Prev.Sensors
	center := next.Center()
	target := in.Recipe.TargetTemperature

	if in.Power > 0 {
		gain := m.HeatGain(in.Power, center, target)
		next[0] = center + gain
		for i := 1; i < SensorCount; i++ {
			frac := t.PeripheralGainMin + m.rng.Float64()*(t.PeripheralGainMax-t.PeripheralGainMin)
			noise := (m.rng.Float64() - 0.5) * 2 * t.PeripheralNoise
			next[i] += gain*frac + noise
			if in.Recipe.EnvelopingHeat {
				next[i] += (next[0] - next[i]) * t.EnvelopingSpread
			}
		}
	} else {
		for i := range next {
			next[i] = math.Max(t.Ambient, next[i]-t.CoolingRate)
		}
	}

	if target > 0 && next[0] >= target+t.OvershootMargin {
		for i := range next {
			next[i] -= t.OvershootNudge
		}
	}

	for i := range next {
		next[i] = clamp(next[i], t.Ambient, t.Ceiling)
	}

	legacy := in.Prev.Legacy + (next[0]-in.Prev.Legacy)*t.LegacyLag + (m.rng.Float64()-0.5)*t.LegacyNoise
	legacy = clamp(legacy, t.Ambient, t.Ceiling)

	return PlantOutput{
		PlantState: PlantState{
			Sensors:   next,
			Legacy:    legacy,
			Vibration: m.vibration(in, next[0]),
		},
		Uniformity: Uniformity(t, next),
	}
}

// HeatGain is the center temperature rise for one tick at the given power.
// It shrinks as center approaches the saturation knee above target.
func (m *ThermalModel) HeatGain(power int, center, target float64) float64 {
	t := m.t
	if target <= 0 {
		target = t.Ceiling
	}
	gain := float64(power) / t.HeatGainDivisor * (t.SaturationOffset - center/(target*t.SaturationRatio))
	return math.Max(0, gain)
}

// vibration models the froth signal picked up by the surface sensor.
func (m *ThermalModel) vibration(in PlantInput, center float64) float64 {
	t := m.t
	if in.State == StatePredictingBoilOver || in.Power == 0 {
		return math.Max(t.VibrationFloor, in.Prev.Vibration-t.VibrationDecay)
	}
	froth := 1.0
	if in.IngredientsAdded {
		froth = t.IngredientFrothFactor
	}
	v := t.VibrationBase + math.Max(0, center-t.FrothOnset)*t.FrothGain*froth + m.rng.Float64()*t.VibrationNoise
	return math.Max(t.VibrationFloor, v)
}

// Uniformity scores how evenly heat is spread: 100 - k*(center - mean(peripheral)),
// clamped to [0, 100].
func Uniformity(t Tuning, r Reading) float64 {
	var sum float64
	for _, v := range r[1:] {
		sum += v
	}
	mean := sum / float64(SensorCount-1)
	return clamp(100-t.UniformityK*(r.Center()-mean), 0, 100)
}

// SoundFrequency is the diagnostic acoustic signature of the vessel.
func SoundFrequency(center float64) float64 {
	return 100 + center
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}
