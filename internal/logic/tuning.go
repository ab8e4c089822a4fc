package logic

import (
	"errors"
	"fmt"
	"time"
)

// Tuning holds every physical and heuristic constant of the core.
// The defaults were tuned by trial against the dashboard simulation and are
// not a validated physical model.
type Tuning struct {
	TickPeriod time.Duration

	Ambient float64 // floor for every sensor
	Ceiling float64 // hard limit for every sensor

	// Thermal model.
	HeatGainDivisor   float64
	SaturationOffset  float64
	SaturationRatio   float64
	PeripheralGainMin float64
	PeripheralGainMax float64
	PeripheralNoise   float64
	EnvelopingSpread  float64
	CoolingRate       float64
	OvershootNudge    float64
	LegacyLag         float64
	LegacyNoise       float64
	UniformityK       float64

	// Froth / vibration signal.
	VibrationBase         float64
	VibrationFloor        float64
	VibrationNoise        float64
	VibrationDecay        float64
	FrothOnset            float64
	FrothGain             float64
	IngredientFrothFactor float64

	// Control policy.
	TargetTolerance        float64 // ε: target reached at target − ε
	OvershootMargin        float64 // ε_high
	MaintenanceBand        float64 // ε_low
	MaintenancePower       int
	MaintenanceCap         int
	ProportionalGain       float64
	PreheatPower           int
	EnvelopingPreheatPower int
	CookPower              int
	EnvelopingCookPower    int
	KeepWarmPower          int
	ThrottlePower          int

	// Hazard detection.
	BoilOverThreshold      float64
	BoilOverRecovery       float64
	DisturbanceProbability float64
	DisturbanceDrop        float64
	DisturbanceRecovery    time.Duration

	// Classification.
	ClassifyMinHistory int
	FryingRate         float64
	BoilingRate        float64
	SimmeringRate      float64
	BoilingRatio       float64
	LargeVesselRatio   float64
	SmallVesselRatio   float64
	EccentricStdDev    float64

	// Scheduling and safety.
	PreheatBuffer   time.Duration
	AutoOffAfter    time.Duration
	HistoryCapacity int
}

// MaxPower is the highest discrete power level.
const MaxPower = 10

// DefaultTuning returns the constants used by the reference appliance.
func DefaultTuning() Tuning {
	return Tuning{
		TickPeriod: 200 * time.Millisecond,

		Ambient: 22.0,
		Ceiling: 260.0,

		HeatGainDivisor:   15,
		SaturationOffset:  1.1,
		SaturationRatio:   1.3,
		PeripheralGainMin: 0.70,
		PeripheralGainMax: 0.90,
		PeripheralNoise:   0.15,
		EnvelopingSpread:  0.05,
		CoolingRate:       0.15,
		OvershootNudge:    0.2,
		LegacyLag:         0.04,
		LegacyNoise:       1.0,
		UniformityK:       4.0,

		VibrationBase:         5,
		VibrationFloor:        2,
		VibrationNoise:        5,
		VibrationDecay:        5,
		FrothOnset:            96,
		FrothGain:             5,
		IngredientFrothFactor: 4,

		TargetTolerance:        0.5,
		OvershootMargin:        2.0,
		MaintenanceBand:        3.0,
		MaintenancePower:       1,
		MaintenanceCap:         2,
		ProportionalGain:       0.5,
		PreheatPower:           10,
		EnvelopingPreheatPower: 7,
		CookPower:              8,
		EnvelopingCookPower:    6,
		KeepWarmPower:          2,
		ThrottlePower:          1,

		BoilOverThreshold:      35,
		BoilOverRecovery:       20,
		DisturbanceProbability: 0.001,
		DisturbanceDrop:        3.0,
		DisturbanceRecovery:    3 * time.Second,

		ClassifyMinHistory: 10,
		FryingRate:         0.8,
		BoilingRate:        0.35,
		SimmeringRate:      0.1,
		BoilingRatio:       0.7,
		LargeVesselRatio:   0.85,
		SmallVesselRatio:   0.65,
		EccentricStdDev:    1.5,

		PreheatBuffer:   180 * time.Second,
		AutoOffAfter:    10 * time.Minute,
		HistoryCapacity: 60,
	}
}

// Validate rejects tunings the core cannot run with.
func (t Tuning) Validate() error {
	var errs []error
	if t.TickPeriod <= 0 {
		errs = append(errs, fmt.Errorf("tick period must be positive, got %v", t.TickPeriod))
	}
	if t.Ceiling <= t.Ambient {
		errs = append(errs, fmt.Errorf("ceiling %.1f must exceed ambient %.1f", t.Ceiling, t.Ambient))
	}
	if t.HeatGainDivisor <= 0 {
		errs = append(errs, errors.New("heat gain divisor must be positive"))
	}
	if t.SaturationRatio <= 0 {
		errs = append(errs, errors.New("saturation ratio must be positive"))
	}
	if t.PeripheralGainMin > t.PeripheralGainMax {
		errs = append(errs, fmt.Errorf("peripheral gain min %.2f above max %.2f", t.PeripheralGainMin, t.PeripheralGainMax))
	}
	if t.BoilOverRecovery >= t.BoilOverThreshold {
		errs = append(errs, fmt.Errorf("boil-over recovery %.1f must be below threshold %.1f", t.BoilOverRecovery, t.BoilOverThreshold))
	}
	if t.HistoryCapacity <= 0 {
		errs = append(errs, fmt.Errorf("history capacity must be positive, got %d", t.HistoryCapacity))
	}
	for name, p := range map[string]int{
		"maintenance cap":          t.MaintenanceCap,
		"preheat power":            t.PreheatPower,
		"enveloping preheat power": t.EnvelopingPreheatPower,
		"cook power":               t.CookPower,
		"enveloping cook power":    t.EnvelopingCookPower,
		"keep warm power":          t.KeepWarmPower,
		"throttle power":           t.ThrottlePower,
	} {
		if p < 0 || p > MaxPower {
			errs = append(errs, fmt.Errorf("%s %d outside 0..%d", name, p, MaxPower))
		}
	}
	return errors.Join(errs...)
}

// ticksFor converts a duration to a whole number of ticks, rounding up.
func (t Tuning) ticksFor(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	n := int(d / t.TickPeriod)
	if d%t.TickPeriod != 0 {
		n++
	}
	return n
}
