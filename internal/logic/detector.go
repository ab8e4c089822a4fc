package logic

// Detector evaluates instantaneous signals against hazard thresholds.
type Detector struct {
	t   Tuning
	rng Source
}

// NewDetector creates a hazard detector. rng drives random disturbance triggers.
func NewDetector(t Tuning, rng Source) *Detector {
	return &Detector{t: t, rng: rng}
}

// BoilOver reports whether the froth signal predicts a boil-over. Enveloping
// recipes (frying) are never treated as boil-over candidates.
func (d *Detector) BoilOver(r Recipe, vibration float64) bool {
	return !r.EnvelopingHeat && vibration > d.t.BoilOverThreshold
}

// BoilOverCleared reports whether the froth signal decayed below the recovery threshold.
func (d *Detector) BoilOverCleared(vibration float64) bool {
	return vibration < d.t.BoilOverRecovery
}

// Disturbance reports a disturbance: a sudden center drop since the previous
// tick (vessel lifted, cold ingredients) or a random trigger.
// It draws from rng on every call so the stream position depends only on how
// many cooking ticks have run.
func (d *Detector) Disturbance(prevCenter, center float64) bool {
	random := d.rng.Float64() < d.t.DisturbanceProbability
	return random || prevCenter-center > d.t.DisturbanceDrop
}
