// Package logic contains the pure control core of the induction hob.
// This package has NO external I/O (no GPIO, MQTT, OS, or time.Sleep).
// Wall-clock time and randomness are always injected by the caller.
package logic

import "time"

// State represents the lifecycle state of a cooking session.
type State string

const (
	StateIdle                  State = "IDLE"
	StateReserved              State = "RESERVED"
	StateHeatingWater          State = "HEATING_WATER"
	StateWaitingForIngredients State = "WAITING_FOR_INGREDIENTS"
	StateCookingActive         State = "COOKING_ACTIVE"
	StatePredictingBoilOver    State = "PREDICTING_BOILOVER"
	StateDisturbanceDetected   State = "DISTURBANCE_DETECTED"
	StateComplete              State = "COMPLETE"
)

// Active reports whether the state belongs to a running session.
func (s State) Active() bool {
	return s != StateIdle
}

// Heating reports whether the coil may be energised in this state.
func (s State) Heating() bool {
	switch s {
	case StateHeatingWater, StateWaitingForIngredients, StateCookingActive,
		StatePredictingBoilOver, StateDisturbanceDetected:
		return true
	}
	return false
}

// ConsumesCookTime reports whether the remaining cook time counts down in this state.
// Hazard states still consume cook time.
func (s State) ConsumesCookTime() bool {
	switch s {
	case StateCookingActive, StatePredictingBoilOver, StateDisturbanceDetected:
		return true
	}
	return false
}

// Hazard reports whether the state is a transient hazard the operator should see.
func (s State) Hazard() bool {
	return s == StatePredictingBoilOver || s == StateDisturbanceDetected
}

// CookingType is the inferred kind of cooking in progress.
type CookingType string

const (
	CookingUnknown    CookingType = "UNKNOWN"
	CookingBoiling    CookingType = "BOILING"
	CookingFrying     CookingType = "FRYING"
	CookingPanSearing CookingType = "PAN_SEARING"
	CookingSimmering  CookingType = "SIMMERING"
)

// Material of the vessel on the hob.
type Material string

const (
	MaterialUnknown   Material = "Unknown"
	MaterialStainless Material = "Stainless"
	MaterialCastIron  Material = "Cast Iron"
	MaterialAluminum  Material = "Aluminum"
)

// Size of the vessel relative to the coil.
type Size string

const (
	SizeSmall  Size = "Small"
	SizeMedium Size = "Medium"
	SizeLarge  Size = "Large"
)

// Alignment of the vessel over the coil center.
type Alignment string

const (
	AlignmentCentered  Alignment = "Centered"
	AlignmentEccentric Alignment = "Eccentric"
)

// VesselInfo describes the inferred vessel. It is frozen once Material is known.
type VesselInfo struct {
	Material  Material
	Size      Size
	Alignment Alignment
}

// UnknownVessel is the vessel description before classification.
var UnknownVessel = VesselInfo{
	Material:  MaterialUnknown,
	Size:      SizeMedium,
	Alignment: AlignmentCentered,
}

// SensorCount is the number of temperature sensors under the coil.
const SensorCount = 9

// Reading holds one temperature per sensor.
// Index 0 is the center (ground truth) sensor, 1-8 are peripheral.
type Reading [SensorCount]float64

// Center returns the ground truth temperature.
func (r Reading) Center() float64 {
	return r[0]
}

// Peripheral returns a copy of the peripheral sensor temperatures.
func (r Reading) Peripheral() []float64 {
	out := make([]float64, SensorCount-1)
	copy(out, r[1:])
	return out
}

// uniformReading returns a reading with every sensor at temp.
func uniformReading(temp float64) Reading {
	var r Reading
	for i := range r {
		r[i] = temp
	}
	return r
}

// HistoryEntry is a per-tick telemetry record used for trend inference.
type HistoryEntry struct {
	Tick           int64
	CenterTemp     float64
	LegacyTemp     float64
	Vibration      float64
	SoundFrequency float64
	Power          int
	HeatUniformity float64
	Sensors        Reading
}

// Cause explains why a transition happened.
type Cause string

const (
	CauseStart             Cause = "start"
	CauseStop              Cause = "stop"
	CauseReservationArmed  Cause = "reservation_armed"
	CauseReservationDue    Cause = "reservation_due"
	CauseTargetReached     Cause = "target_reached"
	CauseIngredientsAdded  Cause = "ingredients_added"
	CauseBoilOverPredicted Cause = "boil_over_predicted"
	CauseBoilOverCleared   Cause = "boil_over_cleared"
	CauseDisturbance       Cause = "disturbance"
	CauseDisturbanceClear  Cause = "disturbance_cleared"
	CauseCookTimeElapsed   Cause = "cook_time_elapsed"
	CauseAcknowledged      Cause = "acknowledged"
	CauseSafetyAutoOff     Cause = "safety_auto_off"
)

// Event represents a state transition to be published.
type Event struct {
	Tick      int64
	Timestamp time.Time
	SessionID string
	RecipeID  string
	From      State
	To        State
	Cause     Cause
	Power     int
}
