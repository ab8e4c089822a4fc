package logic

import "time"

// Session is the single authoritative cooking session. It is owned by the
// Controller and only mutated under its lock.
type Session struct {
	ID                string
	State             State
	Recipe            Recipe
	Power             int
	Remaining         time.Duration
	CookingType       CookingType
	Vessel            VesselInfo
	ReservationStart  time.Time
	ReservationTarget time.Time
	AutoOffCounter    int
	IngredientsAdded  bool
	// RecoveryTicks counts down while a disturbance is being ridden out.
	RecoveryTicks int
}

// idleSession returns Idle defaults, keeping the operator's recipe selection.
func idleSession(selected Recipe) Session {
	return Session{
		State:       StateIdle,
		Recipe:      selected,
		CookingType: CookingUnknown,
		Vessel:      UnknownVessel,
	}
}

// Snapshot is an immutable point-in-time view of the core, published once per
// tick. It is a value type; History and Events are fresh copies.
type Snapshot struct {
	Tick              int64
	Time              time.Time
	SessionID         string
	State             State
	Recipe            Recipe
	Power             int
	Remaining         time.Duration
	CenterTemp        float64
	LegacyTemp        float64
	Vibration         float64
	HeatUniformity    float64
	Sensors           Reading
	CookingType       CookingType
	Vessel            VesselInfo
	IngredientsAdded  bool
	ReservationStart  time.Time
	ReservationTarget time.Time
	AutoOffCounter    int
	History           []HistoryEntry
	// Events are the transitions since the previous tick, commands included.
	Events []Event
}
