package logic

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Option configures the controller.
type Option func(*Controller)

// WithSeed seeds every random stream from one master seed.
func WithSeed(seed int64) Option {
	return func(c *Controller) {
		c.rng = NewPartitionedRNG(seed)
	}
}

// WithNoise overrides the plant noise source.
func WithNoise(src Source) Option {
	return func(c *Controller) {
		c.noise = src
	}
}

// WithDisturbances overrides the random disturbance source.
func WithDisturbances(src Source) Option {
	return func(c *Controller) {
		c.disturbances = src
	}
}

// WithPlant replaces the simulated thermal model, e.g. with a hardware feed.
func WithPlant(p Plant) Option {
	return func(c *Controller) {
		c.plant = p
	}
}

// WithClock sets the wall clock used for reservations and event timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		c.now = now
	}
}

// Controller is the cooking state machine. Commands and Tick share one lock,
// so a command is always applied between two ticks.
type Controller struct {
	mu sync.Mutex

	tuning     Tuning
	policy     Policy
	classifier Classifier
	autoOff    AutoOff
	detector   *Detector
	plant      Plant
	now        func() time.Time

	rng          *PartitionedRNG
	noise        Source
	disturbances Source
	ids          io.Reader

	tick       int64
	session    Session
	physical   PlantState
	uniformity float64
	history    *History
	pending    []Event
}

// New creates an idle controller on a cold hob.
func New(t Tuning, opts ...Option) *Controller {
	c := &Controller{
		tuning:     t,
		policy:     NewPolicy(t),
		classifier: NewClassifier(t),
		autoOff:    NewAutoOff(t),
		now:        time.Now,
		rng:        NewPartitionedRNG(1),
		session:    idleSession(Recipe{}),
		physical:   AmbientState(t),
		history:    NewHistory(t.HistoryCapacity),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.noise == nil {
		c.noise = c.rng.ForSubsystem(SubsystemPlant)
	}
	if c.disturbances == nil {
		c.disturbances = c.rng.ForSubsystem(SubsystemDetector)
	}
	c.ids = c.rng.ForSubsystem(SubsystemSession)
	if c.plant == nil {
		c.plant = NewThermalModel(t, c.noise)
	}
	c.detector = NewDetector(t, c.disturbances)
	c.uniformity = Uniformity(t, c.physical.Sensors)
	return c
}

// Tuning returns the constants the controller runs with.
func (c *Controller) Tuning() Tuning {
	return c.tuning
}

// SelectRecipe chooses the recipe for the next session. Only allowed while Idle.
func (c *Controller) SelectRecipe(r Recipe) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session.State != StateIdle {
		return c.rejected("select recipe")
	}
	c.session.Recipe = r
	return nil
}

// Start begins heating for r immediately.
func (c *Controller) Start(r Recipe) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session.State != StateIdle {
		return c.rejected("start")
	}
	c.begin(r)
	c.session.Power = c.policy.Nominal(PhasePreheat, r)
	c.transition(StateHeatingWater, CauseStart)
	return nil
}

// ArmReservation schedules r to finish at target (wall clock). A target that
// is not in the future is rolled forward by a day.
func (c *Controller) ArmReservation(target time.Time, r Recipe) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session.State != StateIdle {
		return c.rejected("arm reservation")
	}
	if !r.Reservable {
		return fmt.Errorf("%w: %s", ErrNotReservable, r.ID)
	}
	c.begin(r)
	c.session.ReservationStart, c.session.ReservationTarget =
		ComputeStart(c.now(), target, r.CookDuration, c.tuning.PreheatBuffer)
	c.transition(StateReserved, CauseReservationArmed)
	return nil
}

// ConfirmIngredientsAdded starts the cook timer. Only allowed while waiting.
func (c *Controller) ConfirmIngredientsAdded() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session.State != StateWaitingForIngredients {
		return c.rejected("confirm ingredients")
	}
	c.session.IngredientsAdded = true
	c.session.Power = c.policy.Level(PhaseCook, c.session.Recipe, c.physical.Sensors.Center())
	c.transition(StateCookingActive, CauseIngredientsAdded)
	return nil
}

// AcknowledgeComplete returns a completed session to Idle.
func (c *Controller) AcknowledgeComplete() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session.State != StateComplete {
		return c.rejected("acknowledge")
	}
	c.session.AutoOffCounter = 0
	c.reset(CauseAcknowledged)
	return nil
}

// Stop cuts power and resets the session from any state. Calling it while
// Idle is a no-op.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session.State == StateIdle {
		c.session = idleSession(c.session.Recipe)
		return
	}
	c.reset(CauseStop)
}

// Snapshot returns the current state without advancing time or draining events.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot(c.now(), nil)
}

// Tick advances the core by one period and returns the resulting snapshot.
//
// Order: reservation gate, plant, classifier, policy/detector/state table,
// safety auto-off, history.
func (c *Controller) Tick() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.tick++
	now := c.now()
	s := &c.session

	if s.State == StateReserved {
		if Due(now, s.ReservationStart) {
			s.Power = c.policy.Nominal(PhasePreheat, s.Recipe)
			c.transition(StateHeatingWater, CauseReservationDue)
		}
		return c.drain(now)
	}

	prevCenter := c.physical.Sensors.Center()
	out := c.plant.Step(PlantInput{
		Prev:             c.physical,
		Power:            s.Power,
		Recipe:           s.Recipe,
		State:            s.State,
		IngredientsAdded: s.IngredientsAdded,
	})
	c.physical = out.PlantState
	c.uniformity = out.Uniformity

	c.classify()
	c.advance(prevCenter)

	if s.State == StateComplete {
		var expired bool
		s.AutoOffCounter, expired = c.autoOff.Observe(s.AutoOffCounter)
		if expired {
			c.reset(CauseSafetyAutoOff)
		}
	}

	center := c.physical.Sensors.Center()
	c.history.Push(HistoryEntry{
		Tick:           c.tick,
		CenterTemp:     center,
		LegacyTemp:     c.physical.Legacy,
		Vibration:      c.physical.Vibration,
		SoundFrequency: SoundFrequency(center),
		Power:          s.Power,
		HeatUniformity: c.uniformity,
		Sensors:        c.physical.Sensors,
	})
	return c.drain(now)
}

// advance applies the transition table for one tick.
func (c *Controller) advance(prevCenter float64) {
	s := &c.session
	r := s.Recipe
	center := c.physical.Sensors.Center()
	vibration := c.physical.Vibration

	if s.State.ConsumesCookTime() {
		s.Remaining -= c.tuning.TickPeriod
		if s.Remaining < 0 {
			s.Remaining = 0
		}
	}

	switch s.State {
	case StateIdle, StateComplete:
		s.Power = 0

	case StateHeatingWater:
		if center < r.TargetTemperature-c.tuning.TargetTolerance {
			s.Power = c.policy.Level(PhasePreheat, r, center)
			return
		}
		switch {
		case r.Instantaneous():
			s.Power = 0
			c.transition(StateComplete, CauseTargetReached)
		case r.AutoStartsCooking:
			s.Power = c.policy.Level(PhaseCook, r, center)
			c.transition(StateCookingActive, CauseTargetReached)
		default:
			s.Power = c.policy.KeepWarm(r, center)
			c.transition(StateWaitingForIngredients, CauseTargetReached)
		}

	case StateWaitingForIngredients:
		s.Power = c.policy.KeepWarm(r, center)

	case StateCookingActive:
		switch {
		case s.Remaining <= 0:
			s.Power = 0
			c.transition(StateComplete, CauseCookTimeElapsed)
		case c.detector.BoilOver(r, vibration):
			s.Power = c.policy.Throttle()
			c.transition(StatePredictingBoilOver, CauseBoilOverPredicted)
		case c.detector.Disturbance(prevCenter, center):
			s.Power = c.policy.Throttle()
			s.RecoveryTicks = c.tuning.ticksFor(c.tuning.DisturbanceRecovery)
			c.transition(StateDisturbanceDetected, CauseDisturbance)
		default:
			s.Power = c.policy.Level(PhaseCook, r, center)
		}

	case StatePredictingBoilOver:
		switch {
		case s.Remaining <= 0:
			s.Power = 0
			c.transition(StateComplete, CauseCookTimeElapsed)
			return
		case c.detector.BoilOverCleared(vibration):
			s.Power = c.policy.Level(PhaseCook, r, center)
			c.transition(StateCookingActive, CauseBoilOverCleared)
			return
		}
		s.Power = c.policy.Throttle()

	case StateDisturbanceDetected:
		s.RecoveryTicks--
		if s.Remaining <= 0 {
			s.RecoveryTicks = 0
			s.Power = 0
			c.transition(StateComplete, CauseCookTimeElapsed)
			return
		}
		if s.RecoveryTicks <= 0 {
			s.RecoveryTicks = 0
			s.Power = c.policy.Level(PhaseCook, r, center)
			c.transition(StateCookingActive, CauseDisturbanceClear)
			return
		}
		s.Power = c.policy.Throttle()
	}
}

// classify runs vessel inference for auto-detect sessions until it resolves.
func (c *Controller) classify() {
	s := &c.session
	if !s.State.Heating() || !s.Recipe.AutoDetect || s.CookingType != CookingUnknown {
		return
	}
	tr, ok := c.classifier.Observe(c.history, c.tick, c.physical.Sensors)
	if !ok {
		return
	}
	kind := c.classifier.Classify(tr)
	if kind == CookingUnknown {
		return
	}
	s.CookingType = kind
	s.Vessel = c.classifier.Vessel(tr)
}

// begin opens a new session for r. Caller holds the lock.
func (c *Controller) begin(r Recipe) {
	c.session = idleSession(r)
	c.session.ID = c.newSessionID()
	c.session.Remaining = r.CookDuration
	c.history.Reset()
}

// reset discards the session and cuts power. Caller holds the lock.
func (c *Controller) reset(cause Cause) {
	s := &c.session
	s.Power = 0
	c.transition(StateIdle, cause)
	c.session = idleSession(s.Recipe)
}

// transition records a state change. Caller holds the lock and has already
// set the power for the new state.
func (c *Controller) transition(to State, cause Cause) {
	s := &c.session
	c.pending = append(c.pending, Event{
		Tick:      c.tick,
		Timestamp: c.now(),
		SessionID: s.ID,
		RecipeID:  s.Recipe.ID,
		From:      s.State,
		To:        to,
		Cause:     cause,
		Power:     s.Power,
	})
	s.State = to
}

func (c *Controller) rejected(cmd string) error {
	return fmt.Errorf("%s in %s: %w", cmd, c.session.State, ErrInvalidCommand)
}

func (c *Controller) newSessionID() string {
	id, err := uuid.NewRandomFromReader(c.ids)
	if err != nil {
		return fmt.Sprintf("session-%d", c.tick)
	}
	return id.String()
}

func (c *Controller) drain(now time.Time) Snapshot {
	events := c.pending
	c.pending = nil
	return c.snapshot(now, events)
}

func (c *Controller) snapshot(now time.Time, events []Event) Snapshot {
	s := c.session
	return Snapshot{
		Tick:              c.tick,
		Time:              now,
		SessionID:         s.ID,
		State:             s.State,
		Recipe:            s.Recipe,
		Power:             s.Power,
		Remaining:         s.Remaining,
		CenterTemp:        c.physical.Sensors.Center(),
		LegacyTemp:        c.physical.Legacy,
		Vibration:         c.physical.Vibration,
		HeatUniformity:    c.uniformity,
		Sensors:           c.physical.Sensors,
		CookingType:       s.CookingType,
		Vessel:            s.Vessel,
		IngredientsAdded:  s.IngredientsAdded,
		ReservationStart:  s.ReservationStart,
		ReservationTarget: s.ReservationTarget,
		AutoOffCounter:    s.AutoOffCounter,
		History:           c.history.Entries(),
		Events:            events,
	}
}
