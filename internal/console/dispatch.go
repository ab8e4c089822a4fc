package console

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sweeney/induction-hob/internal/logic"
)

// ErrQuit is returned by Dispatch when the operator asks to shut down.
var ErrQuit = errors.New("operator requested shutdown")

// ErrUnknownCommand is returned for input the parser could not match.
var ErrUnknownCommand = errors.New("unknown command")

// ErrNoRecipe is returned when a command needs a recipe and none is selected.
var ErrNoRecipe = errors.New("no recipe selected")

// Core is the command surface of the controller.
type Core interface {
	SelectRecipe(r logic.Recipe) error
	Start(r logic.Recipe) error
	Stop()
	ArmReservation(target time.Time, r logic.Recipe) error
	ConfirmIngredientsAdded() error
	AcknowledgeComplete() error
	Snapshot() logic.Snapshot
}

// Dispatcher applies parsed commands to the controller.
type Dispatcher struct {
	core    Core
	catalog *logic.Catalog
	now     func() time.Time
}

// NewDispatcher creates a dispatcher. now supplies the wall clock used to
// resolve reservation times.
func NewDispatcher(core Core, catalog *logic.Catalog, now func() time.Time) *Dispatcher {
	return &Dispatcher{core: core, catalog: catalog, now: now}
}

// Dispatch applies cmd and returns a reply for the operator. Errors from the
// controller (e.g. logic.ErrInvalidCommand) are returned wrapped; the session
// is unchanged in that case.
func (d *Dispatcher) Dispatch(cmd Command) (string, error) {
	switch cmd.Kind {
	case KindStart:
		r, err := d.recipe(cmd.RecipeID)
		if err != nil {
			return "", err
		}
		if err := d.core.Start(r); err != nil {
			return "", fmt.Errorf("start %s: %w", r.ID, err)
		}
		return fmt.Sprintf("heating for %s (target %.0f°C)", r.ID, r.TargetTemperature), nil

	case KindStop:
		d.core.Stop()
		return "stopped", nil

	case KindSelect:
		r, err := d.catalog.Get(cmd.RecipeID)
		if err != nil {
			return "", err
		}
		if err := d.core.SelectRecipe(r); err != nil {
			return "", fmt.Errorf("select %s: %w", r.ID, err)
		}
		return fmt.Sprintf("selected %s", r.ID), nil

	case KindConfirm:
		if err := d.core.ConfirmIngredientsAdded(); err != nil {
			return "", err
		}
		return "cook timer started", nil

	case KindAcknowledge:
		if err := d.core.AcknowledgeComplete(); err != nil {
			return "", err
		}
		return "acknowledged", nil

	case KindReserve:
		r, err := d.recipe(cmd.RecipeID)
		if err != nil {
			return "", err
		}
		now := d.now()
		target, err := logic.ParseClock(cmd.Clock, now)
		if err != nil {
			return "", err
		}
		if err := d.core.ArmReservation(target, r); err != nil {
			return "", fmt.Errorf("reserve %s: %w", r.ID, err)
		}
		snap := d.core.Snapshot()
		return fmt.Sprintf("reserved %s: heating at %s, ready at %s", r.ID,
			snap.ReservationStart.Format("15:04:05"), snap.ReservationTarget.Format("15:04")), nil

	case KindStatus:
		return FormatSnapshot(d.core.Snapshot()), nil

	case KindRecipes:
		return FormatCatalog(d.catalog), nil

	case KindHelp:
		return Help, nil

	case KindQuit:
		return "", ErrQuit
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCommand, cmd.Raw)
}

// recipe resolves id, falling back to the selected recipe.
func (d *Dispatcher) recipe(id string) (logic.Recipe, error) {
	if id != "" {
		return d.catalog.Get(id)
	}
	selected := d.core.Snapshot().Recipe
	if selected.ID == "" {
		return logic.Recipe{}, ErrNoRecipe
	}
	return selected, nil
}

// FormatSnapshot renders a one-line operator summary of snap.
func FormatSnapshot(snap logic.Snapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-23s power=%-2d center=%6.1f°C", snap.State, snap.Power, snap.CenterTemp)
	if snap.Recipe.ID != "" {
		fmt.Fprintf(&b, " recipe=%s", snap.Recipe.ID)
	}
	if snap.State.Active() && snap.State != logic.StateReserved {
		fmt.Fprintf(&b, " remaining=%s", snap.Remaining.Round(time.Second))
	}
	if snap.State == logic.StateReserved {
		fmt.Fprintf(&b, " starts=%s", snap.ReservationStart.Format("15:04:05"))
	}
	if snap.CookingType != logic.CookingUnknown {
		fmt.Fprintf(&b, " type=%s vessel=%s/%s/%s", snap.CookingType,
			snap.Vessel.Material, snap.Vessel.Size, snap.Vessel.Alignment)
	}
	fmt.Fprintf(&b, " vib=%.1f uniformity=%.0f%%", snap.Vibration, snap.HeatUniformity)
	return b.String()
}

// FormatCatalog lists recipes, one per line.
func FormatCatalog(c *logic.Catalog) string {
	var b strings.Builder
	for i, r := range c.List() {
		if i > 0 {
			b.WriteByte('\n')
		}
		var flags []string
		if r.EnvelopingHeat {
			flags = append(flags, "enveloping")
		}
		if r.AutoStartsCooking {
			flags = append(flags, "auto-start")
		}
		if r.Reservable {
			flags = append(flags, "reservable")
		}
		if r.AutoDetect {
			flags = append(flags, "auto-detect")
		}
		cook := "until target"
		if !r.Instantaneous() {
			cook = r.CookDuration.String()
		}
		fmt.Fprintf(&b, "%-10s %5.0f°C  %-12s %s", r.ID, r.TargetTemperature, cook, r.Name)
		if len(flags) > 0 {
			fmt.Fprintf(&b, " [%s]", strings.Join(flags, ", "))
		}
	}
	return b.String()
}
