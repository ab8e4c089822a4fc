package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/sweeney/induction-hob/internal/config"
	"github.com/sweeney/induction-hob/internal/console"
	"github.com/sweeney/induction-hob/internal/logic"
)

// simulationDate anchors the simulated wall clock so runs are reproducible.
var simulationDate = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

type simulateOptions struct {
	recipe       string
	reserve      string // HH:MM, empty starts immediately
	clock        string // wall clock at tick 0
	ticks        int
	every        int // print a sample every N ticks, 0 prints transitions only
	confirmAfter int // ticks spent waiting before ingredients go in, <0 never
	autoAck      bool
}

func newSimulateCommand(root *rootOptions) *cobra.Command {
	opts := &simulateOptions{}

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run one session headless on a simulated clock and print the trajectory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}
			_, err = simulate(cmd.OutOrStdout(), cfg, root.seed, opts)
			return err
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.recipe, "recipe", "ramen", "Recipe to cook")
	f.StringVar(&opts.reserve, "reserve", "", "Finish time HH:MM (reservable recipes only)")
	f.StringVar(&opts.clock, "clock", "12:00", "Simulated wall clock at the first tick")
	f.IntVar(&opts.ticks, "ticks", 10000, "Maximum number of ticks")
	f.IntVar(&opts.every, "every", 50, "Print a sample every N ticks (0 for transitions only)")
	f.IntVar(&opts.confirmAfter, "confirm-after", 5, "Ticks to wait for ingredients before adding them (-1 never)")
	f.BoolVar(&opts.autoAck, "auto-ack", false, "Acknowledge completion immediately instead of waiting for auto-off")
	return cmd
}

// simulate runs a session until it returns to Idle or the tick budget is
// spent, and returns the last snapshot.
func simulate(w io.Writer, cfg *config.Config, seed int64, o *simulateOptions) (logic.Snapshot, error) {
	now, err := logic.ParseClock(o.clock, simulationDate)
	if err != nil {
		return logic.Snapshot{}, err
	}
	ctrl := logic.New(cfg.Tuning, logic.WithSeed(seed), logic.WithClock(func() time.Time { return now }))

	r, err := cfg.Catalog.Get(o.recipe)
	if err != nil {
		return logic.Snapshot{}, err
	}
	if o.reserve != "" {
		target, err := logic.ParseClock(o.reserve, now)
		if err != nil {
			return logic.Snapshot{}, err
		}
		if err := ctrl.ArmReservation(target, r); err != nil {
			return logic.Snapshot{}, err
		}
	} else if err := ctrl.Start(r); err != nil {
		return logic.Snapshot{}, err
	}

	fmt.Fprintf(w, "seed=%d recipe=%s tick=%v\n", seed, r.ID, cfg.Tuning.TickPeriod)

	snap := ctrl.Snapshot()
	waiting := 0
	for i := 0; i < o.ticks; i++ {
		now = now.Add(cfg.Tuning.TickPeriod)
		snap = ctrl.Tick()

		ended := false
		for _, ev := range snap.Events {
			fmt.Fprintf(w, "[tick %07d] %s %s -> %s (%s) power=%d\n",
				ev.Tick, ev.Timestamp.Format("15:04:05"), ev.From, ev.To, ev.Cause, ev.Power)
			if ev.To == logic.StateIdle {
				ended = true
			}
		}
		if ended {
			break
		}
		if o.every > 0 && snap.Tick%int64(o.every) == 0 {
			fmt.Fprintf(w, "[tick %07d] %s %s\n", snap.Tick, now.Format("15:04:05"), console.FormatSnapshot(snap))
		}

		switch snap.State {
		case logic.StateWaitingForIngredients:
			waiting++
			if o.confirmAfter >= 0 && waiting > o.confirmAfter {
				if err := ctrl.ConfirmIngredientsAdded(); err != nil {
					return snap, err
				}
				fmt.Fprintf(w, "[tick %07d] operator: ingredients added\n", snap.Tick)
			}
		case logic.StateComplete:
			if o.autoAck {
				if err := ctrl.AcknowledgeComplete(); err != nil {
					return snap, err
				}
				fmt.Fprintf(w, "[tick %07d] operator: acknowledged\n", snap.Tick)
			}
		}
	}

	fmt.Fprintf(w, "finished after %d ticks: %s\n", snap.Tick, console.FormatSnapshot(snap))
	return snap, nil
}
