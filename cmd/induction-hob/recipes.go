package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/sweeney/induction-hob/internal/console"
	"github.com/sweeney/induction-hob/internal/logic"
)

func newRecipesCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "recipes",
		Short: "List the recipe catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), console.FormatCatalog(cfg.Catalog))
			return nil
		},
	}
}

func newPlanCommand(root *rootOptions) *cobra.Command {
	var at string

	cmd := &cobra.Command{
		Use:   "plan RECIPE HH:MM",
		Short: "Show when a reservation would start heating",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}
			now := time.Now()
			if at != "" {
				if now, err = time.Parse(time.RFC3339, at); err != nil {
					return fmt.Errorf("--now: %w", err)
				}
			}
			line, err := plan(cfg.Catalog, cfg.Tuning, args[0], args[1], now)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), line)
			return nil
		},
	}
	cmd.Flags().StringVar(&at, "now", "", "Plan as if the clock read this RFC3339 time")
	return cmd
}

func plan(catalog *logic.Catalog, t logic.Tuning, recipeID, clock string, now time.Time) (string, error) {
	r, err := catalog.Get(recipeID)
	if err != nil {
		return "", err
	}
	if !r.Reservable {
		return "", fmt.Errorf("%w: %s", logic.ErrNotReservable, r.ID)
	}
	target, err := logic.ParseClock(clock, now)
	if err != nil {
		return "", err
	}
	start, finish := logic.ComputeStart(now, target, r.CookDuration, t.PreheatBuffer)
	return fmt.Sprintf("%s: heat at %s, ready at %s (%s cook + %s preheat)",
		r.ID, start.Format("2006-01-02 15:04:05"), finish.Format("2006-01-02 15:04"),
		r.CookDuration, t.PreheatBuffer), nil
}
