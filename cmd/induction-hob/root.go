package main

import (
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sweeney/induction-hob/internal/config"
	"github.com/sweeney/induction-hob/internal/logic"
)

type rootOptions struct {
	logLevel   string
	configPath string
	seed       int64
	tick       time.Duration
}

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:          "induction-hob",
		Short:        "Induction hob control core",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := log.ParseLevel(opts.logLevel)
			if err != nil {
				return fmt.Errorf("invalid log level %q: %w", opts.logLevel, err)
			}
			log.SetLevel(level)
			log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.logLevel, "log", "info", "Log level (trace, debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "YAML file overlaid on the built-in tuning and recipes")
	cmd.PersistentFlags().Int64Var(&opts.seed, "seed", 1, "Seed for sensor noise and disturbance draws")
	cmd.PersistentFlags().DurationVar(&opts.tick, "tick", 0, "Tick period (0 keeps the configured period)")

	cmd.AddCommand(
		newRunCommand(opts),
		newSimulateCommand(opts),
		newRecipesCommand(opts),
		newPlanCommand(opts),
		newWatchCommand(),
	)
	return cmd
}

// loadConfig resolves the embedded defaults, the --config overlay and the
// --tick override.
func (o *rootOptions) loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if o.configPath == "" {
		cfg, err = config.Default()
	} else {
		cfg, err = config.Load(o.configPath)
	}
	if err != nil {
		return nil, err
	}
	if o.tick != 0 {
		cfg.Tuning.TickPeriod = o.tick
		if err := cfg.Tuning.Validate(); err != nil {
			return nil, fmt.Errorf("--tick: %w", err)
		}
	}
	return cfg, nil
}

func (o *rootOptions) newController(cfg *config.Config, now func() time.Time) *logic.Controller {
	return logic.New(cfg.Tuning, logic.WithSeed(o.seed), logic.WithClock(now))
}
