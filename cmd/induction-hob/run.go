package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sweeney/induction-hob/internal/console"
	"github.com/sweeney/induction-hob/internal/gpio"
	"github.com/sweeney/induction-hob/internal/logic"
	"github.com/sweeney/induction-hob/internal/mqtt"
	"github.com/sweeney/induction-hob/internal/status"
	"github.com/sweeney/induction-hob/internal/web"
)

type runOptions struct {
	broker    string
	httpAddr  string
	pins      gpio.Pins
	noGPIO    bool
	telemetry time.Duration
}

func newRunCommand(root *rootOptions) *cobra.Command {
	opts := &runOptions{pins: gpio.DefaultPins}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the hob daemon with the operator console on stdin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDaemon(root, opts, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.broker, "broker", "tcp://192.168.1.200:1883", "MQTT broker address")
	f.StringVar(&opts.httpAddr, "http", ":8080", "HTTP status address (empty to disable)")
	f.IntVar(&opts.pins.Coil, "pin-coil", gpio.DefaultPins.Coil, "BCM pin for the coil enable output")
	f.IntVar(&opts.pins.Alarm, "pin-alarm", gpio.DefaultPins.Alarm, "BCM pin for the alarm buzzer")
	f.IntVar(&opts.pins.Stop, "pin-stop", gpio.DefaultPins.Stop, "BCM pin for the stop button")
	f.BoolVar(&opts.noGPIO, "no-gpio", false, "Run without panel hardware")
	f.DurationVar(&opts.telemetry, "telemetry", time.Second, "Telemetry publish interval (0 to disable)")
	return cmd
}

func runDaemon(root *rootOptions, opts *runOptions, in io.Reader, out io.Writer) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	period := cfg.Tuning.TickPeriod

	var panel gpio.Panel
	if !opts.noGPIO {
		p, err := gpio.NewRealPanel(opts.pins)
		if err != nil {
			return fmt.Errorf("init gpio: %w", err)
		}
		defer p.Close()
		panel = p
	}

	publisher, err := mqtt.NewRealPublisher(opts.broker)
	if err != nil {
		return fmt.Errorf("init mqtt: %w", err)
	}
	defer publisher.Close()

	ctrl := root.newController(cfg, time.Now)

	// Tracker exists before STARTUP so the event carries a snapshot.
	tracker := status.NewTracker(time.Now(), status.Config{
		TickMs:      period.Milliseconds(),
		TelemetryMs: opts.telemetry.Milliseconds(),
		Seed:        root.seed,
		Broker:      opts.broker,
		HTTPAddr:    opts.httpAddr,
		ConfigPath:  root.configPath,
		GPIO:        panel != nil,
	})
	tracker.Update(ctrl.Snapshot(), 0)

	snap := tracker.Snapshot()
	startup := mqtt.SystemEvent{
		Timestamp:  snap.Now,
		Event:      "STARTUP",
		Retained:   true,
		RawPayload: status.FormatStatusEvent(snap, "STARTUP", ""),
	}
	if err := publisher.PublishSystem(startup); err != nil {
		log.Warnf("failed to publish startup event: %v", err)
	} else {
		log.Info("published startup event")
	}

	if opts.httpAddr != "" {
		srv := web.New(opts.httpAddr, tracker)
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Errorf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Infof("http status server listening on %s", opts.httpAddr)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	commands := make(chan console.Command)
	go func() {
		defer close(commands)
		if err := console.Scan(ctx, in, console.NewParser(), commands); err != nil && !errors.Is(err, context.Canceled) {
			log.Warnf("console: %v", err)
		}
	}()

	log.Infof("started: tick=%v seed=%d broker=%s recipes=%v gpio=%v",
		period, root.seed, opts.broker, cfg.Catalog.IDs(), panel != nil)
	fmt.Fprintln(out, `type "help" for commands`)

	ticker := time.NewTicker(period)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	l := &loop{
		clock:          logic.NewClock(ctrl),
		dispatcher:     console.NewDispatcher(ctrl, cfg.Catalog, time.Now),
		publisher:      publisher,
		mqttStatus:     publisher,
		panel:          panel,
		tracker:        tracker,
		telemetryEvery: telemetryEvery(opts.telemetry, period),
		out:            out,
		now:            time.Now,
	}
	return l.run(ticker.C, commands, sigCh)
}

// telemetryEvery converts an interval into a tick count. Zero disables.
func telemetryEvery(interval, period time.Duration) int64 {
	if interval <= 0 {
		return 0
	}
	n := int64(interval / period)
	if n < 1 {
		n = 1
	}
	return n
}

// loop owns the controller between ticks, console commands and signals.
// Everything it touches runs on its goroutine except the tracker.
type loop struct {
	clock          *logic.Clock
	dispatcher     *console.Dispatcher
	publisher      mqtt.Publisher
	mqttStatus     mqtt.ConnectionStatus // may be nil
	panel          gpio.Panel            // may be nil
	tracker        *status.Tracker
	telemetryEvery int64
	out            io.Writer
	now            func() time.Time
}

func (l *loop) run(tick <-chan time.Time, commands <-chan console.Command, sig <-chan os.Signal) error {
	for {
		select {
		case s := <-sig:
			log.Infof("received %v, shutting down", s)
			l.shutdown(signalName(s))
			return nil

		case cmd, ok := <-commands:
			if !ok {
				// Console closed; keep cooking until signalled.
				commands = nil
				continue
			}
			if l.command(cmd) {
				l.shutdown("OPERATOR")
				return nil
			}

		case <-tick:
			l.step()
			l.dropStale(tick)
		}
	}
}

// dropStale discards ticks already queued in the channel buffer while a tick
// was running. A sender blocked on an unbuffered channel is a fresh tick and is
// left for the next select.
func (l *loop) dropStale(tick <-chan time.Time) {
	for len(tick) > 0 {
		<-tick
		l.clock.Skip()
		log.Debug("dropped stale tick")
	}
}

// command applies one console command and reports whether the operator quit.
func (l *loop) command(cmd console.Command) bool {
	reply, err := l.dispatcher.Dispatch(cmd)
	switch {
	case errors.Is(err, console.ErrQuit):
		return true
	case err != nil:
		log.Warnf("command %q rejected: %v", cmd.Raw, err)
		fmt.Fprintf(l.out, "error: %v\n", err)
	default:
		log.Debugf("command %q: %s", cmd.Raw, reply)
		fmt.Fprintln(l.out, reply)
	}
	return false
}

func (l *loop) step() {
	if l.panel != nil {
		pressed, err := l.panel.StopPressed()
		if err != nil {
			log.Warnf("gpio read error: %v", err)
		} else if pressed {
			log.Info("stop button pressed")
			l.command(console.Command{Kind: console.KindStop, Raw: "stop button"})
		}
	}

	snap, ok := l.clock.Step()
	if !ok {
		log.Warn("tick skipped: previous tick still running")
		return
	}

	for _, ev := range snap.Events {
		log.Infof("[tick %07d] %s -> %s (%s) power=%d recipe=%s",
			ev.Tick, ev.From, ev.To, ev.Cause, ev.Power, ev.RecipeID)
		if err := l.publisher.Publish(ev); err != nil {
			log.Warnf("publish error: %v", err)
		}
	}

	if l.panel != nil {
		if err := l.panel.Apply(snap.Power, alarm(snap.State)); err != nil {
			log.Warnf("gpio write error: %v", err)
		}
	}

	if l.telemetryEvery > 0 && snap.Tick%l.telemetryEvery == 0 {
		if err := l.publisher.PublishTelemetry(snap); err != nil {
			log.Warnf("telemetry publish error: %v", err)
		}
	}

	log.Debugf("[tick %07d] %s", snap.Tick, console.FormatSnapshot(snap))

	l.tracker.Update(snap, l.clock.Skipped())
	if l.mqttStatus != nil {
		l.tracker.SetMQTTConnected(l.mqttStatus.IsConnected())
	}
}

func (l *loop) shutdown(reason string) {
	if l.panel != nil {
		if err := l.panel.Apply(0, false); err != nil {
			log.Warnf("gpio write error: %v", err)
		}
	}

	event := mqtt.SystemEvent{
		Timestamp: l.now(),
		Event:     "SHUTDOWN",
		Reason:    reason,
		Retained:  true,
	}
	if l.mqttStatus != nil {
		l.tracker.SetMQTTConnected(l.mqttStatus.IsConnected())
	}
	event.RawPayload = status.FormatStatusEvent(l.tracker.Snapshot(), "SHUTDOWN", reason)
	if err := l.publisher.PublishSystem(event); err != nil {
		log.Warnf("failed to publish shutdown event: %v", err)
	} else {
		log.Info("published shutdown event")
	}
}

// alarm sounds for hazards and for a finished session waiting to be acknowledged.
func alarm(s logic.State) bool {
	return s.Hazard() || s == logic.StateComplete
}

func signalName(s os.Signal) string {
	switch s {
	case syscall.SIGINT:
		return "SIGINT"
	case syscall.SIGTERM:
		return "SIGTERM"
	}
	return "UNKNOWN"
}
