package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sweeney/induction-hob/internal/mqtt"
)

func newWatchCommand() *cobra.Command {
	var broker string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Follow hob events, telemetry and lifecycle messages on the broker",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			log.Infof("watching %s on %s", mqtt.TopicAll, broker)
			return mqtt.Watch(ctx, broker, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&broker, "broker", "tcp://192.168.1.200:1883", "MQTT broker address")
	return cmd
}
