package mqtt

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"
)

// TopicAll matches every hob topic.
const TopicAll = "kitchen/hob/#"

// Summarize renders one received message as a single line. Payloads are read
// by path so watchers keep working when fields are added.
func Summarize(topic string, payload []byte) string {
	if !gjson.ValidBytes(payload) {
		return fmt.Sprintf("%-8s invalid payload (%d bytes)", shortTopic(topic), len(payload))
	}
	switch topic {
	case Topic:
		h := gjson.GetBytes(payload, "hob")
		return fmt.Sprintf("%-8s %s %s -> %s (%s) power=%d recipe=%s",
			"event", h.Get("timestamp").String(), h.Get("from").String(), h.Get("to").String(),
			h.Get("cause").String(), h.Get("power").Int(), h.Get("recipe").String())

	case TopicTelemetry:
		h := gjson.GetBytes(payload, "telemetry.hob")
		line := fmt.Sprintf("%-8s tick=%d %s power=%d center=%.1f°C vib=%.1f",
			"sample", gjson.GetBytes(payload, "telemetry.tick").Int(), h.Get("state").String(),
			h.Get("power").Int(), h.Get("center_temp").Float(), h.Get("vibration").Float())
		if ct := h.Get("cooking_type").String(); ct != "" && ct != "UNKNOWN" {
			line += fmt.Sprintf(" type=%s vessel=%s", ct, h.Get("vessel.material").String())
		}
		return line

	case TopicSystem:
		// Lifecycle events come either as a bare system payload or a full status.
		if s := gjson.GetBytes(payload, "status"); s.Exists() {
			line := fmt.Sprintf("%-8s %s state=%s", "system", s.Get("event").String(), s.Get("hob.state").String())
			if r := s.Get("reason").String(); r != "" {
				line += " reason=" + r
			}
			return line
		}
		s := gjson.GetBytes(payload, "system")
		line := fmt.Sprintf("%-8s %s", "system", s.Get("event").String())
		if r := s.Get("reason").String(); r != "" {
			line += " reason=" + r
		}
		return line
	}
	return fmt.Sprintf("%-8s %s", shortTopic(topic), payload)
}

func shortTopic(topic string) string {
	return topic[strings.LastIndex(topic, "/")+1:]
}

// Watch subscribes to every hob topic and writes a summary line per message
// until ctx is cancelled.
func Watch(ctx context.Context, broker string, out io.Writer) error {
	lines := make(chan string, 64)
	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID("induction-hob-watch-" + uuid.NewString()[:8]).
		SetAutoReconnect(true).
		SetOnConnectHandler(func(c paho.Client) {
			c.Subscribe(TopicAll, 0, func(_ paho.Client, m paho.Message) {
				select {
				case lines <- Summarize(m.Topic(), m.Payload()):
				default:
				}
			})
		})

	client := paho.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return fmt.Errorf("connect to %s: timeout", broker)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("connect to broker: %w", err)
	}
	defer client.Disconnect(250)

	for {
		select {
		case <-ctx.Done():
			return nil
		case line := <-lines:
			fmt.Fprintf(out, "%s %s\n", time.Now().Format("15:04:05"), line)
		}
	}
}
