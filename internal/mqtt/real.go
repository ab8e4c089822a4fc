package mqtt

import (
	"fmt"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/sweeney/induction-hob/internal/logic"
)

const (
	bufferCapacity = 512
	connectTimeout = 10 * time.Second
	publishTimeout = 5 * time.Second
)

// pahoClient is the subset of paho.Client the publisher uses.
type pahoClient interface {
	IsConnectionOpen() bool
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
	Disconnect(quiesce uint)
}

// RealPublisher publishes to an actual MQTT broker.
// Messages produced while the connection is down are buffered and replayed
// in order on the next connect.
type RealPublisher struct {
	client pahoClient

	// sendMu orders every send; onConnect holds it across the replay so
	// newer messages cannot overtake buffered ones.
	sendMu sync.Mutex

	mu        sync.Mutex
	buf       *ringBuffer
	connected bool
	everUp    bool
}

// NewRealPublisher creates a publisher for the given broker.
// If the broker is unreachable the publisher is still returned; paho keeps
// retrying in the background and messages are buffered meanwhile.
func NewRealPublisher(broker string) (*RealPublisher, error) {
	p := &RealPublisher{buf: newRingBuffer(bufferCapacity)}

	will, err := FormatSystemPayload(SystemEvent{
		Timestamp: time.Now(),
		Event:     "SHUTDOWN",
		Reason:    "MQTT_DISCONNECT",
	})
	if err != nil {
		return nil, fmt.Errorf("format will: %w", err)
	}

	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID("induction-hob-" + uuid.NewString()[:8]).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetBinaryWill(TopicSystem, will, 1, true).
		SetOnConnectHandler(func(paho.Client) { p.onConnect(time.Now()) }).
		SetConnectionLostHandler(func(_ paho.Client, err error) { p.onConnectionLost(err) })

	client := paho.NewClient(opts)
	p.client = client

	token := client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		log.Warnf("mqtt: broker %s not reachable yet, buffering until connected", broker)
		return p, nil
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to broker: %w", err)
	}
	return p, nil
}

func (p *RealPublisher) onConnect(now time.Time) {
	p.sendMu.Lock()
	defer p.sendMu.Unlock()

	p.mu.Lock()
	p.connected = true
	reconnect := p.everUp
	p.everUp = true
	pending := p.buf.drainAll()
	p.mu.Unlock()

	if reconnect {
		log.Info("mqtt: reconnected")
		payload, _ := FormatSystemPayload(SystemEvent{Timestamp: now, Event: "RECONNECTED"})
		pending = append(pending, bufferedMsg{topic: TopicSystem, payload: payload, qos: 1})
	} else {
		log.Info("mqtt: connected")
	}

	if len(pending) > 0 {
		log.Infof("mqtt: replaying %d buffered messages", len(pending))
	}
	for _, msg := range pending {
		if err := p.send(msg); err != nil {
			log.Warnf("mqtt: replay to %s failed: %v", msg.topic, err)
		}
	}
}

func (p *RealPublisher) onConnectionLost(err error) {
	p.mu.Lock()
	p.connected = false
	p.mu.Unlock()
	log.Warnf("mqtt: connection lost: %v", err)
}

// IsConnected reports whether the broker connection is currently up.
func (p *RealPublisher) IsConnected() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.connected
}

// Publish sends a state transition. QoS 1 so operators do not miss hazards.
func (p *RealPublisher) Publish(event logic.Event) error {
	payload, err := FormatPayload(event)
	if err != nil {
		return fmt.Errorf("format payload: %w", err)
	}
	return p.publish(bufferedMsg{topic: Topic, payload: payload, qos: 1})
}

// PublishTelemetry sends a sensor sample. QoS 0; stale telemetry is not buffered.
func (p *RealPublisher) PublishTelemetry(snap logic.Snapshot) error {
	if !p.IsConnected() {
		return nil
	}
	payload, err := FormatTelemetryPayload(snap)
	if err != nil {
		return fmt.Errorf("format telemetry: %w", err)
	}
	p.sendMu.Lock()
	defer p.sendMu.Unlock()
	return p.send(bufferedMsg{topic: TopicTelemetry, payload: payload})
}

// PublishSystem sends a daemon lifecycle event.
func (p *RealPublisher) PublishSystem(event SystemEvent) error {
	payload, err := FormatSystemPayload(event)
	if err != nil {
		return fmt.Errorf("format system payload: %w", err)
	}
	return p.publish(bufferedMsg{topic: TopicSystem, payload: payload, qos: 1, retained: event.Retained})
}

func (p *RealPublisher) publish(msg bufferedMsg) error {
	p.sendMu.Lock()
	defer p.sendMu.Unlock()

	p.mu.Lock()
	if !p.connected {
		p.buf.push(msg)
		p.mu.Unlock()
		return nil
	}
	p.mu.Unlock()
	return p.send(msg)
}

// send blocks until the broker acknowledges or the timeout expires.
// Callers hold sendMu.
func (p *RealPublisher) send(msg bufferedMsg) error {
	token := p.client.Publish(msg.topic, msg.qos, msg.retained, msg.payload)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("publish %s: timeout", msg.topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish %s: %w", msg.topic, err)
	}
	return nil
}

// Buffered returns the number of messages waiting for a connection.
func (p *RealPublisher) Buffered() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.buf.len()
}

// Close disconnects from the broker.
func (p *RealPublisher) Close() error {
	p.client.Disconnect(1000)
	return nil
}
