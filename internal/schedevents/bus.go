package schedevents

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/coursework/rtkernel/pkg/circuit"
)

// Publisher is what cmd/kernel publishes admission and tick events through.
// NoopBus satisfies it with zero configuration; NATSBus is the production adapter.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close()
}

// Config holds NATS connection settings.
type Config struct {
	URL            string
	Name           string
	Subject        string
	ReconnectWait  time.Duration
	MaxReconnects  int
	ConnectTimeout time.Duration
}

// NATSBus publishes kernel events to a NATS subject, guarded by a circuit
// breaker so a stalled broker degrades publication rather than the
// scheduler's selection loop.
type NATSBus struct {
	conn    *nats.Conn
	subject string
	breaker *circuit.Breaker

	mu        sync.Mutex
	connected bool
}

// NewNATSBus connects to NATS and wires a circuit breaker around Publish.
func NewNATSBus(cfg Config) (*NATSBus, error) {
	opts := []nats.Option{
		nats.Name(cfg.Name),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.Timeout(cfg.ConnectTimeout),
	}

	conn, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("schedevents: connect to NATS: %w", err)
	}

	bus := &NATSBus{
		conn:      conn,
		subject:   cfg.Subject,
		connected: true,
		breaker: circuit.NewBreaker(circuit.Config{
			Name:        "schedevents." + cfg.Name,
			MaxFailures: 5,
			Timeout:     10 * time.Second,
			HalfOpenMax: 1,
		}),
	}

	conn.SetReconnectHandler(func(*nats.Conn) {
		bus.mu.Lock()
		bus.connected = true
		bus.mu.Unlock()
	})
	conn.SetDisconnectErrHandler(func(*nats.Conn, error) {
		bus.mu.Lock()
		bus.connected = false
		bus.mu.Unlock()
	})

	return bus, nil
}

// Publish sends event on the configured subject through the circuit
// breaker. A tripped breaker returns circuit.ErrCircuitOpen without
// touching the connection.
func (b *NATSBus) Publish(ctx context.Context, event Event) error {
	return b.breaker.Execute(ctx, func() error {
		payload, err := json.Marshal(event)
		if err != nil {
			return fmt.Errorf("schedevents: marshal event: %w", err)
		}
		return b.conn.Publish(b.subject, payload)
	})
}

// Close closes the NATS connection without draining it.
func (b *NATSBus) Close() {
	if b.conn != nil {
		b.conn.Close()
	}
}

// NoopBus discards every event. It is the default Publisher so the kernel
// runs with no NATS dependency configured.
type NoopBus struct{}

func (NoopBus) Publish(context.Context, Event) error { return nil }
func (NoopBus) Close()                                {}
