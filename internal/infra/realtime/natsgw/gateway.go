package natsgw

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

// Gateway carries chat events over NATS. Channel names map one-to-one onto
// subjects; the event name rides inside a small JSON envelope so publishers
// and subscribers agree on it without encoding it into the subject.
//
// Delivery is whatever core NATS gives connected subscribers: best-effort,
// at-most-once, no replay.
type Gateway struct {
	conn   *nats.Conn
	logger *slog.Logger
}

type envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

func New(url string, logger *slog.Logger) (*Gateway, error) {
	if logger == nil {
		logger = slog.Default()
	}
	opts := []nats.Option{
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2 * time.Second),
		nats.Timeout(10 * time.Second),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			logger.Warn("realtime fabric disconnected", "error", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("realtime fabric reconnected", "url", nc.ConnectedUrl())
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			logger.Info("realtime fabric connection closed")
		}),
	}
	conn, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, err
	}
	return &Gateway{conn: conn, logger: logger}, nil
}

// Publish sends one event on a channel. Payload is marshalled to JSON.
func (g *Gateway) Publish(ctx context.Context, channel, event string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("natsgw: encode payload: %w", err)
	}
	body, err := json.Marshal(envelope{Event: event, Data: data})
	if err != nil {
		return fmt.Errorf("natsgw: encode envelope: %w", err)
	}
	if err := g.conn.Publish(channel, body); err != nil {
		return fmt.Errorf("natsgw: publish %s: %w", channel, err)
	}
	g.logger.Debug("event published", "channel", channel, "event", event)
	return nil
}

// Subscribe is the client-side counterpart: it listens on a channel and
// invokes the handler with the raw event payload whenever the envelope's
// event name matches. The returned function cancels the subscription.
func (g *Gateway) Subscribe(channel, event string, handler func(data []byte)) (func(), error) {
	sub, err := g.conn.Subscribe(channel, func(m *nats.Msg) {
		var env envelope
		if err := json.Unmarshal(m.Data, &env); err != nil {
			g.logger.Warn("malformed realtime envelope", "channel", channel, "error", err)
			return
		}
		if env.Event != event {
			return
		}
		handler(env.Data)
	})
	if err != nil {
		return nil, fmt.Errorf("natsgw: subscribe %s: %w", channel, err)
	}
	return func() {
		if err := sub.Unsubscribe(); err != nil {
			g.logger.Warn("unsubscribe failed", "channel", channel, "error", err)
		}
	}, nil
}

func (g *Gateway) IsConnected() bool {
	return g.conn != nil && g.conn.IsConnected()
}

func (g *Gateway) Close() {
	if g.conn != nil {
		g.conn.Close()
	}
}
