package policies

import "context"

// EventSink receives durable audit records for persisted messages. The
// signature matches the Kafka producer so it can back this port directly.
type EventSink interface {
	Publish(ctx context.Context, topic string, key string, payload []byte, headers map[string]string) error
}
