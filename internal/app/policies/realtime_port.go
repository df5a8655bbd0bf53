package policies

import "context"

// Realtime publishes events to named channels on the hosted pub/sub fabric.
// Delivery is best-effort at-most-once; callers must never treat a publish
// failure as a failure of the operation that triggered it.
type Realtime interface {
	Publish(ctx context.Context, channel, event string, payload any) error
}
