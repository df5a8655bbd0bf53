package policies

import "context"

// Notifier delivers a push notification to every device subscribed to a
// topic. Best-effort: errors are for logging only.
type Notifier interface {
	Notify(ctx context.Context, topic, title, body, deepLink string) error
}
