package beams

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client publishes push notifications through the Pusher Beams
// publish-to-interests REST endpoint. Callers treat every notification as
// best-effort: an error here is logged by the caller and goes no further.
type Client struct {
	instanceID string
	secretKey  string
	httpClient *http.Client
	baseURL    string
}

func NewClient(instanceID, secretKey string) *Client {
	return &Client{
		instanceID: instanceID,
		secretKey:  secretKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    fmt.Sprintf("https://%s.pushnotifications.pusher.com", instanceID),
	}
}

type publishRequest struct {
	Interests []string        `json:"interests"`
	Web       webNotification `json:"web"`
}

type webNotification struct {
	Notification notificationBody `json:"notification"`
}

type notificationBody struct {
	Title    string `json:"title"`
	Body     string `json:"body"`
	DeepLink string `json:"deep_link,omitempty"`
}

// Notify publishes one notification to every device subscribed to the topic.
func (c *Client) Notify(ctx context.Context, topic, title, body, deepLink string) error {
	payload, err := json.Marshal(publishRequest{
		Interests: []string{topic},
		Web: webNotification{
			Notification: notificationBody{
				Title:    title,
				Body:     body,
				DeepLink: deepLink,
			},
		},
	})
	if err != nil {
		return fmt.Errorf("beams: encode publish request: %w", err)
	}

	url := fmt.Sprintf("%s/publish_api/v1/instances/%s/publishes/interests", c.baseURL, c.instanceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("beams: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.secretKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("beams: publish to %s: %w", topic, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("beams: publish to %s failed with status %d: %s", topic, resp.StatusCode, detail)
	}
	return nil
}
