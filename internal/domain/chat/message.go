package chat

import (
	"context"
	"errors"
	"strings"
	"time"

	"dapur/internal/domain/user"
)

var (
	ErrBodyRequired     = errors.New("chat: message body is required")
	ErrSenderRequired   = errors.New("chat: sender is required")
	ErrReceiverRequired = errors.New("chat: receiver is required")
	ErrSelfMessage      = errors.New("chat: sender and receiver must differ")
)

// Message is a point-to-point chat message. SenderName is denormalized at
// append time so live-pushed payloads render without an extra lookup. The
// Read flag is written once at creation and never flipped afterwards.
type Message struct {
	ID         string
	Body       string
	SenderID   user.ID
	ReceiverID user.ID
	SenderName string
	SentAt     time.Time
	Read       bool
}

type Order int

const (
	Ascending Order = iota
	Descending
)

// Store persists messages. Listing calls return unbounded, time-sorted
// slices; callers pick the direction they need and never mutate results.
type Store interface {
	Append(ctx context.Context, msg *Message) error
	ListConversation(ctx context.Context, a, b user.ID) ([]*Message, error)
	ListTouching(ctx context.Context, id user.ID, order Order) ([]*Message, error)
}

type MessageParams struct {
	ID         string
	Body       string
	SenderID   user.ID
	ReceiverID user.ID
	SenderName string
	SentAt     time.Time
}

func NewMessage(params MessageParams) (*Message, error) {
	body := strings.TrimSpace(params.Body)
	if body == "" {
		return nil, ErrBodyRequired
	}
	sender := user.ID(strings.TrimSpace(string(params.SenderID)))
	if sender == "" {
		return nil, ErrSenderRequired
	}
	receiver := user.ID(strings.TrimSpace(string(params.ReceiverID)))
	if receiver == "" {
		return nil, ErrReceiverRequired
	}
	if sender == receiver {
		return nil, ErrSelfMessage
	}
	sentAt := params.SentAt
	if sentAt.IsZero() {
		sentAt = time.Now()
	}
	return &Message{
		ID:         params.ID,
		Body:       body,
		SenderID:   sender,
		ReceiverID: receiver,
		SenderName: strings.TrimSpace(params.SenderName),
		SentAt:     sentAt.UTC(),
		Read:       false,
	}, nil
}

// Partner returns the endpoint of the message that is not the given
// participant.
func (m *Message) Partner(id user.ID) user.ID {
	if m.SenderID == id {
		return m.ReceiverID
	}
	return m.SenderID
}

// Touches reports whether the participant is either endpoint.
func (m *Message) Touches(id user.ID) bool {
	return m.SenderID == id || m.ReceiverID == id
}
