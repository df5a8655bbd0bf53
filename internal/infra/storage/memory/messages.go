package memory

import (
	"context"
	"sort"
	"sync"

	domainchat "dapur/internal/domain/chat"
	domainuser "dapur/internal/domain/user"
)

// MessageStore keeps chat messages in memory, in append order. Listing calls
// sort copies by SentAt so the store behaves like the time-indexed queries
// the Mongo store runs.
type MessageStore struct {
	mu   sync.RWMutex
	msgs []*domainchat.Message
}

func NewMessageStore() *MessageStore {
	return &MessageStore{}
}

func (s *MessageStore) Append(ctx context.Context, msg *domainchat.Message) error {
	if msg == nil {
		return domainchat.ErrBodyRequired
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.msgs = append(s.msgs, cloneMessage(msg))
	return nil
}

func (s *MessageStore) ListConversation(ctx context.Context, a, b domainuser.ID) ([]*domainchat.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domainchat.Message, 0)
	for _, msg := range s.msgs {
		if (msg.SenderID == a && msg.ReceiverID == b) || (msg.SenderID == b && msg.ReceiverID == a) {
			out = append(out, cloneMessage(msg))
		}
	}
	sortMessages(out, domainchat.Ascending)
	return out, nil
}

func (s *MessageStore) ListTouching(ctx context.Context, id domainuser.ID, order domainchat.Order) ([]*domainchat.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domainchat.Message, 0)
	for _, msg := range s.msgs {
		if msg.Touches(id) {
			out = append(out, cloneMessage(msg))
		}
	}
	sortMessages(out, order)
	return out, nil
}

func sortMessages(msgs []*domainchat.Message, order domainchat.Order) {
	sort.SliceStable(msgs, func(i, j int) bool {
		if order == domainchat.Descending {
			return msgs[i].SentAt.After(msgs[j].SentAt)
		}
		return msgs[i].SentAt.Before(msgs[j].SentAt)
	})
}

func cloneMessage(m *domainchat.Message) *domainchat.Message {
	if m == nil {
		return nil
	}
	copyMsg := *m
	return &copyMsg
}
