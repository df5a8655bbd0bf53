package dto

import (
	"time"

	domainchat "dapur/internal/domain/chat"
)

// ChatMessage is the wire shape of a message. The same shape is returned by
// the HTTP endpoints and carried on realtime new-message events, so a
// live-pushed message renders exactly like a fetched one.
type ChatMessage struct {
	ID         string        `json:"id"`
	Message    string        `json:"message"`
	SenderID   string        `json:"senderId"`
	ReceiverID string        `json:"receiverId"`
	SentAt     time.Time     `json:"sentAt"`
	Sender     MessageSender `json:"sender"`
}

type MessageSender struct {
	DisplayName string `json:"displayName"`
}

// InboxItem is one aggregated conversation in the staff inbox. The same
// shape rides the admin broadcast channel as a new-inbox event.
type InboxItem struct {
	UserID      string    `json:"userId"`
	Name        string    `json:"name"`
	LastMessage string    `json:"lastMessage"`
	LastTime    time.Time `json:"lastTime"`
	Unread      bool      `json:"unread"`
}

func MapChatMessage(msg *domainchat.Message) ChatMessage {
	if msg == nil {
		return ChatMessage{}
	}
	return ChatMessage{
		ID:         msg.ID,
		Message:    msg.Body,
		SenderID:   string(msg.SenderID),
		ReceiverID: string(msg.ReceiverID),
		SentAt:     msg.SentAt,
		Sender:     MessageSender{DisplayName: msg.SenderName},
	}
}

func MapChatMessages(msgs []*domainchat.Message) []ChatMessage {
	out := make([]ChatMessage, 0, len(msgs))
	for _, msg := range msgs {
		out = append(out, MapChatMessage(msg))
	}
	return out
}

func MapInboxItem(entry domainchat.InboxEntry) InboxItem {
	return InboxItem{
		UserID:      string(entry.PartnerID),
		Name:        entry.PartnerName,
		LastMessage: entry.LastMessage,
		LastTime:    entry.LastTime,
		Unread:      entry.Unread,
	}
}

func MapInboxItems(entries []domainchat.InboxEntry) []InboxItem {
	out := make([]InboxItem, 0, len(entries))
	for _, entry := range entries {
		out = append(out, MapInboxItem(entry))
	}
	return out
}
