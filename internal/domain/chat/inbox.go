package chat

import (
	"time"

	"dapur/internal/domain/user"
)

// InboxEntry is the reduction of one conversation for the staff inbox view.
type InboxEntry struct {
	PartnerID   user.ID
	PartnerName string
	LastMessage string
	LastTime    time.Time
	Unread      bool
}

// BuildInbox reduces every message touching the staff participant to one
// entry per conversation partner. The input must already be sorted by SentAt
// descending; that ordering is a caller-guaranteed precondition, not
// something this pass re-verifies. The scan keeps the first message seen per
// partner (the most recent one) and skips the rest, so output order is
// most-recent-conversation-first. An entry is unread iff its kept message was
// sent to the staff participant and is still unread.
//
// PartnerName is filled with the sender's denormalized name when the partner
// sent the kept message; otherwise the caller resolves it afterwards.
func BuildInbox(staffID user.ID, newestFirst []*Message) []InboxEntry {
	entries := make([]InboxEntry, 0, len(newestFirst))
	seen := make(map[user.ID]struct{}, len(newestFirst))
	for _, msg := range newestFirst {
		if !msg.Touches(staffID) {
			continue
		}
		partner := msg.Partner(staffID)
		if _, ok := seen[partner]; ok {
			continue
		}
		seen[partner] = struct{}{}

		entry := InboxEntry{
			PartnerID:   partner,
			LastMessage: msg.Body,
			LastTime:    msg.SentAt,
			Unread:      msg.ReceiverID == staffID && !msg.Read,
		}
		if msg.SenderID == partner {
			entry.PartnerName = msg.SenderName
		}
		entries = append(entries, entry)
	}
	return entries
}
