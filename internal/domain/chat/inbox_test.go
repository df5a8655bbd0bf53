package chat

import (
	"testing"
	"time"

	"dapur/internal/domain/user"
)

func msgAt(t *testing.T, id string, sender, receiver user.ID, body, senderName string, at time.Time) *Message {
	t.Helper()
	msg, err := NewMessage(MessageParams{
		ID:         id,
		Body:       body,
		SenderID:   sender,
		ReceiverID: receiver,
		SenderName: senderName,
		SentAt:     at,
	})
	if err != nil {
		t.Fatalf("NewMessage(%s): %v", id, err)
	}
	return msg
}

func TestBuildInbox_DeduplicatesByPartner(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	// Newest first, two partners with several messages each.
	msgs := []*Message{
		msgAt(t, "m4", "a1", "s1", "latest from a1", "Ana", base.Add(4*time.Minute)),
		msgAt(t, "m3", "s1", "b1", "reply to b1", "Staff", base.Add(3*time.Minute)),
		msgAt(t, "m2", "a1", "s1", "older from a1", "Ana", base.Add(2*time.Minute)),
		msgAt(t, "m1", "b1", "s1", "first from b1", "Budi", base.Add(1*time.Minute)),
	}

	entries := BuildInbox("s1", msgs)
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	if entries[0].PartnerID != "a1" || entries[1].PartnerID != "b1" {
		t.Errorf("partner order = %s, %s; want a1, b1", entries[0].PartnerID, entries[1].PartnerID)
	}
	if entries[0].LastMessage != "latest from a1" {
		t.Errorf("a1 last message = %q, want latest", entries[0].LastMessage)
	}
	if !entries[0].LastTime.Equal(base.Add(4 * time.Minute)) {
		t.Errorf("a1 last time = %v, want %v", entries[0].LastTime, base.Add(4*time.Minute))
	}
	if entries[1].LastMessage != "reply to b1" {
		t.Errorf("b1 last message = %q, want staff reply", entries[1].LastMessage)
	}
}

func TestBuildInbox_UnreadFlag(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	msgs := []*Message{
		// Latest with a1 was sent by the customer and is unread.
		msgAt(t, "m2", "a1", "s1", "ping", "Ana", base.Add(time.Minute)),
		// Latest with b1 was sent by staff: never unread for staff.
		msgAt(t, "m1", "s1", "b1", "pong", "Staff", base),
	}
	entries := BuildInbox("s1", msgs)
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	if !entries[0].Unread {
		t.Error("customer-sent latest message should mark the entry unread")
	}
	if entries[1].Unread {
		t.Error("staff-sent latest message must not mark the entry unread")
	}
}

func TestBuildInbox_PartnerNameFromSender(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	msgs := []*Message{
		msgAt(t, "m2", "a1", "s1", "hi", "Ana", base.Add(time.Minute)),
		msgAt(t, "m1", "s1", "b1", "hello", "Staff", base),
	}
	entries := BuildInbox("s1", msgs)
	if entries[0].PartnerName != "Ana" {
		t.Errorf("partner name = %q, want denormalized sender name", entries[0].PartnerName)
	}
	if entries[1].PartnerName != "" {
		t.Errorf("partner name = %q, want empty when staff sent the kept message", entries[1].PartnerName)
	}
}

func TestBuildInbox_SkipsForeignMessages(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	msgs := []*Message{
		msgAt(t, "m2", "a1", "s2", "for another staff", "Ana", base.Add(time.Minute)),
		msgAt(t, "m1", "a1", "s1", "for s1", "Ana", base),
	}
	entries := BuildInbox("s1", msgs)
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	if entries[0].LastMessage != "for s1" {
		t.Errorf("last message = %q, want the message touching s1", entries[0].LastMessage)
	}
}

func TestBuildInbox_Empty(t *testing.T) {
	if entries := BuildInbox("s1", nil); len(entries) != 0 {
		t.Errorf("entries = %d, want 0", len(entries))
	}
}
