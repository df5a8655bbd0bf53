package chat

import "dapur/internal/domain/user"

// Channel and topic names are derived independently by the publish path on
// the server and the subscribe path on clients; there is no rendezvous step.
// Both sides must go through these functions so the derivations cannot drift.

const (
	// StaffInboxChannel is the fixed broadcast channel every connected staff
	// client listens on for live inbox updates.
	StaffInboxChannel = "admin-channel"

	// StaffPushTopic is the push interest shared by all staff devices.
	StaffPushTopic = "admin-global"

	EventNewMessage = "new-message"
	EventNewInbox   = "new-inbox"
)

// CustomerChannel names the realtime channel of a conversation. The key is
// always the customer's identifier: a customer publishes on their own id, a
// staff reply publishes on the target's id, and both resolve to the same name.
func CustomerChannel(customerID user.ID) string {
	return "chat-" + string(customerID)
}

// CustomerPushTopic names the push interest a customer's devices subscribe to
// for staff replies.
func CustomerPushTopic(customerID user.ID) string {
	return "user-" + string(customerID)
}
