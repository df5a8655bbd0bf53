package chat

import (
	"context"
	"errors"
	"strings"

	"dapur/internal/domain/user"
)

var (
	// ErrNoStaffAvailable rejects a customer send when the staff pool is
	// empty. The send must fail loudly, never fall back to routing to self.
	ErrNoStaffAvailable = errors.New("chat: no staff available to receive the message")
	// ErrMissingTarget rejects a staff send without an explicit customer.
	ErrMissingTarget = errors.New("chat: target customer is required for staff replies")
	// ErrUnauthorizedSender rejects senders outside the customer/staff roles.
	ErrUnauthorizedSender = errors.New("chat: sender is not allowed to use chat")
)

// Sender identifies who is posting a message.
type Sender struct {
	ID   user.ID
	Role user.Role
}

// ResolveReceiver computes the receiving participant for a new message.
// Customers always reach the shared staff pool; staff must name the customer
// they are replying to.
func ResolveReceiver(ctx context.Context, sender Sender, targetID user.ID, staff user.StaffDirectory) (user.ID, error) {
	switch sender.Role {
	case user.RoleCustomer:
		id, err := staff.AnyAvailableStaff(ctx)
		if err != nil {
			if errors.Is(err, user.ErrNoStaffAvailable) {
				return "", ErrNoStaffAvailable
			}
			return "", err
		}
		return id, nil
	case user.RoleStaff:
		target := user.ID(strings.TrimSpace(string(targetID)))
		if target == "" {
			return "", ErrMissingTarget
		}
		return target, nil
	default:
		return "", ErrUnauthorizedSender
	}
}

// ConversationCustomer returns the identifier the conversation is keyed by:
// the customer side, regardless of which side sent the message.
func ConversationCustomer(sender Sender, receiverID user.ID) user.ID {
	if sender.Role == user.RoleStaff {
		return receiverID
	}
	return sender.ID
}
