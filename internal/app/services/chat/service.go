package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"dapur/internal/app/dto"
	"dapur/internal/app/policies"
	domainchat "dapur/internal/domain/chat"
	domainuser "dapur/internal/domain/user"
)

const defaultAuditTopic = "chat.messages"

// Service orchestrates a send: resolve the receiver, persist the message,
// then fire the best-effort side effects. Only resolution and persistence can
// fail the call; everything after the durable write is isolated per effect
// and surfaces nowhere but the log.
type Service struct {
	Store      domainchat.Store
	Users      domainuser.Repository
	Staff      domainuser.StaffDirectory
	Realtime   policies.Realtime
	Notifier   policies.Notifier
	Audit      policies.EventSink
	AuditTopic string
	Logger     *slog.Logger

	// Now stamps outgoing messages; nil means the wall clock.
	Now func() time.Time
}

type SendParams struct {
	Sender       domainchat.Sender
	SenderName   string
	Body         string
	TargetUserID domainuser.ID
}

func (s *Service) Send(ctx context.Context, params SendParams) (*domainchat.Message, error) {
	receiver, err := domainchat.ResolveReceiver(ctx, params.Sender, params.TargetUserID, s.Staff)
	if err != nil {
		return nil, err
	}
	msg, err := domainchat.NewMessage(domainchat.MessageParams{
		ID:         uuid.NewString(),
		Body:       params.Body,
		SenderID:   params.Sender.ID,
		ReceiverID: receiver,
		SenderName: params.SenderName,
		SentAt:     s.now(),
	})
	if err != nil {
		return nil, err
	}
	if err := s.Store.Append(ctx, msg); err != nil {
		return nil, fmt.Errorf("chat: persist message: %w", err)
	}
	s.fanOut(ctx, params.Sender, msg)
	return msg, nil
}

// History returns a room's messages in display order. Customers always see
// their own room; staff name the customer whose room they opened.
func (s *Service) History(ctx context.Context, viewer domainchat.Sender, roomUserID domainuser.ID) ([]*domainchat.Message, error) {
	switch viewer.Role {
	case domainuser.RoleCustomer:
		return s.Store.ListTouching(ctx, viewer.ID, domainchat.Ascending)
	case domainuser.RoleStaff:
		if roomUserID == "" {
			return nil, domainchat.ErrMissingTarget
		}
		return s.Store.ListTouching(ctx, roomUserID, domainchat.Ascending)
	default:
		return nil, domainchat.ErrUnauthorizedSender
	}
}

// Inbox aggregates the staff view of all conversations. Partner names the
// reduction could not take from a denormalized sender are resolved here.
func (s *Service) Inbox(ctx context.Context, staffID domainuser.ID) ([]domainchat.InboxEntry, error) {
	msgs, err := s.Store.ListTouching(ctx, staffID, domainchat.Descending)
	if err != nil {
		return nil, err
	}
	entries := domainchat.BuildInbox(staffID, msgs)
	for i := range entries {
		if entries[i].PartnerName != "" {
			continue
		}
		partner, err := s.Users.ByID(ctx, entries[i].PartnerID)
		if err != nil {
			s.logWarn("inbox partner lookup failed", "partner_id", entries[i].PartnerID, "error", err)
			continue
		}
		entries[i].PartnerName = partner.FullName
	}
	return entries, nil
}

// fanOut runs the post-persist effects. The message is already durable, so a
// failure in any one effect must not affect the send result or the others.
func (s *Service) fanOut(ctx context.Context, sender domainchat.Sender, msg *domainchat.Message) {
	customerID := domainchat.ConversationCustomer(sender, msg.ReceiverID)
	payload := dto.MapChatMessage(msg)

	if s.Realtime != nil {
		channel := domainchat.CustomerChannel(customerID)
		if err := s.Realtime.Publish(ctx, channel, domainchat.EventNewMessage, payload); err != nil {
			s.logWarn("realtime publish failed", "channel", channel, "error", err)
		}
		if sender.Role == domainuser.RoleCustomer {
			item := dto.InboxItem{
				UserID:      string(customerID),
				Name:        msg.SenderName,
				LastMessage: msg.Body,
				LastTime:    msg.SentAt,
				Unread:      true,
			}
			if err := s.Realtime.Publish(ctx, domainchat.StaffInboxChannel, domainchat.EventNewInbox, item); err != nil {
				s.logWarn("inbox broadcast failed", "channel", domainchat.StaffInboxChannel, "error", err)
			}
		}
	}

	if s.Notifier != nil {
		topic := domainchat.StaffPushTopic
		if sender.Role == domainuser.RoleStaff {
			topic = domainchat.CustomerPushTopic(customerID)
		}
		if err := s.Notifier.Notify(ctx, topic, msg.SenderName, msg.Body, "/chat"); err != nil {
			s.logWarn("push notification failed", "topic", topic, "error", err)
		}
	}

	if s.Audit != nil {
		record, err := json.Marshal(payload)
		if err != nil {
			s.logWarn("audit encode failed", "message_id", msg.ID, "error", err)
			return
		}
		topic := s.AuditTopic
		if topic == "" {
			topic = defaultAuditTopic
		}
		headers := map[string]string{"event": "message.persisted"}
		if err := s.Audit.Publish(ctx, topic, string(customerID), record, headers); err != nil {
			s.logWarn("audit publish failed", "topic", topic, "error", err)
		}
	}
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Service) logWarn(msg string, args ...any) {
	if s.Logger != nil {
		s.Logger.Warn(msg, args...)
	}
}
