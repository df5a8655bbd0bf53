package ginserver

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	gin "github.com/gin-gonic/gin"

	"dapur/internal/app/dto"
	chatsvc "dapur/internal/app/services/chat"
	domainchat "dapur/internal/domain/chat"
	domainuser "dapur/internal/domain/user"
)

// ChatHTTP exposes the support chat endpoints.
type ChatHTTP interface {
	History(c *gin.Context)
	Send(c *gin.Context)
}

type ChatHandler struct {
	Service *chatsvc.Service
	Logger  *slog.Logger
}

// History serves the room view and, for staff, the aggregated inbox.
// Customers always get their own room; staff pick a room with ?user_id= or
// the inbox with ?mode=inbox, mirroring the web client's query modes.
func (h ChatHandler) History(c *gin.Context) {
	p, ok := requireRole(c, "")
	if !ok {
		return
	}
	if h.Service == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "chat unavailable"})
		return
	}
	viewer := domainchat.Sender{ID: domainuser.ID(p.ID), Role: p.Role}

	if strings.EqualFold(c.Query("mode"), "inbox") {
		if !p.HasRole(domainuser.RoleStaff) {
			c.JSON(http.StatusForbidden, gin.H{"error": "staff only"})
			return
		}
		entries, err := h.Service.Inbox(c.Request.Context(), viewer.ID)
		if err != nil {
			h.respondChatError(c, err, "load inbox", "user_id", p.ID)
			return
		}
		c.JSON(http.StatusOK, dto.MapInboxItems(entries))
		return
	}

	roomUserID := domainuser.ID(strings.TrimSpace(c.Query("user_id")))
	messages, err := h.Service.History(c.Request.Context(), viewer, roomUserID)
	if err != nil {
		h.respondChatError(c, err, "load history", "user_id", p.ID, "room_user_id", roomUserID)
		return
	}
	c.JSON(http.StatusOK, dto.MapChatMessages(messages))
}

// Send posts a message. Staff replies carry the customer being answered.
func (h ChatHandler) Send(c *gin.Context) {
	p, ok := requireRole(c, "")
	if !ok {
		return
	}
	if h.Service == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "chat unavailable"})
		return
	}
	var req struct {
		Message      string `json:"message"`
		TargetUserID string `json:"target_user_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message is required"})
		return
	}

	msg, err := h.Service.Send(c.Request.Context(), chatsvc.SendParams{
		Sender:       domainchat.Sender{ID: domainuser.ID(p.ID), Role: p.Role},
		SenderName:   p.FullName,
		Body:         req.Message,
		TargetUserID: domainuser.ID(strings.TrimSpace(req.TargetUserID)),
	})
	if err != nil {
		h.respondChatError(c, err, "send message", "user_id", p.ID)
		return
	}
	c.JSON(http.StatusCreated, dto.MapChatMessage(msg))
}

func (h ChatHandler) respondChatError(c *gin.Context, err error, action string, attrs ...any) {
	switch {
	case errors.Is(err, domainchat.ErrNoStaffAvailable):
		c.JSON(http.StatusNotFound, gin.H{"error": "no staff available to receive the message"})
	case errors.Is(err, domainchat.ErrMissingTarget),
		errors.Is(err, domainchat.ErrBodyRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domainchat.ErrUnauthorizedSender):
		c.JSON(http.StatusForbidden, gin.H{"error": "chat is not available for this account"})
	default:
		if h.Logger != nil {
			h.Logger.Error("chat call failed", append([]any{"action", action, "error", err}, attrs...)...)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "chat operation failed"})
	}
}

var _ ChatHTTP = (*ChatHandler)(nil)
