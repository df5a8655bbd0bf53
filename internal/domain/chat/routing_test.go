package chat

import (
	"context"
	"errors"
	"testing"

	"dapur/internal/domain/user"
)

type staffDirectoryStub struct {
	id  user.ID
	err error
}

func (s staffDirectoryStub) AnyAvailableStaff(ctx context.Context) (user.ID, error) {
	return s.id, s.err
}

func TestResolveReceiver_CustomerRoutesToStaff(t *testing.T) {
	sender := Sender{ID: "c1", Role: user.RoleCustomer}
	got, err := ResolveReceiver(context.Background(), sender, "", staffDirectoryStub{id: "s1"})
	if err != nil {
		t.Fatalf("ResolveReceiver failed: %v", err)
	}
	if got != "s1" {
		t.Errorf("receiver = %q, want %q", got, "s1")
	}
}

func TestResolveReceiver_CustomerNoStaff(t *testing.T) {
	sender := Sender{ID: "c1", Role: user.RoleCustomer}
	_, err := ResolveReceiver(context.Background(), sender, "", staffDirectoryStub{err: user.ErrNoStaffAvailable})
	if !errors.Is(err, ErrNoStaffAvailable) {
		t.Errorf("err = %v, want ErrNoStaffAvailable", err)
	}
}

func TestResolveReceiver_StaffNeedsTarget(t *testing.T) {
	sender := Sender{ID: "s1", Role: user.RoleStaff}

	got, err := ResolveReceiver(context.Background(), sender, "c1", staffDirectoryStub{})
	if err != nil {
		t.Fatalf("ResolveReceiver failed: %v", err)
	}
	if got != "c1" {
		t.Errorf("receiver = %q, want %q", got, "c1")
	}

	if _, err := ResolveReceiver(context.Background(), sender, "  ", staffDirectoryStub{}); !errors.Is(err, ErrMissingTarget) {
		t.Errorf("err = %v, want ErrMissingTarget", err)
	}
}

func TestResolveReceiver_UnknownRole(t *testing.T) {
	sender := Sender{ID: "x1", Role: "courier"}
	if _, err := ResolveReceiver(context.Background(), sender, "c1", staffDirectoryStub{id: "s1"}); !errors.Is(err, ErrUnauthorizedSender) {
		t.Errorf("err = %v, want ErrUnauthorizedSender", err)
	}
}

func TestConversationCustomer(t *testing.T) {
	customer := Sender{ID: "c1", Role: user.RoleCustomer}
	if got := ConversationCustomer(customer, "s1"); got != "c1" {
		t.Errorf("customer-sent conversation key = %q, want c1", got)
	}
	staff := Sender{ID: "s1", Role: user.RoleStaff}
	if got := ConversationCustomer(staff, "c1"); got != "c1" {
		t.Errorf("staff-sent conversation key = %q, want c1", got)
	}
}
