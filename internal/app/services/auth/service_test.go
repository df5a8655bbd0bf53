package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	domainauth "dapur/internal/domain/auth"
	domainuser "dapur/internal/domain/user"
	"dapur/internal/infra/security"
	"dapur/internal/infra/storage/memory"
)

func newService() (*Service, *memory.UserRepository, *memory.SessionStore) {
	users := memory.NewUserRepository()
	sessions := memory.NewSessionStore()
	service := &Service{
		Users:      users,
		Sessions:   sessions,
		Passwords:  security.BcryptHasher{Cost: 4},
		Tokens:     security.RandomTokenGenerator{},
		SessionTTL: time.Hour,
	}
	return service, users, sessions
}

func TestRegister(t *testing.T) {
	service, _, _ := newService()

	result, err := service.Register(context.Background(), RegisterParams{
		Username: "  Citra  ",
		FullName: "Citra Lestari",
		Password: "rahasia-banget",
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if result.Token == "" {
		t.Error("no session token issued")
	}
	if result.User.Username != "citra" {
		t.Errorf("username = %q, want normalized citra", result.User.Username)
	}
	if result.User.Role != domainuser.RoleCustomer {
		t.Errorf("role = %q, registration always creates customers", result.User.Role)
	}
	if result.User.PasswordHash == "rahasia-banget" {
		t.Error("password stored in the clear")
	}

	resolved, err := service.ResolveToken(context.Background(), result.Token)
	if err != nil {
		t.Fatalf("ResolveToken after register: %v", err)
	}
	if resolved.User.ID != result.User.ID {
		t.Errorf("resolved user %s, want %s", resolved.User.ID, result.User.ID)
	}
}

func TestRegister_Validation(t *testing.T) {
	service, _, _ := newService()
	ctx := context.Background()

	cases := []struct {
		name    string
		params  RegisterParams
		wantErr error
	}{
		{"short password", RegisterParams{Username: "a", FullName: "A", Password: "pendek"}, ErrPasswordTooShort},
		{"blank username", RegisterParams{Username: "   ", FullName: "A", Password: "panjang sekali"}, domainuser.ErrUsernameRequired},
		{"blank full name", RegisterParams{Username: "a", FullName: " ", Password: "panjang sekali"}, domainuser.ErrFullNameRequired},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := service.Register(ctx, tc.params); !errors.Is(err, tc.wantErr) {
				t.Errorf("err = %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestRegister_DuplicateUsername(t *testing.T) {
	service, _, _ := newService()
	ctx := context.Background()
	params := RegisterParams{Username: "citra", FullName: "Citra", Password: "panjang sekali"}
	if _, err := service.Register(ctx, params); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if _, err := service.Register(ctx, params); !errors.Is(err, domainuser.ErrUsernameTaken) {
		t.Errorf("err = %v, want ErrUsernameTaken", err)
	}
}

func TestLogin(t *testing.T) {
	service, _, _ := newService()
	ctx := context.Background()
	if _, err := service.Register(ctx, RegisterParams{Username: "citra", FullName: "Citra", Password: "panjang sekali"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	result, err := service.Login(ctx, LoginParams{Username: "CITRA", Password: "panjang sekali"})
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if result.Token == "" {
		t.Error("no session token issued")
	}

	if _, err := service.Login(ctx, LoginParams{Username: "citra", Password: "salah"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password err = %v, want ErrInvalidCredentials", err)
	}
	if _, err := service.Login(ctx, LoginParams{Username: "nonexistent", Password: "panjang sekali"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown user err = %v, want ErrInvalidCredentials", err)
	}
}

func TestLogout(t *testing.T) {
	service, _, _ := newService()
	ctx := context.Background()
	result, err := service.Register(ctx, RegisterParams{Username: "citra", FullName: "Citra", Password: "panjang sekali"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if err := service.Logout(ctx, result.Token); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	if _, err := service.ResolveToken(ctx, result.Token); !errors.Is(err, domainauth.ErrSessionNotFound) {
		t.Errorf("resolve after logout err = %v, want ErrSessionNotFound", err)
	}

	// Logging out an empty or already-dropped token is a no-op.
	if err := service.Logout(ctx, ""); err != nil {
		t.Errorf("empty token logout err = %v", err)
	}
}

func TestResolveToken_Expired(t *testing.T) {
	service, _, _ := newService()
	service.SessionTTL = time.Nanosecond
	ctx := context.Background()
	result, err := service.Register(ctx, RegisterParams{Username: "citra", FullName: "Citra", Password: "panjang sekali"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	time.Sleep(2 * time.Millisecond)
	if _, err := service.ResolveToken(ctx, result.Token); !errors.Is(err, domainauth.ErrSessionNotFound) {
		t.Errorf("expired session err = %v, want ErrSessionNotFound", err)
	}
}
