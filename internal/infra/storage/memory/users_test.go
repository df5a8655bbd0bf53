package memory

import (
	"context"
	"errors"
	"testing"

	domainuser "dapur/internal/domain/user"
)

func saveUser(t *testing.T, repo *UserRepository, id, username string, role domainuser.Role) {
	t.Helper()
	user, err := domainuser.New(domainuser.CreateParams{
		ID:           domainuser.ID(id),
		Username:     username,
		FullName:     "User " + id,
		PasswordHash: "x",
		Role:         role,
	})
	if err != nil {
		t.Fatalf("New(%s): %v", id, err)
	}
	if err := repo.Save(context.Background(), user); err != nil {
		t.Fatalf("Save(%s): %v", id, err)
	}
}

func TestUserRepository_AnyAvailableStaff(t *testing.T) {
	repo := NewUserRepository()

	if _, err := repo.AnyAvailableStaff(context.Background()); !errors.Is(err, domainuser.ErrNoStaffAvailable) {
		t.Errorf("empty pool err = %v, want ErrNoStaffAvailable", err)
	}

	saveUser(t, repo, "c1", "citra", domainuser.RoleCustomer)
	if _, err := repo.AnyAvailableStaff(context.Background()); !errors.Is(err, domainuser.ErrNoStaffAvailable) {
		t.Errorf("customer-only pool err = %v, want ErrNoStaffAvailable", err)
	}

	saveUser(t, repo, "s1", "sari", domainuser.RoleStaff)
	id, err := repo.AnyAvailableStaff(context.Background())
	if err != nil {
		t.Fatalf("AnyAvailableStaff: %v", err)
	}
	if id != "s1" {
		t.Errorf("staff id = %s, want s1", id)
	}
}

func TestUserRepository_UsernameUnique(t *testing.T) {
	repo := NewUserRepository()
	saveUser(t, repo, "c1", "citra", domainuser.RoleCustomer)

	dup, err := domainuser.New(domainuser.CreateParams{
		ID:           "c2",
		Username:     "Citra",
		FullName:     "Second Citra",
		PasswordHash: "x",
		Role:         domainuser.RoleCustomer,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := repo.Save(context.Background(), dup); !errors.Is(err, domainuser.ErrUsernameTaken) {
		t.Errorf("duplicate save err = %v, want ErrUsernameTaken", err)
	}
}

func TestUserRepository_ByUsernameNormalizes(t *testing.T) {
	repo := NewUserRepository()
	saveUser(t, repo, "c1", "citra", domainuser.RoleCustomer)

	got, err := repo.ByUsername(context.Background(), "  CITRA ")
	if err != nil {
		t.Fatalf("ByUsername: %v", err)
	}
	if got.ID != "c1" {
		t.Errorf("id = %s, want c1", got.ID)
	}
}
