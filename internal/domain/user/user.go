package user

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	ErrIDRequired          = errors.New("user: id is required")
	ErrUsernameRequired    = errors.New("user: username is required")
	ErrPasswordHashMissing = errors.New("user: password hash is required")
	ErrFullNameRequired    = errors.New("user: full name is required")
	ErrInvalidRole         = errors.New("user: invalid role")
	ErrUsernameTaken       = errors.New("user: username already used")
	ErrNotFound            = errors.New("user: not found")
	ErrNoStaffAvailable    = errors.New("user: no staff participant available")
)

type ID string

type Role string

const (
	RoleCustomer Role = "customer"
	RoleStaff    Role = "staff"
)

// User is a chat participant. Every account carries exactly one role:
// customers talk to the staff pool, staff answer on its behalf.
type User struct {
	ID           ID
	Username     string
	FullName     string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Repository interface {
	ByID(ctx context.Context, id ID) (*User, error)
	ByUsername(ctx context.Context, username string) (*User, error)
	Save(ctx context.Context, user *User) error
}

// StaffDirectory resolves the undifferentiated staff pool. AnyAvailableStaff
// returns some participant with RoleStaff, or ErrNoStaffAvailable when the
// pool is empty. Which staff member is returned is deliberately unspecified.
type StaffDirectory interface {
	AnyAvailableStaff(ctx context.Context) (ID, error)
}

type CreateParams struct {
	ID           ID
	Username     string
	FullName     string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
}

func New(params CreateParams) (*User, error) {
	id := strings.TrimSpace(string(params.ID))
	if id == "" {
		return nil, ErrIDRequired
	}
	username := NormalizeUsername(params.Username)
	if username == "" {
		return nil, ErrUsernameRequired
	}
	if strings.TrimSpace(params.PasswordHash) == "" {
		return nil, ErrPasswordHashMissing
	}
	fullName := strings.TrimSpace(params.FullName)
	if fullName == "" {
		return nil, ErrFullNameRequired
	}
	role, err := normalizeRole(params.Role)
	if err != nil {
		return nil, err
	}

	now := params.CreatedAt
	if now.IsZero() {
		now = time.Now()
	}
	now = now.UTC()

	return &User{
		ID:           ID(id),
		Username:     username,
		FullName:     fullName,
		PasswordHash: params.PasswordHash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

func (u *User) IsCustomer() bool { return u.Role == RoleCustomer }

func (u *User) IsStaff() bool { return u.Role == RoleStaff }

func (u *User) Rename(fullName string, now time.Time) error {
	trimmed := strings.TrimSpace(fullName)
	if trimmed == "" {
		return ErrFullNameRequired
	}
	u.FullName = trimmed
	u.touch(now)
	return nil
}

func (u *User) SetPasswordHash(hash string, now time.Time) error {
	if strings.TrimSpace(hash) == "" {
		return ErrPasswordHashMissing
	}
	u.PasswordHash = hash
	u.touch(now)
	return nil
}

func (u *User) touch(now time.Time) {
	if now.IsZero() {
		now = time.Now()
	}
	u.UpdatedAt = now.UTC()
}

func normalizeRole(role Role) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(string(role))) {
	case "", string(RoleCustomer):
		return RoleCustomer, nil
	case string(RoleStaff):
		return RoleStaff, nil
	default:
		return "", ErrInvalidRole
	}
}

func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}
