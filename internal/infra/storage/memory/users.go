package memory

import (
	"context"
	"sort"
	"sync"

	domainuser "dapur/internal/domain/user"
)

// UserRepository stores participants in memory. Not suitable for production.
type UserRepository struct {
	mu         sync.RWMutex
	byID       map[domainuser.ID]*domainuser.User
	byUsername map[string]domainuser.ID
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		byID:       make(map[domainuser.ID]*domainuser.User),
		byUsername: make(map[string]domainuser.ID),
	}
}

func (r *UserRepository) ByID(ctx context.Context, id domainuser.ID) (*domainuser.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if user, ok := r.byID[id]; ok {
		return cloneUser(user), nil
	}
	return nil, domainuser.ErrNotFound
}

func (r *UserRepository) ByUsername(ctx context.Context, username string) (*domainuser.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byUsername[domainuser.NormalizeUsername(username)]
	if !ok {
		return nil, domainuser.ErrNotFound
	}
	if user, ok := r.byID[id]; ok {
		return cloneUser(user), nil
	}
	return nil, domainuser.ErrNotFound
}

func (r *UserRepository) Save(ctx context.Context, user *domainuser.User) error {
	if user == nil {
		return domainuser.ErrIDRequired
	}
	id := domainuser.ID(user.ID)
	if id == "" {
		return domainuser.ErrIDRequired
	}
	usernameKey := domainuser.NormalizeUsername(user.Username)
	if usernameKey == "" {
		return domainuser.ErrUsernameRequired
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if existingID, ok := r.byUsername[usernameKey]; ok && existingID != user.ID {
		return domainuser.ErrUsernameTaken
	}
	r.byUsername[usernameKey] = user.ID
	r.byID[user.ID] = cloneUser(user)
	return nil
}

// AnyAvailableStaff satisfies the staff directory. The scan is sorted by id
// so the pick is stable within one process, though callers may not rely on
// which staff member comes back.
func (r *UserRepository) AnyAvailableStaff(ctx context.Context) (domainuser.ID, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.byID))
	for id, u := range r.byID {
		if u.IsStaff() {
			ids = append(ids, string(id))
		}
	}
	if len(ids) == 0 {
		return "", domainuser.ErrNoStaffAvailable
	}
	sort.Strings(ids)
	return domainuser.ID(ids[0]), nil
}

func cloneUser(u *domainuser.User) *domainuser.User {
	if u == nil {
		return nil
	}
	copyUser := *u
	return &copyUser
}
