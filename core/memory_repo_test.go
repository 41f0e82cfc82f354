package core

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// memoryUserRepo is an in-memory UserRepository for tests. It mirrors
// the storage contract: unique email/username, COALESCE semantics on
// partial update, updated_at refresh on every update.
type memoryUserRepo struct {
	mu          sync.Mutex
	users       map[uuid.UUID]UserRecord
	updateCalls int
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{users: make(map[uuid.UUID]UserRecord)}
}

func (r *memoryUserRepo) Create(_ context.Context, u *UserRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == u.Email || existing.Username == u.Username {
			return ErrDuplicate
		}
	}
	r.users[u.ID] = *u
	return nil
}

func (r *memoryUserRepo) FindByEmail(_ context.Context, email string) (*UserRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			copied := u
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

func (r *memoryUserRepo) FindByID(_ context.Context, id uuid.UUID) (*UserRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := u
	return &copied, nil
}

func (r *memoryUserRepo) List(_ context.Context) ([]UserRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]UserRecord, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *memoryUserRepo) Update(_ context.Context, id uuid.UUID, upd UserUpdate) (*UserRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updateCalls++
	u, ok := r.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	if upd.Email != nil {
		u.Email = *upd.Email
	}
	if upd.Username != nil {
		u.Username = *upd.Username
	}
	u.UpdatedAt = time.Now().UTC()
	r.users[id] = u
	copied := u
	return &copied, nil
}
