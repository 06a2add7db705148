// Package testutil provides in-memory doubles for service and handler tests.
package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nsdigital/agency-api/internal/domain/entity"
	"github.com/nsdigital/agency-api/internal/domain/repository"
)

// MemoryUserRepo is an in-memory repository.UserRepository. It enforces the
// same email uniqueness the Postgres unique index does, so duplicate-insert
// behavior matches the real store.
type MemoryUserRepo struct {
	mu    sync.Mutex
	users map[string]*entity.User
	seq   int
}

func NewMemoryUserRepo() *MemoryUserRepo {
	return &MemoryUserRepo{users: make(map[string]*entity.User)}
}

func (r *MemoryUserRepo) Create(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return repository.ErrDuplicateEmail
		}
	}
	u.ID = uuid.NewString()
	// Monotonic timestamps keep List ordering deterministic even when
	// accounts are created within the same clock tick.
	r.seq++
	u.CreatedAt = time.Now().Add(time.Duration(r.seq) * time.Millisecond)
	u.UpdatedAt = u.CreatedAt
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *MemoryUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *MemoryUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *MemoryUserRepo) List(_ context.Context) ([]*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.User, 0, len(r.users))
	for _, u := range r.users {
		cp := *u
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *MemoryUserRepo) SetBlocked(_ context.Context, id string, blocked bool) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	u.IsBlocked = blocked
	u.UpdatedAt = time.Now()
	cp := *u
	return &cp, nil
}

func (r *MemoryUserRepo) UpdatePhoto(_ context.Context, id string, photo string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	u.Photo = photo
	u.UpdatedAt = time.Now()
	cp := *u
	return &cp, nil
}

func (r *MemoryUserRepo) Stats(_ context.Context) (repository.Stats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var s repository.Stats
	for _, u := range r.users {
		s.TotalUsers++
		if u.IsBlocked {
			s.BlockedUsers++
		}
		if u.Role == entity.RoleAdmin {
			s.AdminUsers++
		}
	}
	return s, nil
}

// Promote flips an account to ADMIN, mirroring what cmd/seed does in SQL.
func (r *MemoryUserRepo) Promote(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		u.Role = entity.RoleAdmin
	}
}

// Remove deletes an account, simulating deletion behind an active session.
func (r *MemoryUserRepo) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
}

var _ repository.UserRepository = (*MemoryUserRepo)(nil)
