package clients

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo is an in-memory Repository for tests.
type MemoryRepo struct {
	mu    sync.Mutex
	byID  map[string]Client
	clock func() time.Time
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byID: map[string]Client{}, clock: time.Now}
}

func (r *MemoryRepo) Create(ctx context.Context, c Client) (Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.byID {
		if existing.Email == c.Email {
			return Client{}, ErrEmailTaken
		}
	}
	r.byID[c.ID] = c
	return c, nil
}

func (r *MemoryRepo) FindAll(ctx context.Context) ([]Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Client, 0, len(r.byID))
	for _, c := range r.byID {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *MemoryRepo) FindByID(ctx context.Context, id string) (Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.byID[id]
	if !ok {
		return Client{}, ErrNotFound
	}
	return c, nil
}

func (r *MemoryRepo) FindByEmail(ctx context.Context, email string) (Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.byID {
		if c.Email == email {
			return c, nil
		}
	}
	return Client{}, ErrNotFound
}

func (r *MemoryRepo) Update(ctx context.Context, id string, upd Update) (Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.byID[id]
	if !ok {
		return Client{}, ErrNotFound
	}
	if upd.Email != nil && *upd.Email != c.Email {
		for _, existing := range r.byID {
			if existing.Email == *upd.Email {
				return Client{}, ErrEmailTaken
			}
		}
		c.Email = *upd.Email
	}
	if upd.Name != nil {
		c.Name = *upd.Name
	}
	if upd.Phone != nil {
		c.Phone = *upd.Phone
	}
	if upd.Company != nil {
		c.Company = *upd.Company
	}
	if upd.Preferences != nil {
		c.Preferences = *upd.Preferences
	}
	if upd.IsActive != nil {
		c.IsActive = *upd.IsActive
	}
	if upd.Notes != nil {
		c.Notes = *upd.Notes
	}
	c.UpdatedAt = r.clock().UTC()
	r.byID[id] = c
	return c, nil
}

func (r *MemoryRepo) Remove(ctx context.Context, id string) (Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.byID[id]
	if !ok {
		return Client{}, ErrNotFound
	}
	delete(r.byID, id)
	return c, nil
}
