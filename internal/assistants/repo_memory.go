package assistants

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo is an in-memory Repository for tests.
type MemoryRepo struct {
	mu    sync.Mutex
	byID  map[string]Assistant
	clock func() time.Time
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byID: map[string]Assistant{}, clock: time.Now}
}

func (r *MemoryRepo) Create(ctx context.Context, a Assistant) (Assistant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[a.ID] = a
	return a, nil
}

func (r *MemoryRepo) FindAll(ctx context.Context) ([]Assistant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.list(func(Assistant) bool { return true }), nil
}

func (r *MemoryRepo) FindActive(ctx context.Context) ([]Assistant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.list(func(a Assistant) bool { return a.IsActive }), nil
}

func (r *MemoryRepo) list(keep func(Assistant) bool) []Assistant {
	out := make([]Assistant, 0, len(r.byID))
	for _, a := range r.byID {
		if keep(a) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r *MemoryRepo) FindByID(ctx context.Context, id string) (Assistant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.byID[id]
	if !ok {
		return Assistant{}, ErrNotFound
	}
	return a, nil
}

func (r *MemoryRepo) Update(ctx context.Context, id string, upd Update) (Assistant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.byID[id]
	if !ok {
		return Assistant{}, ErrNotFound
	}
	if upd.Name != nil {
		a.Name = *upd.Name
	}
	if upd.Description != nil {
		a.Description = *upd.Description
	}
	if upd.VoiceType != nil {
		a.VoiceType = *upd.VoiceType
	}
	if upd.Language != nil {
		a.Language = *upd.Language
	}
	if upd.IsActive != nil {
		a.IsActive = *upd.IsActive
	}
	if upd.AIConfig != nil {
		a.AIConfig = *upd.AIConfig
	}
	if upd.Specializations != nil {
		a.Specializations = *upd.Specializations
	}
	a.UpdatedAt = r.clock().UTC()
	r.byID[id] = a
	return a, nil
}

func (r *MemoryRepo) Remove(ctx context.Context, id string) (Assistant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.byID[id]
	if !ok {
		return Assistant{}, ErrNotFound
	}
	delete(r.byID, id)
	return a, nil
}
