package schedules

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo is an in-memory Repository for tests. Name population is
// skipped; handlers under test assert on IDs.
type MemoryRepo struct {
	mu    sync.Mutex
	byID  map[string]Schedule
	clock func() time.Time
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byID: map[string]Schedule{}, clock: time.Now}
}

func (r *MemoryRepo) Create(ctx context.Context, s Schedule) (Schedule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[s.ID] = s
	return s, nil
}

func (r *MemoryRepo) FindAll(ctx context.Context) ([]Schedule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.collect(func(Schedule) bool { return true }), nil
}

func (r *MemoryRepo) FindByStatus(ctx context.Context, status Status) ([]Schedule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.collect(func(s Schedule) bool { return s.Status == status }), nil
}

func (r *MemoryRepo) FindUpcoming(ctx context.Context, now time.Time) ([]Schedule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.collect(func(s Schedule) bool {
		return s.Status == StatusScheduled && !s.ScheduledAt.Before(now)
	}), nil
}

func (r *MemoryRepo) collect(keep func(Schedule) bool) []Schedule {
	out := make([]Schedule, 0)
	for _, s := range r.byID {
		if keep(s) {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ScheduledAt.After(out[j].ScheduledAt) })
	return out
}

func (r *MemoryRepo) FindByID(ctx context.Context, id string) (Schedule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.byID[id]
	if !ok {
		return Schedule{}, ErrNotFound
	}
	return s, nil
}

func (r *MemoryRepo) Update(ctx context.Context, id string, upd Update) (Schedule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.byID[id]
	if !ok {
		return Schedule{}, ErrNotFound
	}
	if upd.ScheduledAt != nil {
		s.ScheduledAt = *upd.ScheduledAt
	}
	if upd.DurationMinutes != nil {
		s.DurationMinutes = *upd.DurationMinutes
	}
	if upd.Notes != nil {
		s.Notes = *upd.Notes
	}
	if upd.CallSettings != nil {
		s.CallSettings = *upd.CallSettings
	}
	s.UpdatedAt = r.clock().UTC()
	r.byID[id] = s
	return s, nil
}

func (r *MemoryRepo) UpdateStatus(ctx context.Context, id string, status Status) (Schedule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.byID[id]
	if !ok {
		return Schedule{}, ErrNotFound
	}
	s.Status = status
	s.UpdatedAt = r.clock().UTC()
	r.byID[id] = s
	return s, nil
}

func (r *MemoryRepo) Remove(ctx context.Context, id string) (Schedule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.byID[id]
	if !ok {
		return Schedule{}, ErrNotFound
	}
	delete(r.byID, id)
	return s, nil
}
