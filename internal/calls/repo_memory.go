package calls

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo is an in-memory Repository for tests. Display-name population
// is approximated by resolver funcs so analytics grouping can be tested
// without a database.
type MemoryRepo struct {
	mu    sync.Mutex
	byID  map[string]Call
	clock func() time.Time

	// AssistantName/ClientName resolve a reference to a display name; a
	// nil resolver or empty result models a dangling reference.
	AssistantName func(id string) string
	ClientName    func(id string) string
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byID: map[string]Call{}, clock: time.Now}
}

func (r *MemoryRepo) populate(c Call) Call {
	if r.AssistantName != nil {
		c.AssistantName = r.AssistantName(c.AssistantID)
	}
	if r.ClientName != nil {
		c.ClientName = r.ClientName(c.ClientID)
	}
	return c
}

func (r *MemoryRepo) Create(ctx context.Context, c Call) (Call, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[c.ID] = c
	return r.populate(c), nil
}

func (r *MemoryRepo) FindAll(ctx context.Context) ([]Call, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.collect(func(Call) bool { return true }, 0), nil
}

func (r *MemoryRepo) FindCompleted(ctx context.Context) ([]Call, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.collect(func(c Call) bool { return c.Status == StatusCompleted }, 0), nil
}

func (r *MemoryRepo) FindRecent(ctx context.Context, limit int) ([]Call, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.collect(func(Call) bool { return true }, limit), nil
}

func (r *MemoryRepo) FindByAssistant(ctx context.Context, assistantID string) ([]Call, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.collect(func(c Call) bool { return c.AssistantID == assistantID }, 0), nil
}

func (r *MemoryRepo) FindByClient(ctx context.Context, clientID string) ([]Call, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.collect(func(c Call) bool { return c.ClientID == clientID }, 0), nil
}

func (r *MemoryRepo) collect(keep func(Call) bool, limit int) []Call {
	out := make([]Call, 0)
	for _, c := range r.byID {
		if keep(c) {
			out = append(out, r.populate(c))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.After(out[j].StartTime) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (r *MemoryRepo) FindByID(ctx context.Context, id string) (Call, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.byID[id]
	if !ok {
		return Call{}, ErrNotFound
	}
	return r.populate(c), nil
}

func (r *MemoryRepo) AppendLog(ctx context.Context, id string, entry LogEntry, metrics CallMetrics) (Call, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.byID[id]
	if !ok {
		return Call{}, ErrNotFound
	}
	c.Logs = append(c.Logs, entry)
	c.Metrics = metrics
	c.UpdatedAt = r.clock().UTC()
	r.byID[id] = c
	return r.populate(c), nil
}

func (r *MemoryRepo) Finish(ctx context.Context, id string, status Status, endTime time.Time, durationSeconds int, summary string) (Call, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.byID[id]
	if !ok {
		return Call{}, ErrNotFound
	}
	c.Status = status
	c.EndTime = &endTime
	c.DurationSeconds = durationSeconds
	if summary != "" {
		c.Summary = summary
	}
	c.UpdatedAt = r.clock().UTC()
	r.byID[id] = c
	return r.populate(c), nil
}

func (r *MemoryRepo) Correct(ctx context.Context, id string, upd Update) (Call, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.byID[id]
	if !ok {
		return Call{}, ErrNotFound
	}
	if upd.Summary != nil {
		c.Summary = *upd.Summary
	}
	if upd.Tags != nil {
		c.Tags = *upd.Tags
	}
	if upd.DurationSeconds != nil {
		c.DurationSeconds = *upd.DurationSeconds
	}
	c.UpdatedAt = r.clock().UTC()
	r.byID[id] = c
	return r.populate(c), nil
}

func (r *MemoryRepo) Remove(ctx context.Context, id string) (Call, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.byID[id]
	if !ok {
		return Call{}, ErrNotFound
	}
	delete(r.byID, id)
	return r.populate(c), nil
}
