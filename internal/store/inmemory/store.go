// Package inmemory is a process-local Store used for development and tests.
package inmemory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ahmetcoskunkizilkaya/freedom-wall/internal/models"
	"github.com/ahmetcoskunkizilkaya/freedom-wall/internal/store"
)

type reactionKey struct {
	confessionID uuid.UUID
	clientHash   string
	reactionType models.ReactionType
}

// Store implements store.Store in memory.
type Store struct {
	mu          sync.RWMutex
	confessions map[uuid.UUID]models.Confession
	reactions   map[reactionKey]models.Reaction
	reports     map[uuid.UUID]models.Report

	closesAt *time.Time
	now      func() time.Time
}

type Option func(*Store)

// WithPostingDeadline rejects confessions created at or after t.
func WithPostingDeadline(t time.Time) Option {
	return func(s *Store) { s.closesAt = &t }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func New(opts ...Option) *Store {
	s := &Store{
		confessions: make(map[uuid.UUID]models.Confession),
		reactions:   make(map[reactionKey]models.Reaction),
		reports:     make(map[uuid.UUID]models.Report),
		now:         func() time.Time { return time.Now().UTC() },
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

var _ store.Store = (*Store)(nil)

// === Confessions ===

func (s *Store) CreateConfession(ctx context.Context, c *models.Confession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = s.now()
	}
	if s.closesAt != nil && !c.CreatedAt.Before(*s.closesAt) {
		return fmt.Errorf("posting window closed at %s: %w", s.closesAt.Format(time.RFC3339), store.ErrConstraintViolation)
	}
	if _, ok := s.confessions[c.ID]; ok {
		return fmt.Errorf("confession %s: %w", c.ID, store.ErrUniqueViolation)
	}
	s.confessions[c.ID] = *c
	return nil
}

func (s *Store) ListConfessions(ctx context.Context, f store.ConfessionFilter) ([]models.Confession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Confession, 0, len(s.confessions))
	for _, c := range s.confessions {
		if f.Mood != nil && (c.Mood == nil || *c.Mood != *f.Mood) {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (s *Store) GetConfessions(ctx context.Context, ids []uuid.UUID) ([]models.Confession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Confession, 0, len(ids))
	for _, id := range store.UniqueIDs(ids) {
		if c, ok := s.confessions[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

// DeleteConfession removes the confession with its reactions and reports.
func (s *Store) DeleteConfession(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.confessions[id]; !ok {
		return fmt.Errorf("confession %s: %w", id, store.ErrNotFound)
	}
	delete(s.confessions, id)
	for k := range s.reactions {
		if k.confessionID == id {
			delete(s.reactions, k)
		}
	}
	for rid, r := range s.reports {
		if r.ConfessionID == id {
			delete(s.reports, rid)
		}
	}
	return nil
}

// === Reactions ===

func (s *Store) CreateReaction(ctx context.Context, r *models.Reaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.confessions[r.ConfessionID]; !ok {
		return fmt.Errorf("confession %s: %w", r.ConfessionID, store.ErrConstraintViolation)
	}
	key := reactionKey{r.ConfessionID, r.ClientHash, r.ReactionType}
	if _, ok := s.reactions[key]; ok {
		return fmt.Errorf("reaction: %w", store.ErrUniqueViolation)
	}
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = s.now()
	}
	s.reactions[key] = *r
	return nil
}

func (s *Store) CountReactions(ctx context.Context, ids []uuid.UUID, t models.ReactionType) (map[uuid.UUID]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	want := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	counts := make(map[uuid.UUID]int64, len(ids))
	for k := range s.reactions {
		if _, ok := want[k.confessionID]; ok && k.reactionType == t {
			counts[k.confessionID]++
		}
	}
	return counts, nil
}

func (s *Store) HasReacted(ctx context.Context, clientHash string, ids []uuid.UUID, t models.ReactionType) (map[uuid.UUID]bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		if _, ok := s.reactions[reactionKey{id, clientHash, t}]; ok {
			out[id] = true
		}
	}
	return out, nil
}

// === Reports ===

func (s *Store) CreateReport(ctx context.Context, r *models.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.confessions[r.ConfessionID]; !ok {
		return fmt.Errorf("confession %s: %w", r.ConfessionID, store.ErrConstraintViolation)
	}
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.Status == "" {
		r.Status = models.ReportPending
	}
	now := s.now()
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now
	}
	r.UpdatedAt = now
	s.reports[r.ID] = *r
	return nil
}

func (s *Store) ListReports(ctx context.Context, f store.ReportFilter) ([]models.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Report, 0, len(s.reports))
	for _, r := range s.reports {
		if f.Status != nil && r.Status != *f.Status {
			continue
		}
		if f.ConfessionID != nil && r.ConfessionID != *f.ConfessionID {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *Store) UpdateReportStatus(ctx context.Context, ids []uuid.UUID, status models.ReportStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids = store.UniqueIDs(ids)
	for _, id := range ids {
		if _, ok := s.reports[id]; !ok {
			return fmt.Errorf("report %s: %w", id, store.ErrNotFound)
		}
	}
	now := s.now()
	for _, id := range ids {
		r := s.reports[id]
		r.Status = status
		r.UpdatedAt = now
		s.reports[id] = r
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}
