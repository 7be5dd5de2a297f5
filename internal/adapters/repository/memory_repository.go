package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/comitanigiacomo/kanso-dashboard/internal/core/domain"
)

// In-memory repositories back the "memory" storage mode and the service
// tests. Values are copied in and out so callers never share state with the
// store.

type InMemoryHabitRepository struct {
	store       map[string]*domain.Habit
	seq         int64
	completions *InMemoryCompletionRepository

	mu sync.RWMutex
}

// NewInMemoryHabitRepository returns an empty store. When completions is not
// nil, deleting a habit also deletes its completions there.
func NewInMemoryHabitRepository(completions *InMemoryCompletionRepository) *InMemoryHabitRepository {
	return &InMemoryHabitRepository{
		store:       make(map[string]*domain.Habit),
		completions: completions,
	}
}

func (r *InMemoryHabitRepository) Create(ctx context.Context, habit *domain.Habit) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	habit.Position = r.seq
	clone := *habit
	r.store[habit.ID] = &clone
	return nil
}

func (r *InMemoryHabitRepository) GetByID(ctx context.Context, id string) (*domain.Habit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	habit, ok := r.store[id]
	if !ok {
		return nil, domain.ErrHabitNotFound
	}
	clone := *habit
	return &clone, nil
}

func (r *InMemoryHabitRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Habit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	habits := []*domain.Habit{}
	for _, h := range r.store {
		if h.UserID == userID {
			clone := *h
			habits = append(habits, &clone)
		}
	}

	sort.Slice(habits, func(i, j int) bool {
		return habits[i].Position < habits[j].Position
	})

	return habits, nil
}

func (r *InMemoryHabitRepository) Update(ctx context.Context, habit *domain.Habit) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.store[habit.ID]
	if !ok {
		return domain.ErrHabitNotFound
	}

	existing.Name = habit.Name
	existing.UpdatedAt = habit.UpdatedAt
	return nil
}

func (r *InMemoryHabitRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.store[id]; !ok {
		return domain.ErrHabitNotFound
	}

	delete(r.store, id)
	if r.completions != nil {
		r.completions.deleteHabit(id)
	}
	return nil
}

type InMemoryCompletionRepository struct {
	store map[string]*domain.Completion

	mu sync.RWMutex
}

func NewInMemoryCompletionRepository() *InMemoryCompletionRepository {
	return &InMemoryCompletionRepository{store: make(map[string]*domain.Completion)}
}

func (r *InMemoryCompletionRepository) Find(ctx context.Context, userID, habitID string, date time.Time) (*domain.Completion, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	key := date.Format(domain.DateLayout)
	for _, c := range r.store {
		if c.UserID == userID && c.HabitID == habitID && c.DateKey() == key {
			clone := *c
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *InMemoryCompletionRepository) Create(ctx context.Context, c *domain.Completion) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.store {
		if existing.UserID == c.UserID && existing.HabitID == c.HabitID && existing.DateKey() == c.DateKey() {
			return domain.ErrCompletionExists
		}
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	clone := *c
	r.store[c.ID] = &clone
	return nil
}

func (r *InMemoryCompletionRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.store, id)
	return nil
}

func (r *InMemoryCompletionRepository) ListByUserAndRange(ctx context.Context, userID string, from, to time.Time) ([]*domain.Completion, error) {
	lo, hi := from.Format(domain.DateLayout), to.Format(domain.DateLayout)
	return r.list(userID, func(c *domain.Completion) bool {
		k := c.DateKey()
		return strings.Compare(k, lo) >= 0 && strings.Compare(k, hi) <= 0
	}), nil
}

func (r *InMemoryCompletionRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Completion, error) {
	return r.list(userID, func(*domain.Completion) bool { return true }), nil
}

func (r *InMemoryCompletionRepository) CountByUser(ctx context.Context, userID string) (int, error) {
	return len(r.list(userID, func(*domain.Completion) bool { return true })), nil
}

func (r *InMemoryCompletionRepository) list(userID string, keep func(*domain.Completion) bool) []*domain.Completion {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []*domain.Completion{}
	for _, c := range r.store {
		if c.UserID == userID && keep(c) {
			clone := *c
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].HabitID < out[j].HabitID
	})
	return out
}

func (r *InMemoryCompletionRepository) deleteHabit(habitID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, c := range r.store {
		if c.HabitID == habitID {
			delete(r.store, id)
		}
	}
}

type InMemoryNotificationRepository struct {
	store  []*domain.Notification
	nextID int64

	mu sync.RWMutex
}

func NewInMemoryNotificationRepository() *InMemoryNotificationRepository {
	return &InMemoryNotificationRepository{}
}

func (r *InMemoryNotificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	n.ID = r.nextID
	clone := *n
	r.store = append(r.store, &clone)
	return nil
}

func (r *InMemoryNotificationRepository) ExistsWithMessage(ctx context.Context, userID, message string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, n := range r.store {
		if n.UserID == userID && n.Message == message {
			return true, nil
		}
	}
	return false, nil
}

func (r *InMemoryNotificationRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []*domain.Notification{}
	for i := len(r.store) - 1; i >= 0; i-- {
		if n := r.store[i]; n.UserID == userID {
			clone := *n
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *InMemoryNotificationRepository) MarkRead(ctx context.Context, id int64, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, n := range r.store {
		if n.ID == id && n.UserID == userID {
			n.Read = true
			return nil
		}
	}
	return domain.ErrNotificationNotFound
}

type InMemoryUserRepository struct {
	byID map[string]*domain.User

	mu sync.RWMutex
}

func NewInMemoryUserRepository() *InMemoryUserRepository {
	return &InMemoryUserRepository{byID: make(map[string]*domain.User)}
}

func (r *InMemoryUserRepository) Create(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.byID {
		if u.Email == user.Email {
			return domain.ErrEmailAlreadyExists
		}
	}
	clone := *user
	r.byID[user.ID] = &clone
	return nil
}

func (r *InMemoryUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.byID {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *InMemoryUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

// InMemoryModelStore keeps fitted models for the process lifetime.
type InMemoryModelStore struct {
	models map[string]domain.PredictionModel

	mu sync.RWMutex
}

func NewInMemoryModelStore() *InMemoryModelStore {
	return &InMemoryModelStore{models: make(map[string]domain.PredictionModel)}
}

func (s *InMemoryModelStore) Save(ctx context.Context, m *domain.PredictionModel) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	clone := *m
	clone.Weights = append([]float64(nil), m.Weights...)
	s.models[m.UserID] = clone
	return nil
}

func (s *InMemoryModelStore) Load(ctx context.Context, userID string) (*domain.PredictionModel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.models[userID]
	if !ok {
		return nil, domain.ErrModelNotFound
	}
	m.Weights = append([]float64(nil), m.Weights...)
	return &m, nil
}
