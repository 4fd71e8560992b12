package memorystorage

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lomoval/strikeboard/internal/storage"
)

type Storage struct {
	mu         sync.RWMutex
	events     map[string]storage.Event
	categories map[string]storage.Category
	comments   map[string][]storage.Comment
	now        func() time.Time
}

func New() *Storage {
	return &Storage{
		events:     make(map[string]storage.Event),
		categories: make(map[string]storage.Category),
		comments:   make(map[string][]storage.Comment),
		now:        time.Now,
	}
}

func (s *Storage) Connect(_ context.Context) error {
	return nil
}

func (s *Storage) Close(_ context.Context) error {
	return nil
}

func (s *Storage) ListEvents(_ context.Context) ([]storage.Event, error) {
	s.mu.RLock()
	events := make([]storage.Event, 0, len(s.events))
	for _, e := range s.events {
		events = append(events, e)
	}
	s.mu.RUnlock()

	slices.SortFunc(events, func(a, b storage.Event) int {
		if c := a.StartTime.Compare(b.StartTime); c != 0 {
			return c
		}
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return events, nil
}

func (s *Storage) GetEvent(_ context.Context, id string) (storage.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.events[id]
	if !ok {
		return storage.Event{}, fmt.Errorf("failed to get event with id %q: %w", id, storage.ErrNotFoundEvent)
	}
	return e, nil
}

func (s *Storage) AddEvent(_ context.Context, e *storage.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.events[e.ID]; ok {
		return fmt.Errorf("duplicate ID %q: %w", e.ID, storage.ErrDuplicateEventID)
	}
	if err := s.checkCategory(e.CategoryID); err != nil {
		return err
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	e.CreatedAt = s.now()
	s.events[e.ID] = *e
	return nil
}

func (s *Storage) UpdateEvent(_ context.Context, id string, patch storage.EventPatch) error {
	if patch.Empty() {
		return storage.ErrEmptyPatch
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.events[id]
	if !ok {
		return fmt.Errorf("failed to update event with id %q: %w", id, storage.ErrNotFoundEvent)
	}
	if patch.CategoryID != nil {
		if err := s.checkCategory(*patch.CategoryID); err != nil {
			return err
		}
	}
	patch.Apply(&e)
	s.events[id] = e
	return nil
}

func (s *Storage) RemoveEvent(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.events[id]; !ok {
		return fmt.Errorf("failed to remove event with id %q: %w", id, storage.ErrNotFoundEvent)
	}
	delete(s.events, id)
	delete(s.comments, id)
	return nil
}

func (s *Storage) ListCategories(_ context.Context) ([]storage.Category, error) {
	s.mu.RLock()
	categories := make([]storage.Category, 0, len(s.categories))
	for _, c := range s.categories {
		categories = append(categories, c)
	}
	s.mu.RUnlock()

	slices.SortFunc(categories, func(a, b storage.Category) int {
		if c := cmp.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return categories, nil
}

func (s *Storage) AddCategory(_ context.Context, c *storage.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	c.CreatedAt = s.now()
	s.categories[c.ID] = *c
	return nil
}

func (s *Storage) AddComment(_ context.Context, c *storage.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.events[c.EventID]; !ok {
		return fmt.Errorf("failed to comment event with id %q: %w", c.EventID, storage.ErrNotFoundEvent)
	}
	c.ID = uuid.NewString()
	c.CreatedAt = s.now()
	s.comments[c.EventID] = append(s.comments[c.EventID], *c)
	return nil
}

func (s *Storage) ListComments(_ context.Context, eventID string) ([]storage.Comment, error) {
	s.mu.RLock()
	stored := s.comments[eventID]
	comments := make([]storage.Comment, 0, len(stored))
	// Appended oldest first.
	for i := len(stored) - 1; i >= 0; i-- {
		comments = append(comments, stored[i])
	}
	s.mu.RUnlock()
	return comments, nil
}

func (s *Storage) checkCategory(id string) error {
	if id == "" {
		return nil
	}
	if _, ok := s.categories[id]; !ok {
		return fmt.Errorf("category %q: %w", id, storage.ErrNotFoundCategory)
	}
	return nil
}
