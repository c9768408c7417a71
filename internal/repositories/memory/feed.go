package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/mroshb/filmorate/internal/models"
	"github.com/mroshb/filmorate/pkg/errors"
)

// feedStore is an append-only log ordered by ID.
type feedStore struct {
	mu     sync.RWMutex
	nextID uint
	events []models.FeedEvent
}

func newFeedStore() *feedStore {
	return &feedStore{}
}

func (s *feedStore) Append(_ context.Context, event *models.FeedEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	event.ID = s.nextID
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	s.events = append(s.events, *event)
	return nil
}

func (s *feedStore) ByUser(_ context.Context, userID uint) ([]models.FeedEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	events := []models.FeedEvent{}
	for i := len(s.events) - 1; i >= 0; i-- {
		if s.events[i].UserID == userID {
			events = append(events, s.events[i])
		}
	}
	return events, nil
}

func (s *feedStore) Get(_ context.Context, id uint) (*models.FeedEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i, ok := s.index(id); ok {
		event := s.events[i]
		return &event, nil
	}
	return nil, errors.NotFound("event", id)
}

func (s *feedStore) Delete(_ context.Context, id uint) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index(id)
	if !ok {
		return false, nil
	}
	s.events = append(s.events[:i], s.events[i+1:]...)
	return true, nil
}

func (s *feedStore) All(_ context.Context) ([]models.FeedEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]models.FeedEvent{}, s.events...), nil
}

// index finds id by binary search; events are kept in ID order.
func (s *feedStore) index(id uint) (int, bool) {
	i := sort.Search(len(s.events), func(i int) bool { return s.events[i].ID >= id })
	return i, i < len(s.events) && s.events[i].ID == id
}
