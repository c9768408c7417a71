package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/mroshb/filmorate/internal/models"
	"github.com/mroshb/filmorate/pkg/errors"
)

// friendStore keeps directed edges owner -> other -> edge. Mutations on a
// user pair are serialised by that pair's lock; mu only guards the maps.
type friendStore struct {
	entities *entityStore
	pairs    keyedMutex[pairKey]

	mu     sync.RWMutex
	nextID uint
	edges  map[uint]map[uint]*models.Friendship
}

func newFriendStore(entities *entityStore) *friendStore {
	return &friendStore{
		entities: entities,
		edges:    make(map[uint]map[uint]*models.Friendship),
	}
}

func (s *friendStore) Request(ctx context.Context, ownerID, otherID uint) (bool, error) {
	unlock := s.pairs.Lock(newPairKey(ownerID, otherID))
	defer unlock()

	for _, id := range []uint{ownerID, otherID} {
		ok, err := s.entities.UserExists(ctx, id)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, errors.NotFound("user", id)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	reverse := s.edges[otherID][ownerID]
	edge := s.edges[ownerID][otherID]
	now := time.Now().UTC()
	created := false

	if edge == nil {
		s.nextID++
		edge = &models.Friendship{
			ID:          s.nextID,
			RequesterID: ownerID,
			AddresseeID: otherID,
			Status:      models.FriendshipStatusPending,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if s.edges[ownerID] == nil {
			s.edges[ownerID] = make(map[uint]*models.Friendship)
		}
		s.edges[ownerID][otherID] = edge
		created = true
	}

	if reverse != nil {
		for _, e := range []*models.Friendship{edge, reverse} {
			if !e.IsConfirmed() {
				e.Status = models.FriendshipStatusConfirmed
				e.UpdatedAt = now
			}
		}
	}

	return created, nil
}

func (s *friendStore) Remove(_ context.Context, ownerID, otherID uint) (bool, error) {
	unlock := s.pairs.Lock(newPairKey(ownerID, otherID))
	defer unlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.edges[ownerID][otherID]; !ok {
		return false, nil
	}
	delete(s.edges[ownerID], otherID)
	if len(s.edges[ownerID]) == 0 {
		delete(s.edges, ownerID)
	}
	return true, nil
}

func (s *friendStore) Get(_ context.Context, ownerID, otherID uint) (*models.Friendship, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	edge, ok := s.edges[ownerID][otherID]
	if !ok {
		return nil, nil
	}
	copied := *edge
	return &copied, nil
}

func (s *friendStore) FriendIDs(_ context.Context, userID uint) ([]uint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]uint, 0, len(s.edges[userID]))
	for id := range s.edges[userID] {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}
