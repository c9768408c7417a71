package memory

import (
	"context"
	"sort"
	"sync"
)

// likeStore holds one like set per film, each behind its own lock.
type likeStore struct {
	mu    sync.RWMutex
	films map[uint]*likeSet
}

type likeSet struct {
	mu    sync.Mutex
	users map[uint]struct{}
}

func newLikeStore() *likeStore {
	return &likeStore{films: make(map[uint]*likeSet)}
}

func (s *likeStore) set(filmID uint, create bool) *likeSet {
	s.mu.RLock()
	set, ok := s.films[filmID]
	s.mu.RUnlock()
	if ok || !create {
		return set
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if set, ok = s.films[filmID]; !ok {
		set = &likeSet{users: make(map[uint]struct{})}
		s.films[filmID] = set
	}
	return set
}

func (s *likeStore) Add(_ context.Context, filmID, userID uint) (bool, error) {
	set := s.set(filmID, true)
	set.mu.Lock()
	defer set.mu.Unlock()

	if _, ok := set.users[userID]; ok {
		return false, nil
	}
	set.users[userID] = struct{}{}
	return true, nil
}

func (s *likeStore) Remove(_ context.Context, filmID, userID uint) (bool, error) {
	set := s.set(filmID, false)
	if set == nil {
		return false, nil
	}
	set.mu.Lock()
	defer set.mu.Unlock()

	if _, ok := set.users[userID]; !ok {
		return false, nil
	}
	delete(set.users, userID)
	return true, nil
}

func (s *likeStore) Counts(_ context.Context, filmIDs []uint) (map[uint]int, error) {
	counts := make(map[uint]int, len(filmIDs))
	for _, id := range filmIDs {
		set := s.set(id, false)
		if set == nil {
			continue
		}
		set.mu.Lock()
		if n := len(set.users); n > 0 {
			counts[id] = n
		}
		set.mu.Unlock()
	}
	return counts, nil
}

func (s *likeStore) FilmIDsByUser(_ context.Context, userID uint) ([]uint, error) {
	ids := []uint{}
	for filmID, set := range s.snapshot() {
		set.mu.Lock()
		if _, ok := set.users[userID]; ok {
			ids = append(ids, filmID)
		}
		set.mu.Unlock()
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (s *likeStore) LikeSets(_ context.Context) (map[uint][]uint, error) {
	sets := make(map[uint][]uint)
	for filmID, set := range s.snapshot() {
		set.mu.Lock()
		for userID := range set.users {
			sets[userID] = append(sets[userID], filmID)
		}
		set.mu.Unlock()
	}
	for _, films := range sets {
		sort.Slice(films, func(i, j int) bool { return films[i] < films[j] })
	}
	return sets, nil
}

func (s *likeStore) snapshot() map[uint]*likeSet {
	s.mu.RLock()
	defer s.mu.RUnlock()

	films := make(map[uint]*likeSet, len(s.films))
	for id, set := range s.films {
		films[id] = set
	}
	return films
}
