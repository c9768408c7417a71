package services

import (
	"context"
	"sort"

	"github.com/mroshb/filmorate/internal/models"
	"github.com/mroshb/filmorate/internal/repositories"
	"github.com/mroshb/filmorate/pkg/logger"
)

// Neighbor is the user whose like set overlaps most with the target's.
type Neighbor struct {
	UserID  uint
	Overlap int
}

// RecommendationService is a single nearest-neighbor recommender over
// the like graph. Similarity is the raw intersection size.
type RecommendationService struct {
	store repositories.Store
}

func NewRecommendationService(store repositories.Store) *RecommendationService {
	return &RecommendationService{store: store}
}

// Recommend returns films the nearest neighbor liked that userID has not,
// ordered by film ID. No likes or no overlapping user yields an empty list.
func (s *RecommendationService) Recommend(ctx context.Context, userID uint) ([]models.Film, error) {
	if err := requireUser(ctx, s.store.Entities(), userID); err != nil {
		return nil, fail("recommend", err, "user_id", userID)
	}

	sets, err := s.store.Likes().LikeSets(ctx)
	if err != nil {
		return nil, fail("recommend", err, "user_id", userID)
	}

	neighbor, ok := nearestNeighbor(userID, sets)
	if !ok {
		return []models.Film{}, nil
	}

	gap := difference(sets[neighbor.UserID], sets[userID])
	films, err := s.store.Entities().GetFilms(ctx, gap)
	if err != nil {
		return nil, fail("recommend", err, "user_id", userID)
	}
	if err := attachLikes(ctx, s.store.Likes(), films); err != nil {
		return nil, fail("recommend", err, "user_id", userID)
	}

	logger.Debug("Recommendation computed", "user_id", userID, "neighbor_id", neighbor.UserID, "overlap", neighbor.Overlap, "films", len(films))
	return films, nil
}

// NearestNeighbor exposes the neighbor Recommend would use. ok is false when
// no other user shares a liked film with userID.
func (s *RecommendationService) NearestNeighbor(ctx context.Context, userID uint) (Neighbor, bool, error) {
	if err := requireUser(ctx, s.store.Entities(), userID); err != nil {
		return Neighbor{}, false, fail("nearest_neighbor", err, "user_id", userID)
	}

	sets, err := s.store.Likes().LikeSets(ctx)
	if err != nil {
		return Neighbor{}, false, fail("nearest_neighbor", err, "user_id", userID)
	}

	n, ok := nearestNeighbor(userID, sets)
	return n, ok, nil
}

// nearestNeighbor scans users in ascending ID order so the lowest ID wins ties.
func nearestNeighbor(userID uint, sets map[uint][]uint) (Neighbor, bool) {
	target := make(map[uint]bool, len(sets[userID]))
	for _, filmID := range sets[userID] {
		target[filmID] = true
	}
	if len(target) == 0 {
		return Neighbor{}, false
	}

	users := make([]uint, 0, len(sets))
	for id := range sets {
		if id != userID {
			users = append(users, id)
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i] < users[j] })

	best := Neighbor{}
	for _, id := range users {
		overlap := 0
		for _, filmID := range sets[id] {
			if target[filmID] {
				overlap++
			}
		}
		if overlap > best.Overlap {
			best = Neighbor{UserID: id, Overlap: overlap}
		}
	}
	return best, best.Overlap > 0
}

// difference returns a \ b sorted ascending.
func difference(a, b []uint) []uint {
	exclude := make(map[uint]bool, len(b))
	for _, id := range b {
		exclude[id] = true
	}
	out := []uint{}
	for _, id := range a {
		if !exclude[id] {
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
