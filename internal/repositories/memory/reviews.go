package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/mroshb/filmorate/internal/models"
	"github.com/mroshb/filmorate/pkg/errors"
)

// reviewStore keeps each review next to its vote set so a vote and the
// usefulness delta are applied under the same lock.
type reviewStore struct {
	mu      sync.RWMutex
	nextID  uint
	reviews map[uint]*reviewEntry
}

type reviewEntry struct {
	mu      sync.Mutex
	review  models.Review
	votes   map[uint]models.VoteValue
	deleted bool
}

func newReviewStore() *reviewStore {
	return &reviewStore{reviews: make(map[uint]*reviewEntry)}
}

// entry returns the live entry for id with its lock held.
func (s *reviewStore) entry(id uint) (*reviewEntry, error) {
	s.mu.RLock()
	e, ok := s.reviews[id]
	s.mu.RUnlock()
	if !ok {
		return nil, errors.NotFound("review", id)
	}

	e.mu.Lock()
	if e.deleted {
		e.mu.Unlock()
		return nil, errors.NotFound("review", id)
	}
	return e, nil
}

func (s *reviewStore) Create(_ context.Context, review *models.Review) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	now := time.Now().UTC()
	review.ID = s.nextID
	review.CreatedAt = now
	review.UpdatedAt = now

	s.reviews[review.ID] = &reviewEntry{
		review: *review,
		votes:  make(map[uint]models.VoteValue),
	}
	return nil
}

func (s *reviewStore) Update(_ context.Context, review *models.Review) error {
	e, err := s.entry(review.ID)
	if err != nil {
		return err
	}
	defer e.mu.Unlock()

	e.review.Content = review.Content
	e.review.IsPositive = review.IsPositive
	e.review.UpdatedAt = time.Now().UTC()
	*review = e.review
	return nil
}

func (s *reviewStore) Delete(_ context.Context, id uint) (bool, error) {
	s.mu.Lock()
	e, ok := s.reviews[id]
	delete(s.reviews, id)
	s.mu.Unlock()
	if !ok {
		return false, nil
	}

	e.mu.Lock()
	e.deleted = true
	e.votes = nil
	e.mu.Unlock()
	return true, nil
}

func (s *reviewStore) Get(_ context.Context, id uint) (*models.Review, error) {
	e, err := s.entry(id)
	if err != nil {
		return nil, err
	}
	defer e.mu.Unlock()

	review := e.review
	return &review, nil
}

func (s *reviewStore) List(_ context.Context, filmID uint, limit int) ([]models.Review, error) {
	s.mu.RLock()
	entries := make([]*reviewEntry, 0, len(s.reviews))
	for _, e := range s.reviews {
		entries = append(entries, e)
	}
	s.mu.RUnlock()

	reviews := make([]models.Review, 0, len(entries))
	for _, e := range entries {
		e.mu.Lock()
		if !e.deleted && (filmID == 0 || e.review.FilmID == filmID) {
			reviews = append(reviews, e.review)
		}
		e.mu.Unlock()
	}

	sort.Slice(reviews, func(i, j int) bool {
		if reviews[i].Useful != reviews[j].Useful {
			return reviews[i].Useful > reviews[j].Useful
		}
		return reviews[i].ID < reviews[j].ID
	})
	if limit > 0 && len(reviews) > limit {
		reviews = reviews[:limit]
	}
	return reviews, nil
}

func (s *reviewStore) Vote(_ context.Context, reviewID, userID uint, value models.VoteValue) (int, bool, error) {
	e, err := s.entry(reviewID)
	if err != nil {
		return 0, false, err
	}
	defer e.mu.Unlock()

	prior, voted := e.votes[userID]
	switch {
	case !voted:
		e.review.Useful += int(value)
	case prior == value:
		return e.review.Useful, false, nil
	default:
		e.review.Useful += 2 * int(value)
	}
	e.votes[userID] = value
	return e.review.Useful, true, nil
}

func (s *reviewStore) RemoveVote(_ context.Context, reviewID, userID uint, value models.VoteValue) (int, bool, error) {
	e, err := s.entry(reviewID)
	if err != nil {
		return 0, false, err
	}
	defer e.mu.Unlock()

	if prior, voted := e.votes[userID]; !voted || prior != value {
		return e.review.Useful, false, nil
	}
	delete(e.votes, userID)
	e.review.Useful -= int(value)
	return e.review.Useful, true, nil
}

func (s *reviewStore) Usefulness(_ context.Context, reviewID uint) (int, error) {
	e, err := s.entry(reviewID)
	if err != nil {
		return 0, err
	}
	defer e.mu.Unlock()
	return e.review.Useful, nil
}

func (s *reviewStore) Votes(_ context.Context, reviewID uint) ([]models.ReviewVote, error) {
	e, err := s.entry(reviewID)
	if errors.IsNotFound(err) {
		return []models.ReviewVote{}, nil
	}
	if err != nil {
		return nil, err
	}
	defer e.mu.Unlock()

	votes := make([]models.ReviewVote, 0, len(e.votes))
	for userID, value := range e.votes {
		votes = append(votes, models.ReviewVote{ReviewID: reviewID, UserID: userID, Value: value})
	}
	sort.Slice(votes, func(i, j int) bool { return votes[i].UserID < votes[j].UserID })
	return votes, nil
}
