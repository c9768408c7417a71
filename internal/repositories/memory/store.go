// Package memory is the in-memory storage backend. Each mutation is atomic
// under a per-film, per-review or per-user-pair lock.
package memory

import (
	"context"

	"github.com/mroshb/filmorate/internal/repositories"
)

type Store struct {
	txLocks keyedMutex[txKey]

	entities *entityStore
	friends  *friendStore
	likes    *likeStore
	reviews  *reviewStore
	feed     *feedStore
}

func NewStore() *Store {
	entities := newEntityStore()
	return &Store{
		entities: entities,
		friends:  newFriendStore(entities),
		likes:    newLikeStore(),
		reviews:  newReviewStore(),
		feed:     newFeedStore(),
	}
}

func (s *Store) Entities() repositories.EntityStore  { return s.entities }
func (s *Store) Catalog() repositories.CatalogWriter { return s.entities }
func (s *Store) Friends() repositories.FriendStore   { return s.friends }
func (s *Store) Likes() repositories.LikeStore       { return s.likes }
func (s *Store) Reviews() repositories.ReviewStore   { return s.reviews }
func (s *Store) Feed() repositories.FeedStore        { return s.feed }

// Atomic runs fn against a view that keeps every like and friend key it
// touches locked until fn returns, so the feed record of a mutation is
// appended before the next mutation on the same key starts. Memory writes
// cannot fail after the state change, so there is nothing to roll back.
func (s *Store) Atomic(_ context.Context, fn func(tx repositories.Store) error) error {
	tx := &txStore{Store: s, held: make(map[txKey]func())}
	defer tx.release()
	return fn(tx)
}

var _ repositories.Store = (*Store)(nil)
