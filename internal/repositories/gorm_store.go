package repositories

import (
	"context"

	"gorm.io/gorm"
)

// GormStore is the persistent Store used by the postgres and sqlite backends.
type GormStore struct {
	db       *gorm.DB
	entities *EntityRepository
	friends  *FriendRepository
	likes    *LikeRepository
	reviews  *ReviewRepository
	feed     *FeedRepository
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{
		db:       db,
		entities: NewEntityRepository(db),
		friends:  NewFriendRepository(db),
		likes:    NewLikeRepository(db),
		reviews:  NewReviewRepository(db),
		feed:     NewFeedRepository(db),
	}
}

func (s *GormStore) Entities() EntityStore  { return s.entities }
func (s *GormStore) Catalog() CatalogWriter { return s.entities }
func (s *GormStore) Friends() FriendStore   { return s.friends }
func (s *GormStore) Likes() LikeStore       { return s.likes }
func (s *GormStore) Reviews() ReviewStore   { return s.reviews }
func (s *GormStore) Feed() FeedStore        { return s.feed }

// Atomic runs fn inside one database transaction. Repository transactions
// opened by fn nest as savepoints.
func (s *GormStore) Atomic(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewGormStore(tx))
	})
}

var _ Store = (*GormStore)(nil)
