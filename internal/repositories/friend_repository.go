package repositories

import (
	"context"

	"github.com/mroshb/filmorate/internal/models"
	"github.com/mroshb/filmorate/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FriendRepository struct {
	db *gorm.DB
}

func NewFriendRepository(db *gorm.DB) *FriendRepository {
	return &FriendRepository{db: db}
}

// Request creates the owner -> other edge. When the reverse edge already
// exists both edges become confirmed.
func (r *FriendRepository) Request(ctx context.Context, ownerID, otherID uint) (bool, error) {
	created := false

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Lock both users in id order so reciprocal requests serialise.
		var users []models.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").
			Where("id IN ?", []uint{ownerID, otherID}).
			Order("id").
			Find(&users).Error; err != nil {
			return errors.Wrap(err, errors.ErrCodeInternalError, "failed to lock users")
		}
		if missing := missingUser(users, ownerID, otherID); missing != 0 {
			return errors.NotFound("user", missing)
		}

		reverse, err := findEdge(tx, otherID, ownerID)
		if err != nil {
			return err
		}

		status := models.FriendshipStatusPending
		if reverse != nil {
			status = models.FriendshipStatusConfirmed
		}

		edge, err := findEdge(tx, ownerID, otherID)
		if err != nil {
			return err
		}

		if edge == nil {
			edge = &models.Friendship{
				RequesterID: ownerID,
				AddresseeID: otherID,
				Status:      status,
			}
			if err := tx.Omit(clause.Associations).Create(edge).Error; err != nil {
				return errors.Wrap(err, errors.ErrCodeInternalError, "failed to create friend request")
			}
			created = true
		} else if edge.Status != status && status == models.FriendshipStatusConfirmed {
			if err := setStatus(tx, edge.ID, status); err != nil {
				return err
			}
		}

		if reverse != nil && !reverse.IsConfirmed() {
			return setStatus(tx, reverse.ID, models.FriendshipStatusConfirmed)
		}
		return nil
	})

	return created, err
}

// Remove deletes the owner -> other edge only.
func (r *FriendRepository) Remove(ctx context.Context, ownerID, otherID uint) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("requester_id = ? AND addressee_id = ?", ownerID, otherID).
		Delete(&models.Friendship{})

	if result.Error != nil {
		return false, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to remove friend")
	}

	return result.RowsAffected > 0, nil
}

func (r *FriendRepository) Get(ctx context.Context, ownerID, otherID uint) (*models.Friendship, error) {
	return findEdge(r.db.WithContext(ctx), ownerID, otherID)
}

// FriendIDs lists every user the given user has an edge to, in any status.
func (r *FriendRepository) FriendIDs(ctx context.Context, userID uint) ([]uint, error) {
	ids := []uint{}
	err := r.db.WithContext(ctx).Model(&models.Friendship{}).
		Where("requester_id = ?", userID).
		Order("addressee_id").
		Pluck("addressee_id", &ids).Error

	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to get friends")
	}

	return ids, nil
}

func findEdge(db *gorm.DB, ownerID, otherID uint) (*models.Friendship, error) {
	var edge models.Friendship
	result := db.Where("requester_id = ? AND addressee_id = ?", ownerID, otherID).Limit(1).Find(&edge)
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to check existing friendship")
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}
	return &edge, nil
}

func setStatus(tx *gorm.DB, edgeID uint, status string) error {
	if err := tx.Model(&models.Friendship{}).Where("id = ?", edgeID).Update("status", status).Error; err != nil {
		return errors.Wrap(err, errors.ErrCodeInternalError, "failed to update friendship status")
	}
	return nil
}

func missingUser(users []models.User, ids ...uint) uint {
	found := make(map[uint]bool, len(users))
	for _, u := range users {
		found[u.ID] = true
	}
	for _, id := range ids {
		if !found[id] {
			return id
		}
	}
	return 0
}
