package services

import (
	"context"

	"github.com/mroshb/filmorate/internal/models"
	"github.com/mroshb/filmorate/internal/repositories"
	"github.com/mroshb/filmorate/pkg/errors"
	"github.com/mroshb/filmorate/pkg/logger"
	"golang.org/x/sync/errgroup"
)

// FriendService maintains the directed friend graph. An edge is pending
// until the other user sends the reverse request.
type FriendService struct {
	store repositories.Store
}

func NewFriendService(store repositories.Store) *FriendService {
	return &FriendService{store: store}
}

func (s *FriendService) RequestFriend(ctx context.Context, ownerID, otherID uint) error {
	if err := s.checkPair(ctx, ownerID, otherID); err != nil {
		return err
	}

	created := false
	err := s.store.Atomic(ctx, func(tx repositories.Store) error {
		var err error
		created, err = tx.Friends().Request(ctx, ownerID, otherID)
		if err != nil || !created {
			return err
		}
		_, err = appendEvent(ctx, tx.Feed(), ownerID, otherID, models.EventTypeFriend, models.OperationAdd)
		return err
	})
	if err != nil {
		return fail("request_friend", err, "owner_id", ownerID, "other_id", otherID)
	}

	if created {
		logger.Info("Friend requested", "owner_id", ownerID, "other_id", otherID)
	}
	return nil
}

// RemoveFriend deletes ownerID -> otherID only; the reverse edge is untouched.
func (s *FriendService) RemoveFriend(ctx context.Context, ownerID, otherID uint) error {
	if err := s.checkPair(ctx, ownerID, otherID); err != nil {
		return err
	}

	err := s.store.Atomic(ctx, func(tx repositories.Store) error {
		removed, err := tx.Friends().Remove(ctx, ownerID, otherID)
		if err != nil {
			return err
		}
		if !removed {
			return errors.NotFound("friendship", otherID)
		}
		_, err = appendEvent(ctx, tx.Feed(), ownerID, otherID, models.EventTypeFriend, models.OperationRemove)
		return err
	})
	if err != nil {
		return fail("remove_friend", err, "owner_id", ownerID, "other_id", otherID)
	}

	logger.Info("Friend removed", "owner_id", ownerID, "other_id", otherID)
	return nil
}

// FriendIDs returns every user userID has an edge to, pending or confirmed.
func (s *FriendService) FriendIDs(ctx context.Context, userID uint) ([]uint, error) {
	if err := requireUser(ctx, s.store.Entities(), userID); err != nil {
		return nil, fail("list_friends", err, "user_id", userID)
	}

	ids, err := s.store.Friends().FriendIDs(ctx, userID)
	if err != nil {
		return nil, fail("list_friends", err, "user_id", userID)
	}
	return ids, nil
}

func (s *FriendService) ListFriends(ctx context.Context, userID uint) ([]models.User, error) {
	ids, err := s.FriendIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	users, err := s.store.Entities().GetUsers(ctx, ids)
	if err != nil {
		return nil, fail("list_friends", err, "user_id", userID)
	}
	return users, nil
}

// CommonFriends intersects both users' friend lists, ordered by user ID.
func (s *FriendService) CommonFriends(ctx context.Context, userID, otherID uint) ([]models.User, error) {
	for _, id := range []uint{userID, otherID} {
		if err := requireUser(ctx, s.store.Entities(), id); err != nil {
			return nil, fail("common_friends", err, "user_id", userID, "other_id", otherID)
		}
	}

	var mine, theirs []uint
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		mine, err = s.store.Friends().FriendIDs(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		theirs, err = s.store.Friends().FriendIDs(gctx, otherID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fail("common_friends", err, "user_id", userID, "other_id", otherID)
	}

	users, err := s.store.Entities().GetUsers(ctx, intersect(mine, theirs))
	if err != nil {
		return nil, fail("common_friends", err, "user_id", userID, "other_id", otherID)
	}
	return users, nil
}

// Status reports the state of the ownerID -> otherID edge.
func (s *FriendService) Status(ctx context.Context, ownerID, otherID uint) (string, error) {
	edge, err := s.store.Friends().Get(ctx, ownerID, otherID)
	if err != nil {
		return "", fail("friend_status", err, "owner_id", ownerID, "other_id", otherID)
	}
	if edge == nil {
		return "", errors.NotFound("friendship", otherID)
	}
	return edge.Status, nil
}

func (s *FriendService) checkPair(ctx context.Context, ownerID, otherID uint) error {
	if err := models.ValidateID("userId", ownerID); err != nil {
		return err
	}
	if err := models.ValidateID("friendId", otherID); err != nil {
		return err
	}
	if ownerID == otherID {
		return errors.InvalidArgument("user %d cannot befriend themselves", ownerID)
	}
	for _, id := range []uint{ownerID, otherID} {
		if err := requireUser(ctx, s.store.Entities(), id); err != nil {
			return fail("check_users", err, "user_id", id)
		}
	}
	return nil
}
