package memory

import (
	"context"

	"github.com/mroshb/filmorate/internal/repositories"
)

type txKind uint8

const (
	txLike txKind = iota + 1
	txFriendPair
)

// txKey names what an Atomic call holds: a (film, user) like or an
// unordered user pair.
type txKey struct {
	kind txKind
	a, b uint
}

// txStore is the view handed to an Atomic closure. Keys stay held until
// the closure returns.
type txStore struct {
	*Store
	held map[txKey]func()
}

func (t *txStore) Likes() repositories.LikeStore     { return txLikes{likeStore: t.likes, tx: t} }
func (t *txStore) Friends() repositories.FriendStore { return txFriends{friendStore: t.friends, tx: t} }

// Atomic nests into the enclosing call.
func (t *txStore) Atomic(_ context.Context, fn func(tx repositories.Store) error) error {
	return fn(t)
}

func (t *txStore) hold(k txKey) {
	if _, ok := t.held[k]; ok {
		return
	}
	t.held[k] = t.Store.txLocks.Lock(k)
}

func (t *txStore) release() {
	for k, unlock := range t.held {
		unlock()
		delete(t.held, k)
	}
}

type txLikes struct {
	*likeStore
	tx *txStore
}

func (l txLikes) Add(ctx context.Context, filmID, userID uint) (bool, error) {
	l.tx.hold(txKey{kind: txLike, a: filmID, b: userID})
	return l.likeStore.Add(ctx, filmID, userID)
}

func (l txLikes) Remove(ctx context.Context, filmID, userID uint) (bool, error) {
	l.tx.hold(txKey{kind: txLike, a: filmID, b: userID})
	return l.likeStore.Remove(ctx, filmID, userID)
}

type txFriends struct {
	*friendStore
	tx *txStore
}

func (f txFriends) Request(ctx context.Context, ownerID, otherID uint) (bool, error) {
	f.tx.hold(friendKey(ownerID, otherID))
	return f.friendStore.Request(ctx, ownerID, otherID)
}

func (f txFriends) Remove(ctx context.Context, ownerID, otherID uint) (bool, error) {
	f.tx.hold(friendKey(ownerID, otherID))
	return f.friendStore.Remove(ctx, ownerID, otherID)
}

func friendKey(a, b uint) txKey {
	p := newPairKey(a, b)
	return txKey{kind: txFriendPair, a: p.low, b: p.high}
}

var _ repositories.Store = (*txStore)(nil)
