// Package storage defines the Storage interface — the contract every
// database backend must satisfy to serve the friends API.
//
// Handlers depend only on this interface, so the backend is chosen once in
// main.go (mongo, sqlite or memory) and tests can hand the handlers any
// implementation they like.
package storage

import (
	"context"
	"errors"

	"github.com/aanand-mishra/friends-api/internal/types"
)

// ErrNotFound is returned by id-scoped operations when no record matches.
// Any other error from a Storage method is a persistence failure.
var ErrNotFound = errors.New("storage: friend not found")

// Storage is the persistence contract. Implementations must be safe for
// concurrent use by multiple goroutines.
type Storage interface {
	// CreateFriend persists a new friend and returns it with the id the
	// backend assigned. Any id on the input is ignored.
	CreateFriend(ctx context.Context, friend types.Friend) (types.Friend, error)

	// GetFriends returns every friend. Returns an empty slice (not nil)
	// when there are none.
	GetFriends(ctx context.Context) ([]types.Friend, error)

	// GetFriendByID fetches a single friend, or ErrNotFound.
	GetFriendByID(ctx context.Context, id string) (types.Friend, error)

	// UpdateFriendByID replaces firstName, lastName and age of an existing
	// friend and returns the record as stored after the update, or
	// ErrNotFound. The id never changes.
	UpdateFriendByID(ctx context.Context, id string, friend types.Friend) (types.Friend, error)

	// DeleteFriendByID removes a friend permanently and returns the record
	// as it was just before removal, or ErrNotFound.
	DeleteFriendByID(ctx context.Context, id string) (types.Friend, error)

	// Ping reports whether the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases the underlying connection or pool.
	Close(ctx context.Context) error
}
