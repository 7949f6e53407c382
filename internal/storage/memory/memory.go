// Package memory provides an in-process implementation of
// storage.Storage. Records live in a map guarded by a RWMutex, so the
// store is safe for concurrent handlers but forgets everything on restart.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/aanand-mishra/friends-api/internal/storage"
	"github.com/aanand-mishra/friends-api/internal/types"
)

type record struct {
	friend types.Friend
	seq    uint64
}

// Memory is the in-process storage.Storage.
type Memory struct {
	mu      sync.RWMutex
	friends map[string]record
	nextSeq uint64
}

// New returns an empty store.
func New() *Memory {
	return &Memory{friends: make(map[string]record)}
}

func (m *Memory) CreateFriend(_ context.Context, friend types.Friend) (types.Friend, error) {
	friend.ID = uuid.NewString()

	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextSeq++
	m.friends[friend.ID] = record{friend: friend, seq: m.nextSeq}
	return friend, nil
}

// GetFriends returns friends in insertion order.
func (m *Memory) GetFriends(_ context.Context) ([]types.Friend, error) {
	m.mu.RLock()
	records := make([]record, 0, len(m.friends))
	for _, rec := range m.friends {
		records = append(records, rec)
	}
	m.mu.RUnlock()

	sort.Slice(records, func(i, j int) bool { return records[i].seq < records[j].seq })

	friends := make([]types.Friend, 0, len(records))
	for _, rec := range records {
		friends = append(friends, rec.friend)
	}
	return friends, nil
}

func (m *Memory) GetFriendByID(_ context.Context, id string) (types.Friend, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.friends[id]
	if !ok {
		return types.Friend{}, storage.ErrNotFound
	}
	return rec.friend, nil
}

func (m *Memory) UpdateFriendByID(_ context.Context, id string, friend types.Friend) (types.Friend, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.friends[id]
	if !ok {
		return types.Friend{}, storage.ErrNotFound
	}

	friend.ID = id
	rec.friend = friend
	m.friends[id] = rec
	return friend, nil
}

func (m *Memory) DeleteFriendByID(_ context.Context, id string) (types.Friend, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.friends[id]
	if !ok {
		return types.Friend{}, storage.ErrNotFound
	}
	delete(m.friends, id)
	return rec.friend, nil
}

func (m *Memory) Ping(_ context.Context) error  { return nil }
func (m *Memory) Close(_ context.Context) error { return nil }
