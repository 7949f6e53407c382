package storage

import (
	"context"
	"errors"
	"time"

	"github.com/aanand-mishra/friends-api/internal/types"
)

// Operation names reported to an Observer.
const (
	OpCreate = "create"
	OpList   = "list"
	OpGet    = "get"
	OpUpdate = "update"
	OpDelete = "delete"
)

// Operation results reported to an Observer.
const (
	ResultOK       = "ok"
	ResultNotFound = "not_found"
	ResultError    = "error"
)

// Observer receives one call per finished store operation.
type Observer interface {
	ObserveStoreOperation(operation, result string, duration time.Duration)
}

// Instrument wraps next so that every data operation is reported to obs.
func Instrument(next Storage, obs Observer) Storage {
	return &instrumented{next: next, obs: obs}
}

type instrumented struct {
	next Storage
	obs  Observer
}

func (s *instrumented) observe(op string, start time.Time, err error) {
	result := ResultOK
	switch {
	case errors.Is(err, ErrNotFound):
		result = ResultNotFound
	case err != nil:
		result = ResultError
	}
	s.obs.ObserveStoreOperation(op, result, time.Since(start))
}

func (s *instrumented) CreateFriend(ctx context.Context, friend types.Friend) (types.Friend, error) {
	start := time.Now()
	created, err := s.next.CreateFriend(ctx, friend)
	s.observe(OpCreate, start, err)
	return created, err
}

func (s *instrumented) GetFriends(ctx context.Context) ([]types.Friend, error) {
	start := time.Now()
	friends, err := s.next.GetFriends(ctx)
	s.observe(OpList, start, err)
	return friends, err
}

func (s *instrumented) GetFriendByID(ctx context.Context, id string) (types.Friend, error) {
	start := time.Now()
	friend, err := s.next.GetFriendByID(ctx, id)
	s.observe(OpGet, start, err)
	return friend, err
}

func (s *instrumented) UpdateFriendByID(ctx context.Context, id string, friend types.Friend) (types.Friend, error) {
	start := time.Now()
	updated, err := s.next.UpdateFriendByID(ctx, id, friend)
	s.observe(OpUpdate, start, err)
	return updated, err
}

func (s *instrumented) DeleteFriendByID(ctx context.Context, id string) (types.Friend, error) {
	start := time.Now()
	removed, err := s.next.DeleteFriendByID(ctx, id)
	s.observe(OpDelete, start, err)
	return removed, err
}

func (s *instrumented) Ping(ctx context.Context) error  { return s.next.Ping(ctx) }
func (s *instrumented) Close(ctx context.Context) error { return s.next.Close(ctx) }

// WithTimeout bounds every call on next by d. A zero or negative d returns
// next unchanged.
func WithTimeout(next Storage, d time.Duration) Storage {
	if d <= 0 {
		return next
	}
	return &bounded{next: next, timeout: d}
}

type bounded struct {
	next    Storage
	timeout time.Duration
}

func (s *bounded) CreateFriend(ctx context.Context, friend types.Friend) (types.Friend, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.next.CreateFriend(ctx, friend)
}

func (s *bounded) GetFriends(ctx context.Context) ([]types.Friend, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.next.GetFriends(ctx)
}

func (s *bounded) GetFriendByID(ctx context.Context, id string) (types.Friend, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.next.GetFriendByID(ctx, id)
}

func (s *bounded) UpdateFriendByID(ctx context.Context, id string, friend types.Friend) (types.Friend, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.next.UpdateFriendByID(ctx, id, friend)
}

func (s *bounded) DeleteFriendByID(ctx context.Context, id string) (types.Friend, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.next.DeleteFriendByID(ctx, id)
}

func (s *bounded) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.next.Ping(ctx)
}

func (s *bounded) Close(ctx context.Context) error { return s.next.Close(ctx) }
