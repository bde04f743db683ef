package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dtroode/obituary-server/internal/model"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRedis implements redisAPI on top of a map.
type fakeRedis struct {
	data map[string]string
	ttl  map[string]time.Duration
	err  error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: map[string]string{}, ttl: map[string]time.Duration{}}
}

func (f *fakeRedis) Set(_ context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	if f.err != nil {
		return redis.NewStatusResult("", f.err)
	}
	f.data[key] = string(value.([]byte))
	f.ttl[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Get(_ context.Context, key string) *redis.StringCmd {
	if f.err != nil {
		return redis.NewStringResult("", f.err)
	}
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeRedis) Del(_ context.Context, keys ...string) *redis.IntCmd {
	if f.err != nil {
		return redis.NewIntResult(0, f.err)
	}
	var n int64
	for _, k := range keys {
		if _, ok := f.data[k]; ok {
			delete(f.data, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func newTestStore(fake *fakeRedis, now time.Time) *Store {
	s := NewStore(fake)
	s.now = func() time.Time { return now }
	return s
}

func TestStore_CreateGetDelete(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	fake := newFakeRedis()
	s := newTestStore(fake, now)

	session := model.Session{
		ID:        "abc",
		UserID:    uuid.New(),
		Email:     "uu@uu.uu",
		UserName:  "uu@uu.uu",
		Roles:     []string{model.RoleUser},
		ExpiresAt: now.Add(time.Hour),
	}
	require.NoError(t, s.Create(ctx, session))
	assert.Equal(t, time.Hour, fake.ttl[keyPrefix+"abc"])

	got, err := s.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, session.UserID, got.UserID)
	assert.Equal(t, session.Roles, got.Roles)
	assert.True(t, session.ExpiresAt.Equal(got.ExpiresAt))

	require.NoError(t, s.Delete(ctx, "abc"))
	_, err = s.Get(ctx, "abc")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestStore_Get(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	t.Run("unknown id", func(t *testing.T) {
		s := newTestStore(newFakeRedis(), now)
		_, err := s.Get(ctx, "missing")
		assert.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("empty id", func(t *testing.T) {
		s := newTestStore(newFakeRedis(), now)
		_, err := s.Get(ctx, "")
		assert.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("expired record", func(t *testing.T) {
		fake := newFakeRedis()
		s := newTestStore(fake, now)
		require.NoError(t, s.Create(ctx, model.Session{ID: "old", UserID: uuid.New(), ExpiresAt: now.Add(time.Minute)}))

		s.now = func() time.Time { return now.Add(2 * time.Minute) }
		_, err := s.Get(ctx, "old")
		assert.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("corrupted record", func(t *testing.T) {
		fake := newFakeRedis()
		fake.data[keyPrefix+"bad"] = "{"
		s := newTestStore(fake, now)
		_, err := s.Get(ctx, "bad")
		require.Error(t, err)
		assert.NotErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("backend error", func(t *testing.T) {
		fake := newFakeRedis()
		fake.err = errors.New("conn reset")
		s := newTestStore(fake, now)
		_, err := s.Get(ctx, "x")
		require.Error(t, err)
		assert.NotErrorIs(t, err, model.ErrNotFound)
	})
}

func TestStore_CreateRejectsExpired(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s := newTestStore(newFakeRedis(), now)

	err := s.Create(context.Background(), model.Session{ID: "x", ExpiresAt: now})
	require.Error(t, err)
}

func TestStore_DeleteError(t *testing.T) {
	t.Parallel()

	fake := newFakeRedis()
	fake.err = errors.New("down")
	s := NewStore(fake)

	require.Error(t, s.Delete(context.Background(), "x"))
	require.NoError(t, s.Delete(context.Background(), ""))
}
