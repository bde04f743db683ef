// Package redis keeps cookie-channel login sessions in Redis.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dtroode/obituary-server/internal/model"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "obituary:session:"

// Internal adapter interface to enable fakes without a real Redis server.
type redisAPI interface {
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

var _ model.SessionStore = (*Store)(nil)

type Store struct {
	client redisAPI
	now    func() time.Time
}

// Connect parses redisURL and verifies the server answers.
func Connect(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return client, nil
}

func NewStore(client redisAPI) *Store {
	return &Store{
		client: client,
		now:    time.Now,
	}
}

type sessionRecord struct {
	UserID    uuid.UUID `json:"userId"`
	Email     string    `json:"email"`
	UserName  string    `json:"userName"`
	Roles     []string  `json:"roles"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Create stores the session until its expiry.
func (s *Store) Create(ctx context.Context, session model.Session) error {
	ttl := session.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return fmt.Errorf("session %s is already expired", session.ID)
	}

	data, err := json.Marshal(sessionRecord{
		UserID:    session.UserID,
		Email:     session.Email,
		UserName:  session.UserName,
		Roles:     session.Roles,
		ExpiresAt: session.ExpiresAt,
	})
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	if err := s.client.Set(ctx, keyPrefix+session.ID, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

// Get returns model.ErrNotFound for unknown or expired sessions.
func (s *Store) Get(ctx context.Context, id string) (model.Session, error) {
	if id == "" {
		return model.Session{}, model.ErrNotFound
	}

	data, err := s.client.Get(ctx, keyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return model.Session{}, model.ErrNotFound
		}
		return model.Session{}, fmt.Errorf("failed to get session: %w", err)
	}

	var rec sessionRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return model.Session{}, fmt.Errorf("failed to decode session: %w", err)
	}

	if !rec.ExpiresAt.After(s.now()) {
		return model.Session{}, model.ErrNotFound
	}

	return model.Session{
		ID:        id,
		UserID:    rec.UserID,
		Email:     rec.Email,
		UserName:  rec.UserName,
		Roles:     rec.Roles,
		ExpiresAt: rec.ExpiresAt,
	}, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	if err := s.client.Del(ctx, keyPrefix+id).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
