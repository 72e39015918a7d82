package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"agrimarket/internal/model"

	"github.com/redis/go-redis/v9"
)

type redisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisStore keeps users and drafts as JSON strings with a TTL and each
// wishlist as a Redis set.
func NewRedisStore(rdb *redis.Client, ttl time.Duration) Store {
	return &redisStore{rdb: rdb, ttl: ttl}
}

func (s *redisStore) SaveUser(ctx context.Context, sessionID string, u model.User) error {
	if sessionID == "" {
		return ErrEmptyKey
	}
	return s.setJSON(ctx, userKey(sessionID), u)
}

func (s *redisStore) User(ctx context.Context, sessionID string) (model.User, error) {
	var u model.User
	found, err := s.getJSON(ctx, userKey(sessionID), &u)
	if err != nil {
		return model.User{}, err
	}
	if !found {
		return model.User{}, ErrNoSession
	}
	return u, nil
}

func (s *redisStore) ClearUser(ctx context.Context, sessionID string) error {
	return s.rdb.Del(ctx, userKey(sessionID)).Err()
}

func (s *redisStore) Wishlist(ctx context.Context, userID string) ([]string, error) {
	ids, err := s.rdb.SMembers(ctx, wishlistKey(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("read wishlist: %w", err)
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *redisStore) InWishlist(ctx context.Context, userID, cropID string) (bool, error) {
	return s.rdb.SIsMember(ctx, wishlistKey(userID), cropID).Result()
}

func (s *redisStore) ToggleWishlist(ctx context.Context, userID, cropID string) (bool, error) {
	if userID == "" || cropID == "" {
		return false, ErrEmptyKey
	}
	key := wishlistKey(userID)

	removed, err := s.rdb.SRem(ctx, key, cropID).Result()
	if err != nil {
		return false, fmt.Errorf("toggle wishlist: %w", err)
	}
	if removed > 0 {
		return false, nil
	}
	if err := s.rdb.SAdd(ctx, key, cropID).Err(); err != nil {
		return false, fmt.Errorf("toggle wishlist: %w", err)
	}
	return true, nil
}

func (s *redisStore) SaveDraft(ctx context.Context, sessionID string, d Draft) error {
	if sessionID == "" {
		return ErrEmptyKey
	}
	return s.setJSON(ctx, draftKey(sessionID), d)
}

func (s *redisStore) TakeDraft(ctx context.Context, sessionID string) (Draft, bool, error) {
	val, err := s.rdb.GetDel(ctx, draftKey(sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		return Draft{}, false, nil
	}
	if err != nil {
		return Draft{}, false, err
	}
	var d Draft
	if err := json.Unmarshal([]byte(val), &d); err != nil {
		return Draft{}, false, fmt.Errorf("decode draft: %w", err)
	}
	return d, true, nil
}

func (s *redisStore) setJSON(ctx context.Context, key string, value any) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, key, b, s.ttl).Err()
}

func (s *redisStore) getJSON(ctx context.Context, key string, dest any) (bool, error) {
	val, err := s.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	} else if err != nil {
		return false, err
	}
	return true, json.Unmarshal([]byte(val), dest)
}
