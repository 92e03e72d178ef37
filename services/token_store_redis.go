package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// RedisTokenStore keeps tokens in Redis under two keys per token:
// auth:token:<key> holds the user id and auth:user:<id> holds the key.
type RedisTokenStore struct {
	client *redis.Client
}

// NewRedisTokenStore creates a token store on the given client
func NewRedisTokenStore(client *redis.Client) *RedisTokenStore {
	return &RedisTokenStore{client: client}
}

// NewRedisClient parses a redis:// URL and verifies the server is reachable
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

// Issue returns the user's token, claiming a new one with SETNX when none exists
func (s *RedisTokenStore) Issue(ctx context.Context, userID uint) (string, error) {
	userKey := userTokenKey(userID)

	key, err := s.client.Get(ctx, userKey).Result()
	if err == nil {
		return key, nil
	}
	if !errors.Is(err, redis.Nil) {
		return "", fmt.Errorf("redis get failed: %w", err)
	}

	candidate, err := GenerateTokenKey()
	if err != nil {
		return "", err
	}

	// Write the lookup entry first so a claimed user key never points at a missing token
	if err := s.client.Set(ctx, tokenKey(candidate), strconv.FormatUint(uint64(userID), 10), 0).Err(); err != nil {
		return "", fmt.Errorf("redis set failed: %w", err)
	}

	claimed, err := s.client.SetNX(ctx, userKey, candidate, 0).Result()
	if err != nil {
		return "", fmt.Errorf("redis setnx failed: %w", err)
	}
	if claimed {
		return candidate, nil
	}

	// Another request won the race; drop our candidate and use theirs
	if err := s.client.Del(ctx, tokenKey(candidate)).Err(); err != nil {
		return "", fmt.Errorf("redis delete failed: %w", err)
	}
	key, err = s.client.Get(ctx, userKey).Result()
	if err != nil {
		return "", fmt.Errorf("redis get failed: %w", err)
	}
	return key, nil
}

// Lookup resolves a token to its user id
func (s *RedisTokenStore) Lookup(ctx context.Context, token string) (uint, error) {
	value, err := s.client.Get(ctx, tokenKey(token)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, ErrTokenNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("redis get failed: %w", err)
	}

	id, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("corrupt token entry: %w", err)
	}
	return uint(id), nil
}

// Revoke deletes the token and the user's pointer to it; absent keys are ignored
func (s *RedisTokenStore) Revoke(ctx context.Context, token string) error {
	value, err := s.client.Get(ctx, tokenKey(token)).Result()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("redis get failed: %w", err)
	}

	id, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return fmt.Errorf("corrupt token entry: %w", err)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, tokenKey(token))
		pipe.Del(ctx, userTokenKey(uint(id)))
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func tokenKey(token string) string {
	return fmt.Sprintf("auth:token:%s", token)
}

func userTokenKey(userID uint) string {
	return fmt.Sprintf("auth:user:%d", userID)
}
