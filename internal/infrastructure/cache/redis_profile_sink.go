package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/lineshop/backend/internal/domain/linking"
)

// RedisProfileSink implements linking.ProfileSink using Redis hashes.
// It mirrors link profile data into a fast secondary store so the
// storefront can render LINE display names without hitting Postgres.
type RedisProfileSink struct {
	client    *redis.Client
	keyPrefix string
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// NewRedisProfileSink creates a new Redis-based profile sink
func NewRedisProfileSink(cfg RedisConfig) (*RedisProfileSink, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisProfileSink{
		client:    client,
		keyPrefix: "line:profile:",
	}, nil
}

// NewRedisProfileSinkWithClient creates a sink with an existing Redis client
func NewRedisProfileSinkWithClient(client *redis.Client, keyPrefix string) *RedisProfileSink {
	if keyPrefix == "" {
		keyPrefix = "line:profile:"
	}
	return &RedisProfileSink{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

// MirrorProfile writes the link's profile fields for a store account
func (s *RedisProfileSink) MirrorProfile(ctx context.Context, userID uuid.UUID, lineUserID, displayName, pictureURL string) error {
	key := s.keyPrefix + userID.String()
	fields := map[string]any{
		"line_user_id": lineUserID,
		"display_name": displayName,
		"picture_url":  pictureURL,
	}
	if err := s.client.HSet(ctx, key, fields).Err(); err != nil {
		return fmt.Errorf("failed to mirror profile: %w", err)
	}
	return nil
}

// ReadMirroredID returns the mirrored LINE user ID for a store account,
// or linking.ErrLinkNotFound when nothing is mirrored.
func (s *RedisProfileSink) ReadMirroredID(ctx context.Context, userID uuid.UUID) (string, error) {
	key := s.keyPrefix + userID.String()
	val, err := s.client.HGet(ctx, key, "line_user_id").Result()
	if err == redis.Nil {
		return "", linking.ErrLinkNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to read mirrored profile: %w", err)
	}
	if val == "" {
		return "", linking.ErrLinkNotFound
	}
	return val, nil
}
