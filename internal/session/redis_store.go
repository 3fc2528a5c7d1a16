package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/statuspanel/internal/telemetry/tracing"

	"github.com/go-redis/redis/v8"
)

const sessionKeyPrefix = "statuspanel-session||"

var _ Store = (*RedisStore)(nil)

type RedisStore struct {
	redisClient *redis.Client
}

func NewRedisStore(redisClient *redis.Client) *RedisStore {
	return &RedisStore{
		redisClient: redisClient,
	}
}

func (s *RedisStore) Save(ctx context.Context, token string, sess *Session, ttl time.Duration) error {
	ctx, span := tracing.GlobalTracer.Start(ctx, "sessionRedis.Save")
	defer span.End()

	sessJson, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	return s.redisClient.Set(ctx, sessionKeyPrefix+token, sessJson, ttl).Err()
}

func (s *RedisStore) Get(ctx context.Context, token string) (*Session, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "sessionRedis.Get")
	defer span.End()

	cmd := s.redisClient.Get(ctx, sessionKeyPrefix+token)
	if err := cmd.Err(); err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	var sess Session
	if err := json.Unmarshal([]byte(cmd.Val()), &sess); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	return &sess, nil
}

func (s *RedisStore) Delete(ctx context.Context, token string) error {
	ctx, span := tracing.GlobalTracer.Start(ctx, "sessionRedis.Delete")
	defer span.End()

	return s.redisClient.Del(ctx, sessionKeyPrefix+token).Err()
}
