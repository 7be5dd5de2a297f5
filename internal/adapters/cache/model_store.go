package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/comitanigiacomo/kanso-dashboard/internal/core/domain"
)

var _ domain.ModelStore = (*RedisModelStore)(nil)

// RedisModelStore keeps one JSON-encoded model per user without expiry; a
// model is replaced only by the next retrain.
type RedisModelStore struct {
	rdb *redis.Client
}

func NewRedisModelStore(rdb *redis.Client) *RedisModelStore {
	return &RedisModelStore{rdb: rdb}
}

func modelKey(userID string) string {
	return fmt.Sprintf("model:nextday:%s", userID)
}

func (s *RedisModelStore) Save(ctx context.Context, m *domain.PredictionModel) error {
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("encode model: %w", err)
	}
	if err := s.rdb.Set(ctx, modelKey(m.UserID), data, 0).Err(); err != nil {
		return fmt.Errorf("store model: %w", err)
	}
	return nil
}

func (s *RedisModelStore) Load(ctx context.Context, userID string) (*domain.PredictionModel, error) {
	data, err := s.rdb.Get(ctx, modelKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrModelNotFound
		}
		return nil, fmt.Errorf("load model: %w", err)
	}

	var m domain.PredictionModel
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode model: %w", err)
	}
	return &m, nil
}
