package repository

import (
	"context"
	"encoding/json"
	"errors"
	"sort"

	"togglekit/internal/model"

	"github.com/redis/go-redis/v9"
)

// toggleEnvelope mirrors the wide-column item layout: the record plus
// its partition fields. Reads decode into model.FeatureToggle only, so
// the partition fields never reach callers.
type toggleEnvelope struct {
	model.FeatureToggle
	TenantID     string `json:"tenantId"`
	PartitionKey string `json:"partitionKey"`
}

// RedisToggleRepository implements ToggleInterface on Redis.
type RedisToggleRepository struct {
	rdb *redis.Client
}

func NewRedisToggleRepository(rdb *redis.Client) *RedisToggleRepository {
	return &RedisToggleRepository{rdb: rdb}
}

func (r *RedisToggleRepository) Create(ctx context.Context, toggle *model.FeatureToggle, tenantID string) (*model.FeatureToggle, error) {
	now := nowMillis()
	toggle.CreatedAt = now
	toggle.UpdatedAt = now

	if err := r.put(ctx, toggle, tenantID); err != nil {
		return nil, err
	}
	return toggle, nil
}

func (r *RedisToggleRepository) Find(ctx context.Context, key, tenantID string) (*model.FeatureToggle, error) {
	raw, err := r.rdb.Get(ctx, toggleKey(tenantID, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var toggle model.FeatureToggle
	if err := json.Unmarshal(raw, &toggle); err != nil {
		return nil, err
	}
	return &toggle, nil
}

func (r *RedisToggleRepository) FindAll(ctx context.Context, includeArchived bool, tenantID string) ([]*model.FeatureToggle, error) {
	keys, err := r.rdb.SMembers(ctx, toggleIndexKey(tenantID)).Result()
	if err != nil {
		return nil, err
	}

	toggles := make([]*model.FeatureToggle, 0, len(keys))
	if len(keys) == 0 {
		return toggles, nil
	}
	sort.Strings(keys)

	storageKeys := make([]string, len(keys))
	for i, k := range keys {
		storageKeys[i] = toggleKey(tenantID, k)
	}

	values, err := r.rdb.MGet(ctx, storageKeys...).Result()
	if err != nil {
		return nil, err
	}

	for _, v := range values {
		raw, ok := v.(string)
		if !ok {
			continue
		}
		var toggle model.FeatureToggle
		if err := json.Unmarshal([]byte(raw), &toggle); err != nil {
			return nil, err
		}
		if !includeArchived && toggle.Archived {
			continue
		}
		t := toggle
		toggles = append(toggles, &t)
	}
	return toggles, nil
}

func (r *RedisToggleRepository) Update(ctx context.Context, toggle *model.FeatureToggle, tenantID string) (*model.FeatureToggle, error) {
	toggle.UpdatedAt = nowMillis()

	if err := r.put(ctx, toggle, tenantID); err != nil {
		return nil, err
	}
	return toggle, nil
}

func (r *RedisToggleRepository) put(ctx context.Context, toggle *model.FeatureToggle, tenantID string) error {
	raw, err := json.Marshal(toggleEnvelope{
		FeatureToggle: *toggle,
		TenantID:      tenantID,
		PartitionKey:  tenantID + keySeparator + toggle.Key,
	})
	if err != nil {
		return err
	}

	_, err = r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, toggleKey(tenantID, toggle.Key), raw, 0)
		pipe.SAdd(ctx, toggleIndexKey(tenantID), toggle.Key)
		return nil
	})
	return err
}
