package repository

import (
	"context"
	"encoding/json"
	"errors"
	"sort"

	"togglekit/internal/model"

	"github.com/redis/go-redis/v9"
)

// RedisTenantRepository implements TenantInterface on Redis.
type RedisTenantRepository struct {
	rdb *redis.Client
}

func NewRedisTenantRepository(rdb *redis.Client) *RedisTenantRepository {
	return &RedisTenantRepository{rdb: rdb}
}

func (r *RedisTenantRepository) Create(ctx context.Context, tenant *model.Tenant) (*model.Tenant, error) {
	if err := r.put(ctx, tenant); err != nil {
		return nil, err
	}
	return tenant, nil
}

func (r *RedisTenantRepository) Find(ctx context.Context, key string) (*model.Tenant, error) {
	raw, err := r.rdb.Get(ctx, tenantKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var tenant model.Tenant
	if err := json.Unmarshal(raw, &tenant); err != nil {
		return nil, err
	}
	return &tenant, nil
}

func (r *RedisTenantRepository) FindAll(ctx context.Context, user string) ([]*model.Tenant, error) {
	keys, err := r.rdb.SMembers(ctx, tenantIndexKey).Result()
	if err != nil {
		return nil, err
	}

	tenants := make([]*model.Tenant, 0, len(keys))
	if len(keys) == 0 {
		return tenants, nil
	}
	sort.Strings(keys)

	storageKeys := make([]string, len(keys))
	for i, k := range keys {
		storageKeys[i] = tenantKey(k)
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
		var tenant model.Tenant
		if err := json.Unmarshal([]byte(raw), &tenant); err != nil {
			return nil, err
		}
		if !tenant.HasUser(user) {
			continue
		}
		t := tenant
		tenants = append(tenants, &t)
	}
	return tenants, nil
}

func (r *RedisTenantRepository) Update(ctx context.Context, tenant *model.Tenant) (*model.Tenant, error) {
	if err := r.put(ctx, tenant); err != nil {
		return nil, err
	}
	return tenant, nil
}

func (r *RedisTenantRepository) put(ctx context.Context, tenant *model.Tenant) error {
	raw, err := json.Marshal(tenant)
	if err != nil {
		return err
	}

	_, err = r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, tenantKey(tenant.Key), raw, 0)
		pipe.SAdd(ctx, tenantIndexKey, tenant.Key)
		return nil
	})
	return err
}
