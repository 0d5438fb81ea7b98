package repository

import (
	"context"
	"encoding/json"

	"togglekit/internal/model"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// auditEnvelope carries a uuid so that identical messages written in
// the same millisecond remain distinct sorted-set members.
type auditEnvelope struct {
	model.AuditRecord
	ID string `json:"id"`
}

// RedisAuditRepository implements AuditInterface on Redis sorted sets
// scored by timestamp.
type RedisAuditRepository struct {
	rdb *redis.Client
}

func NewRedisAuditRepository(rdb *redis.Client) *RedisAuditRepository {
	return &RedisAuditRepository{rdb: rdb}
}

func (r *RedisAuditRepository) Create(ctx context.Context, record *model.AuditRecord, tenantID string) (*model.AuditRecord, error) {
	raw, err := json.Marshal(auditEnvelope{
		AuditRecord: *record,
		ID:          uuid.New().String(),
	})
	if err != nil {
		return nil, err
	}

	entry := redis.Z{Score: float64(record.Timestamp), Member: raw}
	_, err = r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZAdd(ctx, auditKey(tenantID), entry)
		pipe.ZAdd(ctx, auditUserKey(tenantID, record.User), entry)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (r *RedisAuditRepository) FindAll(ctx context.Context, tenantID string) ([]model.AuditRecord, error) {
	return r.window(ctx, auditKey(tenantID))
}

func (r *RedisAuditRepository) FindAllByUser(ctx context.Context, user, tenantID string) ([]model.AuditRecord, error) {
	return r.window(ctx, auditUserKey(tenantID, user))
}

func (r *RedisAuditRepository) window(ctx context.Context, key string) ([]model.AuditRecord, error) {
	members, err := r.rdb.ZRevRange(ctx, key, 0, AuditWindow-1).Result()
	if err != nil {
		return nil, err
	}

	records := make([]model.AuditRecord, 0, len(members))
	for _, m := range members {
		var record model.AuditRecord
		if err := json.Unmarshal([]byte(m), &record); err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}
