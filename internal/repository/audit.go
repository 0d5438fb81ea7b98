package repository

import (
	"context"

	"togglekit/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const auditCollection = "audits"

type auditDoc struct {
	model.AuditRecord `bson:",inline"`
	TenantID          string `bson:"tenantId"`
}

// MongoAuditRepository implements AuditInterface on MongoDB.
type MongoAuditRepository struct {
	db *mongo.Database
}

func NewMongoAuditRepository(db *mongo.Database) *MongoAuditRepository {
	return &MongoAuditRepository{db: db}
}

func (r *MongoAuditRepository) Create(ctx context.Context, record *model.AuditRecord, tenantID string) (*model.AuditRecord, error) {
	_, err := r.db.Collection(auditCollection).InsertOne(ctx, auditDoc{
		AuditRecord: *record,
		TenantID:    tenantID,
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (r *MongoAuditRepository) FindAll(ctx context.Context, tenantID string) ([]model.AuditRecord, error) {
	return r.findAll(ctx, bson.M{"tenantId": tenantID})
}

func (r *MongoAuditRepository) FindAllByUser(ctx context.Context, user, tenantID string) ([]model.AuditRecord, error) {
	return r.findAll(ctx, bson.M{"tenantId": tenantID, "user": user})
}

func (r *MongoAuditRepository) findAll(ctx context.Context, filter bson.M) ([]model.AuditRecord, error) {
	cur, err := r.db.Collection(auditCollection).Find(ctx, filter,
		options.Find().
			SetProjection(bson.M{"_id": 0, "tenantId": 0}).
			SetSort(bson.D{{Key: "timestamp", Value: -1}}).
			SetLimit(AuditWindow),
	)
	if err != nil {
		return nil, err
	}

	records := make([]model.AuditRecord, 0)
	if err := cur.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}
