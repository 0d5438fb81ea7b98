package repository

import (
	"context"
	"errors"

	"togglekit/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const tenantCollection = "tenants"

// MongoTenantRepository implements TenantInterface on MongoDB.
type MongoTenantRepository struct {
	db *mongo.Database
}

func NewMongoTenantRepository(db *mongo.Database) *MongoTenantRepository {
	return &MongoTenantRepository{db: db}
}

func (r *MongoTenantRepository) Create(ctx context.Context, tenant *model.Tenant) (*model.Tenant, error) {
	if _, err := r.db.Collection(tenantCollection).InsertOne(ctx, tenant); err != nil {
		return nil, err
	}
	return tenant, nil
}

func (r *MongoTenantRepository) Find(ctx context.Context, key string) (*model.Tenant, error) {
	var tenant model.Tenant
	err := r.db.Collection(tenantCollection).
		FindOne(ctx, bson.M{"key": key}, options.FindOne().SetProjection(bson.M{"_id": 0})).
		Decode(&tenant)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &tenant, nil
}

func (r *MongoTenantRepository) FindAll(ctx context.Context, user string) ([]*model.Tenant, error) {
	cur, err := r.db.Collection(tenantCollection).Find(ctx,
		bson.M{"users": user},
		options.Find().
			SetProjection(bson.M{"_id": 0}).
			SetSort(bson.D{{Key: "key", Value: 1}}),
	)
	if err != nil {
		return nil, err
	}

	tenants := make([]*model.Tenant, 0)
	if err := cur.All(ctx, &tenants); err != nil {
		return nil, err
	}
	return tenants, nil
}

func (r *MongoTenantRepository) Update(ctx context.Context, tenant *model.Tenant) (*model.Tenant, error) {
	_, err := r.db.Collection(tenantCollection).ReplaceOne(ctx, bson.M{"key": tenant.Key}, tenant)
	if err != nil {
		return nil, err
	}
	return tenant, nil
}
