package repository

import (
	"context"
	"errors"

	"togglekit/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const toggleCollection = "feature-toggles"

// toggleDoc is the stored shape; tenantId is the partition field and
// stays storage-internal.
type toggleDoc struct {
	model.FeatureToggle `bson:",inline"`
	TenantID            string `bson:"tenantId"`
}

// MongoToggleRepository implements ToggleInterface on MongoDB.
type MongoToggleRepository struct {
	db *mongo.Database
}

func NewMongoToggleRepository(db *mongo.Database) *MongoToggleRepository {
	return &MongoToggleRepository{db: db}
}

func (r *MongoToggleRepository) Create(ctx context.Context, toggle *model.FeatureToggle, tenantID string) (*model.FeatureToggle, error) {
	now := nowMillis()
	toggle.CreatedAt = now
	toggle.UpdatedAt = now

	_, err := r.db.Collection(toggleCollection).InsertOne(ctx, toggleDoc{
		FeatureToggle: *toggle,
		TenantID:      tenantID,
	})
	if err != nil {
		return nil, err
	}
	return toggle, nil
}

func (r *MongoToggleRepository) Find(ctx context.Context, key, tenantID string) (*model.FeatureToggle, error) {
	var toggle model.FeatureToggle
	err := r.db.Collection(toggleCollection).
		FindOne(ctx,
			bson.M{"key": key, "tenantId": tenantID},
			options.FindOne().SetProjection(bson.M{"_id": 0, "tenantId": 0}),
		).
		Decode(&toggle)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &toggle, nil
}

func (r *MongoToggleRepository) FindAll(ctx context.Context, includeArchived bool, tenantID string) ([]*model.FeatureToggle, error) {
	filter := bson.M{"tenantId": tenantID}
	if !includeArchived {
		filter["archived"] = false
	}

	cur, err := r.db.Collection(toggleCollection).Find(ctx, filter,
		options.Find().
			SetProjection(bson.M{"_id": 0, "tenantId": 0}).
			SetSort(bson.D{{Key: "key", Value: 1}}),
	)
	if err != nil {
		return nil, err
	}

	toggles := make([]*model.FeatureToggle, 0)
	if err := cur.All(ctx, &toggles); err != nil {
		return nil, err
	}
	return toggles, nil
}

func (r *MongoToggleRepository) Update(ctx context.Context, toggle *model.FeatureToggle, tenantID string) (*model.FeatureToggle, error) {
	toggle.UpdatedAt = nowMillis()

	_, err := r.db.Collection(toggleCollection).ReplaceOne(ctx,
		bson.M{"key": toggle.Key, "tenantId": tenantID},
		toggleDoc{FeatureToggle: *toggle, TenantID: tenantID},
	)
	if err != nil {
		return nil, err
	}
	return toggle, nil
}
