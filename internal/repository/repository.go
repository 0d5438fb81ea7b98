// Package repository persists toggles, audit records and tenants.
// Two interchangeable backends exist for every store: MongoDB
// (document-oriented, per-tenant filters) and Redis (key-value, a
// synthetic tenant:key composite key plus per-tenant index sets).
// Both must yield identical externally observable results; the shared
// contract test suite holds them to that.
//
// A lookup that finds nothing returns (nil, nil); errors are reserved
// for storage failures and always propagated.
package repository

import (
	"context"
	"time"

	"togglekit/internal/model"
)

// AuditWindow caps every audit listing. Callers needing deeper history
// are out of scope.
const AuditWindow = 25

// ToggleInterface defines feature-toggle persistence, partitioned by
// tenant. The tenant identifier is part of the storage key and is
// never unmarshalled back to callers.
type ToggleInterface interface {
	Create(ctx context.Context, toggle *model.FeatureToggle, tenantID string) (*model.FeatureToggle, error)
	Find(ctx context.Context, key, tenantID string) (*model.FeatureToggle, error)
	FindAll(ctx context.Context, includeArchived bool, tenantID string) ([]*model.FeatureToggle, error)
	Update(ctx context.Context, toggle *model.FeatureToggle, tenantID string) (*model.FeatureToggle, error)
}

// AuditInterface defines the append-only audit log, partitioned by
// tenant. Records are write-once; listings are most-recent-first.
type AuditInterface interface {
	Create(ctx context.Context, record *model.AuditRecord, tenantID string) (*model.AuditRecord, error)
	FindAll(ctx context.Context, tenantID string) ([]model.AuditRecord, error)
	FindAllByUser(ctx context.Context, user, tenantID string) ([]model.AuditRecord, error)
}

// TenantInterface defines tenant persistence. Duplicate-key checks are
// the service layer's responsibility.
type TenantInterface interface {
	Create(ctx context.Context, tenant *model.Tenant) (*model.Tenant, error)
	Find(ctx context.Context, key string) (*model.Tenant, error)
	FindAll(ctx context.Context, user string) ([]*model.Tenant, error)
	Update(ctx context.Context, tenant *model.Tenant) (*model.Tenant, error)
}

func nowMillis() int64 {
	return time.Now().UnixMilli()
}
