package service

import (
	"context"
	"sort"
	"time"

	"togglekit/internal/model"
)

// In-memory repositories for service tests.

type memToggleRepo struct {
	tenants map[string]map[string]model.FeatureToggle
	err     error
}

func newMemToggleRepo() *memToggleRepo {
	return &memToggleRepo{tenants: make(map[string]map[string]model.FeatureToggle)}
}

func (r *memToggleRepo) tenant(tenantID string) map[string]model.FeatureToggle {
	if r.tenants[tenantID] == nil {
		r.tenants[tenantID] = make(map[string]model.FeatureToggle)
	}
	return r.tenants[tenantID]
}

func (r *memToggleRepo) Create(_ context.Context, toggle *model.FeatureToggle, tenantID string) (*model.FeatureToggle, error) {
	if r.err != nil {
		return nil, r.err
	}
	now := time.Now().UnixMilli()
	toggle.CreatedAt = now
	toggle.UpdatedAt = now
	r.tenant(tenantID)[toggle.Key] = *toggle
	return toggle, nil
}

func (r *memToggleRepo) Find(_ context.Context, key, tenantID string) (*model.FeatureToggle, error) {
	if r.err != nil {
		return nil, r.err
	}
	toggle, ok := r.tenant(tenantID)[key]
	if !ok {
		return nil, nil
	}
	return &toggle, nil
}

func (r *memToggleRepo) FindAll(_ context.Context, includeArchived bool, tenantID string) ([]*model.FeatureToggle, error) {
	if r.err != nil {
		return nil, r.err
	}
	toggles := make([]*model.FeatureToggle, 0)
	for _, toggle := range r.tenant(tenantID) {
		if !includeArchived && toggle.Archived {
			continue
		}
		t := toggle
		toggles = append(toggles, &t)
	}
	sort.Slice(toggles, func(i, j int) bool { return toggles[i].Key < toggles[j].Key })
	return toggles, nil
}

func (r *memToggleRepo) Update(_ context.Context, toggle *model.FeatureToggle, tenantID string) (*model.FeatureToggle, error) {
	if r.err != nil {
		return nil, r.err
	}
	toggle.UpdatedAt = time.Now().UnixMilli() + 1
	r.tenant(tenantID)[toggle.Key] = *toggle
	return toggle, nil
}

type memAuditRepo struct {
	records map[string][]model.AuditRecord
	err     error
}

func newMemAuditRepo() *memAuditRepo {
	return &memAuditRepo{records: make(map[string][]model.AuditRecord)}
}

func (r *memAuditRepo) Create(_ context.Context, record *model.AuditRecord, tenantID string) (*model.AuditRecord, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.records[tenantID] = append(r.records[tenantID], *record)
	return record, nil
}

func (r *memAuditRepo) FindAll(_ context.Context, tenantID string) ([]model.AuditRecord, error) {
	records := append([]model.AuditRecord(nil), r.records[tenantID]...)
	sort.SliceStable(records, func(i, j int) bool { return records[i].Timestamp > records[j].Timestamp })
	if len(records) > 25 {
		records = records[:25]
	}
	return records, nil
}

func (r *memAuditRepo) FindAllByUser(_ context.Context, user, tenantID string) ([]model.AuditRecord, error) {
	all, _ := r.FindAll(context.Background(), tenantID)
	records := make([]model.AuditRecord, 0)
	for _, rec := range all {
		if rec.User == user {
			records = append(records, rec)
		}
	}
	return records, nil
}

func (r *memAuditRepo) messages(tenantID string) []string {
	msgs := make([]string, 0, len(r.records[tenantID]))
	for _, rec := range r.records[tenantID] {
		msgs = append(msgs, rec.Message)
	}
	return msgs
}

type memTenantRepo struct {
	tenants map[string]model.Tenant
	err     error
}

func newMemTenantRepo() *memTenantRepo {
	return &memTenantRepo{tenants: make(map[string]model.Tenant)}
}

func (r *memTenantRepo) Create(_ context.Context, tenant *model.Tenant) (*model.Tenant, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.tenants[tenant.Key] = *tenant
	return tenant, nil
}

func (r *memTenantRepo) Find(_ context.Context, key string) (*model.Tenant, error) {
	if r.err != nil {
		return nil, r.err
	}
	tenant, ok := r.tenants[key]
	if !ok {
		return nil, nil
	}
	return &tenant, nil
}

func (r *memTenantRepo) FindAll(_ context.Context, user string) ([]*model.Tenant, error) {
	tenants := make([]*model.Tenant, 0)
	for _, tenant := range r.tenants {
		if tenant.HasUser(user) {
			t := tenant
			tenants = append(tenants, &t)
		}
	}
	sort.Slice(tenants, func(i, j int) bool { return tenants[i].Key < tenants[j].Key })
	return tenants, nil
}

func (r *memTenantRepo) Update(_ context.Context, tenant *model.Tenant) (*model.Tenant, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.tenants[tenant.Key] = *tenant
	return tenant, nil
}
