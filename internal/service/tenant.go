package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"togglekit/internal/model"
	"togglekit/internal/repository"
	"togglekit/pkg/logger"

	"go.uber.org/zap"
)

// TenantService implements tenant lifecycle with audit side-effects.
// Audit records for a tenant are partitioned under its own key.
type TenantService struct {
	auditRepo  repository.AuditInterface
	tenantRepo repository.TenantInterface
}

func NewTenantService(auditRepo repository.AuditInterface, tenantRepo repository.TenantInterface) *TenantService {
	return &TenantService{auditRepo: auditRepo, tenantRepo: tenantRepo}
}

// Create persists a new tenant. The creating identity becomes a member
// whether or not the payload listed it.
func (s *TenantService) Create(ctx context.Context, tenant *model.Tenant, user string) (*model.Tenant, error) {
	existing, err := s.tenantRepo.Find(ctx, tenant.Key)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrConflict
	}

	normalizeUsers(tenant, user)

	created, err := s.tenantRepo.Create(ctx, tenant)
	if err != nil {
		return nil, err
	}

	s.audit(ctx, tenant.Key, user, fmt.Sprintf("Tenant '%s' was created.", tenant.Key))
	return created, nil
}

// Find returns a tenant to one of its members.
func (s *TenantService) Find(ctx context.Context, key, user string) (*model.Tenant, error) {
	tenant, err := s.tenantRepo.Find(ctx, key)
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return nil, ErrNotFound
	}
	if !tenant.HasUser(user) {
		return nil, ErrForbidden
	}
	return tenant, nil
}

// FindAll lists the tenants the identity is a member of.
func (s *TenantService) FindAll(ctx context.Context, user string) ([]*model.Tenant, error) {
	return s.tenantRepo.FindAll(ctx, user)
}

// Update replaces a tenant record. Membership is checked against the
// existing record, not the replacement, so a member cannot be locked
// out by the same request that removes them checking itself.
func (s *TenantService) Update(ctx context.Context, tenant *model.Tenant, user string) (*model.Tenant, error) {
	existing, err := s.tenantRepo.Find(ctx, tenant.Key)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrNotFound
	}
	if !existing.HasUser(user) {
		return nil, ErrForbidden
	}

	normalizeUsers(tenant, "")

	updated, err := s.tenantRepo.Update(ctx, tenant)
	if err != nil {
		return nil, err
	}

	s.audit(ctx, tenant.Key, user, fmt.Sprintf("Tenant '%s' was updated.", tenant.Key))
	return updated, nil
}

func (s *TenantService) audit(ctx context.Context, tenantID, user, message string) {
	_, err := s.auditRepo.Create(ctx, &model.AuditRecord{
		Message:   message,
		User:      user,
		Timestamp: time.Now().UnixMilli(),
	}, tenantID)
	if err != nil {
		logger.Warn("audit write failed",
			zap.String("tenant", tenantID),
			zap.Error(err))
	}
}

// normalizeUsers lower-cases and de-duplicates the member list, and
// ensures extra (when non-empty) is a member. Membership checks stay
// case-insensitive because every stored identity is lower-cased.
func normalizeUsers(tenant *model.Tenant, extra string) {
	seen := make(map[string]struct{}, len(tenant.Users)+1)
	users := make([]string, 0, len(tenant.Users)+1)
	add := func(u string) {
		u = strings.ToLower(u)
		if u == "" {
			return
		}
		if _, ok := seen[u]; ok {
			return
		}
		seen[u] = struct{}{}
		users = append(users, u)
	}
	for _, u := range tenant.Users {
		add(u)
	}
	add(extra)
	sort.Strings(users)
	tenant.Users = users
}
