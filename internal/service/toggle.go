package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"togglekit/internal/diff"
	"togglekit/internal/metrics"
	"togglekit/internal/model"
	"togglekit/internal/repository"
	"togglekit/pkg/logger"

	"go.uber.org/zap"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrConflict  = errors.New("already exists")
	ErrForbidden = errors.New("forbidden")
)

// Top-level toggle fields and per-environment attributes that produce
// one audit entry each when an update changes them. Field names match
// the record's wire shape.
var (
	auditedToggleFields = []string{"archived", "createdAt", "name", "updatedAt", "user"}
	auditedEnvFields    = []string{"enabled", "enabledForAll", "name"}
)

// FeatureToggleService implements toggle governance (create, read,
// update with audit side-effects) and runtime enablement evaluation.
type FeatureToggleService struct {
	toggleRepo           repository.ToggleInterface
	auditRepo            repository.AuditInterface
	authorizationEnabled bool
	observer             metrics.Observer
}

func NewFeatureToggleService(toggleRepo repository.ToggleInterface, auditRepo repository.AuditInterface, authorizationEnabled bool, observer metrics.Observer) *FeatureToggleService {
	return &FeatureToggleService{
		toggleRepo:           toggleRepo,
		auditRepo:            auditRepo,
		authorizationEnabled: authorizationEnabled,
		observer:             observer,
	}
}

// Enabled evaluates a toggle for one environment and consumer. The
// evaluation path carries no authorization: runtime consumers are
// trusted by knowledge of key, environment and consumer identifier.
func (s *FeatureToggleService) Enabled(ctx context.Context, key, environmentKey, consumer, tenantID string) (bool, error) {
	toggle, err := s.toggleRepo.Find(ctx, key, tenantID)
	if err != nil {
		return false, err
	}
	if toggle == nil {
		s.observer.RecordEvaluation(metrics.OutcomeNotFound)
		return false, ErrNotFound
	}

	environment := toggle.FindEnvironment(environmentKey)
	if environment == nil {
		s.observer.RecordEvaluation(metrics.OutcomeNotFound)
		return false, ErrNotFound
	}

	result := false
	switch {
	case !environment.Enabled:
		result = false
	case environment.EnabledForAll:
		result = true
	default:
		for _, c := range environment.Consumers {
			if c == consumer {
				result = true
				break
			}
		}
	}

	if result {
		s.observer.RecordEvaluation(metrics.OutcomeEnabled)
	} else {
		s.observer.RecordEvaluation(metrics.OutcomeDisabled)
	}
	return result, nil
}

// Create persists a new toggle owned by user. A toggle with the same
// key in the same tenant is a conflict.
func (s *FeatureToggleService) Create(ctx context.Context, toggle *model.FeatureToggle, user, tenantID string) (*model.FeatureToggle, error) {
	existing, err := s.toggleRepo.Find(ctx, toggle.Key, tenantID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrConflict
	}

	toggle.User = user

	created, err := s.toggleRepo.Create(ctx, toggle, tenantID)
	if err != nil {
		return nil, err
	}

	s.audit(ctx, tenantID, user, fmt.Sprintf("Feature Toggle '%s' was created.", toggle.Key))
	return created, nil
}

// Find returns a toggle. With authorization enabled the caller must be
// the owner or hold an administrator or viewer role; a denied toggle
// behaves as absent.
func (s *FeatureToggleService) Find(ctx context.Context, key, user, tenantID string) (*model.FeatureToggle, error) {
	toggle, err := s.toggleRepo.Find(ctx, key, tenantID)
	if err != nil {
		return nil, err
	}
	if toggle == nil {
		return nil, ErrNotFound
	}

	if s.authorizationEnabled && !s.readable(toggle, user) {
		return nil, ErrNotFound
	}
	return toggle, nil
}

// FindAll lists the tenant's toggles ordered by key, restricted to
// readable toggles when authorization is enabled.
func (s *FeatureToggleService) FindAll(ctx context.Context, includeArchived bool, user, tenantID string) ([]*model.FeatureToggle, error) {
	toggles, err := s.toggleRepo.FindAll(ctx, includeArchived, tenantID)
	if err != nil {
		return nil, err
	}
	if !s.authorizationEnabled {
		return toggles, nil
	}

	readable := make([]*model.FeatureToggle, 0, len(toggles))
	for _, t := range toggles {
		if s.readable(t, user) {
			readable = append(readable, t)
		}
	}
	return readable, nil
}

// Update replaces a toggle record wholesale, then appends the generic
// audit entry followed by one entry per changed field. The mutation
// and its audit trail are not atomic; a failed audit write is logged
// and the update stands.
func (s *FeatureToggleService) Update(ctx context.Context, toggle *model.FeatureToggle, user, tenantID string) (*model.FeatureToggle, error) {
	existing, err := s.toggleRepo.Find(ctx, toggle.Key, tenantID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrNotFound
	}

	if s.authorizationEnabled && !s.authorized(existing, user, model.RoleAdministrator) {
		return nil, ErrNotFound
	}

	// Diff against the incoming record before the repository stamps
	// updatedAt, so an unchanged round-trip audits nothing extra.
	delta := diff.Get(toDocument(existing), toDocument(toggle))

	updated, err := s.toggleRepo.Update(ctx, toggle, tenantID)
	if err != nil {
		return nil, err
	}

	s.audit(ctx, tenantID, user, fmt.Sprintf("Feature Toggle '%s' was updated.", toggle.Key))
	s.auditDelta(ctx, existing, toggle, delta, user, tenantID)

	return updated, nil
}

func (s *FeatureToggleService) auditDelta(ctx context.Context, previous, current *model.FeatureToggle, delta *diff.Delta, user, tenantID string) {
	for _, field := range auditedToggleFields {
		if d := delta.Field(field); d.Leaf() {
			s.audit(ctx, tenantID, user, fmt.Sprintf(
				"Feature Toggle '%s' %s changed from '%v' to '%v'.",
				current.Key, field, d.Previous, d.Current))
		}
	}

	environments := delta.Field("environments")
	if environments == nil {
		return
	}
	for i, envDelta := range environments.Items {
		envKey := environmentKeyAt(previous, current, i)
		for _, field := range auditedEnvFields {
			if d := envDelta.Field(field); d.Leaf() {
				s.audit(ctx, tenantID, user, fmt.Sprintf(
					"Feature Toggle '%s' environment '%s' %s changed from '%v' to '%v'.",
					current.Key, envKey, field, d.Previous, d.Current))
			}
		}
	}
}

func (s *FeatureToggleService) readable(toggle *model.FeatureToggle, user string) bool {
	return s.authorized(toggle, user, model.RoleAdministrator) ||
		s.authorized(toggle, user, model.RoleViewer)
}

func (s *FeatureToggleService) authorized(toggle *model.FeatureToggle, user, role string) bool {
	if toggle.User == user {
		return true
	}
	for _, item := range toggle.RoleBasedAccessControlItems {
		if item.Subject == user && item.Role == role {
			return true
		}
	}
	return false
}

// audit appends one record, best effort. Failures are logged and never
// roll back the mutation they describe.
func (s *FeatureToggleService) audit(ctx context.Context, tenantID, user, message string) {
	_, err := s.auditRepo.Create(ctx, &model.AuditRecord{
		Message:   message,
		User:      user,
		Timestamp: time.Now().UnixMilli(),
	}, tenantID)
	if err != nil {
		logger.Warn("audit write failed",
			zap.String("tenant", tenantID),
			zap.String("message", message),
			zap.Error(err))
		return
	}
	s.observer.RecordAuditWrite()
}

// toDocument renders a toggle as the generic value shape the diff
// engine consumes. UseNumber keeps timestamps verbatim in messages.
func toDocument(toggle *model.FeatureToggle) any {
	raw, err := json.Marshal(toggle)
	if err != nil {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil
	}
	return doc
}

func environmentKeyAt(previous, current *model.FeatureToggle, index int) string {
	if index < len(current.Environments) {
		return current.Environments[index].Key
	}
	if index < len(previous.Environments) {
		return previous.Environments[index].Key
	}
	return ""
}
