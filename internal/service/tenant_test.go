package service

import (
	"context"
	"testing"

	"togglekit/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTenantCreate(t *testing.T) {
	auditRepo := newMemAuditRepo()
	svc := NewTenantService(auditRepo, newMemTenantRepo())

	created, err := svc.Create(context.Background(), &model.Tenant{
		Key:   "acme",
		Name:  "Acme Corp",
		Users: []string{"Colleague@Example.com"},
	}, "founder@example.com")
	require.NoError(t, err)

	// The creator joins implicitly and identities are lower-cased.
	assert.Equal(t, []string{"colleague@example.com", "founder@example.com"}, created.Users)

	msgs := auditRepo.messages("acme")
	require.Len(t, msgs, 1)
	assert.Equal(t, "Tenant 'acme' was created.", msgs[0])
}

func TestTenantCreate_Conflict(t *testing.T) {
	svc := NewTenantService(newMemAuditRepo(), newMemTenantRepo())

	_, err := svc.Create(context.Background(), &model.Tenant{Key: "acme", Name: "Acme"}, "a@example.com")
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), &model.Tenant{Key: "acme", Name: "Other"}, "b@example.com")
	assert.ErrorIs(t, err, ErrConflict)
}

func TestTenantUpdate(t *testing.T) {
	auditRepo := newMemAuditRepo()
	svc := NewTenantService(auditRepo, newMemTenantRepo())

	_, err := svc.Create(context.Background(), &model.Tenant{Key: "acme", Name: "Acme"}, "member@example.com")
	require.NoError(t, err)

	t.Run("nonexistent tenant", func(t *testing.T) {
		_, err := svc.Update(context.Background(), &model.Tenant{Key: "ghost", Name: "Ghost"}, "member@example.com")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("non-member is rejected", func(t *testing.T) {
		_, err := svc.Update(context.Background(), &model.Tenant{Key: "acme", Name: "Hijacked"}, "stranger@example.com")
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("member updates", func(t *testing.T) {
		updated, err := svc.Update(context.Background(), &model.Tenant{
			Key:   "acme",
			Name:  "Acme Corporation",
			Users: []string{"member@example.com", "new@example.com"},
		}, "member@example.com")
		require.NoError(t, err)
		assert.Equal(t, "Acme Corporation", updated.Name)

		msgs := auditRepo.messages("acme")
		assert.Equal(t, "Tenant 'acme' was updated.", msgs[len(msgs)-1])
	})
}

func TestTenantFindAll(t *testing.T) {
	svc := NewTenantService(newMemAuditRepo(), newMemTenantRepo())

	_, err := svc.Create(context.Background(), &model.Tenant{Key: "acme", Name: "Acme"}, "me@example.com")
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), &model.Tenant{Key: "globex", Name: "Globex"}, "someone-else@example.com")
	require.NoError(t, err)

	mine, err := svc.FindAll(context.Background(), "me@example.com")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "acme", mine[0].Key)
}

func TestTenantFind_MembersOnly(t *testing.T) {
	svc := NewTenantService(newMemAuditRepo(), newMemTenantRepo())

	_, err := svc.Create(context.Background(), &model.Tenant{Key: "acme", Name: "Acme"}, "me@example.com")
	require.NoError(t, err)

	found, err := svc.Find(context.Background(), "acme", "me@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Acme", found.Name)

	_, err = svc.Find(context.Background(), "acme", "stranger@example.com")
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.Find(context.Background(), "ghost", "me@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}
