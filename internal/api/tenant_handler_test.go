package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"togglekit/internal/model"
	"togglekit/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type stubTenantService struct {
	tenant  *model.Tenant
	tenants []*model.Tenant
	err     error
}

func (s *stubTenantService) Create(_ context.Context, tenant *model.Tenant, _ string) (*model.Tenant, error) {
	return tenant, s.err
}

func (s *stubTenantService) Find(_ context.Context, _, _ string) (*model.Tenant, error) {
	return s.tenant, s.err
}

func (s *stubTenantService) FindAll(_ context.Context, _ string) ([]*model.Tenant, error) {
	return s.tenants, s.err
}

func (s *stubTenantService) Update(_ context.Context, tenant *model.Tenant, _ string) (*model.Tenant, error) {
	return tenant, s.err
}

func tenantRouter(h *TenantHandler) *gin.Engine {
	router := gin.New()
	router.GET("/api/tenant", h.List)
	router.GET("/api/tenant/:key", h.Get)
	router.POST("/api/tenant", h.Create)
	router.PUT("/api/tenant", h.Update)
	return router
}

func TestTenantGet_StatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"not found", service.ErrNotFound, http.StatusNotFound},
		{"forbidden", service.ErrForbidden, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := tenantRouter(NewTenantHandler(&stubTenantService{err: tt.err}))
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/tenant/acme", nil))
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestTenantCreate_Conflict(t *testing.T) {
	router := tenantRouter(NewTenantHandler(&stubTenantService{err: service.ErrConflict}))

	req := httptest.NewRequest(http.MethodPost, "/api/tenant", strings.NewReader(`{"key":"acme","name":"Acme"}`))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusSeeOther, w.Code)
}

func TestTenantCreate_InvalidBody(t *testing.T) {
	router := tenantRouter(NewTenantHandler(&stubTenantService{}))

	req := httptest.NewRequest(http.MethodPost, "/api/tenant", strings.NewReader(`{"name":"Acme"}`))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
