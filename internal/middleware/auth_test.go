package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"togglekit/internal/auth"
	"togglekit/internal/model"
	"togglekit/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// identityEcho terminates the chain and reports the identity the
// middleware injected.
func identityEcho(c *gin.Context) {
	c.String(http.StatusOK, service.Identity(c.Request.Context()))
}

func TestAuthentication_Unconfigured(t *testing.T) {
	router := gin.New()
	router.GET("/whoami", Authentication(auth.NewVerifier()), identityEcho)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, auth.DevIdentity, w.Body.String())
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"", ""},
		{"Bearer abc.def.ghi", "abc.def.ghi"},
		{"bearer abc.def.ghi", "abc.def.ghi"},
		{"Basic dXNlcjpwYXNz", ""},
		{"Bearer", ""},
		{"Bearer too many parts", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, bearerToken(tt.header), "header %q", tt.header)
	}
}

type stubTenantRepo struct {
	tenants map[string]*model.Tenant
}

func (r *stubTenantRepo) Create(_ context.Context, tenant *model.Tenant) (*model.Tenant, error) {
	r.tenants[tenant.Key] = tenant
	return tenant, nil
}

func (r *stubTenantRepo) Find(_ context.Context, key string) (*model.Tenant, error) {
	return r.tenants[key], nil
}

func (r *stubTenantRepo) FindAll(_ context.Context, user string) ([]*model.Tenant, error) {
	out := make([]*model.Tenant, 0)
	for _, tenant := range r.tenants {
		if tenant.HasUser(user) {
			out = append(out, tenant)
		}
	}
	return out, nil
}

func (r *stubTenantRepo) Update(_ context.Context, tenant *model.Tenant) (*model.Tenant, error) {
	r.tenants[tenant.Key] = tenant
	return tenant, nil
}

func membershipRouter(repo *stubTenantRepo, enabled bool) *gin.Engine {
	router := gin.New()
	router.GET("/api/:tenantId/resource",
		func(c *gin.Context) {
			ctx := service.WithIdentity(c.Request.Context(), "member@example.com")
			c.Request = c.Request.WithContext(ctx)
		},
		TenantMembership(repo, enabled),
		func(c *gin.Context) { c.Status(http.StatusOK) },
	)
	return router
}

func TestTenantMembership(t *testing.T) {
	repo := &stubTenantRepo{tenants: map[string]*model.Tenant{
		"acme": {Key: "acme", Name: "Acme", Users: []string{"member@example.com"}},
	}}

	tests := []struct {
		name    string
		enabled bool
		path    string
		status  int
	}{
		{"member passes", true, "/api/acme/resource", http.StatusOK},
		{"unknown tenant", true, "/api/ghost/resource", http.StatusForbidden},
		{"disabled skips the check", false, "/api/ghost/resource", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := membershipRouter(repo, tt.enabled)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestTenantMembership_NonMember(t *testing.T) {
	repo := &stubTenantRepo{tenants: map[string]*model.Tenant{
		"acme": {Key: "acme", Name: "Acme", Users: []string{"someone-else@example.com"}},
	}}

	router := membershipRouter(repo, true)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/acme/resource", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestTenantID_Default(t *testing.T) {
	router := gin.New()
	router.GET("/plain", func(c *gin.Context) {
		c.String(http.StatusOK, TenantID(c))
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/plain", nil))
	assert.Equal(t, DefaultTenantID, w.Body.String())
}
