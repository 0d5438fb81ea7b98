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
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// stubToggleService scripts one response per operation and records the
// arguments handlers pass through.
type stubToggleService struct {
	enabled    bool
	enabledErr error
	toggle     *model.FeatureToggle
	toggles    []*model.FeatureToggle
	err        error

	gotKey      string
	gotEnvKey   string
	gotConsumer string
	gotTenantID string
}

func (s *stubToggleService) Enabled(_ context.Context, key, environmentKey, consumer, tenantID string) (bool, error) {
	s.gotKey, s.gotEnvKey, s.gotConsumer, s.gotTenantID = key, environmentKey, consumer, tenantID
	return s.enabled, s.enabledErr
}

func (s *stubToggleService) Create(_ context.Context, toggle *model.FeatureToggle, _, tenantID string) (*model.FeatureToggle, error) {
	s.gotKey, s.gotTenantID = toggle.Key, tenantID
	return toggle, s.err
}

func (s *stubToggleService) Find(_ context.Context, key, _, tenantID string) (*model.FeatureToggle, error) {
	s.gotKey, s.gotTenantID = key, tenantID
	return s.toggle, s.err
}

func (s *stubToggleService) FindAll(_ context.Context, _ bool, _, tenantID string) ([]*model.FeatureToggle, error) {
	s.gotTenantID = tenantID
	return s.toggles, s.err
}

func (s *stubToggleService) Update(_ context.Context, toggle *model.FeatureToggle, _, tenantID string) (*model.FeatureToggle, error) {
	s.gotKey, s.gotTenantID = toggle.Key, tenantID
	return toggle, s.err
}

func toggleRouter(h *ToggleHandler) *gin.Engine {
	router := gin.New()
	router.GET("/api/:tenantId/feature-toggle/:key/enabled/:environmentKey/:consumer", h.Enabled)
	router.GET("/api/:tenantId/feature-toggle/:key", h.Get)
	router.POST("/api/:tenantId/feature-toggle/:key", h.Create)
	router.PUT("/api/:tenantId/feature-toggle/:key", h.Update)
	return router
}

func TestEnabledEndpoint(t *testing.T) {
	svc := &stubToggleService{enabled: true}
	router := toggleRouter(NewToggleHandler(svc))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/acme/feature-toggle/Checkout/enabled/Production/Svc-A", nil))

	require.Equal(t, http.StatusOK, w.Code)
	// The body is the bare boolean, not an object.
	assert.Equal(t, "true", strings.TrimSpace(w.Body.String()))

	// Path parameters reach the service lower-cased.
	assert.Equal(t, "checkout", svc.gotKey)
	assert.Equal(t, "production", svc.gotEnvKey)
	assert.Equal(t, "svc-a", svc.gotConsumer)
	assert.Equal(t, "acme", svc.gotTenantID)
}

func TestEnabledEndpoint_NotFound(t *testing.T) {
	svc := &stubToggleService{enabledErr: service.ErrNotFound}
	router := toggleRouter(NewToggleHandler(svc))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/acme/feature-toggle/ghost/enabled/production/svc-a", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateEndpoint_Conflict(t *testing.T) {
	svc := &stubToggleService{err: service.ErrConflict}
	router := toggleRouter(NewToggleHandler(svc))

	body := strings.NewReader(`{"name":"Checkout","environments":[]}`)
	req := httptest.NewRequest(http.MethodPost, "/api/acme/feature-toggle/checkout", body)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusSeeOther, w.Code)
}

func TestCreateEndpoint_InvalidBody(t *testing.T) {
	router := toggleRouter(NewToggleHandler(&stubToggleService{}))

	// Name is required.
	req := httptest.NewRequest(http.MethodPost, "/api/acme/feature-toggle/checkout", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateEndpoint_NotFound(t *testing.T) {
	svc := &stubToggleService{err: service.ErrNotFound}
	router := toggleRouter(NewToggleHandler(svc))

	req := httptest.NewRequest(http.MethodPut, "/api/acme/feature-toggle/ghost", strings.NewReader(`{"name":"Ghost"}`))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetEndpoint_NotFound(t *testing.T) {
	svc := &stubToggleService{err: service.ErrNotFound}
	router := toggleRouter(NewToggleHandler(svc))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/acme/feature-toggle/ghost", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}
