package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"togglekit/internal/dto/req"
	"togglekit/internal/middleware"
	"togglekit/internal/model"
	"togglekit/internal/service"

	"github.com/gin-gonic/gin"
)

// ToggleProvider is the service surface the toggle routes need.
type ToggleProvider interface {
	Enabled(ctx context.Context, key, environmentKey, consumer, tenantID string) (bool, error)
	Create(ctx context.Context, toggle *model.FeatureToggle, user, tenantID string) (*model.FeatureToggle, error)
	Find(ctx context.Context, key, user, tenantID string) (*model.FeatureToggle, error)
	FindAll(ctx context.Context, includeArchived bool, user, tenantID string) ([]*model.FeatureToggle, error)
	Update(ctx context.Context, toggle *model.FeatureToggle, user, tenantID string) (*model.FeatureToggle, error)
}

type ToggleHandler struct {
	service ToggleProvider
}

func NewToggleHandler(service ToggleProvider) *ToggleHandler {
	return &ToggleHandler{service: service}
}

// Enabled is the unauthenticated runtime evaluation endpoint. The
// response body is the bare boolean.
func (h *ToggleHandler) Enabled(c *gin.Context) {
	result, err := h.service.Enabled(
		c.Request.Context(),
		strings.ToLower(c.Param("key")),
		strings.ToLower(c.Param("environmentKey")),
		strings.ToLower(c.Param("consumer")),
		middleware.TenantID(c),
	)
	if errors.Is(err, service.ErrNotFound) {
		c.Status(http.StatusNotFound)
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *ToggleHandler) List(c *gin.Context) {
	includeArchived := c.Query("includeArchived") == "true"

	toggles, err := h.service.FindAll(
		c.Request.Context(),
		includeArchived,
		service.Identity(c.Request.Context()),
		middleware.TenantID(c),
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, toggles)
}

func (h *ToggleHandler) Get(c *gin.Context) {
	toggle, err := h.service.Find(
		c.Request.Context(),
		strings.ToLower(c.Param("key")),
		service.Identity(c.Request.Context()),
		middleware.TenantID(c),
	)
	if errors.Is(err, service.ErrNotFound) {
		c.Status(http.StatusNotFound)
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, toggle)
}

func (h *ToggleHandler) Create(c *gin.Context) {
	var r req.FeatureToggle
	if err := c.ShouldBindJSON(&r); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	toggle := r.Model()
	toggle.Key = strings.ToLower(c.Param("key"))

	created, err := h.service.Create(
		c.Request.Context(),
		toggle,
		service.Identity(c.Request.Context()),
		middleware.TenantID(c),
	)
	if errors.Is(err, service.ErrConflict) {
		c.Status(http.StatusSeeOther)
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, created)
}

func (h *ToggleHandler) Update(c *gin.Context) {
	var r req.FeatureToggle
	if err := c.ShouldBindJSON(&r); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	toggle := r.Model()
	toggle.Key = strings.ToLower(c.Param("key"))

	updated, err := h.service.Update(
		c.Request.Context(),
		toggle,
		service.Identity(c.Request.Context()),
		middleware.TenantID(c),
	)
	if errors.Is(err, service.ErrNotFound) {
		c.Status(http.StatusNotFound)
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, updated)
}
