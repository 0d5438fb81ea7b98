package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"togglekit/internal/dto/req"
	"togglekit/internal/model"
	"togglekit/internal/service"

	"github.com/gin-gonic/gin"
)

// TenantProvider is the service surface the tenant routes need.
type TenantProvider interface {
	Create(ctx context.Context, tenant *model.Tenant, user string) (*model.Tenant, error)
	Find(ctx context.Context, key, user string) (*model.Tenant, error)
	FindAll(ctx context.Context, user string) ([]*model.Tenant, error)
	Update(ctx context.Context, tenant *model.Tenant, user string) (*model.Tenant, error)
}

type TenantHandler struct {
	service TenantProvider
}

func NewTenantHandler(service TenantProvider) *TenantHandler {
	return &TenantHandler{service: service}
}

func (h *TenantHandler) List(c *gin.Context) {
	tenants, err := h.service.FindAll(c.Request.Context(), service.Identity(c.Request.Context()))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, tenants)
}

func (h *TenantHandler) Get(c *gin.Context) {
	tenant, err := h.service.Find(
		c.Request.Context(),
		strings.ToLower(c.Param("key")),
		service.Identity(c.Request.Context()),
	)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, tenant)
}

func (h *TenantHandler) Create(c *gin.Context) {
	var r req.Tenant
	if err := c.ShouldBindJSON(&r); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	created, err := h.service.Create(c.Request.Context(), r.Model(), service.Identity(c.Request.Context()))
	if errors.Is(err, service.ErrConflict) {
		c.Status(http.StatusSeeOther)
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, created)
}

func (h *TenantHandler) Update(c *gin.Context) {
	var r req.Tenant
	if err := c.ShouldBindJSON(&r); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	updated, err := h.service.Update(c.Request.Context(), r.Model(), service.Identity(c.Request.Context()))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *TenantHandler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.Status(http.StatusNotFound)
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
