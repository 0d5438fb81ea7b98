package middleware

import (
	"net/http"

	"togglekit/internal/repository"
	"togglekit/internal/service"

	"github.com/gin-gonic/gin"
)

// DefaultTenantID partitions all data when multi-tenancy is disabled.
const DefaultTenantID = "default-tenant-id"

// TenantID returns the tenant identifier for the request.
func TenantID(c *gin.Context) string {
	if tenantID := c.Param("tenantId"); tenantID != "" {
		return tenantID
	}
	return DefaultTenantID
}

// TenantMembership rejects callers whose identity is not a member of
// the addressed tenant. With multi-tenancy disabled there is no tenant
// record to check against and every caller passes.
func TenantMembership(tenantRepo repository.TenantInterface, multiTenancyEnabled bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !multiTenancyEnabled {
			c.Next()
			return
		}

		tenant, err := tenantRepo.Find(c.Request.Context(), TenantID(c))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		identity := service.Identity(c.Request.Context())
		if tenant == nil || !tenant.HasUser(identity) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}

		c.Next()
	}
}
