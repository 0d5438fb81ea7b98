package api

import (
	"net/http"
	"strings"

	"togglekit/internal/middleware"
	"togglekit/internal/repository"

	"github.com/gin-gonic/gin"
)

type AuditHandler struct {
	auditRepo repository.AuditInterface
}

func NewAuditHandler(auditRepo repository.AuditInterface) *AuditHandler {
	return &AuditHandler{auditRepo: auditRepo}
}

// List returns the tenant's most recent audit records, optionally
// filtered to one user.
func (h *AuditHandler) List(c *gin.Context) {
	tenantID := middleware.TenantID(c)

	if user := c.Query("user"); user != "" {
		records, err := h.auditRepo.FindAllByUser(c.Request.Context(), strings.ToLower(user), tenantID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, records)
		return
	}

	records, err := h.auditRepo.FindAll(c.Request.Context(), tenantID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, records)
}
