package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/kestrelhq/model-registry/internal/core/domain"
)

// EntitlementKey is the gin context key holding the caller's resolved
// entitlement scope.
const EntitlementKey = "entitlement"

// Entitlement builds the caller's scope from request headers. The provider
// key header is hashed downstream for cache partitioning, never logged or
// stored raw.
func Entitlement() gin.HandlerFunc {
	return func(c *gin.Context) {
		scope := &domain.EntitlementContext{
			Provider:    domain.Provider(c.GetHeader("X-Provider")),
			APIKey:      c.GetHeader("X-Provider-Key"),
			AccountID:   c.GetHeader("X-Account-Id"),
			Region:      c.GetHeader("X-Region"),
			Environment: c.GetHeader("X-Environment"),
			TenantID:    c.GetHeader("X-Tenant-Id"),
			UserID:      c.GetHeader("X-User-Id"),
		}
		c.Set(EntitlementKey, scope)
		c.Next()
	}
}

// ScopeFrom retrieves the entitlement scope installed by Entitlement, nil when
// the middleware did not run.
func ScopeFrom(c *gin.Context) *domain.EntitlementContext {
	if value, ok := c.Get(EntitlementKey); ok {
		if scope, ok := value.(*domain.EntitlementContext); ok {
			return scope
		}
	}
	return nil
}
