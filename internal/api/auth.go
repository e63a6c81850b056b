package api

import (
	"github.com/gin-gonic/gin"

	"valet-board-backend/internal/auth"
	"valet-board-backend/internal/mw"
)

const identityKey = "identity"

// Identify resolves the caller's identity and stores it on the context. A
// request that fails to resolve still proceeds: it carries the zero identity,
// which every mutation path rejects as read-only.
func (h *Handler) Identify() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := h.resolver.Resolve(c.Request)
		if !ok {
			id = auth.Identity{TenantID: h.defaultStore}
		}
		if id.TenantID == "" {
			id.TenantID = h.defaultStore
		}
		c.Set(identityKey, id)
		c.Set(mw.RoleKey, string(id.EffectiveRole))
		c.Next()
	}
}

func identity(c *gin.Context) auth.Identity {
	if v, ok := c.Get(identityKey); ok {
		if id, ok := v.(auth.Identity); ok {
			return id
		}
	}
	return auth.Identity{}
}
