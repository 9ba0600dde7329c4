package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/charlesng35/nebula/internal/auditctx"
)

// ActorHeader names the operator a request acts on behalf of. Authentication
// happens upstream; the value is only recorded in the audit log.
const ActorHeader = "X-Nebula-Actor"

// Actor propagates the caller identity into the request context so services
// can attribute audit entries.
func Actor() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := auditctx.NewActor(c.GetHeader(ActorHeader), c.ClientIP(), c.Request.UserAgent())
		c.Request = c.Request.WithContext(auditctx.WithActor(c.Request.Context(), actor))
		c.Next()
	}
}
