package server

import (
	"strings"

	obsctx "github.com/AvantStark/avant-stark-contract/internal/observability/context"
	"github.com/gin-gonic/gin"
)

const actorHeader = "X-Actor"

// ActorMiddleware lifts the caller identity from the X-Actor header onto
// the request context. Operations that need an identity reject requests
// without one; reads work anonymously.
func ActorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := strings.TrimSpace(c.GetHeader(actorHeader))
		if actor != "" {
			c.Set("actor", actor)
			c.Request = c.Request.WithContext(obsctx.WithActor(c.Request.Context(), actor))
		}
		c.Next()
	}
}
