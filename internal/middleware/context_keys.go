package middleware

import "github.com/gin-gonic/gin"

// actorKey is the key used to store the acting user's name in the Gin context.
const actorKey = contextKey("actor")

// DefaultActor is used for audit fields when no actor header is supplied.
const DefaultActor = "system"

// ActorMiddleware records who is performing the request for audit fields,
// taken from the X-Actor header. Identity is not verified here; access
// control sits in front of this service.
func ActorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := c.GetHeader("X-Actor")
		if actor == "" {
			actor = DefaultActor
		}
		c.Set(string(actorKey), actor)
		c.Next()
	}
}

// GetActorFromContext retrieves the acting user's name from the Gin context.
func GetActorFromContext(c *gin.Context) string {
	actorVal, exists := c.Get(string(actorKey))
	if !exists {
		return DefaultActor
	}
	actor, ok := actorVal.(string)
	if !ok || actor == "" {
		return DefaultActor
	}
	return actor
}
