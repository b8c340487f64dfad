package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"jobboard_backend/internal/auth"
	"jobboard_backend/internal/logger"
	"jobboard_backend/internal/models"
	"jobboard_backend/pkg/contextkeys"
)

// AuthMiddleware - middleware проверки JWT. Кладет актора в контекст
// gin и запроса; дальше авторизует не роль, а гейт в сервисах.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header missing or invalid"})
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := auth.ParseToken(tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		actor := auth.Actor{ID: claims.UserID, Role: claims.Role}
		c.Set(string(contextkeys.ActorContextKey), actor)

		ctx := logger.WithUserID(c.Request.Context(), actor.ID)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RequireRoles проверяет роль до входа в хендлер. Грубый фильтр
// на уровне роутов; точные решения принимает гейт.
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	roleSet := make(map[models.UserRole]bool)
	for _, r := range roles {
		roleSet[r] = true
	}

	return func(c *gin.Context) {
		actor, ok := ActorFromContext(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied: no actor"})
			return
		}

		if !roleSet[actor.Role] {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied: insufficient role"})
			return
		}

		c.Next()
	}
}

// ActorFromContext извлекает актора, положенного AuthMiddleware.
func ActorFromContext(c *gin.Context) (auth.Actor, bool) {
	val, exists := c.Get(string(contextkeys.ActorContextKey))
	if !exists {
		return auth.Actor{}, false
	}

	actor, ok := val.(auth.Actor)
	if !ok {
		return auth.Actor{}, false
	}
	return actor, true
}
