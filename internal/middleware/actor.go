package middleware

import (
	"context"
	"errors"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/yukikurage/task-tracker/internal/constants"
	"github.com/yukikurage/task-tracker/internal/models"
	"github.com/yukikurage/task-tracker/internal/services"
)

// UserLoader fetches a user by id.
type UserLoader interface {
	GetUser(ctx context.Context, userID uint64) (*models.User, error)
}

// LoadActor copies the acting user from the session into the request
// context. Requests without a session proceed anonymously, and a session
// naming a user that no longer exists is cleared.
func LoadActor(users UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userID, ok := toUserID(session.Get(constants.ContextKeyUserID))
		if !ok {
			c.Next()
			return
		}

		_, err := users.GetUser(c.Request.Context(), userID)
		switch {
		case err == nil:
			c.Set(constants.ContextKeyUserID, userID)
		case errors.Is(err, services.ErrUserNotFound):
			session.Delete(constants.ContextKeyUserID)
			if err := session.Save(); err != nil {
				_ = c.Error(err)
			}
		default:
			// lookup failed; continue anonymously
			_ = c.Error(err)
		}
		c.Next()
	}
}

// GetActorID retrieves the acting user ID from context
func GetActorID(c *gin.Context) (uint64, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}
	return toUserID(userID)
}

func toUserID(value any) (uint64, bool) {
	switch v := value.(type) {
	case uint64:
		return v, true
	case uint:
		return uint64(v), true
	case int:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	case int64:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	default:
		return 0, false
	}
}

// ActorOr returns explicit when set, otherwise the acting user, if any.
func ActorOr(c *gin.Context, explicit *uint64) *uint64 {
	if explicit != nil {
		return explicit
	}
	if id, ok := GetActorID(c); ok {
		return &id
	}
	return nil
}
