package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/yukikurage/task-tracker/internal/constants"
	"github.com/yukikurage/task-tracker/internal/dto"
	apierrors "github.com/yukikurage/task-tracker/internal/errors"
	"github.com/yukikurage/task-tracker/internal/middleware"
	"github.com/yukikurage/task-tracker/internal/services"
)

// SessionHandler manages the acting user stored in the session cookie.
// There are no passwords: the acting user only attributes activity entries.
type SessionHandler struct {
	userService *services.UserService
}

func NewSessionHandler(userService *services.UserService) *SessionHandler {
	return &SessionHandler{userService: userService}
}

// GetSession returns the acting user, or null when none is set or the
// user has since been deleted.
func (h *SessionHandler) GetSession(c *gin.Context) {
	userID, ok := middleware.GetActorID(c)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"user": nil})
		return
	}

	user, err := h.userService.GetUser(c.Request.Context(), userID)
	if errors.Is(err, services.ErrUserNotFound) {
		session := sessions.Default(c)
		session.Delete(constants.ContextKeyUserID)
		if err := session.Save(); err != nil {
			_ = c.Error(err)
		}
		c.JSON(http.StatusOK, gin.H{"user": nil})
		return
	}
	if err != nil {
		respondUserError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": dto.ToUserDTO(*user)})
}

// SetSession makes user_id the acting user.
func (h *SessionHandler) SetSession(c *gin.Context) {
	type SessionRequest struct {
		UserID *uint64 `json:"user_id"`
	}

	var req SessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}
	if req.UserID == nil {
		apierrors.MissingField(c, "user_id")
		return
	}

	user, err := h.userService.GetUser(c.Request.Context(), *req.UserID)
	if err != nil {
		respondUserError(c, err)
		return
	}

	session := sessions.Default(c)
	session.Set(constants.ContextKeyUserID, user.ID)
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to save session")
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": dto.ToUserDTO(*user)})
}

// ClearSession forgets the acting user.
func (h *SessionHandler) ClearSession(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to clear session")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Session cleared",
	})
}
