package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yukikurage/task-tracker/internal/constants"
	"github.com/yukikurage/task-tracker/internal/dto"
	apierrors "github.com/yukikurage/task-tracker/internal/errors"
	"github.com/yukikurage/task-tracker/internal/events"
	"github.com/yukikurage/task-tracker/internal/services"
	"github.com/yukikurage/task-tracker/internal/utils"
)

// NotificationHandler serves deadline notices, the activity feed and the
// event inbox.
type NotificationHandler struct {
	notificationService *services.NotificationService
}

func NewNotificationHandler(notificationService *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
	}
}

// ListNotifications returns a deadline notice for every task due within the window
func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	days := utils.GetDays(c, "days", h.notificationService.WindowDays())

	notices, err := h.notificationService.UpcomingDeadlines(c.Request.Context(), days)
	if err != nil {
		respondNotificationError(c, err)
		return
	}
	c.JSON(http.StatusOK, notices)
}

// UpcomingTasks returns the tasks due within the window, earliest first
func (h *NotificationHandler) UpcomingTasks(c *gin.Context) {
	days := utils.GetDays(c, "days", h.notificationService.WindowDays())

	tasks, err := h.notificationService.UpcomingTasks(c.Request.Context(), days)
	if err != nil {
		respondNotificationError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToTaskDTOs(tasks))
}

// ListActivity returns the most recent activity across all tasks
func (h *NotificationHandler) ListActivity(c *gin.Context) {
	limit := utils.GetLimit(c, "limit", constants.DefaultActivityLimit, constants.MaxActivityLimit)

	activities, err := h.notificationService.RecentActivity(c.Request.Context(), limit)
	if err != nil {
		respondNotificationError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToActivityDTOs(activities))
}

// ListInbox returns stored notifications, newest first. It never fails.
func (h *NotificationHandler) ListInbox(c *gin.Context) {
	limit := utils.GetLimit(c, "limit", constants.DefaultActivityLimit, h.notificationService.InboxCapacity())
	c.JSON(http.StatusOK, h.notificationService.Inbox(c.Request.Context(), limit))
}

func (h *NotificationHandler) ClearInbox(c *gin.Context) {
	if err := h.notificationService.ClearInbox(c.Request.Context()); err != nil {
		respondNotificationError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Notifications cleared",
	})
}

// IngestEvent stores a notification for an externally produced task event
func (h *NotificationHandler) IngestEvent(c *gin.Context) {
	type EventRequest struct {
		EventType string         `json:"event_type"`
		Payload   events.Payload `json:"payload"`
	}

	var req EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}
	if req.EventType == "" {
		apierrors.MissingField(c, "event_type")
		return
	}

	evt := events.NewEvent(req.EventType, req.Payload)
	if err := h.notificationService.HandleEvent(c.Request.Context(), evt); err != nil {
		respondNotificationError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "processed",
	})
}

// SweepDeadlines pushes the current deadline notices into the inbox
func (h *NotificationHandler) SweepDeadlines(c *gin.Context) {
	count, err := h.notificationService.SweepDeadlines(c.Request.Context())
	if err != nil {
		respondNotificationError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count": count,
	})
}

func respondNotificationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrUnknownEventType):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrInboxUnavailable):
		_ = c.Error(err)
		apierrors.ServiceUnavailable(c, services.ErrInboxUnavailable.Error())
	default:
		_ = c.Error(err)
		apierrors.InternalError(c, "Internal server error")
	}
}
