package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yukikurage/task-tracker/internal/constants"
	"github.com/yukikurage/task-tracker/internal/deadline"
	"github.com/yukikurage/task-tracker/internal/dto"
	"github.com/yukikurage/task-tracker/internal/services"
)

type DashboardHandler struct {
	taskService         *services.TaskService
	notificationService *services.NotificationService
}

func NewDashboardHandler(taskService *services.TaskService, notificationService *services.NotificationService) *DashboardHandler {
	return &DashboardHandler{
		taskService:         taskService,
		notificationService: notificationService,
	}
}

// DashboardResponse is the landing page view of the tracker
type DashboardResponse struct {
	Tasks          []dto.TaskDTO           `json:"tasks"`
	Notifications  []deadline.Notification `json:"notifications"`
	RecentActivity []dto.ActivityDTO       `json:"recent_activity"`
}

// Dashboard returns every task, the deadline notices for the configured
// window and the latest activity entries.
func (h *DashboardHandler) Dashboard(c *gin.Context) {
	ctx := c.Request.Context()

	tasks, err := h.taskService.ListTasks(ctx, services.ListTasksInput{})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	notices, err := h.notificationService.UpcomingDeadlines(ctx, h.notificationService.WindowDays())
	if err != nil {
		respondNotificationError(c, err)
		return
	}

	activities, err := h.notificationService.RecentActivity(ctx, constants.DashboardActivityLimit)
	if err != nil {
		respondNotificationError(c, err)
		return
	}

	c.JSON(http.StatusOK, DashboardResponse{
		Tasks:          dto.ToTaskDTOs(tasks),
		Notifications:  notices,
		RecentActivity: dto.ToActivityDTOs(activities),
	})
}
