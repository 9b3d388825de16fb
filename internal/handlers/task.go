package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yukikurage/task-tracker/internal/dto"
	apierrors "github.com/yukikurage/task-tracker/internal/errors"
	"github.com/yukikurage/task-tracker/internal/middleware"
	"github.com/yukikurage/task-tracker/internal/models"
	"github.com/yukikurage/task-tracker/internal/services"
	"github.com/yukikurage/task-tracker/internal/utils"
)

type TaskHandler struct {
	taskService *services.TaskService
}

func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// ListTasks returns all tasks, optionally filtered by status, priority and
// assignee. Pagination applies only when page or limit is given.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	var input services.ListTasksInput

	if v := c.Query("status"); v != "" {
		status := models.TaskStatus(v)
		if !status.IsValid() {
			apierrors.InvalidFormat(c, "status", services.ErrInvalidStatus.Error())
			return
		}
		input.Status = &status
	}
	if v := c.Query("priority"); v != "" {
		priority := models.TaskPriority(v)
		if !priority.IsValid() {
			apierrors.InvalidFormat(c, "priority", services.ErrInvalidPriority.Error())
			return
		}
		input.Priority = &priority
	}
	if v := c.Query("assigned_to"); v != "" {
		assignedTo, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			apierrors.InvalidFormat(c, "assigned_to", "Invalid assigned_to")
			return
		}
		input.AssignedTo = &assignedTo
	}
	if params, ok := utils.GetPaginationParams(c); ok {
		input.Page = params.Page
		input.PageSize = params.Limit
	}

	tasks, err := h.taskService.ListTasks(c.Request.Context(), input)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTOs(tasks))
}

// GetTask returns the task loaded by RequireTask
func (h *TaskHandler) GetTask(c *gin.Context) {
	task, ok := middleware.GetTask(c)
	if !ok {
		apierrors.InternalError(c, "Task not found in context")
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(task))
}

// CreateTask creates a new task. created_by defaults to the acting user.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	body, ok := bindRawBody(c)
	if !ok {
		return
	}
	if !body.has("title") || body.isNull("title") {
		apierrors.MissingField(c, "title")
		return
	}

	title, ok := decodeField[string](c, body, "title")
	if !ok {
		return
	}
	description, ok := decodeField[string](c, body, "description")
	if !ok {
		return
	}
	status, ok := decodeField[models.TaskStatus](c, body, "status")
	if !ok {
		return
	}
	priority, ok := decodeField[models.TaskPriority](c, body, "priority")
	if !ok {
		return
	}
	dueDate, ok := decodeTimestamp(c, body, "due_date")
	if !ok {
		return
	}
	assignedTo, ok := decodeField[uint64](c, body, "assigned_to")
	if !ok {
		return
	}
	createdBy, ok := decodeField[uint64](c, body, "created_by")
	if !ok {
		return
	}

	input := services.CreateTaskInput{
		Title:      *title,
		DueDate:    dueDate,
		AssignedTo: assignedTo,
		CreatedBy:  middleware.ActorOr(c, createdBy),
	}
	if description != nil {
		input.Description = *description
	}
	if status != nil {
		input.Status = *status
	}
	if priority != nil {
		input.Priority = *priority
	}

	task, err := h.taskService.CreateTask(c.Request.Context(), input)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// UpdateTask applies a partial update. Only fields present in the body are
// considered; null clears due_date and assigned_to.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	task, ok := middleware.GetTask(c)
	if !ok {
		apierrors.InternalError(c, "Task not found in context")
		return
	}

	body, ok := bindRawBody(c)
	if !ok {
		return
	}

	var input services.UpdateTaskInput

	if body.isNull("title") {
		apierrors.BadRequest(c, services.ErrTitleRequired.Error())
		return
	}
	if input.Title, ok = decodeField[string](c, body, "title"); !ok {
		return
	}
	if input.Description, ok = decodeField[string](c, body, "description"); !ok {
		return
	}
	if body.isNull("description") {
		empty := ""
		input.Description = &empty
	}
	if input.Status, ok = decodeField[models.TaskStatus](c, body, "status"); !ok {
		return
	}
	if input.Priority, ok = decodeField[models.TaskPriority](c, body, "priority"); !ok {
		return
	}
	if input.DueDate, ok = decodeTimestamp(c, body, "due_date"); !ok {
		return
	}
	input.ClearDueDate = body.has("due_date") && input.DueDate == nil
	if input.AssignedTo, ok = decodeField[uint64](c, body, "assigned_to"); !ok {
		return
	}
	input.ClearAssignee = body.has("assigned_to") && input.AssignedTo == nil

	updatedBy, ok := decodeField[uint64](c, body, "updated_by")
	if !ok {
		return
	}
	input.UpdatedBy = middleware.ActorOr(c, updatedBy)

	updated, err := h.taskService.UpdateTask(c.Request.Context(), task.ID, input)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*updated))
}

// DeleteTask deletes a task and its activity log
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	task, ok := middleware.GetTask(c)
	if !ok {
		apierrors.InternalError(c, "Task not found in context")
		return
	}

	if err := h.taskService.DeleteTask(c.Request.Context(), task.ID); err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Task deleted successfully",
	})
}

// AssignTask assigns the task to user_id, or unassigns it when user_id is null
func (h *TaskHandler) AssignTask(c *gin.Context) {
	task, ok := middleware.GetTask(c)
	if !ok {
		apierrors.InternalError(c, "Task not found in context")
		return
	}

	body, ok := bindRawBody(c)
	if !ok {
		return
	}
	if !body.has("user_id") {
		apierrors.MissingField(c, "user_id")
		return
	}

	userID, ok := decodeField[uint64](c, body, "user_id")
	if !ok {
		return
	}
	assignedBy, ok := decodeField[uint64](c, body, "assigned_by")
	if !ok {
		return
	}

	assigned, err := h.taskService.AssignTask(c.Request.Context(), services.AssignTaskInput{
		TaskID:     task.ID,
		UserID:     userID,
		AssignedBy: middleware.ActorOr(c, assignedBy),
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*assigned))
}

// ListActivity returns the task's activity log, newest first
func (h *TaskHandler) ListActivity(c *gin.Context) {
	task, ok := middleware.GetTask(c)
	if !ok {
		apierrors.InternalError(c, "Task not found in context")
		return
	}

	activities, err := h.taskService.ListTaskActivity(c.Request.Context(), task.ID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToActivityDTOs(activities))
}

func respondTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTaskNotFound),
		errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrTitleRequired),
		errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrInvalidPriority),
		errors.Is(err, services.ErrInvalidAssignee),
		errors.Is(err, services.ErrInvalidCreator):
		apierrors.BadRequest(c, err.Error())
	default:
		_ = c.Error(err)
		apierrors.InternalError(c, "Internal server error")
	}
}
