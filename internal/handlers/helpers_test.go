package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/yukikurage/task-tracker/internal/constants"
	"github.com/yukikurage/task-tracker/internal/events"
	"github.com/yukikurage/task-tracker/internal/inbox"
	"github.com/yukikurage/task-tracker/internal/models"
	"github.com/yukikurage/task-tracker/internal/repository"
	"github.com/yukikurage/task-tracker/internal/services"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// testServices wires the real services onto a test database, with events
// delivered in-process to the notification inbox.
type testServices struct {
	tasks         *services.TaskService
	users         *services.UserService
	notifications *services.NotificationService
	export        *services.ExportService
	store         *inbox.MemoryStore
}

func newTestServices(db *gorm.DB) testServices {
	taskRepo := repository.NewTaskRepository(db)
	userRepo := repository.NewUserRepository(db)
	activityRepo := repository.NewActivityRepository(db)

	store := inbox.NewMemoryStore(100)
	notifications := services.NewNotificationService(taskRepo, activityRepo, store, zap.NewNop(), 7)
	publisher := events.NewLocalPublisher()
	publisher.Bind(notifications)

	return testServices{
		tasks:         services.NewTaskService(taskRepo, userRepo, activityRepo, publisher, zap.NewNop()),
		users:         services.NewUserService(userRepo),
		notifications: notifications,
		export:        services.NewExportService(taskRepo),
		store:         store,
	}
}

// newTestContext builds a request context. body is sent verbatim as JSON when non-empty.
func newTestContext(method, url, body string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, url, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	return c, w
}

// setTaskContext simulates the RequireTask middleware
func setTaskContext(c *gin.Context, task models.Task) {
	c.Set(constants.ContextKeyTask, task)
	c.Params = gin.Params{{Key: "id", Value: strconv.FormatUint(task.ID, 10)}}
}

func decodeBody(w *httptest.ResponseRecorder, v any) error {
	return json.Unmarshal(w.Body.Bytes(), v)
}
