package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/yukikurage/task-tracker/internal/config"
	"github.com/yukikurage/task-tracker/internal/database"
	"github.com/yukikurage/task-tracker/internal/handlers"
	"github.com/yukikurage/task-tracker/internal/inbox"
	"github.com/yukikurage/task-tracker/internal/repository"
	"github.com/yukikurage/task-tracker/internal/services"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()

	db, err := database.NewInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { database.Close(db) })

	cfg := &config.Config{GinMode: gin.TestMode, SessionSecret: "test-secret"}
	store, err := NewSessionStore(cfg)
	require.NoError(t, err)

	log := zap.NewNop()
	taskRepo := repository.NewTaskRepository(db)
	userRepo := repository.NewUserRepository(db)
	activityRepo := repository.NewActivityRepository(db)

	tasks := services.NewTaskService(taskRepo, userRepo, activityRepo, nil, log)
	users := services.NewUserService(userRepo)
	notifications := services.NewNotificationService(taskRepo, activityRepo, inbox.NewMemoryStore(10), log, 7)

	return NewRouter(RouterParams{
		Config:       cfg,
		Logger:       log,
		SessionStore: store,
		Tasks:        tasks,
		Users:        users,
		Health:       handlers.NewHealthHandler(db, log),
		Task:         handlers.NewTaskHandler(tasks),
		User:         handlers.NewUserHandler(users, tasks),
		Notification: handlers.NewNotificationHandler(notifications),
		Export:       handlers.NewExportHandler(services.NewExportService(taskRepo)),
		Session:      handlers.NewSessionHandler(users),
		Dashboard:    handlers.NewDashboardHandler(tasks, notifications),
	})
}

func serve(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRouter_Routes(t *testing.T) {
	r := newTestRouter(t)

	require.Equal(t, http.StatusCreated, serve(r, http.MethodPost, "/api/tasks", `{"title":"Routed"}`).Code)
	require.Equal(t, http.StatusCreated, serve(r, http.MethodPost, "/api/users", `{"username":"alice","email":"alice@example.com"}`).Code)

	tests := []struct {
		method   string
		path     string
		body     string
		wantCode int
	}{
		{http.MethodGet, "/health", "", http.StatusOK},
		{http.MethodGet, "/api/tasks", "", http.StatusOK},
		{http.MethodGet, "/api/tasks/upcoming", "", http.StatusOK},
		{http.MethodGet, "/api/tasks/1", "", http.StatusOK},
		{http.MethodGet, "/api/tasks/2", "", http.StatusNotFound},
		{http.MethodGet, "/api/tasks/abc", "", http.StatusBadRequest},
		{http.MethodPut, "/api/tasks/1", `{"priority":"high"}`, http.StatusOK},
		{http.MethodPost, "/api/tasks/1/assign", `{"user_id":1}`, http.StatusOK},
		{http.MethodGet, "/api/tasks/1/activity", "", http.StatusOK},
		{http.MethodGet, "/api/notifications", "", http.StatusOK},
		{http.MethodPost, "/api/notifications/sweep", "", http.StatusOK},
		{http.MethodGet, "/api/inbox", "", http.StatusOK},
		{http.MethodPost, "/api/events", `{"event_type":"task_created","payload":{"task_title":"X"}}`, http.StatusOK},
		{http.MethodPost, "/api/inbox/clear", "", http.StatusOK},
		{http.MethodGet, "/api/activity", "", http.StatusOK},
		{http.MethodGet, "/api/dashboard", "", http.StatusOK},
		{http.MethodGet, "/export/csv", "", http.StatusOK},
		{http.MethodGet, "/api/users", "", http.StatusOK},
		{http.MethodGet, "/api/users/1", "", http.StatusOK},
		{http.MethodGet, "/api/users/by-username/alice", "", http.StatusOK},
		{http.MethodGet, "/api/users/1/tasks", "", http.StatusOK},
		{http.MethodGet, "/api/session", "", http.StatusOK},
		{http.MethodDelete, "/api/tasks/1", "", http.StatusOK},
		{http.MethodDelete, "/api/users/1", "", http.StatusOK},
	}

	for _, tt := range tests {
		w := serve(r, tt.method, tt.path, tt.body)
		assert.Equal(t, tt.wantCode, w.Code, "%s %s: %s", tt.method, tt.path, w.Body.String())
	}
}

func TestNewSessionStore_Cookie(t *testing.T) {
	store, err := NewSessionStore(&config.Config{SessionSecret: "secret"})
	require.NoError(t, err)
	assert.NotNil(t, store)
}
