package server

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/yukikurage/task-tracker/internal/config"
	"github.com/yukikurage/task-tracker/internal/constants"
	"github.com/yukikurage/task-tracker/internal/handlers"
	"github.com/yukikurage/task-tracker/internal/middleware"
	"github.com/yukikurage/task-tracker/internal/services"
)

type RouterParams struct {
	fx.In

	Config       *config.Config
	Logger       *zap.Logger
	SessionStore sessions.Store
	Tasks        *services.TaskService
	Users        *services.UserService

	Health       *handlers.HealthHandler
	Task         *handlers.TaskHandler
	User         *handlers.UserHandler
	Notification *handlers.NotificationHandler
	Export       *handlers.ExportHandler
	Session      *handlers.SessionHandler
	Dashboard    *handlers.DashboardHandler
}

// NewSessionStore keeps sessions in Redis when REDIS_ADDR is set and in a
// signed cookie otherwise.
func NewSessionStore(cfg *config.Config) (sessions.Store, error) {
	var store sessions.Store
	if cfg.Redis.Addr != "" {
		rs, err := redisStore.NewStore(
			10,    // pool size
			"tcp", // network
			cfg.Redis.Addr,
			"", // username
			cfg.Redis.Password,
			[]byte(cfg.SessionSecret),
		)
		if err != nil {
			return nil, err
		}
		store = rs
	} else {
		store = cookie.NewStore([]byte(cfg.SessionSecret))
	}

	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   constants.SessionMaxAge,
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
	return store, nil
}

// NewRouter builds the gin engine with every API route registered.
func NewRouter(p RouterParams) *gin.Engine {
	gin.SetMode(p.Config.GinMode)

	r := gin.New()
	r.Use(
		gin.Recovery(),
		middleware.RequestLogger(p.Logger),
		sessions.Sessions(constants.SessionCookieName, p.SessionStore),
		middleware.LoadActor(p.Users),
	)

	r.GET("/health", p.Health.Health)
	r.GET("/export/csv", p.Export.ExportCSV)

	api := r.Group("/api")
	{
		tasks := api.Group("/tasks")
		{
			tasks.GET("", p.Task.ListTasks)
			tasks.POST("", p.Task.CreateTask)
			tasks.GET("/upcoming", p.Notification.UpcomingTasks)

			task := tasks.Group("/:id", middleware.RequireTask(p.Tasks))
			task.GET("", p.Task.GetTask)
			task.PUT("", p.Task.UpdateTask)
			task.DELETE("", p.Task.DeleteTask)
			task.POST("/assign", p.Task.AssignTask)
			task.GET("/activity", p.Task.ListActivity)
		}

		api.GET("/notifications", p.Notification.ListNotifications)
		api.POST("/notifications/sweep", p.Notification.SweepDeadlines)
		api.GET("/inbox", p.Notification.ListInbox)
		api.POST("/inbox/clear", p.Notification.ClearInbox)
		api.POST("/events", p.Notification.IngestEvent)
		api.GET("/activity", p.Notification.ListActivity)
		api.GET("/dashboard", p.Dashboard.Dashboard)

		users := api.Group("/users")
		{
			users.GET("", p.User.ListUsers)
			users.POST("", p.User.CreateUser)
			users.GET("/by-username/:username", p.User.GetUserByUsername)
			users.GET("/:id", p.User.GetUser)
			users.PUT("/:id", p.User.UpdateUser)
			users.DELETE("/:id", p.User.DeleteUser)
			users.GET("/:id/tasks", p.User.ListUserTasks)
		}

		session := api.Group("/session")
		{
			session.GET("", p.Session.GetSession)
			session.POST("", p.Session.SetSession)
			session.DELETE("", p.Session.ClearSession)
		}
	}

	return r
}
