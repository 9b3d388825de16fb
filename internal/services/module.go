package services

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/yukikurage/task-tracker/internal/config"
	"github.com/yukikurage/task-tracker/internal/events"
	"github.com/yukikurage/task-tracker/internal/inbox"
	"github.com/yukikurage/task-tracker/internal/repository"
)

// Module provides all services. The NotificationService doubles as the
// events.Handler that receives published task events.
var Module = fx.Module("services",
	fx.Provide(
		NewTaskService,
		NewUserService,
		NewExportService,
		newConfiguredNotificationService,
		asEventHandler,
	),
)

func newConfiguredNotificationService(
	cfg *config.Config,
	taskRepo repository.TaskRepository,
	activityRepo repository.ActivityRepository,
	store inbox.Store,
	logger *zap.Logger,
) *NotificationService {
	return NewNotificationService(taskRepo, activityRepo, store, logger, cfg.Notifications.WindowDays)
}

func asEventHandler(s *NotificationService) events.Handler {
	return s
}
