package handlers

import "go.uber.org/fx"

// Module provides all handlers
var Module = fx.Module("handlers",
	fx.Provide(
		NewHealthHandler,
		NewTaskHandler,
		NewUserHandler,
		NewNotificationHandler,
		NewExportHandler,
		NewSessionHandler,
		NewDashboardHandler,
	),
)
