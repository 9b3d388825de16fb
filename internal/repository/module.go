package repository

import "go.uber.org/fx"

// Module provides the gorm repositories
var Module = fx.Module("repository",
	fx.Provide(
		NewTaskRepository,
		NewUserRepository,
		NewActivityRepository,
	),
)
