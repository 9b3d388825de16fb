package database

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/yukikurage/task-tracker/internal/config"
)

var Module = fx.Module("database",
	fx.Provide(NewDB),
)

// NewDB connects, migrates and closes the pool when the app stops.
func NewDB(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	db, err := Connect(cfg, log)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return Close(db)
		},
	})
	return db, nil
}
