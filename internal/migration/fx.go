package migration

import (
	"github.com/smallbiznis/replate/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg db.Config, log *zap.Logger) error {
		sqlDB, err := conn.DB()
		if err != nil {
			return err
		}

		if err := RunMigrations(sqlDB, cfg.Type); err != nil {
			return err
		}
		log.Info("schema migrations applied", zap.String("dialect", cfg.Type))
		return nil
	}),
)
