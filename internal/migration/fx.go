package migration

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/roomlylabs/roomly/internal/config"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		return Run(conn, cfg.Database.Driver)
	}),
)
