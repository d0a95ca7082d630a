// Package store picks the domain.Store backend named by the config.
package store

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/sudo-init-do/workhub/internal/config"
	"github.com/sudo-init-do/workhub/internal/db"
	"github.com/sudo-init-do/workhub/internal/domain"
	"github.com/sudo-init-do/workhub/internal/store/memory"
	"github.com/sudo-init-do/workhub/internal/store/postgres"
)

// Open connects the configured backend. Postgres is migrated first when
// AUTO_MIGRATE is set.
func Open(ctx context.Context, cfg *config.Config, log logrus.FieldLogger) (domain.Store, error) {
	switch cfg.Storage {
	case config.StorageMemory:
		log.Warn("using in-memory storage, data is lost on restart")
		return memory.New(), nil
	case config.StoragePostgres:
		if cfg.AutoMigrate {
			if err := db.Migrate(cfg.DSN(), log); err != nil {
				return nil, err
			}
		}
		pool, err := db.Connect(ctx, cfg.DSN(), int32(cfg.DBMaxConns), log)
		if err != nil {
			return nil, err
		}
		return postgres.New(pool), nil
	default:
		return nil, fmt.Errorf("unknown storage %q", cfg.Storage)
	}
}
