package main

import (
	"context"

	"github.com/sirupsen/logrus"

	"gin-sessiongate/infra"
	"gin-sessiongate/repositories"
)

// Creates the SQL schema and prunes blacklist rows that have outlived their
// token. Redis needs neither.
func main() {
	infra.LoadEnvFiles()

	cfg, err := infra.LoadConfig()
	if err != nil {
		logrus.Fatalf("load config: %v", err)
	}
	if cfg.Store.Driver == infra.DriverRedis {
		logrus.Info("redis store has no schema to migrate")
		return
	}

	db, err := infra.SetupDB(cfg)
	if err != nil {
		logrus.Fatalf("open database: %v", err)
	}
	if err := infra.Migrate(db); err != nil {
		logrus.Fatalf("migrate: %v", err)
	}

	removed, err := repositories.NewTokenRepository(db).CleanExpiredTokens(context.Background())
	if err != nil {
		logrus.Fatalf("prune blacklist: %v", err)
	}
	logrus.Infof("migration done, pruned %d expired blacklist rows", removed)
}
