package infra

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"gin-sessiongate/models"
)

// SetupDB opens the SQL backend selected by the store driver.
func SetupDB(cfg *Config) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	}

	switch cfg.Store.Driver {
	case DriverPostgres:
		dsn := fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s connect_timeout=10",
			cfg.Database.Host,
			cfg.Database.User,
			cfg.Database.Password,
			cfg.Database.Name,
			cfg.Database.Port,
			cfg.Database.SSLMode,
		)
		db, err := gorm.Open(postgres.Open(dsn), gormCfg)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		logrus.Infof("Setup postgres database: host=%s dbname=%s", cfg.Database.Host, cfg.Database.Name)
		return db, nil
	case DriverSQLite:
		db, err := OpenSQLite(cfg.Database.SQLitePath)
		if err != nil {
			return nil, err
		}
		logrus.Infof("Setup sqlite database: %s", cfg.Database.SQLitePath)
		return db, nil
	default:
		return nil, fmt.Errorf("store driver %q has no SQL backend", cfg.Store.Driver)
	}
}

// OpenSQLite opens a SQLite database. ":memory:" yields a private in-memory
// database; the pool is pinned to one connection so every query sees it.
func OpenSQLite(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("connect sqlite: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("sqlite handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}

// Migrate creates the user and blacklist tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.User{}, &models.BlacklistedToken{}); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}
	return nil
}
