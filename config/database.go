package config

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/andrewpaige1/tcm-study-api/logger"
	"github.com/andrewpaige1/tcm-study-api/models"
)

// Connect opens the configured database and migrates the schema. gorm's
// own log lines go through log.
func Connect(env Environment, log *logger.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch env.DBDriver {
	case "sqlite":
		dialector = sqlite.Open(env.DBURL)
	default:
		dialector = postgres.Open(env.DBURL)
	}

	level := gormlogger.Warn
	if !env.IsDevelopment {
		level = gormlogger.Error
	}
	gormLog := gormlogger.New(log.Named("gorm"), gormlogger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
	})
	db, err := gorm.Open(dialector, &gorm.Config{Logger: gormLog})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.User{}, &models.Record{}, &models.QuizScore{}); err != nil {
		return fmt.Errorf("failed to auto migrate database: %w", err)
	}
	return nil
}
