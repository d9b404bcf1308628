// Package db opens the database connection and keeps the schema current
package db

import (
	"fmt"
	"neurodrafts/notes-api/model"

	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// New opens the configured database (sqlite by default, postgres for
// real deployments) and automigrates all tables. The gorm error
// translator is enabled so driver specific constraint violations
// surface as gorm sentinel errors.
func New() (*gorm.DB, error) {
	var dial gorm.Dialector

	dsn := viper.GetString("database.dsn")

	switch viper.GetString("database.driver") {
	case "postgres":
		dial = postgres.Open(dsn)
	default:
		dial = sqlite.Open(dsn)
	}

	db, err := gorm.Open(dial, &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database, %w", err)
	}

	err = db.AutoMigrate(
		model.User{},
		model.EmailCode{},
		model.Folder{},
		model.Note{},
		model.File{},
		model.DemoSession{},
		model.DemoBan{},
		model.ContactMessage{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to automigrate tables, %w", err)
	}

	return db, nil
}
