package database

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/LFCunha10/lisbonlovesme-sub000/config"
	"github.com/LFCunha10/lisbonlovesme-sub000/logger"
	"github.com/LFCunha10/lisbonlovesme-sub000/model"
)

var DB *gorm.DB

// Models lists every table managed by AutoMigrate.
var Models = []any{
	&model.AdminUser{},
	&model.AdminSetting{},
	&model.Tour{},
	&model.Availability{},
	&model.DiscountCode{},
	&model.Booking{},
	&model.ClosedDay{},
	&model.Notification{},
	&model.ContactMessage{},
	&model.Device{},
	&model.Testimonial{},
	&model.Article{},
	&model.GalleryImage{},
	&model.Document{},
	&model.OutboxMessage{},
}

func ConnectDB(ctx context.Context, cfg *config.Settings) error {
	gormCfg := &gorm.Config{}
	if !cfg.App.IsDevelopment() {
		gormCfg.Logger = gormlogger.Default.LogMode(gormlogger.Warn)
	}

	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), gormCfg)
	if err != nil {
		return fmt.Errorf("failed to connect database: %w", err)
	}
	logger.Log.Info("connection opened to database", zap.String("host", cfg.Database.Host), zap.String("name", cfg.Database.Name))

	if err := Migrate(db); err != nil {
		return err
	}
	if err := RunSeedMigrations(ctx, db); err != nil {
		return err
	}
	if cfg.App.IsDevelopment() {
		SeedData(db)
	}

	DB = db
	return nil
}

// Migrate creates or updates the schema of every model.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models...); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	logger.Log.Info("database migrated")
	return nil
}
