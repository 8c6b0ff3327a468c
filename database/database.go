package database

import (
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"storefront-cms/config"
	"storefront-cms/internal/domain/page"
)

var DB *gorm.DB

func InitDB() {
	dsn := config.DB_URL
	if dsn == "" {
		logrus.Fatal("❌ DB_URL not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		// Unique violations come back as gorm.ErrDuplicatedKey.
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		logrus.WithError(err).Fatal("❌ Failed to connect to database")
	}

	DB = db

	if err := DB.AutoMigrate(&page.Page{}); err != nil {
		logrus.WithError(err).Fatal("❌ AutoMigrate error")
	}

	logrus.Info("✅ Connected and migrated successfully")
}
