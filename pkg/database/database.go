package database

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/d60-Lab/jam/config"
	"github.com/d60-Lab/jam/internal/model"
)

// InitDB 连接 Postgres 并迁移全部表结构
func InitDB(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate 迁移业务表，测试用 sqlite 时也走这里
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Profile{},
		&model.Post{},
		&model.Like{},
		&model.Follow{},
		&model.Friend{},
		&model.Block{},
		&model.Conversation{},
		&model.Message{},
	); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}
