package repository

import (
	"fmt"
	"time"

	"go-barcode-generator/internal/config"
	"go-barcode-generator/internal/logger"
	"go-barcode-generator/internal/models"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

type Database struct {
	*gorm.DB
}

// DSN builds the MySQL connection string for cfg.
func DSN(cfg *config.DatabaseConfig) string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.Username,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.Database,
	)
}

// NewDatabase opens the history database and migrates its table. Statements
// are traced through log.
func NewDatabase(cfg *config.DatabaseConfig, log *logger.StructuredLogger) (*Database, error) {
	db, err := gorm.Open(mysql.Open(DSN(cfg)), &gorm.Config{
		Logger:                 NewQueryLogger(log),
		SkipDefaultTransaction: true,
		CreateBatchSize:        100,
		NamingStrategy: schema.NamingStrategy{
			SingularTable: true,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	poolSize := cfg.PoolSize
	if poolSize < 2 {
		poolSize = 2
	}
	sqlDB.SetMaxIdleConns(poolSize / 2)
	sqlDB.SetMaxOpenConns(poolSize)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	if err := db.AutoMigrate(&models.GenerationRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate history table: %w", err)
	}

	return &Database{db}, nil
}

func (db *Database) Close() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping checks the connection, for the health endpoint.
func (db *Database) Ping() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
