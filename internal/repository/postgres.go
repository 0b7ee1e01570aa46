package repository

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/kyro-pay/gateway/internal/models"
	"github.com/kyro-pay/gateway/pkg/logger"
)

// DB is the gorm backed models.Repository. The same implementation serves
// PostgreSQL in production and SQLite in development and tests.
type DB struct {
	logger *logger.Logger

	Conn *gorm.DB
}

func NewPostgresDB(user, password, dbname, host string, port int, logger *logger.Logger) (*DB, error) {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable",
		host, user, password, dbname, port)

	db, err := open(postgres.Open(dsn), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	logger.Info("Successfully connected to PostgreSQL!")
	return db, nil
}

func open(dialector gorm.Dialector, logger *logger.Logger) (*DB, error) {
	// Configure GORM logger to suppress "record not found" messages
	gormLogger := gormLogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormLogger.Config{
			SlowThreshold:             200 * time.Millisecond, // Log queries slower than this
			LogLevel:                  gormLogger.Warn,        // Only log warnings or errors
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)
	conn, err := gorm.Open(dialector, &gorm.Config{
		Logger:         gormLogger,
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, err
	}

	if err := conn.AutoMigrate(
		&models.BlockchainNetwork{},
		&models.CryptoToken{},
		&models.Wallet{},
		&models.Payment{},
		&models.Transaction{},
		&models.AppLock{},
	); err != nil {
		return nil, fmt.Errorf("failed to auto-migrate models: %w", err)
	}
	return &DB{Conn: conn, logger: logger}, nil
}

func (db *DB) Close() error {
	sqlDB, err := db.Conn.DB()
	if err != nil {
		return fmt.Errorf("failed to get database connection: %w", err)
	}
	return sqlDB.Close()
}

func (db *DB) Ping(ctx context.Context) error {
	sqlDB, err := db.Conn.DB()
	if err != nil {
		return fmt.Errorf("failed to get database connection: %w", err)
	}
	return sqlDB.PingContext(ctx)
}
