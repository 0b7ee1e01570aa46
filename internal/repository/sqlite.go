package repository

import (
	"fmt"

	"gorm.io/driver/sqlite"

	"github.com/kyro-pay/gateway/pkg/logger"
)

// NewSQLiteDB opens a SQLite database at path. A single connection is used so
// that concurrent writers queue instead of failing with SQLITE_BUSY.
func NewSQLiteDB(path string, logger *logger.Logger) (*DB, error) {
	db, err := open(sqlite.Open(path), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database %s: %w", path, err)
	}
	sqlDB, err := db.Conn.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database connection: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	logger.Info("Successfully opened SQLite database", "path", path)
	return db, nil
}
