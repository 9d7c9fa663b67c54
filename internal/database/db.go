package database

import (
	"context"
	"fmt"

	"github.com/jinzhu/gorm"
	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// MemoryDSN keeps the whole database in process memory
const MemoryDSN = ":memory:"

var DB *gorm.DB

// Open connects to the database. An in-memory sqlite database lives on a
// single connection, so the pool is capped at one.
func Open(driver, dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", driver, err)
	}
	if driver == "sqlite3" {
		db.DB().SetMaxOpenConns(1)
	}
	db.LogMode(false)
	return db, nil
}

// OpenMemory opens a fresh in-memory sqlite database
func OpenMemory() (*gorm.DB, error) {
	return Open("sqlite3", MemoryDSN)
}

// InitDB initializes the shared database connection
func InitDB(driver, dsn string) error {
	db, err := Open(driver, dsn)
	if err != nil {
		return err
	}
	DB = db
	return nil
}

// GetDB returns the shared database instance
func GetDB() *gorm.DB {
	return DB
}

// CloseDB closes the shared database connection
func CloseDB() error {
	if DB != nil {
		return DB.Close()
	}
	return nil
}

// Migrate creates or updates the tables for models
func Migrate(db *gorm.DB, models ...interface{}) error {
	if err := db.AutoMigrate(models...).Error; err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// SeedIfEmpty inserts rows when the table for model has no rows yet
func SeedIfEmpty(db *gorm.DB, model interface{}, rows func(tx *gorm.DB) error) error {
	var count int
	if err := db.Model(model).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count rows: %w", err)
	}
	if count > 0 {
		return nil
	}

	tx := db.Begin()
	if err := rows(tx); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to seed: %w", err)
	}
	return tx.Commit().Error
}

// Conn returns db for use under ctx. jinzhu/gorm cannot interrupt a running
// statement, so a cancelled or expired ctx is reported before the statement
// starts. The context is also attached to the scope as "ctx" for callbacks.
func Conn(ctx context.Context, db *gorm.DB) (*gorm.DB, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return db.Set("ctx", ctx), nil
}
