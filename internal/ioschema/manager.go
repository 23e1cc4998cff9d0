// Package ioschema implements the lifecycle.SchemaManager interface.
// This is an impure I/O package that wraps GORM AutoMigrate over the
// shared pgx pool.
package ioschema

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/stdlib"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/tunedb/tunedb/pkg/config"
	"github.com/tunedb/tunedb/pkg/db"
	"github.com/tunedb/tunedb/pkg/lifecycle"
	"github.com/tunedb/tunedb/pkg/schema"
)

// manager implements lifecycle.SchemaManager using GORM AutoMigrate.
type manager struct {
	operator db.Operator
}

// NewManager creates a new SchemaManager.
func NewManager(op db.Operator) lifecycle.SchemaManager {
	return &manager{operator: op}
}

// Create creates the initial database schema using GORM AutoMigrate.
func (m *manager) Create(
	ctx context.Context,
	cfg *config.Config,
) error {
	gormDB, err := m.gorm()
	if err != nil {
		return err
	}

	if err := schema.Migrate(gormDB.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// Migrate updates the database schema to the latest model definitions
// using GORM AutoMigrate.
func (m *manager) Migrate(
	ctx context.Context,
	cfg *config.Config,
) error {
	gormDB, err := m.gorm()
	if err != nil {
		return err
	}

	if err := schema.Migrate(gormDB.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}

	return nil
}

// gorm opens a GORM session over the operator's pgx pool.
func (m *manager) gorm() (*gorm.DB, error) {
	pool := m.operator.Pool()
	if pool == nil {
		return nil, fmt.Errorf("not connected to database")
	}

	sqlDB := stdlib.OpenDBFromPool(pool)

	gormDB, err := gorm.Open(
		postgres.New(postgres.Config{Conn: sqlDB}),
		&gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to open GORM connection: %w", err)
	}

	return gormDB, nil
}
