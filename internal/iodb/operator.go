// Package iodb implements database operations using pgxpool. This is
// an impure I/O package that implements contracts defined in pkg/.
package iodb

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tunedb/tunedb/pkg/config"
	"github.com/tunedb/tunedb/pkg/db"
)

// pgxOperator implements the db.Operator interface using pgxpool for
// connection pooling.
type pgxOperator struct {
	pool *pgxpool.Pool
}

// NewPgxOperator creates a new database operator (without connecting).
func NewPgxOperator() db.Operator {
	return &pgxOperator{}
}

// Connect establishes a connection pool to PostgreSQL. Pool settings
// are hardcoded to values that work well for a tool of this size.
func (p *pgxOperator) Connect(
	ctx context.Context,
	cfg *config.DatabaseConfig,
) error {
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.Database,
		cfg.SSLMode,
	)

	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return connectionError(cfg, err)
	}

	poolConfig.MaxConns = 10
	poolConfig.MinConns = 2

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return connectionError(cfg, err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return connectionError(cfg, err)
	}

	p.pool = pool
	return nil
}

// Close releases all database connections.
func (p *pgxOperator) Close() error {
	if p.pool != nil {
		p.pool.Close()
	}
	return nil
}

// Pool returns the underlying pgxpool.Pool for advanced operations.
func (p *pgxOperator) Pool() *pgxpool.Pool {
	return p.pool
}

// TableExists checks if a table exists in the current database.
func (p *pgxOperator) TableExists(
	ctx context.Context,
	tableName string,
) (bool, error) {
	if p.pool == nil {
		return false, errNotConnected
	}

	query := `
		SELECT EXISTS (
			SELECT FROM information_schema.tables
			WHERE table_schema = 'public'
			AND table_name = $1
		)
	`

	var exists bool
	err := p.pool.QueryRow(ctx, query, tableName).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf(
			"failed to check table %q: %w", tableName, err)
	}

	return exists, nil
}

// HasTables checks if the database has any tables in the public
// schema.
func (p *pgxOperator) HasTables(ctx context.Context) (bool, error) {
	if p.pool == nil {
		return false, errNotConnected
	}

	query := `
		SELECT EXISTS (
			SELECT FROM information_schema.tables
			WHERE table_schema = 'public'
		)
	`

	var hasTables bool
	err := p.pool.QueryRow(ctx, query).Scan(&hasTables)
	if err != nil {
		return false, fmt.Errorf("failed to check database tables: %w", err)
	}

	return hasTables, nil
}

// DropAllTables drops all tables in the public schema.
func (p *pgxOperator) DropAllTables(ctx context.Context) error {
	if p.pool == nil {
		return errNotConnected
	}

	query := `
		SELECT tablename
		FROM pg_tables
		WHERE schemaname = 'public'
	`

	rows, err := p.pool.Query(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to list tables: %w", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var tableName string
		if err := rows.Scan(&tableName); err != nil {
			return fmt.Errorf("failed to scan table name: %w", err)
		}
		tables = append(tables, tableName)
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to scan table names: %w", err)
	}

	for _, table := range tables {
		dropSQL := fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE", table)
		if _, err := p.pool.Exec(ctx, dropSQL); err != nil {
			return fmt.Errorf("failed to drop table %q: %w", table, err)
		}
	}

	return nil
}

// DropMaterializedViews drops all materialized views in the public
// schema.
func (p *pgxOperator) DropMaterializedViews(ctx context.Context) error {
	if p.pool == nil {
		return errNotConnected
	}

	query := `
		SELECT matviewname
		FROM pg_matviews
		WHERE schemaname = 'public'
	`

	rows, err := p.pool.Query(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to list materialized views: %w", err)
	}
	defer rows.Close()

	var views []string
	for rows.Next() {
		var viewName string
		if err := rows.Scan(&viewName); err != nil {
			return fmt.Errorf("failed to scan view name: %w", err)
		}
		views = append(views, viewName)
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to scan view names: %w", err)
	}

	for _, view := range views {
		dropSQL := fmt.Sprintf(
			"DROP MATERIALIZED VIEW IF EXISTS %s CASCADE", view)
		if _, err := p.pool.Exec(ctx, dropSQL); err != nil {
			return fmt.Errorf("failed to drop view %q: %w", view, err)
		}
	}

	return nil
}

// CreateMaterializedViews creates the reporting materialized views:
// genre_song_counts backs ad-hoc genre popularity inspection without
// touching the live association table.
func (p *pgxOperator) CreateMaterializedViews(ctx context.Context) error {
	if p.pool == nil {
		return errNotConnected
	}

	viewSQL := `CREATE MATERIALIZED VIEW genre_song_counts AS
SELECT g.id AS genre_id, g.name, COUNT(sg.song_id) AS songs
FROM genres g
JOIN song_genres sg ON sg.genre_id = g.id
GROUP BY g.id, g.name
ORDER BY songs DESC, g.name ASC`

	if _, err := p.pool.Exec(ctx, viewSQL); err != nil {
		return fmt.Errorf(
			"failed to create view genre_song_counts: %w", err)
	}

	indexes := []string{
		"CREATE INDEX ON genre_song_counts (genre_id)",
		"CREATE INDEX ON genre_song_counts (name)",
	}

	for _, idx := range indexes {
		if _, err := p.pool.Exec(ctx, idx); err != nil {
			return fmt.Errorf(
				"failed to index view genre_song_counts: %w", err)
		}
	}

	return nil
}
