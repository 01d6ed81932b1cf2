package database

import (
	"context"
	"database/sql"
	"fmt"

	"syfw-todo/internal/schema"
	"syfw-todo/pkg/logger"
)

// Migrate creates the tables and indexes of the given entities if they do not
// exist. All statements run in one transaction.
func Migrate(ctx context.Context, db *sql.DB, entities ...schema.Entity) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin migration: %w", err)
	}
	defer tx.Rollback()

	for _, e := range entities {
		if _, err := tx.ExecContext(ctx, e.CreateTableSQL()); err != nil {
			return fmt.Errorf("create table %s: %w", e.Table, err)
		}
		for _, stmt := range e.CreateIndexSQL() {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("create index on %s: %w", e.Table, err)
			}
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migration: %w", err)
	}
	logger.Info(ctx, "Schema ensured", "entities", len(entities))
	return nil
}

// MigrateOrCreateSchema ensures every declared entity exists.
func MigrateOrCreateSchema(ctx context.Context, db *sql.DB) error {
	return Migrate(ctx, db, schema.All()...)
}
