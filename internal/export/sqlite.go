package export

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/Rana718/seedgraph/internal/seeder"
)

// ToSQLite creates the tables of data in the SQLite database at path and
// inserts every row in one transaction.
func ToSQLite(ctx context.Context, data seeder.Snapshot, order []string, path string) error {
	blocks, err := buildStatements(data, SQLOptions{Dialect: SQLite, Order: order, CreateTables: true, Batch: 100})
	if err != nil {
		return err
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return fmt.Errorf("failed to create SQLite database: %w", err)
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	for _, block := range blocks {
		for _, stmt := range block {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				tx.Rollback()
				return fmt.Errorf("failed to execute %q: %w", truncate(stmt, 80), err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
