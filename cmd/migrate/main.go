package main

import (
	"context"
	"log"
	"strings"

	"novashop/internal/config"
	"novashop/internal/db"
	"novashop/migrations"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DB.DSN)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	defer pool.Close()

	if _, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			filename TEXT PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`); err != nil {
		log.Fatalf("ensure schema_migrations failed: %v", err)
	}

	names, err := migrations.Names()
	if err != nil {
		log.Fatalf("list migrations failed: %v", err)
	}

	for _, name := range names {
		applied, err := isApplied(ctx, pool, name)
		if err != nil {
			log.Fatalf("check %s failed: %v", name, err)
		}
		if applied {
			continue
		}
		if err := apply(ctx, pool, name); err != nil {
			log.Fatalf("apply %s failed: %v", name, err)
		}
		log.Printf("applied %s", name)
	}
}

func isApplied(ctx context.Context, pool *db.Pool, name string) (bool, error) {
	var exists bool
	row := pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE filename=$1)`, name)
	if err := row.Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// apply runs the migration and records it in the same transaction, so a
// failed statement never leaves the file half-marked.
func apply(ctx context.Context, pool *db.Pool, name string) error {
	data, err := migrations.Read(name)
	if err != nil {
		return err
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if sql := strings.TrimSpace(string(data)); sql != "" {
		if _, err := tx.Exec(ctx, sql); err != nil {
			return err
		}
	}
	if _, err := tx.Exec(ctx, `INSERT INTO schema_migrations (filename) VALUES ($1)`, name); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
