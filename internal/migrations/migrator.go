package migrations

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"pulse/internal/database"
)

// Migration identifies one schema migration by file name
type Migration struct {
	Name string `json:"name"`
}

// Migrator lists and applies pending migrations
type Migrator struct {
	db database.Service
}

// NewMigrator creates a new migrator
func NewMigrator(db database.Service) *Migrator {
	return &Migrator{db: db}
}

// Pending returns the migrations that have not been applied yet,
// without running them.
func (m *Migrator) Pending(ctx context.Context) ([]Migration, error) {
	if err := m.ensureTable(ctx); err != nil {
		return nil, err
	}

	applied, err := m.appliedSet(ctx)
	if err != nil {
		return nil, err
	}

	names, err := migrationNames()
	if err != nil {
		return nil, err
	}

	pending := []Migration{}
	for _, name := range names {
		if !applied[name] {
			pending = append(pending, Migration{Name: name})
		}
	}
	return pending, nil
}

// Apply runs every pending migration in order and records it. It
// returns the migrations applied by this call.
func (m *Migrator) Apply(ctx context.Context) ([]Migration, error) {
	pending, err := m.Pending(ctx)
	if err != nil {
		return nil, err
	}

	for _, migration := range pending {
		contents, err := files.ReadFile(migration.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to read migration %s: %w", migration.Name, err)
		}

		if _, err := m.db.Exec(ctx, string(contents)); err != nil {
			return nil, fmt.Errorf("failed to run migration %s: %w", migration.Name, err)
		}

		_, err = m.db.Exec(ctx,
			`INSERT INTO schema_migrations (name) VALUES ($1)`, migration.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to record migration %s: %w", migration.Name, err)
		}
	}

	return pending, nil
}

func (m *Migrator) ensureTable(ctx context.Context) error {
	_, err := m.db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			name text PRIMARY KEY,
			run_on timestamptz NOT NULL DEFAULT timezone('utc', now())
		)`)
	if err != nil {
		return fmt.Errorf("failed to ensure schema_migrations table: %w", err)
	}
	return nil
}

func (m *Migrator) appliedSet(ctx context.Context) (map[string]bool, error) {
	rows, err := m.db.Query(ctx, `SELECT name FROM schema_migrations`)
	if err != nil {
		return nil, fmt.Errorf("failed to list applied migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		applied[name] = true
	}
	return applied, rows.Err()
}

func migrationNames() ([]string, error) {
	entries, err := files.ReadDir(".")
	if err != nil {
		return nil, fmt.Errorf("failed to list embedded migrations: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".sql") {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}
