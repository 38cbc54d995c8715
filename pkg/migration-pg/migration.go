package migrationpg

import (
	"context"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/muhammadchandra19/spot-exchange/pkg/logger"
	"github.com/muhammadchandra19/spot-exchange/pkg/postgresql"
)

// Migration represents a database migration
type Migration struct {
	ID      string
	Name    string
	UpSQL   string
	DownSQL string
}

// Runner handles PostgreSQL migration execution
type Runner struct {
	client    postgresql.PostgreSQLClient
	logger    logger.Interface
	source    fs.FS
	schema    string
	tableName string
}

// Config for migration runner
type Config struct {
	// Source holds the *.up.sql / *.down.sql files, usually an embed.FS.
	Source    fs.FS
	Schema    string // PostgreSQL schema name (default: "public")
	TableName string // Migration table name (default: "schema_migrations")
}

// NewRunner creates a new migration runner for PostgreSQL
func NewRunner(client postgresql.PostgreSQLClient, log logger.Interface, config Config) *Runner {
	if config.Schema == "" {
		config.Schema = "public"
	}
	if config.TableName == "" {
		config.TableName = "schema_migrations"
	}

	return &Runner{
		client:    client,
		logger:    log,
		source:    config.Source,
		schema:    config.Schema,
		tableName: config.TableName,
	}
}

func (r *Runner) table() string {
	return r.schema + "." + r.tableName
}

// EnsureMigrationTable creates the schema_migrations table if it doesn't exist
func (r *Runner) EnsureMigrationTable(ctx context.Context) error {
	_, err := r.client.Exec(ctx, fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id VARCHAR(255) PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			applied_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
		)`, r.table()))
	return err
}

// AppliedMigrations returns the set of applied migration IDs
func (r *Runner) AppliedMigrations(ctx context.Context) (map[string]bool, error) {
	rows, err := r.client.Query(ctx, fmt.Sprintf("SELECT id FROM %s", r.table()))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applied := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		applied[id] = true
	}
	return applied, rows.Err()
}

// LoadMigrations reads every migration of the source, ordered by id.
// Ids are the file names without the .up.sql suffix, e.g. 0001_ledger.
func (r *Runner) LoadMigrations() ([]Migration, error) {
	upFiles, err := fs.Glob(r.source, "*.up.sql")
	if err != nil {
		return nil, err
	}
	sort.Strings(upFiles)

	migrations := make([]Migration, 0, len(upFiles))
	for _, upFile := range upFiles {
		up, err := fs.ReadFile(r.source, upFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read migration %s: %w", upFile, err)
		}

		id := strings.TrimSuffix(path.Base(upFile), ".up.sql")
		name := id
		if _, rest, ok := strings.Cut(id, "_"); ok {
			name = rest
		}

		m := Migration{ID: id, Name: name, UpSQL: strings.TrimSpace(string(up))}
		if down, err := fs.ReadFile(r.source, id+".down.sql"); err == nil {
			m.DownSQL = strings.TrimSpace(string(down))
		}
		migrations = append(migrations, m)
	}
	return migrations, nil
}

// MigrateUp applies pending migrations. steps <= 0 applies all of them.
func (r *Runner) MigrateUp(ctx context.Context, steps int) error {
	migrations, err := r.LoadMigrations()
	if err != nil {
		return err
	}
	applied, err := r.AppliedMigrations(ctx)
	if err != nil {
		return err
	}

	var pending []Migration
	for _, m := range migrations {
		if !applied[m.ID] {
			pending = append(pending, m)
		}
	}
	if steps > 0 && len(pending) > steps {
		pending = pending[:steps]
	}

	for _, m := range pending {
		if m.UpSQL == "" {
			r.logger.Warn("Migration has no up statements", logger.NewField("migration", m.ID))
			continue
		}

		err := postgresql.WithTx(ctx, r.client, func(txCtx context.Context) error {
			if _, err := r.client.Exec(txCtx, m.UpSQL); err != nil {
				return err
			}
			_, err := r.client.Exec(txCtx,
				fmt.Sprintf("INSERT INTO %s (id, name, applied_at) VALUES ($1, $2, NOW())", r.table()),
				m.ID, m.Name,
			)
			return err
		})
		if err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", m.ID, err)
		}
		r.logger.Info("Applied migration", logger.NewField("migration", m.ID))
	}

	return nil
}

// MigrateDown reverts the last steps applied migrations.
func (r *Runner) MigrateDown(ctx context.Context, steps int) error {
	if steps <= 0 {
		return fmt.Errorf("steps must be greater than 0 for down migrations")
	}

	migrations, err := r.LoadMigrations()
	if err != nil {
		return err
	}
	applied, err := r.AppliedMigrations(ctx)
	if err != nil {
		return err
	}

	var revert []Migration
	for i := len(migrations) - 1; i >= 0 && len(revert) < steps; i-- {
		if applied[migrations[i].ID] {
			revert = append(revert, migrations[i])
		}
	}

	for _, m := range revert {
		if m.DownSQL == "" {
			return fmt.Errorf("no DOWN SQL found for migration %s - cannot revert", m.ID)
		}

		err := postgresql.WithTx(ctx, r.client, func(txCtx context.Context) error {
			if _, err := r.client.Exec(txCtx, m.DownSQL); err != nil {
				return err
			}
			_, err := r.client.Exec(txCtx, fmt.Sprintf("DELETE FROM %s WHERE id = $1", r.table()), m.ID)
			return err
		})
		if err != nil {
			return fmt.Errorf("failed to revert migration %s: %w", m.ID, err)
		}
		r.logger.Info("Reverted migration", logger.NewField("migration", m.ID))
	}

	return nil
}
