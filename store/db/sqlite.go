package db

import (
	"context"
	"database/sql"
	"embed"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite"

	"github.com/the-web-girl/My-Library-App/version"
)

type DB struct {
	*sql.DB
}

func NewDB(path string) (*DB, error) {
	if path == "" {
		return nil, errors.New("database path is required")
	}

	d, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open database %s", path)
	}

	// One writer at a time keeps sqlite happy under the single-session
	// write model.
	d.SetMaxOpenConns(1)

	return &DB{d}, nil
}

func (d *DB) Close() error {
	return d.DB.Close()
}

//go:embed migration
var migrationFS embed.FS

const latestSchemaFileName = "migration/LATEST_SCHEMA.sql"

// Migrate applies the latest schema to the database when the books
// table does not exist yet and records the version that created it.
func (d *DB) Migrate(ctx context.Context) error {
	var name string
	err := d.DB.QueryRowContext(ctx,
		"SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'books'").Scan(&name)
	if err == nil {
		return nil
	}
	if err != sql.ErrNoRows {
		return errors.Wrap(err, "failed to inspect schema")
	}

	if err := d.applyLatestSchema(ctx); err != nil {
		return errors.Wrap(err, "failed to apply latest schema")
	}
	if _, err := d.UpsertMigrationHistory(ctx, version.GetCurrentVersion()); err != nil {
		return errors.Wrap(err, "failed to upsert migration history")
	}
	return nil
}

func (d *DB) applyLatestSchema(ctx context.Context) error {
	buf, err := migrationFS.ReadFile(latestSchemaFileName)
	if err != nil {
		return errors.Wrapf(err, "failed to read latest schema %q", latestSchemaFileName)
	}
	if _, err := d.DB.ExecContext(ctx, string(buf)); err != nil {
		return errors.Wrap(err, "failed to execute schema statements")
	}
	return nil
}
