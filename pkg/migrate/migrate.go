package migrate

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/pressly/goose/v3"
)

// DefaultDir is where new migrations are written, relative to the repo root.
const DefaultDir = "pkg/migrate/migrations"

//go:embed migrations/*.sql
var embedded embed.FS

// Embedded returns the migrations compiled into the binary.
func Embedded() fs.FS {
	sub, err := fs.Sub(embedded, "migrations")
	if err != nil {
		panic(err)
	}
	return sub
}

// Runner applies goose migrations against Postgres. sqlite databases are
// migrated from the models instead, see AutoMigrateModels.
type Runner struct {
	provider *goose.Provider
}

// NewRunner reads migrations from dir, or from the embedded set when dir is empty.
func NewRunner(db *sql.DB, dir string) (*Runner, error) {
	if db == nil {
		return nil, errors.New("db is required")
	}
	fsys := Embedded()
	if dir != "" {
		fsys = os.DirFS(dir)
	}
	provider, err := goose.NewProvider(goose.DialectPostgres, db, fsys)
	if err != nil {
		return nil, fmt.Errorf("goose provider: %w", err)
	}
	return &Runner{provider: provider}, nil
}

func (r *Runner) Up(ctx context.Context) ([]*goose.MigrationResult, error) {
	results, err := r.provider.Up(ctx)
	if err != nil {
		return results, fmt.Errorf("goose up: %w", err)
	}
	return results, nil
}

func (r *Runner) Down(ctx context.Context) (*goose.MigrationResult, error) {
	result, err := r.provider.Down(ctx)
	if err != nil {
		return result, fmt.Errorf("goose down: %w", err)
	}
	return result, nil
}

func (r *Runner) Status(ctx context.Context) ([]*goose.MigrationStatus, error) {
	statuses, err := r.provider.Status(ctx)
	if err != nil {
		return nil, fmt.Errorf("goose status: %w", err)
	}
	return statuses, nil
}

// To moves the schema up or down to version (YYYYMMDDHHMMSS).
func (r *Runner) To(ctx context.Context, version string) ([]*goose.MigrationResult, error) {
	target, err := strconv.ParseInt(version, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid version %q: %w", version, err)
	}
	current, err := r.provider.GetDBVersion(ctx)
	if err != nil {
		return nil, fmt.Errorf("read db version: %w", err)
	}

	switch {
	case current == target:
		return nil, nil
	case current < target:
		return r.provider.UpTo(ctx, target)
	default:
		return r.provider.DownTo(ctx, target)
	}
}
