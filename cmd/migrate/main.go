// Command migrate manages the storefront PostgreSQL schema.
package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	_ "github.com/lib/pq"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/infrastructure/migration"
	"github.com/storefront/backend/migrations"
	"go.uber.org/zap"
)

const defaultMigrationsPath = "migrations"

const usage = `Storefront Database Migration Tool

Usage:
  migrate [flags] <command> [arguments]

Commands:
  up                    Apply all pending migrations
  down                  Roll back all migrations
  step <n>              Apply n migrations (positive=up, negative=down)
  version               Show current migration version
  force <version>       Force set migration version (use with caution)
  create <name> [desc]  Create the next numbered migration file pair
  list                  List migrations in the source directory

Flags:
  -path string          Migrations directory (default: embedded set; ./migrations for create/list)
  -log-level string     Log level: debug, info, warn, error (default: info)

Environment Variables:
  STOREFRONT_DATABASE_HOST, STOREFRONT_DATABASE_PORT, STOREFRONT_DATABASE_USER,
  STOREFRONT_DATABASE_PASSWORD, STOREFRONT_DATABASE_DBNAME, STOREFRONT_DATABASE_SSLMODE`

var errUsage = errors.New("invalid usage")

// fileCommand works on the migrations directory and needs no database
type fileCommand func(log *zap.Logger, dir string, args []string) error

// dbCommand runs against the configured database
type dbCommand func(log *zap.Logger, m *migration.Migrator, args []string) error

var fileCommands = map[string]fileCommand{
	"create": createMigration,
	"list":   listMigrations,
}

var dbCommands = map[string]dbCommand{
	"up":      func(_ *zap.Logger, m *migration.Migrator, _ []string) error { return m.Up() },
	"down":    func(_ *zap.Logger, m *migration.Migrator, _ []string) error { return m.Down() },
	"step":    stepMigrations,
	"version": showVersion,
	"force":   forceVersion,
}

func main() {
	var (
		migrationsPath string
		logLevel       string
	)
	flag.StringVar(&migrationsPath, "path", "", "Read migrations from this directory instead of the embedded set")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.Usage = func() { fmt.Fprintln(os.Stderr, usage) }
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	log, err := logger.New(&logger.Config{
		Level:      logLevel,
		Format:     "console",
		Output:     "stdout",
		TimeFormat: logger.DefaultTimeFormat,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	if err := run(log, migrationsPath, args[0], args[1:]); err != nil {
		if errors.Is(err, errUsage) {
			log.Error(err.Error())
			flag.Usage()
			_ = logger.Sync(log)
			os.Exit(2)
		}
		log.Error("Migration command failed", zap.String("command", args[0]), zap.Error(err))
		_ = logger.Sync(log)
		os.Exit(1)
	}
	_ = logger.Sync(log)
}

func run(log *zap.Logger, migrationsPath, command string, args []string) error {
	if cmd, ok := fileCommands[command]; ok {
		dir := migrationsPath
		if dir == "" {
			dir = defaultMigrationsPath
		}
		return cmd(log, absPath(dir), args)
	}

	cmd, ok := dbCommands[command]
	if !ok {
		return fmt.Errorf("%w: unknown command %q", errUsage, command)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return fmt.Errorf("ping database: %w", err)
	}

	var m *migration.Migrator
	if migrationsPath != "" {
		m, err = migration.NewFromPath(db, absPath(migrationsPath), log)
	} else {
		m, err = migration.New(db, migrations.FS, log)
	}
	if err != nil {
		_ = db.Close()
		return err
	}
	// closes db as well
	defer m.Close()

	return cmd(log, m, args)
}

func createMigration(log *zap.Logger, dir string, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: migration name required", errUsage)
	}
	description := ""
	if len(args) > 1 {
		description = args[1]
	}

	mf, err := migration.CreateMigration(dir, args[0], description)
	if err != nil {
		return err
	}
	log.Info("Migration created",
		zap.String("version", mf.Version),
		zap.String("up_file", mf.UpPath),
		zap.String("down_file", mf.DownPath),
	)
	return nil
}

func listMigrations(log *zap.Logger, dir string, _ []string) error {
	names, err := migration.ListMigrations(dir)
	if err != nil {
		return err
	}
	log.Info("Available migrations", zap.String("dir", dir), zap.Int("count", len(names)))
	for _, name := range names {
		fmt.Println("  -", name)
	}
	return nil
}

func stepMigrations(_ *zap.Logger, m *migration.Migrator, args []string) error {
	n, err := intArg(args, "step count")
	if err != nil {
		return err
	}
	return m.Steps(n)
}

func showVersion(log *zap.Logger, m *migration.Migrator, _ []string) error {
	version, dirty, err := m.Version()
	if err != nil {
		return err
	}
	log.Info("Current migration version", zap.Uint("version", version), zap.Bool("dirty", dirty))
	return nil
}

func forceVersion(_ *zap.Logger, m *migration.Migrator, args []string) error {
	version, err := intArg(args, "version")
	if err != nil {
		return err
	}
	return m.Force(version)
}

func intArg(args []string, name string) (int, error) {
	if len(args) == 0 {
		return 0, fmt.Errorf("%w: %s required", errUsage, name)
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("%w: invalid %s %q", errUsage, name, args[0])
	}
	return n, nil
}

func absPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}
