// Command migrate manages the consignment schema. Schema commands talk to
// the database named by the CONSIGN_DATABASE_* settings; create and list only
// touch the migrations directory.
package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"

	"github.com/consignly/backend/internal/infrastructure/config"
	"github.com/consignly/backend/internal/infrastructure/logger"
	"github.com/consignly/backend/internal/infrastructure/migration"
	"github.com/consignly/backend/migrations"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

// schemaCommand runs against an open migrator; args excludes the command name
type schemaCommand struct {
	usage string
	run   func(m *migration.Migrator, log *zap.Logger, args []string) error
}

var schemaCommands = map[string]schemaCommand{
	"up":   {"up                    Apply all pending migrations", func(m *migration.Migrator, _ *zap.Logger, _ []string) error { return m.Up() }},
	"down": {"down                  Roll back every migration", func(m *migration.Migrator, _ *zap.Logger, _ []string) error { return m.Down() }},
	"steps": {"steps <n>             Apply n migrations, negative rolls back", func(m *migration.Migrator, _ *zap.Logger, args []string) error {
		n, err := intArg(args, "step count")
		if err != nil {
			return err
		}
		return m.Steps(n)
	}},
	"goto": {"goto <version>        Migrate to a version", func(m *migration.Migrator, _ *zap.Logger, args []string) error {
		v, err := intArg(args, "version")
		if err != nil {
			return err
		}
		if v < 0 {
			return fmt.Errorf("version must not be negative")
		}
		return m.GoTo(uint(v))
	}},
	"force": {"force <version>       Mark a version as applied without running it", func(m *migration.Migrator, _ *zap.Logger, args []string) error {
		v, err := intArg(args, "version")
		if err != nil {
			return err
		}
		return m.Force(v)
	}},
	"version": {"version               Show the applied version", func(m *migration.Migrator, log *zap.Logger, _ []string) error {
		v, dirty, err := m.Version()
		if err != nil {
			return err
		}
		if v == 0 {
			log.Info("Schema is empty")
			return nil
		}
		log.Info("Schema version", zap.Uint("version", v), zap.Bool("dirty", dirty))
		return nil
	}},
	"drop": {"drop -confirm         Drop the consignment schema", func(m *migration.Migrator, _ *zap.Logger, args []string) error {
		if !slices.Contains(args, "-confirm") && !slices.Contains(args, "--confirm") {
			return errors.New("drop needs -confirm")
		}
		return m.Drop()
	}},
}

func intArg(args []string, what string) (int, error) {
	if len(args) == 0 {
		return 0, fmt.Errorf("%s required", what)
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", what, args[0])
	}
	return n, nil
}

func main() {
	dir := flag.String("path", "", "migrations directory (default ./migrations)")
	level := flag.String("log-level", "info", "debug, info, warn or error")
	embedded := flag.Bool("embedded", false, "use the migrations compiled into the binary")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() == 0 {
		usage()
		os.Exit(2)
	}
	name, args := flag.Arg(0), flag.Args()[1:]

	logCfg := logger.DefaultConfig()
	logCfg.Level = *level
	log, err := logger.New(logCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	path, err := migrationsDir(*dir)
	if err != nil {
		log.Fatal("Failed to resolve migrations path", zap.Error(err))
	}

	switch name {
	case "create":
		if len(args) == 0 {
			log.Fatal("Usage: migrate create <name> [description]")
		}
		desc := ""
		if len(args) > 1 {
			desc = args[1]
		}
		mf, err := migration.CreateMigration(path, args[0], desc)
		if err != nil {
			log.Fatal("Failed to create migration", zap.Error(err))
		}
		log.Info("Migration created", zap.String("version", mf.Version),
			zap.String("up_file", mf.UpPath), zap.String("down_file", mf.DownPath))
		return
	case "list":
		names, err := migration.ListMigrations(path)
		if err != nil {
			log.Fatal("Failed to list migrations", zap.Error(err))
		}
		for _, n := range names {
			fmt.Println(n)
		}
		return
	}

	cmd, ok := schemaCommands[name]
	if !ok {
		usage()
		log.Fatal("Unknown command", zap.String("command", name))
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to open database", zap.Error(err))
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database", zap.Error(err))
	}

	var m *migration.Migrator
	if *embedded {
		m, err = migration.NewEmbedded(db, migrations.FS, log)
	} else {
		m, err = migration.New(db, path, log)
	}
	if err != nil {
		log.Fatal("Failed to create migrator", zap.Error(err))
	}
	defer m.Close()

	log.Info("Running migration command", zap.String("command", name), zap.Bool("embedded", *embedded))
	if err := cmd.run(m, log, args); err != nil {
		log.Fatal("Migration command failed", zap.String("command", name), zap.Error(err))
	}
}

// migrationsDir defaults to ./migrations, then to the one two levels above
// the executable (bin/<os>/migrate in a checkout).
func migrationsDir(dir string) (string, error) {
	if dir != "" {
		return filepath.Abs(dir)
	}
	dir = "migrations"
	if _, err := os.Stat(dir); err != nil {
		if exe, err := os.Executable(); err == nil {
			candidate := filepath.Join(filepath.Dir(exe), "..", "..", "migrations")
			if _, err := os.Stat(candidate); err == nil {
				dir = candidate
			}
		}
	}
	return filepath.Abs(dir)
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: migrate [flags] <command> [args]\n\nCommands:")
	names := make([]string, 0, len(schemaCommands))
	for n := range schemaCommands {
		names = append(names, n)
	}
	slices.Sort(names)
	for _, n := range names {
		fmt.Fprintln(os.Stderr, "  "+schemaCommands[n].usage)
	}
	fmt.Fprintln(os.Stderr, "  create <name> [desc]  Write a new numbered migration pair")
	fmt.Fprintln(os.Stderr, "  list                  List migration files")
	fmt.Fprintln(os.Stderr, "\nFlags:")
	flag.PrintDefaults()
}
