package cliopt

import (
	"flag"
	"io"
	"os"

	"github.com/nonibytes/ranch/internal/config"
)

// GlobalOptions are parsed once at the CLI root and passed to subcommands.
// Defaults come from the environment; flags override them.
//
// NOTE: This is a separate package to avoid import cycles between the root
// command router and per-command code.
type GlobalOptions struct {
	Env      string
	LogLevel string

	Backend        string
	ExportDir      string
	SQLitePath     string
	SQLiteDriver   string
	PostgresDSN    string
	PostgresSchema string
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	RedisPrefix    string

	Format string

	Stdout io.Writer
	Stderr io.Writer
}

func DefaultGlobalOptions(cfg *config.Config) GlobalOptions {
	return GlobalOptions{
		Env:            cfg.Env,
		LogLevel:       cfg.LogLevel,
		Backend:        cfg.Backend,
		ExportDir:      cfg.Storage.ExportDir,
		SQLitePath:     cfg.Storage.SQLitePath,
		SQLiteDriver:   cfg.Storage.SQLiteDriver,
		PostgresDSN:    cfg.Storage.PostgresDSN,
		PostgresSchema: cfg.Storage.PostgresSchema,
		RedisAddr:      cfg.Storage.RedisAddr,
		RedisPassword:  cfg.Storage.RedisPassword,
		RedisDB:        cfg.Storage.RedisDB,
		RedisPrefix:    cfg.Storage.RedisPrefix,
		Format:         "pretty",
		Stdout:         os.Stdout,
		Stderr:         os.Stderr,
	}
}

func BindGlobalFlags(fs *flag.FlagSet, g *GlobalOptions) {
	fs.StringVar(&g.Backend, "backend", g.Backend, "backend: dir|sqlite|postgres|redis")

	fs.StringVar(&g.ExportDir, "dir", g.ExportDir, "directory holding address-export.<timestamp>.json files")

	fs.StringVar(&g.SQLitePath, "sqlite-path", g.SQLitePath, "sqlite directory or explicit .db file path")
	fs.StringVar(&g.SQLiteDriver, "sqlite-driver", g.SQLiteDriver, "sqlite driver: sqlite (pure Go) or sqlite3 (cgo)")

	fs.StringVar(&g.PostgresDSN, "pg-dsn", g.PostgresDSN, "postgres DSN")
	fs.StringVar(&g.PostgresSchema, "pg-schema", g.PostgresSchema, "postgres schema holding the exports table")

	fs.StringVar(&g.RedisAddr, "redis-addr", g.RedisAddr, "redis address host:port")
	fs.StringVar(&g.RedisPassword, "redis-password", g.RedisPassword, "redis password")
	fs.IntVar(&g.RedisDB, "redis-db", g.RedisDB, "redis db number")
	fs.StringVar(&g.RedisPrefix, "redis-prefix", g.RedisPrefix, "redis key prefix")

	fs.StringVar(&g.Format, "format", g.Format, "output format: pretty|json")
	fs.StringVar(&g.LogLevel, "log-level", g.LogLevel, "log level: debug|info|warn|error")
}
