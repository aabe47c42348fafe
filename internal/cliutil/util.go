package cliutil

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/nonibytes/ranch/internal/cliopt"
	"github.com/nonibytes/ranch/internal/logging"
	"github.com/nonibytes/ranch/ranch"
	"github.com/nonibytes/ranch/ranch/storage"
	"github.com/nonibytes/ranch/ranch/storage/filesys"
	"github.com/nonibytes/ranch/ranch/storage/postgres"
	"github.com/nonibytes/ranch/ranch/storage/redis"
	"github.com/nonibytes/ranch/ranch/storage/sqlite"
)

type OutputFormat string

const (
	FormatPretty OutputFormat = "pretty"
	FormatJSON   OutputFormat = "json"
)

func ParseOutputFormat(s string) OutputFormat {
	switch OutputFormat(s) {
	case FormatPretty, FormatJSON:
		return OutputFormat(s)
	default:
		return FormatPretty
	}
}

func PrintJSON(w io.Writer, v any) {
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Fprintln(w, string(b))
}

// Logger writes to the CLI's stderr.
func Logger(g cliopt.GlobalOptions) *slog.Logger {
	return logging.New(g.Stderr, g.Env, g.LogLevel)
}

// ResolveSQLitePath turns --sqlite-path into a database file: a directory, or
// anything without a .db suffix that exists as one, gets ranch.db inside it.
func ResolveSQLitePath(p string) string {
	if strings.HasSuffix(p, ".db") || strings.HasPrefix(p, "file:") {
		return p
	}
	if st, err := os.Stat(p); err == nil && st.IsDir() {
		return filepath.Join(p, "ranch.db")
	}
	return p
}

// OpenStore opens the export store selected by the global flags.
func OpenStore(ctx context.Context, g cliopt.GlobalOptions, logger *slog.Logger) (storage.Store, storage.Backend, error) {
	backend := storage.Backend(strings.ToLower(g.Backend))
	switch backend {
	case storage.BackendDir:
		return filesys.New(g.ExportDir, logger), backend, nil
	case storage.BackendSQLite:
		st, err := storage.OpenDB(ctx, sqlite.NewWithDriver(ResolveSQLitePath(g.SQLitePath), g.SQLiteDriver), logger)
		if err != nil {
			return nil, backend, err
		}
		return st, backend, nil
	case storage.BackendPostgres, "pg":
		if g.PostgresDSN == "" {
			return nil, storage.BackendPostgres, fmt.Errorf("missing --pg-dsn")
		}
		st, err := storage.OpenDB(ctx, postgres.New(g.PostgresDSN, g.PostgresSchema), logger)
		if err != nil {
			return nil, storage.BackendPostgres, err
		}
		return st, storage.BackendPostgres, nil
	case storage.BackendRedis:
		st, err := redis.Dial(ctx, g.RedisAddr, g.RedisPassword, g.RedisDB,
			redis.WithPrefix(g.RedisPrefix), redis.WithLogger(logger))
		if err != nil {
			return nil, backend, err
		}
		return st, backend, nil
	default:
		return nil, backend, fmt.Errorf("unknown backend %q (want dir|sqlite|postgres|redis)", g.Backend)
	}
}

// SetArgs is a repeatable --set flag.
type SetArgs []string

func (s *SetArgs) String() string { return strings.Join(*s, ",") }
func (s *SetArgs) Set(v string) error {
	*s = append(*s, v)
	return nil
}

// Values parses field=value pairs. Fields are named or given by their
// format code.
func (s SetArgs) Values() (map[ranch.Field]string, error) {
	out := make(map[ranch.Field]string, len(s))
	for _, kv := range s {
		parts := strings.SplitN(kv, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid --set %q (expected field=value)", kv)
		}
		f, err := ranch.ParseField(strings.TrimSpace(parts[0]))
		if err != nil {
			return nil, err
		}
		out[f] = parts[1]
	}
	return out, nil
}
