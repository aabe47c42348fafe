package storage

import (
	"database/sql"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"sync"

	"github.com/pressly/goose/v3"

	"github.com/nonibytes/ranch/ranch/storage/migrations"
)

// goose keeps its base FS and dialect in package state.
var gooseMu sync.Mutex

// RunMigrations brings the exports schema of db up to date.
func RunMigrations(db *sql.DB, a Adapter, logger *slog.Logger) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	sub, err := fs.Sub(migrations.FS, string(a.Backend()))
	if err != nil {
		return fmt.Errorf("migrations for %s: %w", a.Backend(), err)
	}
	goose.SetBaseFS(sub)
	defer goose.SetBaseFS(nil)
	goose.SetLogger(gooseLogger{logger})

	if err := goose.SetDialect(a.Dialect()); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	if err := goose.Up(db, "."); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

type gooseLogger struct {
	l *slog.Logger
}

func (g gooseLogger) Printf(format string, v ...any) {
	g.l.Debug(strings.TrimSpace(fmt.Sprintf(format, v...)), slog.String("component", "goose"))
}

func (g gooseLogger) Fatalf(format string, v ...any) {
	g.l.Error(strings.TrimSpace(fmt.Sprintf(format, v...)), slog.String("component", "goose"))
}
