package sqlite

import (
	"context"
	"database/sql"
	"strings"

	// Both drivers are registered; DriverName picks one.
	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"

	"github.com/nonibytes/ranch/ranch/storage"
)

const (
	// DriverModernc is the pure Go driver and the default.
	DriverModernc = "sqlite"
	// DriverCGO is github.com/mattn/go-sqlite3.
	DriverCGO = "sqlite3"
)

type Adapter struct {
	Path       string
	DriverName string
}

func New(path string) *Adapter {
	return &Adapter{Path: path, DriverName: DriverModernc}
}

func NewWithDriver(path, driver string) *Adapter {
	if driver == "" {
		driver = DriverModernc
	}
	return &Adapter{Path: path, DriverName: driver}
}

func (a *Adapter) Backend() storage.Backend {
	return storage.BackendSQLite
}

func (a *Adapter) Dialect() string { return "sqlite3" }

func (a *Adapter) StoreID() string {
	return a.Path
}

func (a *Adapter) Connect(ctx context.Context) (*sql.DB, error) {
	db, err := sql.Open(a.DriverName, a.dsn())
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	_, _ = db.ExecContext(ctx, "PRAGMA journal_mode=WAL;")
	_, _ = db.ExecContext(ctx, "PRAGMA synchronous=NORMAL;")
	return db, nil
}

// dsn appends a busy timeout in the syntax of the selected driver.
func (a *Adapter) dsn() string {
	param := "_busy_timeout=5000"
	if a.DriverName == DriverModernc {
		param = "_pragma=busy_timeout(5000)"
	}
	if strings.Contains(a.Path, "?") {
		return a.Path + "&" + param
	}
	return a.Path + "?" + param
}

func (a *Adapter) Close() error {
	return nil
}

func (a *Adapter) SQL() storage.SQL {
	return SQLTemplates
}
