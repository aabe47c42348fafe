package storage

import (
	"context"
	"database/sql"
)

// Adapter abstracts database-specific operations
type Adapter interface {
	Backend() Backend
	// Dialect is the goose dialect used to run migrations.
	Dialect() string
	StoreID() string

	Connect(ctx context.Context) (*sql.DB, error)
	Close() error

	SQL() SQL
}

// SQL holds the statements a DBStore runs. Every statement takes positional
// arguments in the order documented on the field.
type SQL struct {
	// version, checksum, data
	PutExport string
	// version -> checksum, data
	GetExport string
	// -> version, checksum, data
	LatestExport string
	// -> version, checksum, size
	ListExports string
}
