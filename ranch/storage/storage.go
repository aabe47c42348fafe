package storage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

type Backend string

const (
	BackendDir      Backend = "dir"
	BackendSQLite   Backend = "sqlite"
	BackendPostgres Backend = "postgres"
	BackendRedis    Backend = "redis"
)

// Export is one snapshot of the address dataset, keyed by the time it was
// exported.
type Export struct {
	Version time.Time
	Data    []byte
}

// ExportInfo describes a stored export without its payload.
type ExportInfo struct {
	Version  time.Time `json:"version"`
	Checksum string    `json:"checksum"`
	Size     int       `json:"size"`
}

// Info computes the descriptor for e.
func (e Export) Info() ExportInfo {
	return ExportInfo{Version: e.Version.UTC(), Checksum: Checksum(e.Data), Size: len(e.Data)}
}

// Source yields the most recent dataset export.
type Source interface {
	Latest(ctx context.Context) (Export, error)
}

// Store keeps every imported export. List returns newest first.
type Store interface {
	Source
	Put(ctx context.Context, e Export) (ExportInfo, error)
	Get(ctx context.Context, version time.Time) (Export, error)
	List(ctx context.Context) ([]ExportInfo, error)
	Close() error
}

// Checksum returns the hex encoded sha256 of data.
func Checksum(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
