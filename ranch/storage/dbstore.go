package storage

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/nonibytes/ranch/ranch"
)

// DBStore keeps exports in a SQL database reached through an Adapter.
type DBStore struct {
	adapter Adapter
	db      *sql.DB
	logger  *slog.Logger
}

// OpenDB connects through a and applies pending migrations.
func OpenDB(ctx context.Context, a Adapter, logger *slog.Logger) (*DBStore, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	db, err := a.Connect(ctx)
	if err != nil {
		return nil, ranch.Wrap(ranch.ErrSQL, "connect "+a.StoreID(), err)
	}
	if err := RunMigrations(db, a, logger); err != nil {
		_ = db.Close()
		return nil, ranch.Wrap(ranch.ErrSQL, "migrate "+a.StoreID(), err)
	}
	logger.Debug("export store opened", slog.String("backend", string(a.Backend())), slog.String("store", a.StoreID()))
	return &DBStore{adapter: a, db: db, logger: logger}, nil
}

func (s *DBStore) Backend() Backend { return s.adapter.Backend() }

func (s *DBStore) Close() error {
	err := s.db.Close()
	if cerr := s.adapter.Close(); err == nil {
		err = cerr
	}
	return err
}

// Put stores e, replacing any export with the same version.
func (s *DBStore) Put(ctx context.Context, e Export) (ExportInfo, error) {
	info := e.Info()
	if _, err := s.db.ExecContext(ctx, s.adapter.SQL().PutExport, info.Version.UnixNano(), info.Checksum, e.Data); err != nil {
		return ExportInfo{}, ranch.Wrap(ranch.ErrSQL, "put export", err)
	}
	s.logger.Info("export stored",
		slog.Time("version", info.Version),
		slog.String("checksum", info.Checksum),
		slog.Int("size", info.Size),
	)
	return info, nil
}

func (s *DBStore) Get(ctx context.Context, version time.Time) (Export, error) {
	var checksum string
	var data []byte
	err := s.db.QueryRowContext(ctx, s.adapter.SQL().GetExport, version.UnixNano()).Scan(&checksum, &data)
	if errors.Is(err, sql.ErrNoRows) {
		return Export{}, ranch.NotFoundError("export " + version.UTC().Format(time.RFC3339Nano))
	}
	if err != nil {
		return Export{}, ranch.Wrap(ranch.ErrSQL, "get export", err)
	}
	return verified(version.UTC(), checksum, data)
}

func (s *DBStore) Latest(ctx context.Context) (Export, error) {
	var version int64
	var checksum string
	var data []byte
	err := s.db.QueryRowContext(ctx, s.adapter.SQL().LatestExport).Scan(&version, &checksum, &data)
	if errors.Is(err, sql.ErrNoRows) {
		return Export{}, ranch.NotFoundError("no exports in " + s.adapter.StoreID())
	}
	if err != nil {
		return Export{}, ranch.Wrap(ranch.ErrSQL, "latest export", err)
	}
	return verified(time.Unix(0, version).UTC(), checksum, data)
}

func (s *DBStore) List(ctx context.Context) ([]ExportInfo, error) {
	rows, err := s.db.QueryContext(ctx, s.adapter.SQL().ListExports)
	if err != nil {
		return nil, ranch.Wrap(ranch.ErrSQL, "list exports", err)
	}
	defer rows.Close()

	var out []ExportInfo
	for rows.Next() {
		var version int64
		var info ExportInfo
		if err := rows.Scan(&version, &info.Checksum, &info.Size); err != nil {
			return nil, ranch.Wrap(ranch.ErrSQL, "scan export", err)
		}
		info.Version = time.Unix(0, version).UTC()
		out = append(out, info)
	}
	if err := rows.Err(); err != nil {
		return nil, ranch.Wrap(ranch.ErrSQL, "list exports", err)
	}
	return out, nil
}

// verified rejects payloads that no longer match the checksum recorded when
// they were stored.
func verified(version time.Time, checksum string, data []byte) (Export, error) {
	if got := Checksum(data); got != checksum {
		return Export{}, ranch.NewError(ranch.ErrIO, "checksum mismatch for export "+version.Format(time.RFC3339Nano)+": stored "+checksum+", computed "+got)
	}
	return Export{Version: version, Data: data}, nil
}
