// Package filesys reads dataset exports from a directory of files named
// address-export.<timestamp>.json, optionally gzip compressed.
package filesys

import (
	"bytes"
	"compress/gzip"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/nonibytes/ranch/ranch"
	"github.com/nonibytes/ranch/ranch/storage"
)

const (
	filePrefix = "address-export."
	jsonExt    = ".json"
	gzipExt    = ".json.gz"

	// fileLayout is the basic ISO 8601 form, which avoids colons in names.
	fileLayout = "20060102T150405.000000000Z"
)

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"20060102T150405Z0700",
	"20060102T150405",
	"2006-01-02",
	"20060102",
}

type Store struct {
	dir    string
	logger *slog.Logger
}

func New(dir string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Store{dir: dir, logger: logger}
}

type entry struct {
	name    string
	version time.Time
}

// ParseName extracts the timestamp embedded in an export file name. The
// timestamp is ISO 8601, extended or basic, or Unix seconds.
func ParseName(name string) (time.Time, bool) {
	if !strings.HasPrefix(name, filePrefix) {
		return time.Time{}, false
	}
	stamp := strings.TrimPrefix(name, filePrefix)
	switch {
	case strings.HasSuffix(stamp, gzipExt):
		stamp = strings.TrimSuffix(stamp, gzipExt)
	case strings.HasSuffix(stamp, jsonExt):
		stamp = strings.TrimSuffix(stamp, jsonExt)
	default:
		return time.Time{}, false
	}
	return parseTimestamp(stamp)
}

func parseTimestamp(s string) (time.Time, bool) {
	if f, err := strconv.ParseFloat(s, 64); err == nil && isUnixSeconds(s) {
		sec := int64(f)
		nsec := int64((f - float64(sec)) * 1e9)
		return time.Unix(sec, nsec).UTC(), true
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// isUnixSeconds reports whether s is a decimal number that cannot be read as
// a basic ISO 8601 date.
func isUnixSeconds(s string) bool {
	if s == "" || strings.Trim(s, "0123456789.") != "" || strings.Count(s, ".") > 1 {
		return false
	}
	return len(s) != 8
}

func (s *Store) scan() ([]entry, error) {
	items, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, ranch.Wrap(ranch.ErrIO, "read export dir "+s.dir, err)
	}
	var out []entry
	for _, it := range items {
		if it.IsDir() {
			continue
		}
		v, ok := ParseName(it.Name())
		if !ok {
			continue
		}
		out = append(out, entry{name: it.Name(), version: v})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].version.After(out[j].version) })
	return out, nil
}

func (s *Store) read(e entry) (storage.Export, error) {
	path := filepath.Join(s.dir, e.name)
	b, err := os.ReadFile(path)
	if err != nil {
		return storage.Export{}, ranch.Wrap(ranch.ErrIO, "read "+path, err)
	}
	if strings.HasSuffix(e.name, gzipExt) {
		zr, err := gzip.NewReader(bytes.NewReader(b))
		if err != nil {
			return storage.Export{}, ranch.Wrap(ranch.ErrIO, "gunzip "+path, err)
		}
		defer zr.Close()
		if b, err = io.ReadAll(zr); err != nil {
			return storage.Export{}, ranch.Wrap(ranch.ErrIO, "gunzip "+path, err)
		}
	}
	return storage.Export{Version: e.version, Data: b}, nil
}

// Latest returns the export with the newest embedded timestamp.
func (s *Store) Latest(ctx context.Context) (storage.Export, error) {
	entries, err := s.scan()
	if err != nil {
		return storage.Export{}, err
	}
	if len(entries) == 0 {
		return storage.Export{}, ranch.NotFoundError("no " + filePrefix + "* files in " + s.dir)
	}
	s.logger.Debug("latest export", slog.String("file", entries[0].name))
	return s.read(entries[0])
}

func (s *Store) Get(ctx context.Context, version time.Time) (storage.Export, error) {
	entries, err := s.scan()
	if err != nil {
		return storage.Export{}, err
	}
	for _, e := range entries {
		if e.version.Equal(version) {
			return s.read(e)
		}
	}
	return storage.Export{}, ranch.NotFoundError("export " + version.UTC().Format(time.RFC3339Nano))
}

func (s *Store) List(ctx context.Context) ([]storage.ExportInfo, error) {
	entries, err := s.scan()
	if err != nil {
		return nil, err
	}
	out := make([]storage.ExportInfo, 0, len(entries))
	for _, e := range entries {
		exp, err := s.read(e)
		if err != nil {
			return nil, err
		}
		out = append(out, exp.Info())
	}
	return out, nil
}

// Put writes e as an uncompressed file. The write goes through a temporary
// file so readers never see a partial export.
func (s *Store) Put(ctx context.Context, e storage.Export) (storage.ExportInfo, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return storage.ExportInfo{}, ranch.Wrap(ranch.ErrIO, "create export dir", err)
	}
	info := e.Info()
	name := filePrefix + info.Version.Format(fileLayout) + jsonExt

	tmp, err := os.CreateTemp(s.dir, ".export-*")
	if err != nil {
		return storage.ExportInfo{}, ranch.Wrap(ranch.ErrIO, "create temp file", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(e.Data); err != nil {
		_ = tmp.Close()
		return storage.ExportInfo{}, ranch.Wrap(ranch.ErrIO, "write export", err)
	}
	if err := tmp.Close(); err != nil {
		return storage.ExportInfo{}, ranch.Wrap(ranch.ErrIO, "write export", err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(s.dir, name)); err != nil {
		return storage.ExportInfo{}, ranch.Wrap(ranch.ErrIO, "rename export", err)
	}
	s.logger.Info("export stored", slog.String("file", name), slog.String("checksum", info.Checksum))
	return info, nil
}

func (s *Store) Close() error { return nil }
