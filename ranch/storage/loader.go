package storage

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/nonibytes/ranch/ranch"
)

const (
	resultOK        = "ok"
	resultUnchanged = "unchanged"
	resultError     = "error"
)

// Loader turns the latest export of a Source into a parsed spec tree and
// caches it. Concurrent callers share one fetch.
type Loader struct {
	src     Source
	backend Backend
	logger  *slog.Logger
	metrics *Metrics
	group   singleflight.Group

	mu      sync.RWMutex
	spec    *ranch.Spec
	info    ExportInfo
	hasSpec bool
}

type LoaderOption func(*Loader)

func WithLoaderLogger(l *slog.Logger) LoaderOption {
	return func(ld *Loader) {
		if l != nil {
			ld.logger = l
		}
	}
}

func WithMetrics(m *Metrics) LoaderOption {
	return func(ld *Loader) { ld.metrics = m }
}

// WithBackend sets the backend label used in logs and metrics.
func WithBackend(b Backend) LoaderOption {
	return func(ld *Loader) { ld.backend = b }
}

func NewLoader(src Source, opts ...LoaderOption) *Loader {
	ld := &Loader{
		src:     src,
		backend: "unknown",
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, o := range opts {
		o(ld)
	}
	if ld.metrics == nil {
		ld.metrics = NewMetrics(nil)
	}
	return ld
}

// Spec returns the cached spec tree, loading it on first use.
func (ld *Loader) Spec(ctx context.Context) (*ranch.Spec, error) {
	ld.mu.RLock()
	spec, ok := ld.spec, ld.hasSpec
	ld.mu.RUnlock()
	if ok {
		return spec, nil
	}
	return ld.Reload(ctx)
}

// Current describes the export the cached spec tree came from.
func (ld *Loader) Current() (ExportInfo, bool) {
	ld.mu.RLock()
	defer ld.mu.RUnlock()
	return ld.info, ld.hasSpec
}

// Reload fetches the latest export. The cached spec tree is replaced
// only when the export's checksum changed and the new data parses.
func (ld *Loader) Reload(ctx context.Context) (*ranch.Spec, error) {
	v, err, shared := ld.group.Do("latest", func() (any, error) {
		return ld.load(ctx)
	})
	if shared {
		ld.logger.Debug("joined in-flight dataset load", slog.String("backend", string(ld.backend)))
	}
	if err != nil {
		return nil, err
	}
	return v.(*ranch.Spec), nil
}

func (ld *Loader) load(ctx context.Context) (*ranch.Spec, error) {
	start := time.Now()

	exp, err := ld.src.Latest(ctx)
	if err != nil {
		ld.metrics.ObserveLoad(ld.backend, resultError, start)
		ld.logger.Error("dataset fetch failed", slog.String("backend", string(ld.backend)), slog.String("error", err.Error()))
		return nil, err
	}
	info := exp.Info()

	ld.mu.RLock()
	cached, cur, has := ld.spec, ld.info, ld.hasSpec
	ld.mu.RUnlock()
	if has && cur.Checksum == info.Checksum {
		ld.metrics.ObserveLoad(ld.backend, resultUnchanged, start)
		return cached, nil
	}

	spec, err := ranch.ParseSpec(exp.Data)
	if err != nil {
		ld.metrics.ObserveLoad(ld.backend, resultError, start)
		ld.logger.Error("dataset rejected",
			slog.String("backend", string(ld.backend)),
			slog.Time("version", info.Version),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	ld.mu.Lock()
	ld.spec, ld.info, ld.hasSpec = spec, info, true
	ld.mu.Unlock()

	countries := len(spec.Countries())
	ld.metrics.Countries.Set(float64(countries))
	ld.metrics.ObserveLoad(ld.backend, resultOK, start)
	ld.logger.Info("dataset loaded",
		slog.String("backend", string(ld.backend)),
		slog.Time("version", info.Version),
		slog.String("checksum", info.Checksum),
		slog.Int("countries", countries),
		slog.Duration("took", time.Since(start)),
	)
	return spec, nil
}
