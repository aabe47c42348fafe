// Package redis keeps dataset exports in Redis. Versions live in a sorted
// set scored by Unix time; each payload is a hash holding the data and its
// checksum.
package redis

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nonibytes/ranch/ranch"
	"github.com/nonibytes/ranch/ranch/storage"
)

const DefaultPrefix = "ranch"

type Store struct {
	client *redis.Client
	prefix string
	logger *slog.Logger
}

type Option func(*Store)

func WithPrefix(p string) Option {
	return func(s *Store) {
		if p != "" {
			s.prefix = p
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// New wraps an existing client. Close closes it.
func New(client *redis.Client, opts ...Option) *Store {
	s := &Store{
		client: client,
		prefix: DefaultPrefix,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Dial connects to addr and checks the connection.
func Dial(ctx context.Context, addr, password string, db int, opts ...Option) (*Store, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, ranch.Wrap(ranch.ErrIO, "connect redis "+addr, err)
	}
	return New(client, opts...), nil
}

func (s *Store) versionsKey() string { return s.prefix + ":exports" }

func (s *Store) exportKey(member string) string { return s.prefix + ":export:" + member }

func member(v time.Time) string { return v.UTC().Format(time.RFC3339Nano) }

func score(v time.Time) float64 { return float64(v.UnixMilli()) / 1e3 }

func (s *Store) Put(ctx context.Context, e storage.Export) (storage.ExportInfo, error) {
	info := e.Info()
	m := member(info.Version)

	_, err := s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.HSet(ctx, s.exportKey(m), "checksum", info.Checksum, "data", e.Data)
		p.ZAdd(ctx, s.versionsKey(), redis.Z{Score: score(info.Version), Member: m})
		return nil
	})
	if err != nil {
		return storage.ExportInfo{}, ranch.Wrap(ranch.ErrIO, "put export", err)
	}
	s.logger.Info("export stored",
		slog.Time("version", info.Version),
		slog.String("checksum", info.Checksum),
		slog.Int("size", info.Size),
	)
	return info, nil
}

func (s *Store) Get(ctx context.Context, version time.Time) (storage.Export, error) {
	return s.load(ctx, member(version))
}

func (s *Store) Latest(ctx context.Context) (storage.Export, error) {
	members, err := s.client.ZRevRange(ctx, s.versionsKey(), 0, 0).Result()
	if err != nil {
		return storage.Export{}, ranch.Wrap(ranch.ErrIO, "latest export", err)
	}
	if len(members) == 0 {
		return storage.Export{}, ranch.NotFoundError("no exports under " + s.versionsKey())
	}
	return s.load(ctx, members[0])
}

func (s *Store) load(ctx context.Context, m string) (storage.Export, error) {
	version, err := time.Parse(time.RFC3339Nano, m)
	if err != nil {
		return storage.Export{}, ranch.Wrap(ranch.ErrIO, "bad export member "+strconv.Quote(m), err)
	}
	vals, err := s.client.HMGet(ctx, s.exportKey(m), "checksum", "data").Result()
	if err != nil {
		return storage.Export{}, ranch.Wrap(ranch.ErrIO, "get export", err)
	}
	checksum, ok1 := vals[0].(string)
	data, ok2 := vals[1].(string)
	if !ok1 || !ok2 {
		return storage.Export{}, ranch.NotFoundError("export " + m)
	}
	if got := storage.Checksum([]byte(data)); got != checksum {
		return storage.Export{}, ranch.NewError(ranch.ErrIO, fmt.Sprintf("checksum mismatch for export %s", m))
	}
	return storage.Export{Version: version.UTC(), Data: []byte(data)}, nil
}

func (s *Store) List(ctx context.Context) ([]storage.ExportInfo, error) {
	members, err := s.client.ZRevRange(ctx, s.versionsKey(), 0, -1).Result()
	if err != nil {
		return nil, ranch.Wrap(ranch.ErrIO, "list exports", err)
	}
	if len(members) == 0 {
		return nil, nil
	}

	cmds := make([]*redis.SliceCmd, len(members))
	lens := make([]*redis.IntCmd, len(members))
	_, err = s.client.Pipelined(ctx, func(p redis.Pipeliner) error {
		for i, m := range members {
			cmds[i] = p.HMGet(ctx, s.exportKey(m), "checksum")
			lens[i] = p.HStrLen(ctx, s.exportKey(m), "data")
		}
		return nil
	})
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, ranch.Wrap(ranch.ErrIO, "list exports", err)
	}

	out := make([]storage.ExportInfo, 0, len(members))
	for i, m := range members {
		version, err := time.Parse(time.RFC3339Nano, m)
		if err != nil {
			continue
		}
		var checksum string
		if vals := cmds[i].Val(); len(vals) > 0 {
			checksum, _ = vals[0].(string)
		}
		out = append(out, storage.ExportInfo{
			Version:  version.UTC(),
			Checksum: checksum,
			Size:     int(lens[i].Val()),
		})
	}
	return out, nil
}

func (s *Store) Close() error {
	return s.client.Close()
}
