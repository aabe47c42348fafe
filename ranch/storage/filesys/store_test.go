package filesys_test

import (
	"compress/gzip"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nonibytes/ranch/ranch"
	"github.com/nonibytes/ranch/ranch/storage"
	"github.com/nonibytes/ranch/ranch/storage/filesys"
)

func TestParseName(t *testing.T) {
	tests := []struct {
		name string
		want time.Time
		ok   bool
	}{
		{"address-export.2016-02-05T12:30:45Z.json", time.Date(2016, 2, 5, 12, 30, 45, 0, time.UTC), true},
		{"address-export.2016-02-05T13:30:45+01:00.json", time.Date(2016, 2, 5, 12, 30, 45, 0, time.UTC), true},
		{"address-export.2016-02-05T12:30:45.json", time.Date(2016, 2, 5, 12, 30, 45, 0, time.UTC), true},
		{"address-export.20160205T123045Z.json", time.Date(2016, 2, 5, 12, 30, 45, 0, time.UTC), true},
		{"address-export.20160205T123045.250000000Z.json.gz", time.Date(2016, 2, 5, 12, 30, 45, 250000000, time.UTC), true},
		{"address-export.2016-02-05.json", time.Date(2016, 2, 5, 0, 0, 0, 0, time.UTC), true},
		{"address-export.20160205.json", time.Date(2016, 2, 5, 0, 0, 0, 0, time.UTC), true},
		{"address-export.1454675445.json", time.Unix(1454675445, 0).UTC(), true},
		{"address-export.1454675445.5.json", time.Unix(1454675445, 500000000).UTC(), true},
		{"address-export.nope.json", time.Time{}, false},
		{"address-export.1454675445.txt", time.Time{}, false},
		{"export.1454675445.json", time.Time{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := filesys.ParseName(tt.name)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.True(t, tt.want.Equal(got), "got %s", got)
			}
		})
	}
}

func write(t *testing.T, dir, name, data string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(data), 0o644))
}

func TestLatestPicksNewestTimestamp(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "address-export.2015-01-01T00:00:00Z.json", "old")
	write(t, dir, "address-export.1454600000.json", "unix")
	write(t, dir, "address-export.2016-02-05T12:30:45Z.json", "newest")
	write(t, dir, "README.md", "ignored")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "address-export.2030-01-01.json"), 0o755))

	exp, err := filesys.New(dir, nil).Latest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "newest", string(exp.Data))
	assert.True(t, exp.Version.Equal(time.Date(2016, 2, 5, 12, 30, 45, 0, time.UTC)))
}

func TestLatestReadsGzip(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "address-export.2015-01-01.json", "old")

	f, err := os.Create(filepath.Join(dir, "address-export.2016-01-01.json.gz"))
	require.NoError(t, err)
	zw := gzip.NewWriter(f)
	_, err = zw.Write([]byte("compressed"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	exp, err := filesys.New(dir, nil).Latest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "compressed", string(exp.Data))
}

func TestEmptyDirectory(t *testing.T) {
	st := filesys.New(t.TempDir(), nil)
	_, err := st.Latest(context.Background())
	assert.True(t, ranch.IsKind(err, ranch.ErrNotFound))

	_, err = filesys.New(filepath.Join(t.TempDir(), "missing"), nil).Latest(context.Background())
	assert.True(t, ranch.IsKind(err, ranch.ErrIO))
}

func TestPutGetList(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "exports")
	st := filesys.New(dir, nil)

	v1 := time.Date(2016, 2, 5, 12, 30, 45, 123456789, time.UTC)
	v2 := v1.Add(time.Hour)
	_, err := st.Put(ctx, storage.Export{Version: v1, Data: []byte("one")})
	require.NoError(t, err)
	info, err := st.Put(ctx, storage.Export{Version: v2, Data: []byte("two")})
	require.NoError(t, err)
	assert.Equal(t, storage.Checksum([]byte("two")), info.Checksum)

	_, err = os.Stat(filepath.Join(dir, "address-export.20160205T133045.123456789Z.json"))
	require.NoError(t, err)

	got, err := st.Get(ctx, v1)
	require.NoError(t, err)
	assert.Equal(t, "one", string(got.Data))

	_, err = st.Get(ctx, v1.Add(time.Minute))
	assert.True(t, ranch.IsKind(err, ranch.ErrNotFound))

	list, err := st.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.True(t, list[0].Version.Equal(v2))
	assert.Equal(t, 3, list[1].Size)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2, "no temporary files left behind")
}
