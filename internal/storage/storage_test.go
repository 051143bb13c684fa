package storage

import (
	"os"
	"path/filepath"
	"testing"

	"musespark-backend/internal/config"
	"musespark-backend/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.Discard()
	os.Exit(m.Run())
}

func backends(t *testing.T) map[string]Storage {
	t.Helper()
	dir := t.TempDir()

	disk := NewDiskStorage(filepath.Join(dir, "disk"))
	require.NoError(t, disk.Init())

	lite := NewSQLiteStorage(filepath.Join(dir, "lite", "blobs.db"))
	require.NoError(t, lite.Init())
	t.Cleanup(func() { lite.Close() })

	return map[string]Storage{
		"memory": NewMemoryStorage(),
		"disk":   disk,
		"sqlite": lite,
	}
}

func TestStorage_ReadMissing(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Read(KeySessions)
			assert.ErrorIs(t, err, ErrBlobNotFound)
		})
	}
}

func TestStorage_WriteThenRead(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Write(KeySessions, []byte(`[{"id":"a"}]`)))
			require.NoError(t, s.Write(KeyInspirations, []byte(`[]`)))
			require.NoError(t, s.Write(KeySessions, []byte(`[{"id":"b"}]`)))

			got, err := s.Read(KeySessions)
			require.NoError(t, err)
			assert.Equal(t, `[{"id":"b"}]`, string(got))

			got, err = s.Read(KeyInspirations)
			require.NoError(t, err)
			assert.Equal(t, `[]`, string(got))
		})
	}
}

func TestMemoryStorage_CopiesBuffers(t *testing.T) {
	s := NewMemoryStorage()
	buf := []byte("abc")
	require.NoError(t, s.Write("k", buf))
	buf[0] = 'x'

	got, err := s.Read("k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
}

func TestDiskStorage_BackupCopiesBlobs(t *testing.T) {
	dir := t.TempDir()
	s := NewDiskStorage(dir)
	require.NoError(t, s.Init())
	require.NoError(t, s.Write(KeySessions, []byte("[]")))
	require.NoError(t, s.Backup())

	entries, err := os.ReadDir(filepath.Join(dir, "backup"))
	require.NoError(t, err)
	require.Len(t, entries, 1)

	data, err := os.ReadFile(filepath.Join(dir, "backup", entries[0].Name(), "sessions.json"))
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestNew_SelectsBackend(t *testing.T) {
	s, err := New(config.StorageConfig{Type: "memory"})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStorage{}, s)

	_, err = New(config.StorageConfig{Type: "redis"})
	assert.ErrorIs(t, err, ErrStorageInit)
}
