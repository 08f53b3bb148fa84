package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exerciseStorage(t *testing.T, store Storage) {
	t.Helper()

	_, ok, err := store.Get(KeyToken)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set(KeyToken, "T1"))
	require.NoError(t, store.Set(KeyRefreshToken, "R1"))

	value, ok, err := store.Get(KeyToken)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "T1", value)

	require.NoError(t, store.Set(KeyToken, "T2"))
	value, _, err = store.Get(KeyToken)
	require.NoError(t, err)
	assert.Equal(t, "T2", value)

	require.NoError(t, store.Remove(KeyToken, KeyRefreshToken, "missing"))

	_, ok, err = store.Get(KeyToken)
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = store.Get(KeyRefreshToken)
	require.NoError(t, err)
	assert.False(t, ok)

	// Removing again is harmless
	require.NoError(t, store.Remove(KeyToken, KeyRefreshToken))
}

func TestMemoryStore(t *testing.T) {
	exerciseStorage(t, NewMemoryStore())
}

func TestFileStore(t *testing.T) {
	store, err := NewFileStore(t.TempDir(), "localhost_8080")
	require.NoError(t, err)
	exerciseStorage(t, store)
}

func TestFileStore_PersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()

	first, err := NewFileStore(dir, "api.example.com")
	require.NoError(t, err)
	require.NoError(t, first.Set(KeyToken, "T1"))

	second, err := NewFileStore(dir, "api.example.com")
	require.NoError(t, err)
	value, ok, err := second.Get(KeyToken)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "T1", value)

	other, err := NewFileStore(dir, "other.example.com")
	require.NoError(t, err)
	_, ok, err = other.Get(KeyToken)
	require.NoError(t, err)
	assert.False(t, ok)

	info, err := os.Stat(first.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestFileStore_CorruptFileReinitializes(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.yaml"), []byte("items: [::"), 0600))

	store, err := NewFileStore(dir, "broken")
	require.NoError(t, err)

	_, ok, err := store.Get(KeyToken)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set(KeyToken, "T1"))
	value, _, err := store.Get(KeyToken)
	require.NoError(t, err)
	assert.Equal(t, "T1", value)
}

func TestSQLStore(t *testing.T) {
	store, err := NewSQLStore(filepath.Join(t.TempDir(), "storage.db"), "localhost_8080")
	require.NoError(t, err)
	defer store.Close()

	exerciseStorage(t, store)
}

func TestSQLStore_NamespacesAreIsolated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.db")

	a, err := NewSQLStore(path, "a")
	require.NoError(t, err)
	defer a.Close()
	b, err := NewSQLStore(path, "b")
	require.NoError(t, err)
	defer b.Close()

	require.NoError(t, a.Set(KeyToken, "A"))
	_, ok, err := b.Get(KeyToken)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestEncrypted(t *testing.T) {
	cipher, err := NewCipher("correct horse", "surveyctl")
	require.NoError(t, err)

	inner := NewMemoryStore()
	store := NewEncrypted(inner, cipher)
	exerciseStorage(t, store)

	require.NoError(t, store.Set(KeyToken, "secret-token"))

	raw, ok, err := inner.Get(KeyToken)
	require.NoError(t, err)
	require.True(t, ok)
	assert.False(t, strings.Contains(raw, "secret-token"))

	value, ok, err := store.Get(KeyToken)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "secret-token", value)
}

func TestEncrypted_WrongPassphraseReadsAsMissing(t *testing.T) {
	inner := NewMemoryStore()

	writer, err := NewCipher("one", "salt")
	require.NoError(t, err)
	require.NoError(t, NewEncrypted(inner, writer).Set(KeyToken, "T1"))

	reader, err := NewCipher("two", "salt")
	require.NoError(t, err)
	_, ok, err := NewEncrypted(inner, reader).Get(KeyToken)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestEncrypted_CloseReleasesInnerStore(t *testing.T) {
	inner, err := NewSQLStore(filepath.Join(t.TempDir(), "storage.db"), "host")
	require.NoError(t, err)

	cipher, err := NewCipher("p", "s")
	require.NoError(t, err)
	store := NewEncrypted(inner, cipher)
	require.NoError(t, store.Set(KeyToken, "T1"))

	require.NoError(t, Close(store))

	_, _, err = inner.Get(KeyToken)
	assert.Error(t, err)
}

func TestClose_StoresWithoutHandles(t *testing.T) {
	assert.NoError(t, Close(NewMemoryStore()))
}

func TestNewCipher_RequiresPassphrase(t *testing.T) {
	_, err := NewCipher("", "salt")
	assert.ErrorIs(t, err, ErrMissingPassphrase)
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		opts    Options
		wantErr error
	}{
		{name: "file", opts: Options{Driver: DriverFile, Directory: dir, Namespace: "host"}},
		{name: "default driver", opts: Options{Directory: dir}},
		{name: "sqlite", opts: Options{Driver: DriverSQLite, Directory: dir, Namespace: "host"}},
		{name: "memory", opts: Options{Driver: DriverMemory}},
		{name: "encrypted", opts: Options{Driver: DriverMemory, Encryption: EncryptionOptions{Enabled: true, Passphrase: "p", Salt: "s"}}},
		{name: "encrypted without passphrase", opts: Options{Driver: DriverMemory, Encryption: EncryptionOptions{Enabled: true}}, wantErr: ErrMissingPassphrase},
		{name: "unknown", opts: Options{Driver: "redis"}, wantErr: ErrUnknownDriver},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := Open(tt.opts)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.NoError(t, store.Set(KeyToken, "T1"))
			value, ok, err := store.Get(KeyToken)
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, "T1", value)

			assert.NoError(t, Close(store))
		})
	}
}
