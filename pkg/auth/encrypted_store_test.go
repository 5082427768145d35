package auth

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEncryptedStore(t *testing.T) (*EncryptedFileStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "credentials.enc")
	store, err := NewEncryptedFileStore(path)
	require.NoError(t, err)
	return store, path
}

func TestEncryptedStoreRoundTrip(t *testing.T) {
	store, path := newTestEncryptedStore(t)

	require.NoError(t, store.Store(validAccount("work")))
	assert.FileExists(t, path)
	assert.FileExists(t, path+".key")

	account, err := store.Retrieve("work")
	require.NoError(t, err)
	assert.Equal(t, "work", account.Name)
	assert.Equal(t, 12345, account.APIID)

	// The file on disk must not leak the hash in cleartext
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(content), account.APIHash)
}

func TestEncryptedStoreReopen(t *testing.T) {
	store, path := newTestEncryptedStore(t)
	require.NoError(t, store.Store(validAccount("work")))

	// A new store instance over the same file decrypts with the same
	// passphrase file
	reopened, err := NewEncryptedFileStore(path)
	require.NoError(t, err)

	account, err := reopened.Retrieve("work")
	require.NoError(t, err)
	assert.Equal(t, "work", account.Name)
}

func TestEncryptedStoreRetrieveMissing(t *testing.T) {
	store, _ := newTestEncryptedStore(t)

	_, err := store.Retrieve("ghost")
	assert.ErrorIs(t, err, ErrCredentialsNotFound)

	require.NoError(t, store.Store(validAccount("present")))
	_, err = store.Retrieve("ghost")
	assert.ErrorIs(t, err, ErrCredentialsNotFound)
}

func TestEncryptedStoreDelete(t *testing.T) {
	store, path := newTestEncryptedStore(t)
	require.NoError(t, store.Store(validAccount("one")))
	require.NoError(t, store.Store(validAccount("two")))

	require.NoError(t, store.Delete("one"))
	assert.False(t, store.Exists("one"))
	assert.True(t, store.Exists("two"))

	// Deleting the last account removes the file entirely
	require.NoError(t, store.Delete("two"))
	assert.NoFileExists(t, path)

	assert.ErrorIs(t, store.Delete("two"), ErrCredentialsNotFound)
}

func TestEncryptedStoreList(t *testing.T) {
	store, _ := newTestEncryptedStore(t)

	accounts, err := store.List()
	require.NoError(t, err)
	assert.Empty(t, accounts)

	require.NoError(t, store.Store(validAccount("one")))
	require.NoError(t, store.Store(validAccount("two")))

	accounts, err = store.List()
	require.NoError(t, err)
	assert.Len(t, accounts, 2)
}

func TestEncryptedStoreInvalidInput(t *testing.T) {
	store, _ := newTestEncryptedStore(t)

	assert.ErrorIs(t, store.Store(nil), ErrInvalidCredentials)
	assert.ErrorIs(t, store.Store(&Account{}), ErrInvalidCredentials)

	_, err := store.Retrieve("")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.ErrorIs(t, store.Delete(""), ErrInvalidCredentials)
}
