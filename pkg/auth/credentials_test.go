package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validAccount(name string) *Account {
	return &Account{
		Name:    name,
		APIID:   12345,
		APIHash: "0123456789abcdef0123456789abcdef",
	}
}

func TestManagerStoreValidation(t *testing.T) {
	manager := NewManagerWithStores(NewMockStore())

	tests := []struct {
		name    string
		account *Account
	}{
		{"empty name", &Account{APIID: 1, APIHash: "hash"}},
		{"zero api id", &Account{Name: "x", APIHash: "hash"}},
		{"negative api id", &Account{Name: "x", APIID: -1, APIHash: "hash"}},
		{"empty hash", &Account{Name: "x", APIID: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, manager.Store(tt.account))
		})
	}
}

func TestManagerStoreAndRetrieve(t *testing.T) {
	store := NewMockStore()
	manager := NewManagerWithStores(store)

	require.NoError(t, manager.Store(validAccount("work")))

	account, err := manager.Retrieve("work")
	require.NoError(t, err)
	assert.Equal(t, "work", account.Name)
	assert.Equal(t, 12345, account.APIID)
	assert.False(t, account.LastModified.IsZero(), "store must stamp the modification time")
}

func TestManagerStoreFallsBack(t *testing.T) {
	broken := NewMockStore()
	broken.StoreError = errors.New("keychain locked")
	working := NewMockStore()
	manager := NewManagerWithStores(broken, working)

	require.NoError(t, manager.Store(validAccount("work")))
	assert.False(t, broken.Exists("work"))
	assert.True(t, working.Exists("work"))
}

func TestManagerRetrieveChain(t *testing.T) {
	first := NewMockStore()
	second := NewMockStore()
	require.NoError(t, second.Store(validAccount("only_in_second")))
	manager := NewManagerWithStores(first, second)

	account, err := manager.Retrieve("only_in_second")
	require.NoError(t, err)
	assert.Equal(t, "only_in_second", account.Name)
}

func TestManagerRetrieveNotFound(t *testing.T) {
	manager := NewManagerWithStores(NewMockStore())

	_, err := manager.Retrieve("ghost")
	assert.Error(t, err)
}

func TestManagerRetrieveDefault(t *testing.T) {
	store := NewMockStore()
	manager := NewManagerWithStores(store)

	_, err := manager.RetrieveDefault()
	require.Error(t, err, "no stores, no default")

	require.NoError(t, manager.Store(validAccount("solo")))
	account, err := manager.RetrieveDefault()
	require.NoError(t, err)
	assert.Equal(t, "solo", account.Name)
}

func TestManagerRetrieveDefaultPrefersEnvironment(t *testing.T) {
	t.Setenv("TGSCRAPER_API_ID", "99999")
	t.Setenv("TGSCRAPER_API_HASH", "envhash")

	store := NewMockStore()
	require.NoError(t, store.Store(validAccount("stored")))
	manager := NewManagerWithStores(store, NewEnvironmentStore())

	account, err := manager.RetrieveDefault()
	require.NoError(t, err)
	assert.Equal(t, 99999, account.APIID)
	assert.Equal(t, "envhash", account.APIHash)
}

func TestManagerListMergesMostRecent(t *testing.T) {
	older := validAccount("shared")
	older.APIID = 1
	newer := validAccount("shared")
	newer.APIID = 2
	newer.LastModified = time.Now().Add(time.Hour)

	first := NewMockStore()
	require.NoError(t, first.Store(older))
	second := NewMockStore()
	require.NoError(t, second.Store(newer))

	manager := NewManagerWithStores(first, second)
	accounts, err := manager.List()
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, 2, accounts[0].APIID, "the most recently modified copy wins")
}

func TestManagerDelete(t *testing.T) {
	store := NewMockStore()
	manager := NewManagerWithStores(store)
	require.NoError(t, manager.Store(validAccount("doomed")))

	require.NoError(t, manager.Delete("doomed"))
	assert.False(t, store.Exists("doomed"))

	assert.Error(t, manager.Delete("doomed"), "deleting a missing account fails")
}

func TestEnvironmentStore(t *testing.T) {
	t.Setenv("TGSCRAPER_API_ID", "4242")
	t.Setenv("TGSCRAPER_API_HASH", "envhash")

	store := NewEnvironmentStore()

	account, err := store.Retrieve("")
	require.NoError(t, err)
	assert.Equal(t, "default", account.Name)
	assert.Equal(t, 4242, account.APIID)

	assert.ErrorIs(t, store.Store(validAccount("x")), ErrStoreUnavailable)
	assert.ErrorIs(t, store.Delete("x"), ErrStoreUnavailable)
	assert.True(t, store.Exists(""))

	accounts, err := store.List()
	require.NoError(t, err)
	assert.Len(t, accounts, 1)
}

func TestEnvironmentStoreMissing(t *testing.T) {
	t.Setenv("TGSCRAPER_API_ID", "")
	t.Setenv("TGSCRAPER_API_HASH", "")

	store := NewEnvironmentStore()
	_, err := store.Retrieve("")
	assert.ErrorIs(t, err, ErrCredentialsNotFound)
	assert.False(t, store.Exists(""))
}

func TestEnvironmentStoreInvalidID(t *testing.T) {
	t.Setenv("TGSCRAPER_API_ID", "zero")
	t.Setenv("TGSCRAPER_API_HASH", "envhash")

	store := NewEnvironmentStore()
	_, err := store.Retrieve("")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
