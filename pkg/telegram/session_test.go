package telegram

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadOrCreateSessionNew(t *testing.T) {
	path := filepath.Join(t.TempDir(), "new.session")
	cfg := Config{APIID: 12345, DeviceModel: "Test Device", LangCode: "en"}

	session, err := LoadOrCreateSession(path, cfg)
	require.NoError(t, err)

	assert.Len(t, session.AuthKey, 64, "auth key is 32 random bytes hex-encoded")
	assert.Equal(t, 12345, session.APIID)
	assert.Equal(t, "Test Device", session.DeviceModel)
	assert.FileExists(t, path)
}

func TestLoadOrCreateSessionExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "existing.session")
	cfg := Config{APIID: 12345}

	created, err := LoadOrCreateSession(path, cfg)
	require.NoError(t, err)

	loaded, err := LoadOrCreateSession(path, cfg)
	require.NoError(t, err)
	assert.Equal(t, created.AuthKey, loaded.AuthKey)
	assert.Equal(t, created.CreatedAt.Unix(), loaded.CreatedAt.Unix())
}

func TestLoadOrCreateSessionCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corrupt.session")
	require.NoError(t, os.WriteFile(path, []byte("not a session"), 0600))

	_, err := LoadOrCreateSession(path, Config{APIID: 12345})
	require.Error(t, err, "a corrupt session file must fail, not be silently replaced")
	assert.Contains(t, err.Error(), "corrupt session file")
}

func TestLoadOrCreateSessionCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "new.session")

	_, err := LoadOrCreateSession(path, Config{APIID: 12345})
	require.NoError(t, err)
	assert.FileExists(t, path)
}

func TestSessionSaveLeavesNoTempFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "atomic.session")

	_, err := LoadOrCreateSession(path, Config{APIID: 12345})
	require.NoError(t, err)

	assert.NoFileExists(t, path+".tmp")
}
