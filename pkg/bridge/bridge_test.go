package bridge

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "tgscraper/pkg/errors"
	"tgscraper/pkg/models"
)

const (
	testAPIID   = 12345
	testAPIHash = "0123456789abcdef0123456789abcdef"
)

func newTestBridge(t *testing.T) *Bridge {
	t.Helper()
	b := New(nil)
	t.Cleanup(b.Destroy)
	return b
}

func connectTestBridge(t *testing.T) *Bridge {
	t.Helper()
	b := newTestBridge(t)
	sessionFile := filepath.Join(t.TempDir(), "test.session")
	require.NoError(t, b.Connect(testAPIID, testAPIHash, sessionFile))
	return b
}

func TestBridgeLifecycle(t *testing.T) {
	b := newTestBridge(t)
	assert.Equal(t, StateInitialized, b.State())
	assert.Equal(t, errs.CodeNone, b.LastErrorCode())

	sessionFile := filepath.Join(t.TempDir(), "test.session")
	require.NoError(t, b.Connect(testAPIID, testAPIHash, sessionFile))
	assert.Equal(t, StateConnected, b.State())

	members, err := b.Scrape("testchannel", 25)
	require.NoError(t, err)
	assert.Len(t, members, 25)
	assert.Equal(t, errs.CodeNone, b.LastErrorCode())

	b.Destroy()
	assert.Equal(t, StateDestroyed, b.State())
}

func TestBridgeScrapeBeforeConnect(t *testing.T) {
	b := newTestBridge(t)

	_, err := b.Scrape("testchannel", 10)
	require.Error(t, err)
	assert.Equal(t, errs.CodeState, b.LastErrorCode())
}

func TestBridgeConnectTwice(t *testing.T) {
	b := connectTestBridge(t)

	err := b.Connect(testAPIID, testAPIHash, filepath.Join(t.TempDir(), "other.session"))
	require.Error(t, err)
	assert.Equal(t, errs.CodeState, b.LastErrorCode())
	assert.Equal(t, StateConnected, b.State())
}

func TestBridgeConnectArgumentValidation(t *testing.T) {
	sessionFile := filepath.Join(t.TempDir(), "test.session")

	tests := []struct {
		name        string
		apiID       int
		apiHash     string
		sessionFile string
		code        int
	}{
		{"empty hash", testAPIID, "", sessionFile, errs.CodeArgument},
		{"empty session file", testAPIID, testAPIHash, "", errs.CodeArgument},
		{"zero api id", 0, testAPIHash, sessionFile, errs.CodeAuth},
		{"negative api id", -5, testAPIHash, sessionFile, errs.CodeAuth},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newTestBridge(t)
			err := b.Connect(tt.apiID, tt.apiHash, tt.sessionFile)
			require.Error(t, err)
			assert.Equal(t, tt.code, b.LastErrorCode())
			assert.Equal(t, StateInitialized, b.State())
		})
	}
}

func TestBridgeConnectRetryAfterFailure(t *testing.T) {
	b := newTestBridge(t)
	sessionFile := filepath.Join(t.TempDir(), "test.session")

	require.Error(t, b.Connect(0, testAPIHash, sessionFile))
	assert.Equal(t, StateInitialized, b.State())

	// A failed connect leaves the bridge usable for another attempt
	require.NoError(t, b.Connect(testAPIID, testAPIHash, sessionFile))
	assert.Equal(t, StateConnected, b.State())
	assert.Equal(t, errs.CodeNone, b.LastErrorCode())
}

func TestBridgeScrapeArgumentValidation(t *testing.T) {
	b := connectTestBridge(t)

	_, err := b.Scrape("", 10)
	require.Error(t, err)
	assert.Equal(t, errs.CodeArgument, b.LastErrorCode())

	_, err = b.Scrape("testchannel", -1)
	require.Error(t, err)
	assert.Equal(t, errs.CodeArgument, b.LastErrorCode())
}

func TestBridgeScrapeZeroMax(t *testing.T) {
	b := connectTestBridge(t)

	members, err := b.Scrape("testchannel", 0)
	require.NoError(t, err)
	assert.NotNil(t, members)
	assert.Empty(t, members)
	assert.Equal(t, errs.CodeNone, b.LastErrorCode())
}

func TestBridgeScrapeUnresolvableTarget(t *testing.T) {
	b := connectTestBridge(t)

	// Channel names must start with a letter
	_, err := b.Scrape("9channel", 10)
	require.Error(t, err)
	assert.Equal(t, errs.CodeNotFound, b.LastErrorCode())
}

func TestBridgeLastErrorClearedOnSuccess(t *testing.T) {
	b := connectTestBridge(t)

	_, err := b.Scrape("9channel", 10)
	require.Error(t, err)
	require.Equal(t, errs.CodeNotFound, b.LastErrorCode())

	_, err = b.Scrape("testchannel", 5)
	require.NoError(t, err)
	assert.Equal(t, errs.CodeNone, b.LastErrorCode())
}

func TestBridgeScrapeReturnsOwnedCopies(t *testing.T) {
	b := connectTestBridge(t)

	first, err := b.Scrape("testchannel", 5)
	require.NoError(t, err)
	require.Len(t, first, 5)
	require.NotNil(t, first[0].Username)

	// Mutating the caller's copy must not leak into later results
	*first[0].Username = "mutated"
	first[0].ID = -99

	second, err := b.Scrape("testchannel", 5)
	require.NoError(t, err)
	require.Len(t, second, 5)
	assert.NotEqual(t, int64(-99), second[0].ID)
	assert.NotEqual(t, "mutated", models.Deref(second[0].Username))
}

func TestBridgeDestroyIdempotent(t *testing.T) {
	b := New(nil)
	b.Destroy()
	assert.NotPanics(t, b.Destroy)
	assert.Equal(t, StateDestroyed, b.State())
}

func TestBridgeCallsAfterDestroy(t *testing.T) {
	b := connectTestBridge(t)
	b.Destroy()

	err := b.Connect(testAPIID, testAPIHash, filepath.Join(t.TempDir(), "x.session"))
	require.Error(t, err)
	assert.Equal(t, errs.CodeState, b.LastErrorCode())

	_, err = b.Scrape("testchannel", 10)
	require.Error(t, err)
	assert.Equal(t, errs.CodeState, b.LastErrorCode())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "initialized", StateInitialized.String())
	assert.Equal(t, "connected", StateConnected.String())
	assert.Equal(t, "destroyed", StateDestroyed.String())
	assert.Equal(t, "unknown", State(99).String())
}
