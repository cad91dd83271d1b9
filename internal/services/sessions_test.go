package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storeshot/storeshot-api/internal/config"
)

func testStore(t *testing.T) *SessionStore {
	t.Helper()
	return NewSessionStore(context.Background(), &config.Config{SessionTTL: time.Minute})
}

func TestSessionStoreCreateAndGet(t *testing.T) {
	store := testStore(t)

	created := store.Create("sess-1")
	require.NotNil(t, created.Document)

	fetched, err := store.Get("sess-1")
	require.NoError(t, err)
	assert.Same(t, created, fetched)
	assert.Equal(t, 1, store.Count())

	_, err = store.Get("sess-missing")
	assert.Error(t, err)
}

func TestSessionStoreDelete(t *testing.T) {
	store := testStore(t)
	store.Create("sess-1")
	store.Delete("sess-1")

	_, err := store.Get("sess-1")
	assert.Error(t, err)
	assert.Equal(t, 0, store.Count())
}

func TestStaleRequestGuard(t *testing.T) {
	store := testStore(t)
	session := store.Create("sess-1")

	session.ClaimRequest("req-1")
	assert.True(t, session.IsCurrentRequest("req-1"))

	// A newer generation supersedes the first; its late response must be
	// discarded by the caller.
	session.ClaimRequest("req-2")
	assert.False(t, session.IsCurrentRequest("req-1"))
	assert.True(t, session.IsCurrentRequest("req-2"))
}

func TestShareServiceInMemoryFallback(t *testing.T) {
	svc := NewShareService(nil, &config.Config{ShareBaseURL: "https://storeshot.app"})

	link, err := svc.CreateShare("My Screen", "my-screen-1.png", []byte{1, 2, 3})
	require.NoError(t, err)
	assert.Contains(t, link.URL, "https://storeshot.app/share/")
	assert.NotEmpty(t, link.QRCode)

	artifact, err := svc.GetShare(link.ID)
	require.NoError(t, err)
	assert.Equal(t, "My Screen", artifact.ScreenName)
	assert.Equal(t, []byte{1, 2, 3}, artifact.PNG)

	_, err = svc.GetShare("nope")
	assert.Error(t, err)
}
