package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"so4tdelete/internal/deletion/client"
	"so4tdelete/internal/deletion/teamstest"

	"github.com/chromedp/cdproto/network"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockProvider is a mock implementation of Provider for testing.
type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) Provide(ctx context.Context, baseURL string) (*Session, error) {
	args := m.Called(ctx, baseURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Session), args.Error(1)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// siteValidator checks sessions against the fake site like the CLI does.
func siteValidator(ctx context.Context, sess *Session) (bool, error) {
	httpClient, err := sess.HTTPClient()
	if err != nil {
		return false, err
	}
	return client.NewTeamsClient(sess.BaseURL, httpClient).TestSession(ctx)
}

func loggedIn(baseURL, value string) *Session {
	return &Session{
		BaseURL:   baseURL,
		Cookies:   []Cookie{{Name: teamstest.SessionCookieName, Value: value, Domain: "ignored.example.com"}},
		CreatedAt: time.Now(),
	}
}

func TestSessionHTTPClientSendsCookies(t *testing.T) {
	srv := teamstest.NewServer()
	defer srv.Close()
	srv.RequireSession("s3cret")

	ok, err := siteValidator(context.Background(), loggedIn(srv.URL, "s3cret"))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = siteValidator(context.Background(), loggedIn(srv.URL, "stale"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "so4t_session")
	store := NewFileStore(path)

	_, err := store.Load()
	assert.ErrorIs(t, err, ErrNoSession)

	sess := loggedIn("https://so.example.com", "abc")
	require.NoError(t, store.Save(sess))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, sess.BaseURL, loaded.BaseURL)
	assert.Equal(t, sess.Cookies, loaded.Cookies)

	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))
	_, err = store.Load()
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoSession)
}

func TestCachingProvider(t *testing.T) {
	ctx := context.Background()
	srv := teamstest.NewServer()
	defer srv.Close()
	srv.RequireSession("good")

	newProvider := func(store Store, login Provider) *CachingProvider {
		p := NewCachingProvider(store, login, siteValidator)
		p.Logger = quietLogger()
		return p
	}

	t.Run("reuses a valid cached session", func(t *testing.T) {
		store := NewFileStore(filepath.Join(t.TempDir(), "s"))
		require.NoError(t, store.Save(loggedIn(srv.URL, "good")))
		login := new(MockProvider)

		sess, err := newProvider(store, login).Provide(ctx, srv.URL)
		require.NoError(t, err)
		assert.Equal(t, "good", sess.Cookies[0].Value)
		login.AssertNotCalled(t, "Provide", mock.Anything, mock.Anything)
	})

	t.Run("logs in again when the cached session expired", func(t *testing.T) {
		store := NewFileStore(filepath.Join(t.TempDir(), "s"))
		require.NoError(t, store.Save(loggedIn(srv.URL, "expired")))
		login := new(MockProvider)
		login.On("Provide", mock.Anything, srv.URL).Return(loggedIn(srv.URL, "good"), nil).Once()

		sess, err := newProvider(store, login).Provide(ctx, srv.URL)
		require.NoError(t, err)
		assert.Equal(t, "good", sess.Cookies[0].Value)
		login.AssertExpectations(t)

		saved, err := store.Load()
		require.NoError(t, err)
		assert.Equal(t, "good", saved.Cookies[0].Value)
	})

	t.Run("logs in when the cache is for another site", func(t *testing.T) {
		store := NewFileStore(filepath.Join(t.TempDir(), "s"))
		require.NoError(t, store.Save(loggedIn("https://other.example.com", "good")))
		login := new(MockProvider)
		login.On("Provide", mock.Anything, srv.URL).Return(loggedIn(srv.URL, "good"), nil).Once()

		_, err := newProvider(store, login).Provide(ctx, srv.URL)
		require.NoError(t, err)
		login.AssertExpectations(t)
	})

	t.Run("login failure is an authentication error", func(t *testing.T) {
		store := NewFileStore(filepath.Join(t.TempDir(), "s"))
		login := new(MockProvider)
		login.On("Provide", mock.Anything, srv.URL).Return(nil, errors.New("window closed"))

		_, err := newProvider(store, login).Provide(ctx, srv.URL)
		assert.ErrorIs(t, err, ErrAuthentication)
		assert.Contains(t, err.Error(), "window closed")
	})

	t.Run("fresh session that does not validate is rejected", func(t *testing.T) {
		store := NewFileStore(filepath.Join(t.TempDir(), "s"))
		login := new(MockProvider)
		login.On("Provide", mock.Anything, srv.URL).Return(loggedIn(srv.URL, "wrong"), nil)

		_, err := newProvider(store, login).Provide(ctx, srv.URL)
		assert.ErrorIs(t, err, ErrAuthentication)
		_, err = store.Load()
		assert.ErrorIs(t, err, ErrNoSession)
	})
}

func TestFromBrowserCookies(t *testing.T) {
	cookies := fromBrowserCookies([]*network.Cookie{
		{Name: "acct", Value: "v1", Domain: ".example.com", Path: "/", Expires: 1767225600.5, Secure: true, HTTPOnly: true},
		nil,
		{Name: "prov", Value: "v2", Domain: "so.example.com", Path: "/", Expires: -1},
	})

	require.Len(t, cookies, 2)
	assert.Equal(t, "acct", cookies[0].Name)
	assert.True(t, cookies[0].Secure)
	assert.True(t, cookies[0].HTTPOnly)
	assert.Equal(t, time.Unix(1767225600, 5e8).UTC(), cookies[0].Expires)
	assert.True(t, cookies[1].Expires.IsZero())
}
