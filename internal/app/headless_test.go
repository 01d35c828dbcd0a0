package app

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/reel/internal/linetv"
)

const catalogBody = `{"data":[
  {"drama_id":1,"name":"致我們單純的小美好","total_views":23562274,"created_at":"2017-11-23T02:04:39.000Z","thumb":"https://example.test/1.jpg","rating":4.4526},
  {"drama_id":2,"name":"China Beach","total_views":12,"created_at":"2020-01-02T03:04:05.678Z","thumb":"https://example.test/2.jpg","rating":3}
]}`

func writeConfig(t *testing.T, baseURL string) Options {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	body := fmt.Sprintf(`base_url = %q

[cache]
backend = "sqlite"
path = %q

[log]
level = "debug"
`, baseURL+"/", filepath.Join(dir, "offline.db"))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return Options{ConfigPath: path, LogOutput: io.Discard}
}

func serveCatalog(t *testing.T, status int) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/"+linetv.DramasPath {
			http.NotFound(w, r)
			return
		}
		if status != http.StatusOK {
			http.Error(w, "unavailable", status)
			return
		}
		_, _ = w.Write([]byte(catalogBody))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestFetch_ReportsNetworkCatalog(t *testing.T) {
	server := serveCatalog(t, http.StatusOK)
	opts := writeConfig(t, server.URL)

	report, err := Fetch(context.Background(), opts, FetchOptions{})
	require.NoError(t, err)

	assert.False(t, report.Failed())
	assert.True(t, report.Connected)
	assert.Equal(t, "network", report.Origin)
	assert.Equal(t, 2, report.Total)
	require.Len(t, report.Dramas, 2)
	assert.Equal(t, "致我們單純的小美好", report.Dramas[0].Name)
	assert.Equal(t, int64(23562274), report.Dramas[0].Views)
	assert.Equal(t, "China Beach", report.Dramas[1].Name)
}

func TestFetch_FallsBackToCacheWhenUnreachable(t *testing.T) {
	server := serveCatalog(t, http.StatusOK)
	opts := writeConfig(t, server.URL)

	_, err := Fetch(context.Background(), opts, FetchOptions{})
	require.NoError(t, err)
	server.Close()

	report, err := Fetch(context.Background(), opts, FetchOptions{})
	require.NoError(t, err)

	assert.True(t, report.Failed())
	assert.Equal(t, linetv.ErrConnection.Error(), report.ErrorKind)
	assert.False(t, report.Connected, "unreachable host shows the offline section")
	assert.Equal(t, "cache", report.Origin)
	assert.Len(t, report.Dramas, 2, "a failed refresh never blanks the list")
}

func TestFetch_BadStatusStaysConnected(t *testing.T) {
	server := serveCatalog(t, http.StatusServiceUnavailable)
	opts := writeConfig(t, server.URL)

	report, err := Fetch(context.Background(), opts, FetchOptions{})
	require.NoError(t, err)

	assert.True(t, report.Failed())
	assert.Equal(t, linetv.ErrInvalidResponse.Error(), report.ErrorKind)
	assert.True(t, report.Connected)
	assert.Equal(t, "none", report.Origin)
	assert.Empty(t, report.Dramas)
}

func TestFetch_SearchFiltersAndPersists(t *testing.T) {
	server := serveCatalog(t, http.StatusOK)
	opts := writeConfig(t, server.URL)

	report, err := Fetch(context.Background(), opts, FetchOptions{Search: "CHINA", SetSearch: true})
	require.NoError(t, err)
	assert.Equal(t, "CHINA", report.Keyword)
	require.Len(t, report.Dramas, 1)
	assert.Equal(t, int64(2), report.Dramas[0].ID)

	// The keyword survives into the next run.
	report, err = Fetch(context.Background(), opts, FetchOptions{})
	require.NoError(t, err)
	assert.Equal(t, "CHINA", report.Keyword)
	assert.Len(t, report.Dramas, 1)

	cache, err := InspectCache(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cache.Backend)
	assert.True(t, cache.HasKeyword)
	assert.Equal(t, "CHINA", cache.Keyword)
	assert.True(t, cache.Cached)
	assert.Equal(t, len(catalogBody), cache.Bytes)
	assert.Equal(t, 2, cache.Dramas)
	assert.Empty(t, cache.DecodeError)
}

func TestInspectCache_Empty(t *testing.T) {
	opts := writeConfig(t, "http://127.0.0.1:1")

	cache, err := InspectCache(context.Background(), opts)
	require.NoError(t, err)
	assert.False(t, cache.HasKeyword)
	assert.False(t, cache.Cached)
	assert.Equal(t, linetv.DramasPath, cache.Path)
}

func TestFetch_BadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[cache]\nbackend = \"tape\"\n"), 0o644))

	_, err := Fetch(context.Background(), Options{ConfigPath: path, LogOutput: io.Discard}, FetchOptions{})
	assert.ErrorContains(t, err, "load config")
}
