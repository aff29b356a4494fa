package cli

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const releasesJSON = `[
  {"tag_name": "v2.0.0-rc1", "prerelease": true, "assets": []},
  {"tag_name": "draft", "name": "v9.9.9", "draft": true},
  {"tag_name": "release-1.4.0", "html_url": "https://example.invalid/1.4.0",
   "assets": [
     {"name": "checksums.txt", "size": 10, "browser_download_url": "https://example.invalid/checksums.txt"},
     {"name": "rimp_linux_amd64.tar.gz", "size": 2048, "browser_download_url": "https://example.invalid/rimp_linux_amd64.tar.gz"}
   ]},
  {"tag_name": "v1.10.0", "assets": []},
  {"tag_name": "nightly", "name": "no version here"}
]`

func withReleases(t *testing.T, status int, body string) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/owner/repo/releases" {
			http.NotFound(w, r)
			return
		}
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	old := githubAPI
	githubAPI = srv.URL
	t.Cleanup(func() { githubAPI = old })
}

func TestLatestReleasePicksHighestStable(t *testing.T) {
	withReleases(t, http.StatusOK, releasesJSON)
	rel, found, err := LatestRelease(context.Background(), "owner/repo")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "1.10.0", rel.Version.String())
	assert.Empty(t, rel.AssetURL)
}

func TestLatestReleasePrefersPlatformAsset(t *testing.T) {
	withReleases(t, http.StatusOK, `[{"tag_name": "release-1.4.0", "assets": [
		{"name": "checksums.txt", "browser_download_url": "https://example.invalid/checksums.txt"},
		{"name": "rimp_linux_amd64.tar.gz", "size": 2048, "browser_download_url": "https://example.invalid/rimp_linux_amd64.tar.gz"}]}]`)
	rel, found, err := LatestRelease(context.Background(), "owner/repo")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "1.4.0", rel.Version.String())
	assert.Equal(t, "https://example.invalid/rimp_linux_amd64.tar.gz", rel.AssetURL)
	assert.Equal(t, 2048, rel.AssetByteSize)
}

func TestLatestReleaseErrors(t *testing.T) {
	withReleases(t, http.StatusForbidden, `{"message": "rate limited"}`)
	_, _, err := LatestRelease(context.Background(), "owner/repo")
	assert.ErrorContains(t, err, "status 403")

	withReleases(t, http.StatusOK, `not json`)
	_, _, err = LatestRelease(context.Background(), "owner/repo")
	assert.ErrorContains(t, err, "decode")

	withReleases(t, http.StatusOK, `[]`)
	rel, found, err := LatestRelease(context.Background(), "owner/repo")
	assert.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, rel)
}

func TestCheckForUpdatesStatuses(t *testing.T) {
	withReleases(t, http.StatusOK, releasesJSON)
	never := func(string) (bool, error) {
		t.Fatal("confirm should not be called")
		return false, nil
	}

	var out bytes.Buffer
	status, err := CheckForUpdates(context.Background(), "owner/repo", "1.10.0", never, &out)
	require.NoError(t, err)
	assert.Equal(t, UpToDate, status)
	assert.Contains(t, out.String(), "already running the latest version")

	out.Reset()
	status, err = CheckForUpdates(context.Background(), "owner/repo", "v1.2.0", never, &out)
	require.NoError(t, err)
	assert.Equal(t, UpdateAvailable, status)
	assert.Contains(t, out.String(), "no downloadable asset")
}

func TestCheckForUpdatesDeclined(t *testing.T) {
	withReleases(t, http.StatusOK, `[{"tag_name": "v3.0.0", "assets": [
		{"name": "rimp_darwin_arm64.tar.gz", "browser_download_url": "https://example.invalid/rimp.tar.gz"}]}]`)
	var asked string
	decline := func(prompt string) (bool, error) {
		asked = prompt
		return false, nil
	}
	var out bytes.Buffer
	status, err := CheckForUpdates(context.Background(), "owner/repo", "1.0.0", decline, &out)
	require.NoError(t, err)
	assert.Equal(t, UpdateAvailable, status)
	assert.Contains(t, asked, "3.0.0")
	assert.Contains(t, out.String(), "Update cancelled.")
}

func TestCheckForUpdatesNoReleases(t *testing.T) {
	withReleases(t, http.StatusOK, `[]`)
	var out bytes.Buffer
	status, err := CheckForUpdates(context.Background(), "owner/repo", "1.0.0", nil, &out)
	require.NoError(t, err)
	assert.Equal(t, UpdateUnknown, status)
	assert.Contains(t, out.String(), "No releases found")
}
