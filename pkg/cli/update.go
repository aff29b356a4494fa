package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/exec"
	"regexp"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/blang/semver"
	"github.com/rhysd/go-github-selfupdate/selfupdate"
)

// Version is the running build, set with
// -ldflags "-X github.com/Fepozopo/rimp/pkg/cli.Version=1.2.3".
var Version = "0.1.0"

// githubAPI is replaced in tests.
var githubAPI = "https://api.github.com"

var semverRe = regexp.MustCompile(`v?\d+\.\d+\.\d+(-[0-9A-Za-z.-]+)?(\+[0-9A-Za-z.-]+)?`)

// LatestRelease queries the GitHub Releases API for repo and returns the
// published, non-prerelease release with the highest semver found in its
// tag or name. It returns (nil, false, nil) when no release qualifies.
func LatestRelease(ctx context.Context, repo string) (*selfupdate.Release, bool, error) {
	apiURL := fmt.Sprintf("%s/repos/%s/releases", githubAPI, repo)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, false, fmt.Errorf("build github request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, false, fmt.Errorf("github API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, false, fmt.Errorf("github API returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var releases []struct {
		TagName    string `json:"tag_name"`
		Name       string `json:"name"`
		HTMLURL    string `json:"html_url"`
		Body       string `json:"body"`
		Draft      bool   `json:"draft"`
		Prerelease bool   `json:"prerelease"`
		Assets     []struct {
			Name               string `json:"name"`
			Size               int    `json:"size"`
			BrowserDownloadURL string `json:"browser_download_url"`
		} `json:"assets"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&releases); err != nil {
		return nil, false, fmt.Errorf("failed to decode github releases: %w", err)
	}

	var candidates []*selfupdate.Release
	for _, r := range releases {
		if r.Draft || r.Prerelease {
			continue
		}
		match := semverRe.FindString(r.TagName)
		if match == "" {
			match = semverRe.FindString(r.Name)
			if match == "" {
				continue
			}
		}
		v, err := semver.Parse(strings.TrimPrefix(match, "v"))
		if err != nil {
			continue
		}
		rel := &selfupdate.Release{Version: v, URL: r.HTMLURL, ReleaseNotes: r.Body}
		// prefer an asset built for a known platform, else the first one
		for _, a := range r.Assets {
			name := strings.ToLower(a.Name)
			if isPlatformAsset(name) {
				rel.AssetURL, rel.AssetByteSize = a.BrowserDownloadURL, a.Size
				break
			}
			if rel.AssetURL == "" {
				rel.AssetURL, rel.AssetByteSize = a.BrowserDownloadURL, a.Size
			}
		}
		candidates = append(candidates, rel)
	}
	if len(candidates) == 0 {
		return nil, false, nil
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].Version.GT(candidates[j].Version)
	})
	return candidates[0], true, nil
}

func isPlatformAsset(name string) bool {
	for _, hint := range []string{"darwin", "linux", "windows", "amd64", "arm64"} {
		if strings.Contains(name, hint) {
			return true
		}
	}
	return false
}

// UpdateStatus summarises what CheckForUpdates found.
type UpdateStatus int

const (
	UpdateUnknown UpdateStatus = iota
	UpToDate
	UpdateAvailable
	Updated
)

// CheckForUpdates compares current against the latest release of repo and,
// when a newer build with a downloadable asset exists and confirm agrees,
// replaces the running executable and restarts it.
func CheckForUpdates(ctx context.Context, repo, current string, confirm func(prompt string) (bool, error), out io.Writer) (UpdateStatus, error) {
	fmt.Fprintf(out, "Current version: %s\n", current)
	latest, found, err := LatestRelease(ctx, repo)
	if err != nil {
		return UpdateUnknown, fmt.Errorf("update check failed: %w", err)
	}
	if !found {
		fmt.Fprintf(out, "No releases found for %s.\n", repo)
		return UpdateUnknown, nil
	}
	fmt.Fprintf(out, "Latest version: %s\n", latest.Version)

	currentVer, perr := semver.Parse(strings.TrimPrefix(current, "v"))
	if perr != nil {
		slog.WarnContext(ctx, "could not parse current version", "version", current, "error", perr)
	} else if latest.Version.LTE(currentVer) {
		fmt.Fprintf(out, "You are already running the latest version: %s.\n", currentVer)
		return UpToDate, nil
	}

	if latest.AssetURL == "" {
		fmt.Fprintf(out, "A new version (%s) is available but there is no downloadable asset.\n", latest.Version)
		if latest.URL != "" {
			fmt.Fprintf(out, "Download it from %s\n", latest.URL)
		}
		return UpdateAvailable, nil
	}
	if confirm == nil {
		return UpdateAvailable, nil
	}
	ok, err := confirm(fmt.Sprintf("A new version (%s) is available. Update now? (y/N): ", latest.Version))
	if err != nil {
		return UpdateAvailable, fmt.Errorf("failed reading input: %w", err)
	}
	if !ok {
		fmt.Fprintln(out, "Update cancelled.")
		return UpdateAvailable, nil
	}

	fmt.Fprintln(out, "Updating...")
	exe, err := os.Executable()
	if err != nil {
		return UpdateAvailable, fmt.Errorf("could not locate executable: %w", err)
	}
	if err := selfupdate.UpdateTo(latest.AssetURL, exe); err != nil {
		return UpdateAvailable, fmt.Errorf("update failed: %w", err)
	}
	slog.InfoContext(ctx, "updated binary", "version", latest.Version.String(), "path", exe)
	restart(exe, out)
	return Updated, nil
}

// restart replaces the current process with exe. If exec fails it starts exe
// as a child and exits; if that fails too the user is asked to restart.
func restart(exe string, out io.Writer) {
	argv := append([]string{exe}, os.Args[1:]...)
	err := syscall.Exec(exe, argv, os.Environ())
	// Exec only returns on error.
	cmd := exec.Command(exe, os.Args[1:]...)
	cmd.Stdin, cmd.Stdout, cmd.Stderr = os.Stdin, os.Stdout, os.Stderr
	if startErr := cmd.Start(); startErr != nil {
		fmt.Fprintf(out, "Updated, but failed to restart automatically: %v; fallback start error: %v\n", err, startErr)
		fmt.Fprintln(out, "Please restart the application manually.")
		return
	}
	os.Exit(0)
}
