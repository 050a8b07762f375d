package ytdl

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"time"
)

const releaseAPI = "https://api.github.com/repos/yt-dlp/yt-dlp-nightly-builds/releases/latest"

// Manager handles installation and updates of the yt-dlp executable
type Manager struct {
	binDir         string
	currentVersion string
	httpClient     *http.Client
}

// githubRelease is the subset of the GitHub release payload we consume
type githubRelease struct {
	TagName string `json:"tag_name"`
	Assets  []struct {
		Name               string `json:"name"`
		BrowserDownloadURL string `json:"browser_download_url"`
	} `json:"assets"`
}

// NewManager creates a manager that keeps yt-dlp under binDir
func NewManager(binDir string) *Manager {
	os.MkdirAll(binDir, 0755)

	return &Manager{
		binDir:     binDir,
		httpClient: &http.Client{Timeout: 5 * time.Minute},
	}
}

// Path returns the expected location of the yt-dlp executable
func (m *Manager) Path() string {
	return filepath.Join(m.binDir, assetForPlatform())
}

// IsInstalled reports whether the executable exists on disk
func (m *Manager) IsInstalled() bool {
	_, err := os.Stat(m.Path())
	return err == nil
}

// CurrentVersion returns the version installed by this manager, if known
func (m *Manager) CurrentVersion() string {
	return m.currentVersion
}

// CheckForUpdate asks GitHub for the latest nightly tag
func (m *Manager) CheckForUpdate() (string, bool, error) {
	release, err := m.fetchLatestRelease()
	if err != nil {
		return "", false, err
	}

	if !m.IsInstalled() {
		return release.TagName, true, nil
	}

	if m.currentVersion == "" || m.currentVersion != release.TagName {
		return release.TagName, true, nil
	}

	return release.TagName, false, nil
}

// Install downloads the latest yt-dlp build for this platform
func (m *Manager) Install() error {
	release, err := m.fetchLatestRelease()
	if err != nil {
		return err
	}

	asset := assetForPlatform()
	var downloadURL string
	for _, a := range release.Assets {
		if a.Name == asset {
			downloadURL = a.BrowserDownloadURL
			break
		}
	}
	if downloadURL == "" {
		return fmt.Errorf("no yt-dlp asset for platform %s", asset)
	}

	fmt.Printf("Downloading yt-dlp %s...\n", release.TagName)
	resp, err := m.httpClient.Get(downloadURL)
	if err != nil {
		return fmt.Errorf("failed to download yt-dlp: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("yt-dlp download returned status %d", resp.StatusCode)
	}

	// Write to a temp name first so a failed download never clobbers a
	// working executable.
	target := m.Path()
	tmp := target + ".tmp"

	out, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", tmp, err)
	}

	_, err = io.Copy(out, resp.Body)
	out.Close()
	if err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to write yt-dlp: %w", err)
	}

	if err := os.Chmod(tmp, 0755); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to mark yt-dlp executable: %w", err)
	}

	if err := os.Rename(tmp, target); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to install yt-dlp: %w", err)
	}

	m.currentVersion = release.TagName
	fmt.Printf("yt-dlp %s installed\n", release.TagName)

	return nil
}

// EnsureInstalled installs yt-dlp when it is missing
func (m *Manager) EnsureInstalled() error {
	if m.IsInstalled() {
		return nil
	}

	fmt.Println("yt-dlp not found, downloading...")
	return m.Install()
}

// AutoUpdate installs the latest build when the installed one is stale
func (m *Manager) AutoUpdate() error {
	latest, hasUpdate, err := m.CheckForUpdate()
	if err != nil {
		return err
	}

	if !hasUpdate {
		fmt.Println("yt-dlp is up to date")
		return nil
	}

	fmt.Printf("Updating yt-dlp to %s...\n", latest)
	return m.Install()
}

func (m *Manager) fetchLatestRelease() (*githubRelease, error) {
	resp, err := m.httpClient.Get(releaseAPI)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch release info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GitHub API returned status %d", resp.StatusCode)
	}

	var release githubRelease
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return nil, fmt.Errorf("failed to parse release info: %w", err)
	}

	return &release, nil
}

// assetForPlatform returns the nightly-build asset name for this OS/arch
func assetForPlatform() string {
	switch runtime.GOOS {
	case "windows":
		return "yt-dlp.exe"
	case "linux":
		if runtime.GOARCH == "arm64" {
			return "yt-dlp_linux_aarch64"
		}
		return "yt-dlp_linux"
	case "darwin":
		if runtime.GOARCH == "arm64" {
			return "yt-dlp_macos_arm64"
		}
		return "yt-dlp_macos"
	default:
		return "yt-dlp"
	}
}
