package ytdl

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManagerPath(t *testing.T) {
	binDir := t.TempDir()
	m := NewManager(binDir)

	path := m.Path()
	assert.Equal(t, binDir, filepath.Dir(path))
	assert.True(t, strings.HasPrefix(filepath.Base(path), "yt-dlp"))
}

func TestManagerIsInstalled(t *testing.T) {
	m := NewManager(t.TempDir())
	assert.False(t, m.IsInstalled())

	require.NoError(t, os.WriteFile(m.Path(), []byte("fake binary"), 0755))
	assert.True(t, m.IsInstalled())
}

func TestManagerCreatesBinDir(t *testing.T) {
	binDir := filepath.Join(t.TempDir(), "nested", "bin")
	NewManager(binDir)

	info, err := os.Stat(binDir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestAssetForPlatform(t *testing.T) {
	asset := assetForPlatform()

	switch runtime.GOOS {
	case "windows":
		assert.Equal(t, "yt-dlp.exe", asset)
	case "linux":
		assert.Contains(t, asset, "yt-dlp_linux")
	case "darwin":
		assert.Contains(t, asset, "yt-dlp_macos")
	default:
		assert.Equal(t, "yt-dlp", asset)
	}
}
