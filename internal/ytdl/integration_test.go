package ytdl

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tubesnap/internal/progress"
)

// fakeYtdlp writes a shell script that mimics the yt-dlp invocations the
// client makes: -J prints metadata, a download run emits --newline progress
// output and creates the output file next to the template.
const fakeYtdlp = `#!/bin/sh
for arg in "$@"; do
  if [ "$arg" = "-J" ]; then
    printf '%s' '{"id":"abc123","title":"Fake Video","thumbnail":"https://img.example/abc.jpg","formats":[{"format_id":"22","ext":"mp4","vcodec":"avc1","height":720}]}'
    exit 0
  fi
done
# download mode: the argument after -o is the output template
template=""
prev=""
for arg in "$@"; do
  if [ "$prev" = "-o" ]; then template="$arg"; fi
  prev="$arg"
done
echo "[download] Destination: ${template%.%(ext)s}.mp4"
echo "[download]  50.0% of 10.00MiB at 1.20MiB/s ETA 00:05"
echo "[download] 100% of 10.00MiB in 00:05 at 2.00MiB/s"
printf 'fake video bytes' > "$(dirname "$template")/output.mp4"
`

func writeFakeYtdlp(t *testing.T) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell stub not supported on windows")
	}

	path := filepath.Join(t.TempDir(), "yt-dlp")
	require.NoError(t, os.WriteFile(path, []byte(fakeYtdlp), 0755))
	return path
}

func TestClientExtractInfo(t *testing.T) {
	client := NewClient(writeFakeYtdlp(t))

	info, err := client.ExtractInfo(context.Background(), "https://example.com/watch?v=abc123")
	require.NoError(t, err)

	assert.Equal(t, "Fake Video", info.Title)
	assert.Equal(t, "https://img.example/abc.jpg", info.Thumbnail)
	require.Len(t, info.Formats, 1)
	require.NotNil(t, info.Formats[0].Height)
	assert.Equal(t, float64(720), *info.Formats[0].Height)
}

func TestClientExtractInfoFailure(t *testing.T) {
	client := NewClient(filepath.Join(t.TempDir(), "missing-binary"))

	_, err := client.ExtractInfo(context.Background(), "https://example.com/watch?v=abc123")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrExtractFailed)
}

func TestClientDownload(t *testing.T) {
	client := NewClient(writeFakeYtdlp(t))

	outDir := t.TempDir()
	var events []progress.Event

	result, err := client.Download(context.Background(), DownloadOptions{
		URL:            "https://example.com/watch?v=abc123",
		OutputTemplate: filepath.Join(outDir, "Fake Video.%(ext)s"),
		Format:         "best[ext=mp4]",
		OnEvent:        func(ev progress.Event) { events = append(events, ev) },
	})
	require.NoError(t, err)

	require.Len(t, result.RequestedDownloads, 1)
	data, err := os.ReadFile(result.RequestedDownloads[0].Filepath)
	require.NoError(t, err)
	assert.Equal(t, "fake video bytes", string(data))

	require.Len(t, events, 2)
	assert.Equal(t, progress.StageDownloading, events[0].Stage)
	assert.Equal(t, "50.0%", events[0].Percent)
	assert.Equal(t, progress.StageFinished, events[1].Stage)
}

func TestClientDownloadFailure(t *testing.T) {
	client := NewClient(filepath.Join(t.TempDir(), "missing-binary"))

	_, err := client.Download(context.Background(), DownloadOptions{
		URL:            "https://example.com/watch?v=abc123",
		OutputTemplate: filepath.Join(t.TempDir(), "out.%(ext)s"),
		Format:         "best",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDownloadFailed)
}
