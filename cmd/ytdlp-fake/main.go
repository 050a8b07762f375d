// Command ytdlp-fake is a drop-in stand-in for the yt-dlp binary, for
// local development without network access. Point the config's
// ytdlPath at the built binary and every URL resolves to the same
// canned video.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

var ErrNoURL = errors.New("no URL found in arguments")

const infoJSON = `{
  "id": "fake00000001",
  "title": "Fake Video for Local Development",
  "thumbnail": "https://example.com/thumb.jpg",
  "duration": 212,
  "formats": [
    {"format_id": "18", "ext": "mp4", "vcodec": "avc1", "acodec": "mp4a", "height": 360},
    {"format_id": "22", "ext": "mp4", "vcodec": "avc1", "acodec": "mp4a", "height": 720},
    {"format_id": "137", "ext": "mp4", "vcodec": "avc1", "acodec": "none", "height": 1080},
    {"format_id": "140", "ext": "m4a", "vcodec": "none", "acodec": "mp4a"}
  ]
}`

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

type invocation struct {
	url            string
	dumpJSON       bool
	outputTemplate string
	extractAudio   bool
	audioFormat    string
}

// run executes the fake and returns an exit code
func run(args []string, stdout io.Writer) int {
	inv, err := parseArgs(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		return 1
	}

	if inv.dumpJSON {
		fmt.Fprintln(stdout, infoJSON)
		return 0
	}

	if err := fakeDownload(inv, stdout); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		return 1
	}

	return 0
}

// parseArgs picks out the flags the fake cares about and ignores the rest
func parseArgs(args []string) (*invocation, error) {
	inv := &invocation{}

	for i := 0; i < len(args); i++ {
		switch arg := args[i]; {
		case arg == "-J" || arg == "--dump-single-json":
			inv.dumpJSON = true
		case arg == "-o" && i+1 < len(args):
			inv.outputTemplate = args[i+1]
			i++
		case arg == "-x" || arg == "--extract-audio":
			inv.extractAudio = true
		case arg == "--audio-format" && i+1 < len(args):
			inv.audioFormat = args[i+1]
			i++
		case strings.HasPrefix(strings.ToLower(arg), "http"):
			inv.url = arg
		}
	}

	if inv.url == "" {
		return nil, ErrNoURL
	}

	return inv, nil
}

// fakeDownload emits progress lines and writes a small placeholder file
func fakeDownload(inv *invocation, stdout io.Writer) error {
	ext := "mp4"
	if inv.extractAudio {
		ext = "mp3"
		if inv.audioFormat != "" {
			ext = inv.audioFormat
		}
	}

	for _, pct := range []string{"12.5%", "50.0%", "87.5%"} {
		fmt.Fprintf(stdout, "[download]  %s of 4.00MiB at 2.00MiB/s ETA 00:02\n", pct)
		time.Sleep(200 * time.Millisecond)
	}
	fmt.Fprintln(stdout, "[download] 100% of 4.00MiB in 00:00:02 at 2.00MiB/s")

	if inv.outputTemplate == "" {
		return nil
	}

	outPath := strings.ReplaceAll(inv.outputTemplate, "%(ext)s", ext)
	return os.WriteFile(outPath, []byte("fake media payload"), 0644)
}
