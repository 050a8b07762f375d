package progress

import (
	"regexp"
	"strings"
)

// yt-dlp emits one progress line per update when run with --newline:
//
//	[download]  45.0% of 10.00MiB at 1.20MiB/s ETA 00:10
//	[download] 100% of 10.00MiB in 00:05 at 2.00MiB/s
//
// The first shape maps to a downloading stage event, the second marks the
// end of one stream fetch and maps to a finished stage event.
var (
	downloadingRe = regexp.MustCompile(`^\[download\]\s+([0-9.]+%)\s+of\s+~?\s*\S+\s+at\s+(\S+)\s+ETA\s+(\S+)`)
	finishedRe    = regexp.MustCompile(`^\[download\]\s+100(?:\.0)?%\s+of\s+~?\s*\S+\s+in\s+\S+`)
)

// ParseLine maps one line of downloader output to a stage event.
// Lines that are not progress updates return ok=false.
func ParseLine(line string) (Event, bool) {
	line = strings.TrimSpace(line)

	if finishedRe.MatchString(line) {
		return Event{Stage: StageFinished}, true
	}

	if m := downloadingRe.FindStringSubmatch(line); m != nil {
		return Event{
			Stage:   StageDownloading,
			Percent: m[1],
			Speed:   m[2],
			ETA:     m[3],
		}, true
	}

	return Event{}, false
}
