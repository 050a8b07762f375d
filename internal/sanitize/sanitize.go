package sanitize

import (
	"regexp"
	"strings"
)

// filenameReplacer maps every character that is invalid in Windows or POSIX
// filenames to an underscore, keeping the string length unchanged.
var filenameReplacer = strings.NewReplacer(
	"<", "_",
	">", "_",
	":", "_",
	`"`, "_",
	"/", "_",
	`\`, "_",
	"|", "_",
	"?", "_",
	"*", "_",
)

// ansiEscape matches CSI sequences (ESC [ params final) and the
// two-character ESC forms emitted by terminal-oriented tools.
var ansiEscape = regexp.MustCompile("\x1b(?:[@-Z\\\\-_]|\\[[0-?]*[ -/]*[@-~])")

// Filename replaces filesystem-unsafe characters in a title with underscores
func Filename(name string) string {
	return filenameReplacer.Replace(name)
}

// Display strips terminal escape sequences from progress text before it is
// rendered in the UI. Non-string values come back as an empty string.
func Display(v any) string {
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return ansiEscape.ReplaceAllString(s, "")
}
