package models

import (
	"errors"
	"fmt"
)

// ErrUnknownFormatType is returned when a format string is neither mp3 nor mp4
var ErrUnknownFormatType = errors.New("unknown format type")

// VideoInfo represents the metadata returned by the extractor for one URL.
// Only the fields the UI and quality selection consume are decoded.
type VideoInfo struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Thumbnail string   `json:"thumbnail"`
	Duration  float64  `json:"duration"`
	Formats   []Format `json:"formats"`
}

// Format describes one media rendition advertised by the extractor.
// Height is a pointer because many audio-only entries omit it entirely,
// and the extractor reports it as a JSON number.
type Format struct {
	FormatID string   `json:"format_id"`
	Ext      string   `json:"ext"`
	Vcodec   string   `json:"vcodec"`
	Acodec   string   `json:"acodec"`
	Height   *float64 `json:"height"`
}

// FormatType represents the rendition the user asked for
type FormatType int

const (
	FormatTypeMP3 FormatType = iota
	FormatTypeMP4
)

func (f FormatType) String() string {
	switch f {
	case FormatTypeMP3:
		return "mp3"
	case FormatTypeMP4:
		return "mp4"
	default:
		return "unknown"
	}
}

// MIME returns the content type used when exposing the finished file
func (f FormatType) MIME() string {
	if f == FormatTypeMP3 {
		return "audio/mpeg"
	}
	return "video/mp4"
}

// ParseFormatType parses a user-supplied format string
func ParseFormatType(s string) (FormatType, error) {
	switch s {
	case "mp3":
		return FormatTypeMP3, nil
	case "mp4":
		return FormatTypeMP4, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownFormatType, s)
	}
}

// DownloadRequest carries one user-initiated download.
// Quality is a bitrate ("256") for mp3 and a resolution ("480p") for mp4.
// The request is immutable for the duration of the download.
type DownloadRequest struct {
	URL        string
	Title      string
	FormatType FormatType
	Quality    string
}
