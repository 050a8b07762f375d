package downloader

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"tubesnap/internal/progress"
	"tubesnap/internal/sanitize"
	"tubesnap/internal/ytdl"
	"tubesnap/pkg/models"
)

var (
	ErrInvalidQuality = errors.New("invalid quality setting")
	ErrInvalidBitrate = errors.New("invalid audio bitrate")
	ErrNoOutputFile   = errors.New("could not retrieve the final file")
)

// Bitrates are the selectable MP3 bitrates in kbps
var Bitrates = []string{"128", "192", "256", "320"}

// MediaClient is the external extraction/download boundary
type MediaClient interface {
	Download(ctx context.Context, opts ytdl.DownloadOptions) (*ytdl.Result, error)
}

// File is a completed download held in memory for retrieval
type File struct {
	Name string
	MIME string
	Data []byte
}

// Plan is the computed download plan for one request: the format specifier
// handed to the external downloader, extra post-processing arguments, and
// the number of fetch steps the progress tracker should expect.
type Plan struct {
	Format         string
	PostProcessing []string
	TotalSteps     int
}

// BuildPlan translates the user's format and quality choice into a plan.
//
// mp3 requests best-available audio extracted to MP3 at the chosen bitrate.
// mp4 requests the best separate video stream at or below the chosen height
// in an mp4 container merged with the best m4a audio, falling back to the
// best pre-merged mp4 at or below that height. A specifier that merges two
// streams means two fetch steps.
func BuildPlan(req models.DownloadRequest) (*Plan, error) {
	switch req.FormatType {
	case models.FormatTypeMP3:
		if !validBitrate(req.Quality) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidBitrate, req.Quality)
		}
		return &Plan{
			Format:         "bestaudio/best",
			PostProcessing: []string{"-x", "--audio-format", "mp3", "--audio-quality", req.Quality},
			TotalSteps:     1,
		}, nil

	case models.FormatTypeMP4:
		height, err := parseHeight(req.Quality)
		if err != nil {
			return nil, err
		}

		format := fmt.Sprintf(
			"bestvideo[ext=mp4][height<=%d]+bestaudio[ext=m4a]/best[ext=mp4][height<=%d]",
			height, height)

		steps := 1
		if strings.Contains(format, "+") {
			steps = 2
		}

		return &Plan{Format: format, TotalSteps: steps}, nil
	}

	return nil, fmt.Errorf("%w: %v", models.ErrUnknownFormatType, req.FormatType)
}

// Orchestrator turns a download request into a retrievable in-memory file
type Orchestrator struct {
	client MediaClient
}

// NewOrchestrator creates an orchestrator backed by the given client
func NewOrchestrator(client MediaClient) *Orchestrator {
	return &Orchestrator{client: client}
}

// Download executes one request end to end. The work happens inside a scoped
// temporary directory that is removed on every exit path. publish receives
// human-readable status labels as the download progresses.
func (o *Orchestrator) Download(ctx context.Context, req models.DownloadRequest, publish func(string)) (*File, error) {
	if publish == nil {
		publish = func(string) {}
	}

	plan, err := BuildPlan(req)
	if err != nil {
		return nil, err
	}

	tempDir, err := os.MkdirTemp("", "tubesnap-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temporary directory: %w", err)
	}
	defer os.RemoveAll(tempDir)

	safeTitle := sanitize.Filename(req.Title)
	if safeTitle == "" {
		safeTitle = "download"
	}
	outputTemplate := filepath.Join(tempDir, safeTitle+".%(ext)s")

	tracker := progress.NewTracker(plan.TotalSteps, publish)
	publish(fmt.Sprintf("Step 1/%d: Initializing...", plan.TotalSteps))

	result, err := o.client.Download(ctx, ytdl.DownloadOptions{
		URL:            req.URL,
		OutputTemplate: outputTemplate,
		Format:         plan.Format,
		PostProcessing: plan.PostProcessing,
		OnEvent:        tracker.Handle,
	})
	if err != nil {
		return nil, err
	}

	path := firstFilepath(result)
	if path == "" {
		return nil, ErrNoOutputFile
	}
	if _, err := os.Stat(path); err != nil {
		return nil, ErrNoOutputFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read output file: %w", err)
	}

	name := filepath.Base(path)
	publish(fmt.Sprintf("File saved as: %s (%s)", name, humanize.Bytes(uint64(len(data)))))

	return &File{
		Name: name,
		MIME: req.FormatType.MIME(),
		Data: data,
	}, nil
}

// firstFilepath resolves the reported output path from the call result
func firstFilepath(result *ytdl.Result) string {
	if result == nil || len(result.RequestedDownloads) == 0 {
		return ""
	}
	return result.RequestedDownloads[0].Filepath
}

func validBitrate(quality string) bool {
	for _, b := range Bitrates {
		if quality == b {
			return true
		}
	}
	return false
}

// parseHeight turns a quality option like "480p" back into a pixel height
func parseHeight(quality string) (int, error) {
	h, err := strconv.Atoi(strings.TrimSuffix(quality, "p"))
	if err != nil || h <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidQuality, quality)
	}
	return h, nil
}
