package ytdl

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"tubesnap/internal/progress"
	"tubesnap/pkg/models"
)

var (
	ErrExtractFailed  = errors.New("metadata extraction failed")
	ErrDownloadFailed = errors.New("download failed")
)

// Client shells out to the yt-dlp executable. Both calls are blocking;
// progress is surfaced synchronously from the process stdout.
type Client struct {
	path           string
	additionalArgs []string
}

// NewClient creates a client for the executable at path.
// additionalArgs are appended to every download invocation.
func NewClient(path string, additionalArgs ...string) *Client {
	return &Client{
		path:           path,
		additionalArgs: additionalArgs,
	}
}

// ExtractInfo fetches metadata for one URL without downloading anything
func (c *Client) ExtractInfo(ctx context.Context, url string) (*models.VideoInfo, error) {
	cmd := exec.CommandContext(ctx, c.path, "-J", "--no-playlist", "--no-warnings", url)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrExtractFailed, exitDetail(err, &stderr))
	}

	var info models.VideoInfo
	if err := json.Unmarshal(stdout.Bytes(), &info); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExtractFailed, err)
	}

	return &info, nil
}

// DownloadOptions describes one extraction-with-download invocation
type DownloadOptions struct {
	URL            string
	OutputTemplate string
	Format         string
	PostProcessing []string
	OnEvent        func(progress.Event)
}

// DownloadedFile is one produced output file
type DownloadedFile struct {
	Filepath string
}

// Result mirrors the requested_downloads shape of the extractor's result
// structure: one entry per produced file, first entry authoritative.
type Result struct {
	RequestedDownloads []DownloadedFile
}

// Download runs a full extraction-with-download. Stage events parsed from
// the process output are delivered to opts.OnEvent before Download returns.
func (c *Client) Download(ctx context.Context, opts DownloadOptions) (*Result, error) {
	args := []string{
		"--no-playlist",
		"--no-warnings",
		"--newline",
		"-o", opts.OutputTemplate,
		"-f", opts.Format,
	}
	args = append(args, opts.PostProcessing...)
	args = append(args, c.additionalArgs...)
	args = append(args, opts.URL)

	cmd := exec.CommandContext(ctx, c.path, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDownloadFailed, err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDownloadFailed, err)
	}

	scanner := bufio.NewScanner(stdout)
	for scanner.Scan() {
		ev, ok := progress.ParseLine(scanner.Text())
		if ok && opts.OnEvent != nil {
			opts.OnEvent(ev)
		}
	}

	if err := cmd.Wait(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrDownloadFailed, exitDetail(err, &stderr))
	}

	return collectDownloads(opts.OutputTemplate), nil
}

// collectDownloads scans the scoped output directory for the files the
// download produced. yt-dlp removes intermediate stream files after merging,
// so on success the directory holds the final output; partial artifacts
// (.part/.ytdl/.tmp) are skipped in case the process died mid-write.
func collectDownloads(outputTemplate string) *Result {
	dir := filepath.Dir(outputTemplate)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return &Result{}
	}

	result := &Result{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasSuffix(name, ".part") || strings.HasSuffix(name, ".ytdl") || strings.HasSuffix(name, ".tmp") {
			continue
		}
		result.RequestedDownloads = append(result.RequestedDownloads, DownloadedFile{
			Filepath: filepath.Join(dir, name),
		})
	}

	sort.Slice(result.RequestedDownloads, func(i, j int) bool {
		return result.RequestedDownloads[i].Filepath < result.RequestedDownloads[j].Filepath
	})

	return result
}

// exitDetail prefers captured stderr over the bare exit status
func exitDetail(err error, stderr *bytes.Buffer) string {
	if msg := strings.TrimSpace(stderr.String()); msg != "" {
		return msg
	}
	return err.Error()
}
