package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"tubesnap/internal/downloader"
	"tubesnap/internal/extractor"
	"tubesnap/pkg/models"
)

const sessionCookie = "tubesnap_session"

// sessionID returns the browser's session ID, minting one on first contact
func (s *Server) sessionID(w http.ResponseWriter, r *http.Request) string {
	if cookie, err := r.Cookie(sessionCookie); err == nil && cookie.Value != "" {
		s.sessions.Touch(cookie.Value)
		return cookie.Value
	}

	id := s.sessions.NewID()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}

// handleIndex serves the browser form
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(indexHTML))
}

// handleHealth handles the liveness endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleAnalyze fetches metadata for a URL and derives the quality list
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var body struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	url := strings.TrimSpace(body.URL)
	if url == "" {
		respondError(w, http.StatusBadRequest, "Please enter a URL.")
		return
	}

	sid := s.sessionID(w, r)

	// A new URL invalidates whatever was analyzed before.
	if state, ok := s.sessions.Get(sid); ok && state.LastURL != url {
		s.sessions.Reset(sid, url)
	}

	ctx := r.Context()
	if s.config.AnalyzeTimeoutSeconds > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(s.config.AnalyzeTimeoutSeconds)*time.Second)
		defer cancel()
	}

	info, err := s.fetcher.ExtractInfo(ctx, url)
	if err != nil {
		fmt.Printf("Analyze failed for %s: %v\n", url, err)
		respondError(w, http.StatusNotFound, "Video not found. Please check the URL.")
		return
	}

	qualities := extractor.AvailableQualities(info)
	s.sessions.SetAnalysis(sid, url, info, qualities)

	title := info.Title
	if title == "" {
		title = "Untitled"
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"title":     title,
		"thumbnail": info.Thumbnail,
		"qualities": qualities,
		"bitrates":  downloader.Bitrates,
	})
}

// handleDownload validates the request and starts the download job
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	var body struct {
		URL     string `json:"url"`
		Title   string `json:"title"`
		Format  string `json:"format"`
		Quality string `json:"quality"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	if strings.TrimSpace(body.URL) == "" {
		respondError(w, http.StatusBadRequest, "Please enter a URL.")
		return
	}
	if strings.TrimSpace(body.Quality) == "" {
		respondError(w, http.StatusBadRequest, "Please choose a quality.")
		return
	}

	formatType, err := models.ParseFormatType(body.Format)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Unknown format. Choose mp3 or mp4.")
		return
	}

	sid := s.sessionID(w, r)

	j, err := s.jobs.begin(sid)
	if err != nil {
		respondError(w, http.StatusConflict, "A download is already in progress.")
		return
	}

	req := models.DownloadRequest{
		URL:        strings.TrimSpace(body.URL),
		Title:      body.Title,
		FormatType: formatType,
		Quality:    strings.TrimSpace(body.Quality),
	}

	go s.runJob(j, req)

	respondJSON(w, http.StatusAccepted, map[string]string{"id": j.id})
}

// runJob drives one download to completion. Every failure mode settles the
// job with a user-visible message; nothing propagates past this boundary.
func (s *Server) runJob(j *job, req models.DownloadRequest) {
	defer s.jobs.release(j)
	defer func() {
		if r := recover(); r != nil {
			j.fail("Download Failed", fmt.Sprintf("An unexpected error occurred: %v", r))
		}
	}()

	ctx := context.Background()
	if s.config.DownloadTimeoutMinutes > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(s.config.DownloadTimeoutMinutes)*time.Minute)
		defer cancel()
	}

	file, err := s.dl.Download(ctx, req, j.setLabel)
	if err != nil {
		if errors.Is(err, downloader.ErrNoOutputFile) {
			j.fail("Download Failed", "Could not retrieve the final file.")
		} else {
			j.fail("Download Failed", fmt.Sprintf("An unexpected error occurred: %v", err))
		}
		return
	}

	j.complete(file)
}

// handleProgress reports the state of one download job
func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	j, ok := s.jobs.get(chi.URLParam(r, "id"))
	if !ok {
		respondError(w, http.StatusNotFound, ErrJobNotFound.Error())
		return
	}

	snap := j.snapshot()
	payload := map[string]any{
		"state": snap.State.String(),
		"label": snap.Label,
	}
	if snap.ErrMsg != "" {
		payload["error"] = snap.ErrMsg
	}
	if snap.State == jobComplete && snap.File != nil {
		payload["file"] = map[string]any{
			"name": snap.File.Name,
			"size": len(snap.File.Data),
		}
	}

	respondJSON(w, http.StatusOK, payload)
}

// handleFile exposes a finished download for retrieval
func (s *Server) handleFile(w http.ResponseWriter, r *http.Request) {
	j, ok := s.jobs.get(chi.URLParam(r, "id"))
	if !ok {
		respondError(w, http.StatusNotFound, ErrJobNotFound.Error())
		return
	}

	snap := j.snapshot()
	if snap.State != jobComplete || snap.File == nil {
		respondError(w, http.StatusConflict, "Download is not finished.")
		return
	}

	w.Header().Set("Content-Type", snap.File.MIME)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", snap.File.Name))
	w.Header().Set("Content-Length", strconv.Itoa(len(snap.File.Data)))
	w.Write(snap.File.Data)
}
